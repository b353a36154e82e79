package chart

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Branding maps team names to colours. Teams without an entry use the home
// and away defaults.
//
//	home: "#D64541"
//	away: "#2E86C1"
//	teams:
//	  Inter: "#0068A8"
//	  Napoli: "#12A0D7"
type Branding struct {
	Home  string            `yaml:"home"`
	Away  string            `yaml:"away"`
	Teams map[string]string `yaml:"teams"`

	home, away color.NRGBA
	teams      map[string]color.NRGBA
}

// DefaultBranding uses the two stock colours for every match.
func DefaultBranding() *Branding {
	return &Branding{home: HomeColor, away: AwayColor}
}

// LoadBranding reads a branding YAML file. An empty path yields the defaults.
func LoadBranding(path string) (*Branding, error) {
	if path == "" {
		return DefaultBranding(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read branding %s", path)
	}
	return ParseBranding(raw)
}

func ParseBranding(raw []byte) (*Branding, error) {
	b := DefaultBranding()
	if err := yaml.Unmarshal(raw, b); err != nil {
		return nil, errors.Wrap(err, "parse branding")
	}

	var err error
	if b.Home != "" {
		if b.home, err = ParseHex(b.Home); err != nil {
			return nil, errors.Wrap(err, "home colour")
		}
	}
	if b.Away != "" {
		if b.away, err = ParseHex(b.Away); err != nil {
			return nil, errors.Wrap(err, "away colour")
		}
	}

	b.teams = make(map[string]color.NRGBA, len(b.Teams))
	for team, hex := range b.Teams {
		c, err := ParseHex(hex)
		if err != nil {
			return nil, errors.Wrapf(err, "colour of %s", team)
		}
		b.teams[team] = c
	}
	return b, nil
}

// Colors returns the fill colours of a fixture. When both teams resolve to the
// same colour the defaults are used so the two sides stay distinguishable.
func (b *Branding) Colors(home, away string) (color.NRGBA, color.NRGBA) {
	h, ok := b.teams[home]
	if !ok {
		h = b.home
	}
	a, ok := b.teams[away]
	if !ok {
		a = b.away
	}
	if h == a {
		return b.home, b.away
	}
	return h, a
}

// ParseHex parses #RRGGBB or #RRGGBBAA; the leading # is optional.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}

	c, err := colorful.Hex("#" + hex[:6])
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()

	alpha := uint64(0xFF)
	if len(hex) == 8 {
		if alpha, err = strconv.ParseUint(hex[6:], 16, 8); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour alpha %q", s)
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}
