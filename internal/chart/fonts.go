package chart

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
)

const tekoTypeface font.Typeface = "Teko"

// Fonts are the three text faces of the chart.
type Fonts struct {
	Regular  font.Font
	Medium   font.Font
	SemiBold font.Font
}

// DefaultFonts falls back to the plotting library font for every face.
func DefaultFonts() Fonts {
	return Fonts{
		Regular:  plot.DefaultFont,
		Medium:   plot.DefaultFont,
		SemiBold: withWeight(plot.DefaultFont, xfont.WeightBold),
	}
}

func withWeight(f font.Font, w xfont.Weight) font.Font {
	f.Weight = w
	return f
}

var tekoFaces = []struct {
	file   string
	weight xfont.Weight
}{
	{"Teko-Regular.ttf", xfont.WeightNormal},
	{"Teko-Medium.ttf", xfont.WeightMedium},
	{"Teko-SemiBold.ttf", xfont.WeightSemiBold},
}

// LoadFonts registers the Teko faces found in dir with the plot font cache.
// Missing faces fall back to the defaults; an empty dir loads nothing.
func LoadFonts(dir string) (Fonts, error) {
	fonts := DefaultFonts()
	if dir == "" {
		return fonts, nil
	}

	var coll font.Collection
	for _, face := range tekoFaces {
		path := filepath.Join(dir, face.file)
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn().Str("path", path).Msg("font not found, using default face")
				continue
			}
			return fonts, errors.Wrapf(err, "read font %s", path)
		}

		parsed, err := opentype.Parse(raw)
		if err != nil {
			return fonts, errors.Wrapf(err, "parse font %s", path)
		}

		f := font.Font{Typeface: tekoTypeface, Weight: face.weight}
		coll = append(coll, font.Face{Font: f, Face: parsed})

		switch face.weight {
		case xfont.WeightNormal:
			fonts.Regular = f
		case xfont.WeightMedium:
			fonts.Medium = f
		case xfont.WeightSemiBold:
			fonts.SemiBold = f
		}
	}

	if len(coll) > 0 {
		font.DefaultCache.Add(coll)
	}
	log.Debug().Str("dir", dir).Int("faces", len(coll)).Msg("chart fonts loaded")
	return fonts, nil
}

func sized(f font.Font, size font.Length) font.Font {
	f.Size = size
	return f
}
