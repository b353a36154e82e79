package chart

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#D64541")
	require.NoError(t, err)
	assert.Equal(t, HomeColor, c)

	c, err = ParseHex("2e86c180")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x2E, G: 0x86, B: 0xC1, A: 0x80}, c)

	c, err = ParseHex(" #0068a8 ")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x00, G: 0x68, B: 0xA8, A: 0xFF}, c)

	c, err = ParseHex("#FFFFFF00")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x00}, c)

	for _, bad := range []string{"", "#12345", "#GGGGGG", "red", "#D64541ZZ", "#abc"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestBranding_Colors(t *testing.T) {
	b, err := ParseBranding([]byte(`
teams:
  Inter: "#0068A8"
  Atalanta: "#0068A8"
`))
	require.NoError(t, err)

	h, a := b.Colors("Inter", "Napoli")
	assert.Equal(t, color.NRGBA{R: 0x00, G: 0x68, B: 0xA8, A: 0xFF}, h)
	assert.Equal(t, AwayColor, a)

	h, a = b.Colors("Roma", "Lazio")
	assert.Equal(t, HomeColor, h)
	assert.Equal(t, AwayColor, a)

	// clashing kits fall back to the stock pair
	h, a = b.Colors("Inter", "Atalanta")
	assert.Equal(t, HomeColor, h)
	assert.Equal(t, AwayColor, a)
}

func TestBranding_OverridesDefaults(t *testing.T) {
	b, err := ParseBranding([]byte("home: \"#000000\"\naway: \"#FFFFFF\"\n"))
	require.NoError(t, err)

	h, a := b.Colors("X", "Y")
	assert.Equal(t, color.NRGBA{A: 0xFF}, h)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, a)
}

func TestLoadBranding(t *testing.T) {
	b, err := LoadBranding("")
	require.NoError(t, err)
	h, a := b.Colors("Inter", "Napoli")
	assert.Equal(t, HomeColor, h)
	assert.Equal(t, AwayColor, a)

	_, err = LoadBranding(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "branding.yaml")
	require.NoError(t, os.WriteFile(path, []byte("teams:\n  Inter: nope\n"), 0o600))
	_, err = LoadBranding(path)
	assert.ErrorContains(t, err, "colour of Inter")
}
