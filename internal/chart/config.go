package chart

import (
	"github.com/pkg/errors"

	"github.com/tensorplex-labs/momentum/internal/config"
)

// NewRendererFromConfig loads the optional assets named by the data config:
// fonts, ball icon and branding.
func NewRendererFromConfig(dataCfg config.DataEnvConfig, chartCfg config.ChartEnvConfig) (*Renderer, error) {
	fonts, err := LoadFonts(dataCfg.FontDir)
	if err != nil {
		return nil, errors.Wrap(err, "load fonts")
	}

	icon, err := LoadBallIcon(dataCfg.BallIconPath)
	if err != nil {
		return nil, errors.Wrap(err, "load ball icon")
	}

	branding := DefaultBranding()
	if dataCfg.BrandingPath != "" {
		if branding, err = LoadBranding(dataCfg.BrandingPath); err != nil {
			return nil, errors.Wrap(err, "load branding")
		}
	}

	return NewRenderer(
		WithFonts(fonts),
		WithBallIcon(icon),
		WithBranding(branding),
		WithWatermark(chartCfg.Watermark),
	), nil
}
