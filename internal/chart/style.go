package chart

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

const (
	HalfTime = 45.0
	FullTime = 90.0

	// EventY is the height of the single event line, above zero for home
	// events and below for away ones.
	EventY = 0.07

	// Team names sit just off the zero line at this minute.
	teamLabelX = 0.4
	teamLabelY = 0.025

	DisplayFilename = "match_momentum.png"
)

var (
	FigureWidth  = 12 * vg.Inch
	FigureHeight = 7 * vg.Inch

	Background = color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF}
	HomeColor  = color.NRGBA{R: 0xD6, G: 0x45, B: 0x41, A: 0xFF}
	AwayColor  = color.NRGBA{R: 0x2E, G: 0x86, B: 0xC1, A: 0xFF}

	curveColor  = withAlpha(color.Black, 0.75)
	markerColor = withAlpha(color.Black, 0.5)
	grey        = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	gridColor   = withAlpha(color.Black, 0.15)

	curveWidth = vg.Points(1.5)
	refWidth   = vg.Points(1)

	// shot markers cover about 40pt²
	markerRadius = vg.Points(3.2)
	ballSize     = vg.Points(16)

	fillAlpha  = 0.4
	labelAlpha = 0.1

	tickFontSize      = vg.Points(14)
	axisLabelFontSize = vg.Points(14)
	teamFontSize      = vg.Points(40)
	watermarkFontSize = vg.Points(12)

	dashed = []vg.Length{vg.Points(4), vg.Points(2)}
	dotted = []vg.Length{vg.Points(1), vg.Points(2)}
)

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*alpha + 0.5)
	return n
}
