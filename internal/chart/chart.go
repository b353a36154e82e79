// Package chart draws the match momentum chart: the smoothed RCI curve,
// team-coloured dominance areas and the goal/shot event line.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tensorplex-labs/momentum/internal/utils/logger"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

const xAxisLabel = "Match minute"

type Renderer struct {
	branding  *Branding
	fonts     Fonts
	ballIcon  image.Image
	watermark string
}

type Option func(*Renderer)

func WithBranding(b *Branding) Option {
	return func(r *Renderer) {
		if b != nil {
			r.branding = b
		}
	}
}

func WithFonts(f Fonts) Option {
	return func(r *Renderer) {
		r.fonts = f
	}
}

// WithBallIcon sets the goal icon; nil draws rings instead.
func WithBallIcon(img image.Image) Option {
	return func(r *Renderer) {
		r.ballIcon = img
	}
}

func WithWatermark(s string) Option {
	return func(r *Renderer) {
		r.watermark = s
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		branding: DefaultBranding(),
		fonts:    DefaultFonts(),
	}

	for _, opt := range opts {
		opt(r)
	}

	logger.Sugar().Infow("chart renderer ready",
		"ballIcon", r.ballIcon != nil,
		"typeface", r.fonts.Regular.Typeface,
		"watermark", r.watermark,
	)
	return r
}

// Plot builds the chart for one match without rendering it.
func (r *Renderer) Plot(md *viewer.MatchData) (*plot.Plot, error) {
	if md == nil {
		return nil, errors.New("no match data")
	}
	if len(md.Minutes) != len(md.DiffSmooth) {
		return nil, fmt.Errorf("match %d: %d minutes vs %d smoothed values", md.MatchID, len(md.Minutes), len(md.DiffSmooth))
	}

	homeColor, awayColor := r.branding.Colors(md.Home, md.Away)

	p := plot.New()
	p.BackgroundColor = Background

	p.X.Min, p.X.Max = XRange(md.Minutes)
	p.Y.Min, p.Y.Max = YRange(md.DiffSmooth, EventY)
	r.styleAxes(p)

	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = dashed
	p.Add(grid)

	for _, run := range FillRuns(md.Minutes, md.DiffSmooth, 1) {
		if err := addFill(p, run, withAlpha(homeColor, fillAlpha)); err != nil {
			return nil, err
		}
	}
	for _, run := range FillRuns(md.Minutes, md.DiffSmooth, -1) {
		if err := addFill(p, run, withAlpha(awayColor, fillAlpha)); err != nil {
			return nil, err
		}
	}

	for _, seg := range Segments(md.Minutes, md.DiffSmooth) {
		curve, err := plotter.NewLine(seg)
		if err != nil {
			return nil, errors.Wrap(err, "momentum curve")
		}
		curve.LineStyle.Color = curveColor
		curve.LineStyle.Width = curveWidth
		p.Add(curve)
	}

	refs := []struct {
		from, to plotter.XY
		style    draw.LineStyle
	}{
		{plotter.XY{X: p.X.Min, Y: 0}, plotter.XY{X: p.X.Max, Y: 0}, draw.LineStyle{Color: grey, Width: refWidth, Dashes: dashed}},
		{plotter.XY{X: HalfTime, Y: p.Y.Min}, plotter.XY{X: HalfTime, Y: p.Y.Max}, draw.LineStyle{Color: curveColor, Width: refWidth, Dashes: dotted}},
		{plotter.XY{X: FullTime, Y: p.Y.Min}, plotter.XY{X: FullTime, Y: p.Y.Max}, draw.LineStyle{Color: curveColor, Width: refWidth, Dashes: dotted}},
	}
	for _, ref := range refs {
		l, err := plotter.NewLine(plotter.XYs{ref.from, ref.to})
		if err != nil {
			return nil, errors.Wrap(err, "reference line")
		}
		l.LineStyle = ref.style
		p.Add(l)
	}

	if err := r.addTeamNames(p, md.Home, md.Away, homeColor, awayColor); err != nil {
		return nil, err
	}

	markers := PlaceEvents(md, EventY)
	shots := []struct {
		pts   plotter.XYs
		shape draw.GlyphDrawer
	}{
		{markers.OnTarget, draw.CircleGlyph{}},
		{markers.OffTarget, draw.CrossGlyph{}},
	}
	for _, s := range shots {
		if len(s.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(s.pts)
		if err != nil {
			return nil, errors.Wrap(err, "shot markers")
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: markerColor, Radius: markerRadius, Shape: s.shape}
		p.Add(sc)
	}
	if len(markers.Goals) > 0 {
		p.Add(newGoalMarks(markers.Goals, r.ballIcon))
	}

	return p, nil
}

func (r *Renderer) styleAxes(p *plot.Plot) {
	ticks := make([]plot.Tick, 0, 10)
	for m := 0; m <= int(FullTime); m += 10 {
		ticks = append(ticks, plot.Tick{Value: float64(m), Label: fmt.Sprint(m)})
	}

	p.X.Label.Text = xAxisLabel
	p.X.Label.TextStyle.Font = sized(r.fonts.Medium, axisLabelFontSize)
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Font = sized(r.fonts.Regular, tickFontSize)
	p.X.LineStyle.Width = 0

	p.Y.Tick.Marker = plot.ConstantTicks(nil)
	p.Y.Tick.Length = 0
	p.Y.LineStyle.Width = 0
	p.Y.Padding = 0
}

func (r *Renderer) addTeamNames(p *plot.Plot, home, away string, homeColor, awayColor color.NRGBA) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: teamLabelX, Y: teamLabelY}, {X: teamLabelX, Y: -teamLabelY}},
		Labels: []string{home, away},
	})
	if err != nil {
		return errors.Wrap(err, "team labels")
	}

	for i, c := range []color.NRGBA{homeColor, awayColor} {
		st := labels.TextStyle[i]
		st.Color = withAlpha(c, labelAlpha)
		st.Font = sized(r.fonts.SemiBold, teamFontSize)
		st.XAlign = text.XLeft
		st.YAlign = text.YBottom
		if i == 1 {
			st.YAlign = text.YTop
		}
		labels.TextStyle[i] = st
	}
	p.Add(labels)
	return nil
}

// Render draws the chart as PNG at dpi.
func (r *Renderer) Render(w io.Writer, md *viewer.MatchData, dpi int) error {
	if dpi <= 0 {
		return fmt.Errorf("invalid dpi %d", dpi)
	}

	p, err := r.Plot(md)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(FigureWidth, FigureHeight),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(Background),
	)
	dc := draw.New(c)
	p.Draw(dc)
	r.drawWatermark(dc)

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return errors.Wrap(err, "encode png")
	}

	logger.Sugar().Debugw("chart rendered",
		"matchId", md.MatchID,
		"sigma", md.Sigma,
		"dpi", dpi,
	)
	return nil
}

// RenderPNG is Render into a buffer.
func (r *Renderer) RenderPNG(md *viewer.MatchData, dpi int) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, md, dpi); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawWatermark(dc draw.Canvas) {
	if r.watermark == "" {
		return
	}
	dc.FillText(text.Style{
		Color:   grey,
		Font:    sized(r.fonts.Regular, watermarkFontSize),
		XAlign:  text.XRight,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}, vg.Point{X: dc.Max.X - vg.Points(8), Y: dc.Min.Y + vg.Points(4)}, r.watermark)
}

func addFill(p *plot.Plot, run plotter.XYs, c color.NRGBA) error {
	poly, err := plotter.NewPolygon(run)
	if err != nil {
		return errors.Wrap(err, "dominance area")
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	p.Add(poly)
	return nil
}
