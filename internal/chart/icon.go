package chart

import (
	"image"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// LoadBallIcon decodes the goal icon. A missing file is not an error: goals
// are then drawn as rings.
func LoadBallIcon(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("ball icon not found, goals drawn as rings")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "open ball icon %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode ball icon %s", path)
	}
	return img, nil
}

// goalMarks draws the ball icon centred on every goal, or a ring glyph when
// there is no icon.
type goalMarks struct {
	xys      plotter.XYs
	icon     image.Image
	size     vg.Length
	fallback draw.GlyphStyle
}

func newGoalMarks(xys plotter.XYs, icon image.Image) *goalMarks {
	return &goalMarks{
		xys:  xys,
		icon: icon,
		size: ballSize,
		fallback: draw.GlyphStyle{
			Color:  markerColor,
			Radius: ballSize / 3,
			Shape:  draw.RingGlyph{},
		},
	}
}

func (g *goalMarks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	w, h := g.size, g.size
	if g.icon != nil {
		b := g.icon.Bounds()
		if b.Dx() > 0 {
			h = g.size * vg.Length(b.Dy()) / vg.Length(b.Dx())
		}
	}

	for _, xy := range g.xys {
		pt := vg.Point{X: trX(xy.X), Y: trY(xy.Y)}
		if g.icon == nil {
			c.DrawGlyph(g.fallback, pt)
			continue
		}
		c.DrawImage(vg.Rectangle{
			Min: vg.Point{X: pt.X - w/2, Y: pt.Y - h/2},
			Max: vg.Point{X: pt.X + w/2, Y: pt.Y + h/2},
		}, g.icon)
	}
}
