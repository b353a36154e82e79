package chart

import (
	"math"

	"gonum.org/v1/plot/plotter"

	"github.com/tensorplex-labs/momentum/internal/smoothing"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

// YMax is the largest |diff| ignoring NaN, or 1 when the series is empty,
// all NaN, non-finite or flat at zero.
func YMax(diff []float64) float64 {
	m, ok := smoothing.MaxAbs(diff)
	if !ok || math.IsInf(m, 0) || m == 0 {
		return 1.0
	}
	return m
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Segments splits the curve at non-finite points.
func Segments(xs, ys []float64) []plotter.XYs {
	var (
		segs []plotter.XYs
		cur  plotter.XYs
	)
	for i := range min(len(xs), len(ys)) {
		if !finite(xs[i]) || !finite(ys[i]) {
			if len(cur) > 0 {
				segs = append(segs, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// FillRuns splits the curve into closed polygons between the curve and zero,
// one per run of strictly positive (sign > 0) or strictly negative (sign < 0)
// values. Runs end where the curve crosses zero, at the interpolated crossing,
// or at a non-finite point.
func FillRuns(xs, ys []float64, sign float64) []plotter.XYs {
	var (
		runs []plotter.XYs
		cur  plotter.XYs
	)

	inside := func(i int) bool { return finite(xs[i]) && finite(ys[i]) && ys[i]*sign > 0 }
	usable := func(i int) bool { return finite(xs[i]) && finite(ys[i]) }
	closeRun := func(x float64) {
		if cur == nil {
			return
		}
		cur = append(cur, plotter.XY{X: x, Y: 0})
		runs = append(runs, cur)
		cur = nil
	}

	n := min(len(xs), len(ys))
	for i := range n {
		x, y := xs[i], ys[i]
		if inside(i) {
			if cur == nil {
				start := x
				if i > 0 && usable(i-1) {
					start = crossing(xs[i-1], ys[i-1], x, y)
				}
				cur = plotter.XYs{{X: start, Y: 0}}
			}
			cur = append(cur, plotter.XY{X: x, Y: y})
			continue
		}

		if cur == nil {
			continue
		}
		end := xs[i-1]
		if usable(i) {
			end = crossing(xs[i-1], ys[i-1], x, y)
		}
		closeRun(end)
	}
	if cur != nil {
		closeRun(xs[n-1])
	}

	return runs
}

// crossing is the x where the segment (x0,y0)-(x1,y1) meets y=0.
func crossing(x0, y0, x1, y1 float64) float64 {
	if y0 == y1 {
		return x0
	}
	return x0 + (x1-x0)*y0/(y0-y1)
}

// Markers are the event positions on the single event line.
type Markers struct {
	Goals     plotter.XYs
	OnTarget  plotter.XYs
	OffTarget plotter.XYs
}

// PlaceEvents puts every event at +eventY when it belongs to home and at
// -eventY otherwise. Shots sharing a goal minute (to two decimals) are dropped.
func PlaceEvents(md *viewer.MatchData, eventY float64) Markers {
	side := func(team string) float64 {
		if team == md.Home {
			return eventY
		}
		return -eventY
	}

	var m Markers
	goalMinutes := make(map[float64]struct{}, len(md.Goals))
	for _, g := range md.Goals {
		if !finite(g.Minute) {
			continue
		}
		goalMinutes[round2(g.Minute)] = struct{}{}
		m.Goals = append(m.Goals, plotter.XY{X: g.Minute, Y: side(g.Team)})
	}

	for _, s := range md.Shots {
		if !finite(s.Minute) {
			continue
		}
		if _, ok := goalMinutes[round2(s.Minute)]; ok {
			continue
		}
		pt := plotter.XY{X: s.Minute, Y: side(s.Team)}
		if s.OnTarget {
			m.OnTarget = append(m.OnTarget, pt)
		} else {
			m.OffTarget = append(m.OffTarget, pt)
		}
	}

	return m
}

// round2 rounds half to even at two decimals, like numpy.round.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// XRange covers the minutes and the 45'/90' reference lines with a 5% margin.
func XRange(minutes []float64) (lo, hi float64) {
	lo, hi = 0, FullTime
	for _, m := range minutes {
		if !finite(m) {
			continue
		}
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// YRange is symmetric around zero and leaves room for the event line.
func YRange(diff []float64, eventY float64) (lo, hi float64) {
	top := math.Max(YMax(diff), eventY*1.5) * 1.1
	return -top, top
}
