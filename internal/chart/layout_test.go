package chart

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/tensorplex-labs/momentum/internal/viewer"
)

func TestYMax(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		diff []float64
		want float64
	}{
		{"empty", nil, 1},
		{"all nan", []float64{nan, nan}, 1},
		{"flat zero", []float64{0, 0, 0}, 1},
		{"infinite", []float64{0.2, math.Inf(-1)}, 1},
		{"negative peak", []float64{0.1, -0.3, nan, 0.2}, 0.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, YMax(tc.diff))
		})
	}
}

func TestFillRuns_InterpolatesCrossings(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 1, -1, -1, 1}

	pos := FillRuns(xs, ys, 1)
	neg := FillRuns(xs, ys, -1)

	opt := cmpopts.EquateApprox(0, 1e-12)
	want := []plotter.XYs{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1.5, Y: 0}},
		{{X: 3.5, Y: 0}, {X: 4, Y: 1}, {X: 4, Y: 0}},
	}
	if diff := cmp.Diff(want, pos, opt); diff != "" {
		t.Errorf("positive runs mismatch (-want +got):\n%s", diff)
	}

	wantNeg := []plotter.XYs{
		{{X: 1.5, Y: 0}, {X: 2, Y: -1}, {X: 3, Y: -1}, {X: 3.5, Y: 0}},
	}
	if diff := cmp.Diff(wantNeg, neg, opt); diff != "" {
		t.Errorf("negative runs mismatch (-want +got):\n%s", diff)
	}
}

func TestFillRuns_BreaksAtNaN(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0.5, math.NaN(), 0.5, 0.5}

	runs := FillRuns(xs, ys, 1)
	require.Len(t, runs, 2)
	assert.Equal(t, plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: 0.5}, {X: 0, Y: 0}}, runs[0])
	assert.Equal(t, plotter.XYs{{X: 2, Y: 0}, {X: 2, Y: 0.5}, {X: 3, Y: 0.5}, {X: 3, Y: 0}}, runs[1])
}

func TestFillRuns_ZeroIsNeitherSide(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}
	assert.Empty(t, FillRuns(xs, ys, 1))
	assert.Empty(t, FillRuns(xs, ys, -1))
	assert.Empty(t, FillRuns(nil, nil, 1))
}

func TestSegments(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, math.Inf(1), 2, 3, math.NaN()}

	segs := Segments(xs, ys)
	require.Len(t, segs, 2)
	assert.Equal(t, plotter.XYs{{X: 0, Y: 1}}, segs[0])
	assert.Equal(t, plotter.XYs{{X: 2, Y: 2}, {X: 3, Y: 3}}, segs[1])
}

func TestPlaceEvents(t *testing.T) {
	md := &viewer.MatchData{
		Home: "Inter",
		Away: "Napoli",
		Goals: []viewer.Event{
			{Minute: 23.004, Team: "Inter"},
			{Minute: 70, Team: "Napoli"},
		},
		Shots: []viewer.Shot{
			{Minute: 23.0, Team: "Inter", OnTarget: true}, // same minute as a goal
			{Minute: 10, Team: "Inter", OnTarget: true},
			{Minute: 55.5, Team: "Napoli", OnTarget: false},
			{Minute: 60, Team: "Somebody else", OnTarget: true},
		},
	}

	m := PlaceEvents(md, EventY)

	assert.Equal(t, plotter.XYs{{X: 23.004, Y: EventY}, {X: 70, Y: -EventY}}, m.Goals)
	assert.Equal(t, plotter.XYs{{X: 10, Y: EventY}, {X: 60, Y: -EventY}}, m.OnTarget)
	assert.Equal(t, plotter.XYs{{X: 55.5, Y: -EventY}}, m.OffTarget)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 23.0, round2(23.004))
	assert.Equal(t, 0.12, round2(0.125))
	assert.Equal(t, 45.01, round2(45.0149))
}

func TestRanges(t *testing.T) {
	lo, hi := XRange([]float64{0, 30, 95})
	assert.InDelta(t, -4.75, lo, 1e-9)
	assert.InDelta(t, 99.75, hi, 1e-9)

	lo, hi = XRange(nil)
	assert.InDelta(t, -4.5, lo, 1e-9)
	assert.InDelta(t, 94.5, hi, 1e-9)

	ylo, yhi := YRange([]float64{0.5, -2}, EventY)
	assert.InDelta(t, 2.2, yhi, 1e-9)
	assert.Equal(t, -yhi, ylo)

	_, yhi = YRange([]float64{0.01}, EventY)
	assert.InDelta(t, EventY*1.5*1.1, yhi, 1e-9)
}
