package smoothing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestGaussianKernel(t *testing.T) {
	kernel := GaussianKernel(1)
	require.Len(t, kernel, 9)

	sum := 0.0
	for _, w := range kernel {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, kernel[0], kernel[8], 1e-15)
	assert.InDelta(t, 0.3989434693560978, kernel[4], 1e-12)

	assert.Len(t, GaussianKernel(6), 49)
	assert.Len(t, GaussianKernel(1.5), 13)
}

func TestGaussianFilter1D(t *testing.T) {
	t.Run("impulse away from the edges", func(t *testing.T) {
		x := make([]float64, 21)
		x[10] = 1

		got := GaussianFilter1D(x, 1)
		want := []float64{
			0.05399112742070441,
			0.24197144565660073,
			0.39894346935609776,
			0.24197144565660073,
			0.05399112742070441,
		}
		if diff := cmp.Diff(want, got[8:13], approx); diff != "" {
			t.Errorf("impulse response mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 1.0, x[10], "input must not be modified")
	})

	t.Run("impulse on the left edge reflects", func(t *testing.T) {
		x := make([]float64, 21)
		x[0] = 1

		got := GaussianFilter1D(x, 1)
		want := []float64{0.6409149150126985, 0.2959625730773051, 0.05842298904073567}
		if diff := cmp.Diff(want, got[:3], approx); diff != "" {
			t.Errorf("edge response mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("kernel wider than input", func(t *testing.T) {
		got := GaussianFilter1D([]float64{1, 2, 3}, 1)
		want := []float64{1.4220737662726832, 2.0, 2.5779262337273168}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("short input mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fractional sigma", func(t *testing.T) {
		got := GaussianFilter1D([]float64{3, -1, 4, 1, -5, 9, 2, -6}, 1.5)
		want := []float64{
			1.7065277030922132, 1.5470764405849633, 1.2822017593168706, 1.0782436123930543,
			1.1870031577343938, 1.1558384768829992, 0.16901515304846337, -1.1259063030529575,
		}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("constant series is unchanged", func(t *testing.T) {
		x := []float64{2.5, 2.5, 2.5, 2.5, 2.5, 2.5}
		for _, sigma := range []float64{3, 6, 15} {
			got := GaussianFilter1D(x, sigma)
			if diff := cmp.Diff(x, got, approx); diff != "" {
				t.Errorf("sigma %v: mismatch (-want +got):\n%s", sigma, diff)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, GaussianFilter1D(nil, 6))
	})

	t.Run("single sample", func(t *testing.T) {
		assert.InDelta(t, 7.0, GaussianFilter1D([]float64{7}, 6)[0], 1e-12)
	})

	t.Run("non-positive sigma copies", func(t *testing.T) {
		x := []float64{1, 5, -3}
		got := GaussianFilter1D(x, 0)
		assert.Equal(t, x, got)
		got[0] = 100
		assert.Equal(t, 1.0, x[0])
	})

	t.Run("nan propagates to its neighbourhood", func(t *testing.T) {
		x := make([]float64, 30)
		x[15] = math.NaN()
		got := GaussianFilter1D(x, 1)
		assert.True(t, math.IsNaN(got[15]))
		assert.True(t, math.IsNaN(got[11]))
		assert.False(t, math.IsNaN(got[10]))
	})
}

func TestReflectIndex(t *testing.T) {
	n := 4
	cases := map[int]int{-9: 0, -5: 3, -4: 3, -1: 0, 0: 0, 3: 3, 4: 3, 7: 0, 8: 0, 11: 3}
	for in, want := range cases {
		assert.Equal(t, want, reflectIndex(in, n), "reflectIndex(%d, %d)", in, n)
	}
}

func TestMaxAbs(t *testing.T) {
	m, ok := MaxAbs([]float64{0.2, -3.5, math.NaN(), 1})
	assert.True(t, ok)
	assert.Equal(t, 3.5, m)

	m, ok = MaxAbs([]float64{0.2, math.Inf(-1)})
	assert.True(t, ok)
	assert.True(t, math.IsInf(m, 1))

	_, ok = MaxAbs([]float64{math.NaN()})
	assert.False(t, ok)

	_, ok = MaxAbs(nil)
	assert.False(t, ok)
}

func BenchmarkGaussianFilter1D(b *testing.B) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = rand.Float64()*2 - 1
	}

	for _, sigma := range []float64{3, 6, 15} {
		b.Run(fmt.Sprintf("sigma%v", sigma), func(b *testing.B) {
			for b.Loop() {
				_ = GaussianFilter1D(x, sigma)
			}
		})
	}
}
