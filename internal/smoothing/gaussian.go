// Package smoothing contains the one-dimensional Gaussian filter used on momentum series
package smoothing

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Truncate is the kernel half-width in standard deviations.
const Truncate = 4.0

// GaussianKernel returns the normalised kernel of radius int(Truncate*sigma+0.5).
func GaussianKernel(sigma float64) []float64 {
	radius := int(Truncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)

	variance := sigma * sigma
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-0.5 * float64(k*k) / variance)
	}
	floats.Scale(1.0/floats.Sum(kernel), kernel)

	return kernel
}

// GaussianFilter1D smooths x with a Gaussian of standard deviation sigma.
// Boundaries are extended by half-sample symmetric reflection
// (d c b a | a b c d | d c b a), repeated when the kernel is wider than x.
// x is not modified.
func GaussianFilter1D(x []float64, sigma float64) []float64 {
	result := make([]float64, len(x))
	if len(x) == 0 {
		return result
	}
	if sigma <= 0 {
		copy(result, x)
		return result
	}

	kernel := GaussianKernel(sigma)
	radius := len(kernel) / 2

	padded := make([]float64, len(x)+2*radius)
	for i := range padded {
		padded[i] = x[reflectIndex(i-radius, len(x))]
	}

	for i := range result {
		result[i] = floats.Dot(kernel, padded[i:i+len(kernel)])
	}

	return result
}

func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		return period - 1 - i
	}
	return i
}

// MaxAbs returns the largest |v| in x, ignoring NaNs. ok is false when x
// holds only NaNs or is empty.
func MaxAbs(x []float64) (maxAbs float64, ok bool) {
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if a := math.Abs(v); !ok || a > maxAbs {
			maxAbs = a
			ok = true
		}
	}
	return maxAbs, ok
}
