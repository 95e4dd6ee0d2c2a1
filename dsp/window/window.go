// Package window provides the analysis windows used when computing spectra
// of solver outputs.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

// Supported window types.
const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	default:
		return "rectangular"
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	step := 2 * math.Pi / float64(length-1)
	switch t {
	case TypeHann:
		for i := range out {
			out[i] = 0.5 * (1 - math.Cos(step*float64(i)))
		}
	case TypeHamming:
		for i := range out {
			out[i] = 0.54 - 0.46*math.Cos(step*float64(i))
		}
	default:
		for i := range out {
			out[i] = 1
		}
	}

	return out
}

// Apply multiplies samples by coeffs in-place. Both slices must have the
// same length.
func Apply(samples, coeffs []float64) {
	vecmath.MulBlockInPlace(samples, coeffs)
}

// CoherentGain returns the mean of the window coefficients, used to
// normalize spectral magnitudes.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}
