// Package analysis provides spectral and latency helpers for cochlear
// solver outputs: the emission spectrum and level, and per-probe response
// latency.
package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-cochlea/dsp/window"
)

// Errors returned by analysis functions.
var (
	ErrEmptyTrace        = errors.New("analysis: trace is empty")
	ErrInvalidSampleRate = errors.New("analysis: sample rate must be positive")
)

// Spectrum holds a single-sided magnitude spectrum.
type Spectrum struct {
	Frequencies []float64 // bin centers in Hz
	Magnitudes  []float64 // window-compensated peak amplitudes
}

// EmissionSpectrum computes the single-sided magnitude spectrum of an
// emission (or any solver) trace. The trace is windowed, zero-padded to the
// next power of two, and normalized by the window's coherent gain so a
// full-scale sine reads its peak amplitude.
func EmissionSpectrum(trace []float64, sampleRate float64, wt window.Type) (Spectrum, error) {
	if len(trace) == 0 {
		return Spectrum{}, ErrEmptyTrace
	}
	if sampleRate <= 0 {
		return Spectrum{}, ErrInvalidSampleRate
	}

	coeffs := window.Generate(wt, len(trace))
	gain := window.CoherentGain(coeffs)

	fftSize := nextPow2(len(trace))
	in := make([]complex128, fftSize)
	for i, x := range trace {
		in[i] = complex(x*coeffs[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("analysis: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("analysis: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	// Peak-amplitude normalization: 2/N for interior bins, window gain
	// compensated over the unpadded length.
	norm := 2 / (float64(len(trace)) * gain)
	for i := range mags {
		if i == 0 || i == bins-1 {
			mags[i] *= norm / 2
		} else {
			mags[i] *= norm
		}
	}

	freqs := make([]float64, bins)
	df := sampleRate / float64(fftSize)
	for i := range freqs {
		freqs[i] = float64(i) * df
	}

	return Spectrum{Frequencies: freqs, Magnitudes: mags}, nil
}

// EmissionLevelDB returns the RMS level of the trace in dB SPL
// (re 20 uPa).
func EmissionLevelDB(trace []float64) (float64, error) {
	if len(trace) == 0 {
		return 0, ErrEmptyTrace
	}

	sum := 0.0
	for _, x := range trace {
		sum += x * x
	}
	rms := math.Sqrt(sum / float64(len(trace)))

	return 20 * math.Log10(rms/2e-5), nil
}

// PeakLatency returns, per probe column, the time in seconds of the largest
// absolute excursion in a time-major trajectory matrix.
func PeakLatency(trajectory [][]float64, sampleRate float64) ([]float64, error) {
	if len(trajectory) == 0 || len(trajectory[0]) == 0 {
		return nil, ErrEmptyTrace
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	cols := len(trajectory[0])
	peak := make([]float64, cols)
	at := make([]int, cols)
	for t, row := range trajectory {
		for k, x := range row {
			if a := math.Abs(x); a > peak[k] {
				peak[k] = a
				at[k] = t
			}
		}
	}

	lat := make([]float64, cols)
	for k := range lat {
		lat[k] = float64(at[k]) / sampleRate
	}
	return lat, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
