// Package design provides the biquad designs used by the cochlear model.
package design

import (
	"math"

	"github.com/cwbudde/algo-cochlea/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// BandpassButterworth designs a first-order Butterworth band-pass between
// lowHz and highHz via the bilinear transform. The result is a single
// second-order section (band edges at -3 dB).
//
// This is the design used for both the middle-ear (Puria) stimulus filter
// and the otoacoustic-emission output filter.
func BandpassButterworth(lowHz, highHz, sampleRate float64) biquad.Coefficients {
	wl, okl := normalizedW0(lowHz, sampleRate)
	wh, okh := normalizedW0(highHz, sampleRate)
	if !okl || !okh || wl >= wh {
		return biquad.Coefficients{}
	}

	// Prewarped analog edge frequencies.
	ol := math.Tan(wl / 2)
	oh := math.Tan(wh / 2)
	bw := oh - ol
	o2 := ol * oh // squared center frequency

	b0 := bw
	b1 := 0.0
	b2 := -bw
	a0 := 1 + bw + o2
	a1 := 2 * (o2 - 1)
	a2 := 1 - bw + o2

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Bandpass designs a constant-skirt-gain band-pass biquad centered at freq
// (Hz) with quality factor q.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := sw / 2
	b1 := 0.0
	b2 := -sw / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
