// Package testutil provides deterministic signals and tolerance helpers
// for tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Silence returns a zero signal of the given length.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// ToneBurst generates a sine of the given frequency with raised-cosine
// on/off ramps of rampLen samples, the shape used for cochlear stimuli.
func ToneBurst(freqHz, sampleRate, amplitude float64, length, rampLen int) []float64 {
	out := Sine(freqHz, sampleRate, amplitude, length)
	if rampLen <= 0 || 2*rampLen > length {
		return out
	}
	for i := 0; i < rampLen; i++ {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(rampLen)))
		out[i] *= w
		out[length-1-i] *= w
	}
	return out
}
