// Package stimulus generates calibrated acoustic stimuli for cochlear
// simulations. All signals are in pascals; levels are given in dB SPL
// re 20 uPa.
package stimulus

import (
	"fmt"
	"math"
	"math/rand"
)

const referencePressure = 2e-5 // Pa, 0 dB SPL

// Pascals converts a level in dB SPL to the peak pressure of a sine at
// that RMS level.
func Pascals(levelDBSPL float64) float64 {
	return referencePressure * math.Sqrt2 * math.Pow(10, levelDBSPL/20)
}

// Generator creates deterministic stimuli from a shared configuration.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for the given sample rate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("stimulus: sample rate must be > 0: %f", sampleRate)
	}
	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Tone generates a pure tone at the given level with raised-cosine on/off
// ramps. rampDur may be zero for a hard-gated tone.
func (g *Generator) Tone(freqHz, levelDBSPL, duration, rampDur float64) ([]float64, error) {
	if freqHz <= 0 || freqHz >= g.sampleRate/2 {
		return nil, fmt.Errorf("stimulus: tone frequency must be in (0, %g): %f", g.sampleRate/2, freqHz)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("stimulus: tone duration must be > 0: %f", duration)
	}
	if rampDur < 0 || 2*rampDur > duration {
		return nil, fmt.Errorf("stimulus: ramp duration must be in [0, %g]: %f", duration/2, rampDur)
	}

	samples := int(math.Round(duration * g.sampleRate))
	amp := Pascals(levelDBSPL)
	step := 2 * math.Pi * freqHz / g.sampleRate

	out := make([]float64, samples)
	for i := range out {
		out[i] = amp * math.Sin(step*float64(i))
	}

	ramp := int(math.Round(rampDur * g.sampleRate))
	for i := 0; i < ramp && i < samples; i++ {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(ramp)))
		out[i] *= w
		out[samples-1-i] *= w
	}
	return out, nil
}

// Click generates a rectangular pressure click of the given width starting
// at onset, in an otherwise silent trace of the given duration. The click
// amplitude is the peak-equivalent pressure of the level.
func (g *Generator) Click(levelDBSPL, duration, onset, width float64) ([]float64, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("stimulus: click duration must be > 0: %f", duration)
	}
	if onset < 0 || width <= 0 || onset+width > duration {
		return nil, fmt.Errorf("stimulus: click window [%g, %g] outside trace of %g s", onset, onset+width, duration)
	}

	samples := int(math.Round(duration * g.sampleRate))
	start := int(math.Round(onset * g.sampleRate))
	stop := int(math.Round((onset + width) * g.sampleRate))
	if stop > samples {
		stop = samples
	}

	amp := Pascals(levelDBSPL)
	out := make([]float64, samples)
	for i := start; i < stop; i++ {
		out[i] = amp
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise at the given RMS level.
func (g *Generator) WhiteNoise(levelDBSPL, duration float64) ([]float64, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("stimulus: noise duration must be > 0: %f", duration)
	}

	samples := int(math.Round(duration * g.sampleRate))
	// Uniform noise in [-a, a] has RMS a/sqrt(3); scale so the trace RMS
	// hits the requested level.
	amp := referencePressure * math.Pow(10, levelDBSPL/20) * math.Sqrt(3)

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amp
	}
	return out, nil
}

// Normalize scales data to the target peak pressure and returns a new
// slice. A zero input or zero target yields a zero trace.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("stimulus: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stimulus: normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
