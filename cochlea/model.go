package cochlea

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-cochlea/dsp/filter/biquad"
	"github.com/cwbudde/algo-cochlea/dsp/filter/design"
	"github.com/cwbudde/algo-vecmath"
)

// Config holds the required model parameters.
type Config struct {
	// Stimulus is the driving pressure series in pascals. At least 3 samples;
	// the model consumes len(Stimulus)-2 integration steps.
	Stimulus []float64
	// SampleRate of the stimulus in Hz.
	SampleRate float64
	// Sections is the number of membrane sections n; the grid has n+1 points.
	Sections int
	// Probes selects the sections sampled into the output.
	Probes ProbeSpec
	// PoleBase is the resting pole position shared by all sections.
	// Use WithPoleProfile for a per-section profile.
	PoleBase float64
	// IrregularityPct scales the random resting-pole perturbation, in [0,1].
	IrregularityPct float64
	// Nonlinearity selects the compressive-feedback mode.
	Nonlinearity NonlinearityMode
	// Subject seeds the per-instance random generator that shapes the
	// irregularity profile. Identical subjects reproduce identical profiles.
	Subject int64
}

type options struct {
	poleProfile []float64
	slope       float64
	kneeVar     float64
	irregular   bool
	lowFreqIrr  bool
	rtol, atol  float64
	progress    func(done, total int)
}

func defaultOptions() options {
	return options{
		slope:      0.4,
		kneeVar:    1,
		irregular:  true,
		lowFreqIrr: true,
		rtol:       1e-2,
		atol:       1e-13,
	}
}

// Option configures optional model parameters.
type Option func(*options)

// WithPoleProfile sets a per-section resting pole profile of length
// sections+1, overriding Config.PoleBase.
func WithPoleProfile(p []float64) Option {
	return func(o *options) { o.poleProfile = p }
}

// WithCompressionSlope selects the compression slope (0.2, 0.3, 0.4 or 0.5
// dB/dB) whose knee table shapes the nonlinearity. Default is 0.4.
func WithCompressionSlope(slope float64) Option {
	return func(o *options) { o.slope = slope }
}

// WithKneeVariance sets the divisor applied to the random knee offsets.
// Default is 1.
func WithKneeVariance(v float64) Option {
	return func(o *options) { o.kneeVar = v }
}

// WithoutIrregularities disables the random perturbation of poles and knee
// points entirely, independent of the nonlinearity mode. The compressive
// feedback itself stays active: a fully linear model needs
// Config.Nonlinearity set to NonlinearityNone as well.
func WithoutIrregularities() Option {
	return func(o *options) { o.irregular = false }
}

// WithoutLowFrequencyIrregularities keeps sections with resonance
// frequencies below about 100 Hz at their unperturbed knee points.
func WithoutLowFrequencyIrregularities() Option {
	return func(o *options) { o.lowFreqIrr = false }
}

// WithTolerances overrides the integrator error tolerances. The defaults
// (relative 1e-2, absolute 1e-13) reflect the small physical magnitudes of
// the state: loose relative, tight absolute.
func WithTolerances(rtol, atol float64) Option {
	return func(o *options) { o.rtol, o.atol = rtol, atol }
}

// WithProgress registers a callback invoked after each accepted outer step
// with the number of completed steps and the total. It runs on the solving
// goroutine and should return quickly.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}

type modelState int

const (
	stateUninitialized modelState = iota
	stateInitialized
	stateIntegrating
	stateCompleted
)

// Model is a single cochlear transmission-line instance. The zero value is
// usable; call Init before Solve. A Model must not be shared between
// goroutines, but distinct instances are fully independent.
type Model struct {
	state modelState

	// configuration
	n        int
	fs, dt   float64
	stim     []float64
	mode     NonlinearityMode
	rtol     float64
	atol     float64
	progress func(done, total int)

	// geometry and resolved probes
	fres     []float64
	omega    []float64
	omega2   []float64
	probeIdx []int
	cf       []float64

	// coupling system and middle-ear constants
	td       *tridiag
	zasq     []float64
	dmFactor float64
	p0x      float64
	rk40     float64
	rk4g0    float64
	q0Factor float64

	// active-feedback machinery
	nl       nonlinearity
	sheraP   []float64
	sheraD   []float64
	sheraMu  []float64
	sheraRho []float64
	dtot     []float64 // omega * sheraD, folded once per commit
	intDelay []int
	dev      []float64
	buf      *delayBuffer
	poleCand []float64

	// integration state and scratch
	dop     *dopri5
	ystate  []float64
	lastT   float64
	win     [4]float64
	lastQ0  float64
	yZweig  []float64
	g       []float64
	right   []float64
	q       []float64
	scratch []float64
}

// Init validates the configuration and computes the membrane grid, coupling
// matrix, middle-ear filter and irregularity profile. It filters a private
// copy of the stimulus through the middle-ear band-pass; the caller's slice
// is not modified. Init may be called again to reconfigure the instance.
func (m *Model) Init(cfg Config, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Sections <= 0 {
		return ErrInvalidSectionCount
	}
	if cfg.SampleRate <= 2*puriaHighHz {
		return ErrInvalidSampleRate
	}
	if len(cfg.Stimulus) < 3 {
		return ErrStimulusTooShort
	}
	if cfg.IrregularityPct < 0 || cfg.IrregularityPct > 1 {
		return ErrInvalidIrregularityPct
	}

	n := cfg.Sections
	n1 := n + 1

	if o.poleProfile != nil && len(o.poleProfile) != n1 {
		return ErrInvalidPoleProfile
	}

	poleBase := make([]float64, n1)
	if o.poleProfile != nil {
		copy(poleBase, o.poleProfile)
	} else {
		for i := range poleBase {
			poleBase[i] = cfg.PoleBase
		}
	}

	m.n = n
	m.fs = cfg.SampleRate
	m.dt = 1 / cfg.SampleRate
	m.mode = cfg.Nonlinearity
	m.rtol = o.rtol
	m.atol = o.atol
	m.progress = o.progress

	// Membrane grid and Greenwood resonance map.
	bmLength := cochleaLength - helicotremaWidth
	dx := bmLength / float64(n)

	m.fres = make([]float64, n1)
	m.omega = make([]float64, n1)
	m.omega2 = make([]float64, n1)
	for i := 0; i < n1; i++ {
		x := bmLength * float64(i) / float64(n)
		m.fres[i] = greenwoodA*math.Pow(10, -greenwoodAlpha*x) - greenwoodB
		m.omega[i] = 2 * math.Pi * m.fres[i]
		m.omega2[i] = m.omega[i] * m.omega[i]
	}

	probeIdx, cf, err := cfg.Probes.resolve(m.fres)
	if err != nil {
		return err
	}
	m.probeIdx = probeIdx
	m.cf = cf

	// Transmission-line scale factors.
	mso := 2 * fluidDensity / (scalaWidth * scalaHeight)
	zweigL := 1 / (2.3030 * greenwoodAlpha)
	omegaCo := 2 * math.Pi * greenwoodA
	mpo := mso * zweigL * zweigL / ((4 * zweigN) * (4 * zweigN))

	// Middle-ear coupling at the boundary section.
	m.q0Factor = mpo * scalaWidth
	m.p0x = mso * dx / (mpo * scalaWidth)
	m.dmFactor = -m.p0x * stapesArea * middleEarResistance
	m.rk40 = -scalaWidth * mpo / stapesArea
	m.rk4g0 = mpo * scalaWidth / (mso * stapesArea * dx)

	// Fixed tridiagonal coupling coefficients.
	ms := make([]float64, n1)
	for i := 0; i < n1; i++ {
		ms[i] = mso * omegaCo / m.omega[i]
	}

	sub := make([]float64, n1)
	diag := make([]float64, n1)
	sup := make([]float64, n1)
	m.zasq = make([]float64, n1)

	m.zasq[0] = 1
	diag[0] = 1 + mso*dx
	sup[0] = -1
	for i := 1; i < n1; i++ {
		sub[i] = -ms[i]
		m.zasq[i] = m.omega[i] * ms[i] * ms[i-1] * dx * dx / (omegaCo * mpo)
		diag[i] = m.zasq[i] + ms[i] + ms[i-1]
		if i < n1-1 {
			sup[i] = -ms[i-1]
		}
	}
	m.td = newTridiag(sub, diag, sup)

	// Irregularity profile from the per-instance generator. A process-global
	// source would couple parallel channel solves; each instance owns its own.
	rth := make([]float64, n1)
	if o.irregular {
		rng := rand.New(rand.NewSource(cfg.Subject))
		for i := range rth {
			rth[i] = 2 * (rng.Float64() - 0.5)
		}
	}

	rthNorm := make([]float64, n1)
	for i := range rthNorm {
		rthNorm[i] = math.Pow(10, rth[i]/20/o.kneeVar)
	}

	// Sections below ~100 Hz revert to unperturbed knees unless low-frequency
	// irregularities are enabled (the default).
	lfLimit := n1
	if !o.lowFreqIrr {
		lfLimit = nearestIndex(m.fres, 100)
	}
	onek := nearestIndex(m.fres, 1000)

	kt := kneeForSlope(o.slope)

	m.nl = nonlinearity{mode: cfg.Nonlinearity}
	m.nl.poleS = make([]float64, n1)
	m.nl.poleE = make([]float64, n1)
	m.nl.vKnee = make([]float64, n1)
	rthY1 := make([]float64, n1)

	poleCeiling(m.nl.poleE, poleBase, kt)
	for i := 0; i < n1; i++ {
		if i < lfLimit {
			m.nl.poleS[i] = (1 + cfg.IrregularityPct*rth[i]/2) * poleBase[i]
			m.nl.vKnee[i] = vKnee1 * rthNorm[i]
			rthY1[i] = yKnee1 * rthNorm[i]
		} else {
			m.nl.poleS[i] = poleBase[i]
			m.nl.vKnee[i] = vKnee1
			rthY1[i] = yKnee1
		}
	}

	switch cfg.Nonlinearity {
	case NonlinearityVelocity:
		m.nl.initVelocity(kt.vKnee2 / vKnee1)
	case NonlinearityDisplacement:
		m.nl.initDisplacement(rthY1, kt.yKnee2/yKnee1, m.omega, onek)
	}

	// Middle-ear (Puria) band-pass applied once to a private stimulus copy.
	m.stim = make([]float64, len(cfg.Stimulus))
	copy(m.stim, cfg.Stimulus)
	puria := biquad.NewChain(
		[]biquad.Coefficients{design.BandpassButterworth(puriaLowHz, puriaHighHz, m.fs)},
		biquad.WithGain(puriaGain),
	)
	puria.ProcessBlock(m.stim)

	// Feedback delay buffer sized for the slowest section.
	m.buf = newDelayBuffer(n1, maxDelayWidth(m.fres, m.dt))

	m.sheraP = make([]float64, n1)
	m.sheraD = make([]float64, n1)
	m.sheraMu = make([]float64, n1)
	m.sheraRho = make([]float64, n1)
	m.dtot = make([]float64, n1)
	m.intDelay = make([]int, n1)
	m.dev = make([]float64, n1)
	m.poleCand = make([]float64, n1)

	m.ystate = make([]float64, 2*n1)
	m.yZweig = make([]float64, n1)
	m.g = make([]float64, n1)
	m.right = make([]float64, n1)
	m.q = make([]float64, n1)
	m.scratch = make([]float64, n1)

	m.dop = newDopri5(2*n1, m.rtol, m.atol, m.derivative)

	m.resetDynamicState()
	m.state = stateInitialized

	return nil
}

// Reset rewinds a solved (or partially solved) model to its initialized
// state so Solve can run again, reproducing the previous trajectory.
func (m *Model) Reset() error {
	if m.state == stateUninitialized {
		return ErrNotInitialized
	}

	m.resetDynamicState()
	m.state = stateInitialized
	return nil
}

// resetDynamicState zeroes the trajectory state and commits the resting
// operating point: pole candidate from the zero state, Shera parameters,
// delay pointers.
func (m *Model) resetDynamicState() {
	for i := range m.ystate {
		m.ystate[i] = 0
	}
	m.buf.reset()
	m.lastT = 0
	m.lastQ0 = 0
	m.win = [4]float64{}

	n1 := m.n + 1
	m.nl.candidate(m.sheraP, m.ystate[:n1], m.ystate[n1:])
	m.commitShera()

	m.dop.reset()
}

// commitShera publishes the Shera parameters and delay pointers implied by
// the committed pole positions.
func (m *Model) commitShera() {
	sheraParams(m.sheraD, m.sheraMu, m.sheraRho, m.sheraP)
	vecmath.MulBlock(m.dtot, m.omega, m.sheraD)
	computeDelayPointers(m.intDelay, m.dev, m.sheraMu, m.omega, m.dt)
}

// CenterFrequencies returns the resonance frequencies of the resolved probe
// sections, in probe order. Valid after Init.
func (m *Model) CenterFrequencies() []float64 {
	out := make([]float64, len(m.cf))
	copy(out, m.cf)
	return out
}

// Sections returns the configured section count n. The internal grid has
// n+1 points.
func (m *Model) Sections() int { return m.n }

// nearestIndex returns the index whose value is closest to target,
// preferring the lowest index on ties.
func nearestIndex(vals []float64, target float64) int {
	best := 0
	bestDiff := math.Abs(vals[0] - target)
	for i := 1; i < len(vals); i++ {
		if d := math.Abs(vals[i] - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}
