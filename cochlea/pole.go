package cochlea

import "math"

// NonlinearityMode selects which state variable drives the compressive
// active-feedback nonlinearity. Modes outside the defined set behave like
// NonlinearityNone (a fully linear model).
type NonlinearityMode int

const (
	// NonlinearityVelocity drives the pole update from section velocity.
	NonlinearityVelocity NonlinearityMode = iota
	// NonlinearityDisplacement drives the pole update from displacement.
	NonlinearityDisplacement
	// NonlinearityNone freezes the poles at their resting positions.
	NonlinearityNone
)

// String returns the mode name.
func (m NonlinearityMode) String() string {
	switch m {
	case NonlinearityVelocity:
		return "velocity"
	case NonlinearityDisplacement:
		return "displacement"
	default:
		return "none"
	}
}

// sheraParams derives the per-section damping d, feedback delay mu (in
// periods) and feedback gain rho from the current pole positions p.
func sheraParams(d, mu, rho, p []float64) {
	for i := range p {
		a := (p[i] + math.Sqrt(p[i]*p[i]+sheraC*(1-p[i]*p[i]))) / sheraC
		d[i] = 2 * (p[i] - a)
		mu[i] = 1 / a
		rho[i] = 2 * a * math.Sqrt(1-(d[i]/2)*(d[i]/2)) * math.Exp(-p[i]/a)
	}
}

// poleShiftExceeds reports whether any non-boundary pole candidate moved by
// more than 1% relative to the committed value. Recomputing the Shera
// parameters and delay pointers is expensive; smaller shifts reuse the
// previous values. The threshold is part of the model definition, not a
// tunable.
func poleShiftExceeds(cand, cur []float64) bool {
	for i := 1; i < len(cand); i++ {
		if math.Abs(cand[i]-cur[i]) > 0.01*math.Abs(cur[i]) {
			return true
		}
	}
	return false
}

// nonlinearity holds the precomputed per-section constants of the
// saturating pole transform: a piecewise trigonometric blend between the
// two knee regimes, scaled by the subject's irregularity profile.
type nonlinearity struct {
	mode  NonlinearityMode
	poleS []float64 // resting poles, irregularity applied
	poleE []float64 // pole ceilings

	// velocity regime
	vKnee    []float64 // first velocity knee, irregularity applied
	sinTheta []float64
	cosTheta []float64
	constNL  []float64 // cos(theta)/cos(2*theta)
	sa, sb   []float64

	// displacement regime
	yKneeF    []float64 // first displacement knee referred to each section
	dSinTheta []float64
	dCosTheta []float64
	dConst    []float64 // cos(theta)/cos(theta0)
	dSa, dSb  []float64
}

// initVelocity precomputes the velocity-regime constants. kneeRatio is the
// ratio of the second to the first velocity knee, identical across sections
// because the irregularity profile scales both knees alike.
func (nl *nonlinearity) initVelocity(kneeRatio float64) {
	n1 := len(nl.poleS)
	nl.sinTheta = make([]float64, n1)
	nl.cosTheta = make([]float64, n1)
	nl.constNL = make([]float64, n1)
	nl.sa = make([]float64, n1)
	nl.sb = make([]float64, n1)

	for i := 0; i < n1; i++ {
		theta0 := math.Atan((nl.poleE[i] - nl.poleS[i]) * poleScale / (kneeRatio - 1))
		theta := theta0 / 2
		sfoc := nl.poleS[i] * poleScale / kneeRatio
		se := math.Sin(theta)

		nl.sinTheta[i] = se
		nl.cosTheta[i] = math.Cos(theta)
		nl.constNL[i] = math.Cos(theta) / math.Cos(2*theta)
		nl.sb[i] = sfoc * se
		nl.sa[i] = sfoc * math.Sqrt(1-se*se)
	}
}

// initDisplacement precomputes the displacement-regime constants. The knees
// are referred to each section by the resonance-frequency ratio against the
// 1 kHz section (index onek).
func (nl *nonlinearity) initDisplacement(rthY1 []float64, kneeRatio float64, omega []float64, onek int) {
	n1 := len(nl.poleS)
	nl.yKneeF = make([]float64, n1)
	nl.dSinTheta = make([]float64, n1)
	nl.dCosTheta = make([]float64, n1)
	nl.dConst = make([]float64, n1)
	nl.dSa = make([]float64, n1)
	nl.dSb = make([]float64, n1)

	for i := 0; i < n1; i++ {
		nl.yKneeF[i] = rthY1[i] * omega[onek] / omega[i]

		theta0 := math.Atan((nl.poleE[i] - nl.poleS[i]) / (kneeRatio - 1))
		theta := theta0 / 2
		cosTheta := math.Cos(theta)
		sinTheta := math.Sin(theta)
		sfoc := nl.poleS[i] * poleScale * kneeRatio

		nl.dSinTheta[i] = sinTheta
		nl.dCosTheta[i] = cosTheta
		nl.dConst[i] = cosTheta / (2*cosTheta*cosTheta - 1)
		nl.dSb[i] = sfoc * sinTheta
		nl.dSa[i] = sfoc * math.Sqrt(1-sinTheta*sinTheta)
	}
}

// candidate computes the pole positions implied by the given state into
// dst, clamped elementwise to the pole ceiling. It reads only committed
// constants and its arguments, so it is safe to call from any evaluation;
// the caller decides whether the result is committed.
func (nl *nonlinearity) candidate(dst, v, y []float64) {
	switch nl.mode {
	case NonlinearityVelocity:
		for i := range dst {
			sxp := (math.Abs(v[i])/nl.vKnee[i] - 1) * nl.constNL[i]
			syp := nl.sb[i] * math.Sqrt(1+(sxp/nl.sa[i])*(sxp/nl.sa[i]))
			sy := sxp*nl.sinTheta[i] + syp*nl.cosTheta[i]
			dst[i] = math.Min(nl.poleS[i]+sy/poleScale, nl.poleE[i])
		}

	case NonlinearityDisplacement:
		for i := range dst {
			sxp := (math.Abs(y[i])/nl.yKneeF[i] - 1) * nl.dConst[i]
			syp := nl.dSb[i] * math.Sqrt(1+(sxp/nl.dSa[i])*(sxp/nl.dSa[i]))
			sy := sxp*nl.dSinTheta[i] + syp*nl.dCosTheta[i]
			dst[i] = math.Min(nl.poleS[i]+sy/poleScale, nl.poleE[i])
		}

	default:
		copy(dst, nl.poleS)
	}
}
