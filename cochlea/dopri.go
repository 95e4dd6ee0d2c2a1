package cochlea

import "math"

// Stats reports integrator effort for a completed solve.
type Stats struct {
	Steps         int `json:"steps"`          // accepted integrator steps
	RejectedSteps int `json:"rejected_steps"` // error-controlled rejections
	Evaluations   int `json:"evaluations"`    // right-hand-side evaluations
}

// Dormand-Prince 4(5) coefficients.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// Difference between the 5th- and embedded 4th-order weights.
	dpE = [7]float64{
		71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920,
		-17253.0 / 339200, 22.0 / 525, -1.0 / 40,
	}
)

const (
	dpSafety   = 0.9
	dpMinScale = 0.2
	dpMaxScale = 10.0
	// Step sizes below this fraction of the integration interval without
	// meeting tolerance abort the solve.
	dpStepFloor = 1e-12
)

// dopri5 is an embedded Dormand-Prince 4(5) stepper with adaptive,
// error-controlled step size and first-same-as-last reuse.
type dopri5 struct {
	rtol, atol float64
	fn         func(t float64, y, dy []float64)

	h     float64 // carried between integrate calls
	k     [7][]float64
	ynew  []float64
	ytmp  []float64
	stats Stats
}

func newDopri5(dim int, rtol, atol float64, fn func(t float64, y, dy []float64)) *dopri5 {
	s := &dopri5{rtol: rtol, atol: atol, fn: fn}
	for i := range s.k {
		s.k[i] = make([]float64, dim)
	}
	s.ynew = make([]float64, dim)
	s.ytmp = make([]float64, dim)
	return s
}

func (s *dopri5) reset() {
	s.h = 0
	s.stats = Stats{}
}

// integrate advances y in place from t0 to t1 with adaptive sub-steps.
// It returns ErrNumericalInstability if the step size underflows without
// meeting the error tolerance; the adaptive shrinking is the only recovery
// mechanism for transient stiffness.
func (s *dopri5) integrate(t0, t1 float64, y []float64) error {
	span := t1 - t0
	floor := dpStepFloor * span

	t := t0
	h := s.h
	if h <= 0 || h > span {
		h = span
	}

	// The stimulus window changes between integrate calls, so the
	// first-same-as-last derivative cannot be carried across them.
	s.fn(t, y, s.k[0])
	s.stats.Evaluations++

	for t < t1 {
		if t+h > t1 {
			h = t1 - t
		}

		for stage := 1; stage < 7; stage++ {
			a := &dpA[stage]
			for i := range s.ytmp {
				acc := 0.0
				for j := 0; j < stage; j++ {
					acc += a[j] * s.k[j][i]
				}
				s.ytmp[i] = y[i] + h*acc
			}
			// Stage 7 evaluates at the 5th-order solution itself (FSAL).
			if stage == 6 {
				copy(s.ynew, s.ytmp)
			}
			s.fn(t+dpC[stage]*h, s.ytmp, s.k[stage])
			s.stats.Evaluations++
		}

		errNorm := s.errorNorm(y, s.ynew, h)

		if errNorm <= 1 {
			t += h
			copy(y, s.ynew)
			copy(s.k[0], s.k[6])
			s.stats.Steps++

			scale := dpMaxScale
			if errNorm > 0 {
				scale = dpSafety * math.Pow(errNorm, -0.2)
				scale = math.Min(math.Max(scale, dpMinScale), dpMaxScale)
			}
			h *= scale
			continue
		}

		s.stats.RejectedSteps++

		scale := dpSafety * math.Pow(errNorm, -0.2)
		if math.IsNaN(scale) || scale < dpMinScale {
			scale = dpMinScale
		}
		h *= scale

		if h < floor {
			return ErrNumericalInstability
		}
	}

	s.h = h
	return nil
}

// errorNorm returns the RMS of the embedded error estimate scaled by the
// mixed tolerance atol + rtol*max(|y|, |ynew|). Values <= 1 accept the step.
func (s *dopri5) errorNorm(y, ynew []float64, h float64) float64 {
	sum := 0.0
	for i := range y {
		e := 0.0
		for j := 0; j < 7; j++ {
			e += dpE[j] * s.k[j][i]
		}
		e *= h

		sc := s.atol + s.rtol*math.Max(math.Abs(y[i]), math.Abs(ynew[i]))
		r := e / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(y)))
}
