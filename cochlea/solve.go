package cochlea

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-cochlea/dsp/filter/biquad"
	"github.com/cwbudde/algo-cochlea/dsp/filter/design"
)

// Result holds the output trajectory of a completed solve.
//
// Velocity and Displacement are time-major: one row per stimulus sample,
// one column per probe, in probe order. Emission is the band-pass filtered
// trace of the stapes-coupled section. The JSON names are the contract
// consumed by downstream stages and persistence layers.
type Result struct {
	Velocity          [][]float64 `json:"velocity"`
	Displacement      [][]float64 `json:"displacement"`
	Emission          []float64   `json:"otoacoustic_emission"`
	CenterFrequencies []float64   `json:"center_frequencies"`
	Stats             Stats       `json:"stats"`
}

// Solve integrates the model through the whole stimulus and returns the
// collected trajectory. It blocks until the trajectory is complete; the
// context is checked cooperatively between accepted outer steps.
//
// Solve is valid only on an initialized model. After it returns, the model
// is in the completed state; call Reset (or Init) before solving again.
// On failure the model also leaves the initialized state and must be Reset.
func (m *Model) Solve(ctx context.Context) (*Result, error) {
	switch m.state {
	case stateInitialized:
	case stateUninitialized:
		return nil, ErrNotInitialized
	case stateIntegrating:
		return nil, fmt.Errorf("%w: solve already in progress", ErrNotInitialized)
	default:
		return nil, fmt.Errorf("%w: model already solved, call Reset first", ErrNotInitialized)
	}
	m.state = stateIntegrating

	n1 := m.n + 1
	rows := len(m.stim)
	steps := rows - 2

	res := &Result{
		Velocity:          make([][]float64, rows),
		Displacement:      make([][]float64, rows),
		Emission:          make([]float64, rows),
		CenterFrequencies: m.CenterFrequencies(),
	}
	for j := range res.Velocity {
		res.Velocity[j] = make([]float64, len(m.probeIdx))
		res.Displacement[j] = make([]float64, len(m.probeIdx))
	}

	v := m.ystate[:n1]
	disp := m.ystate[n1:]

	for j := 0; j < steps; j++ {
		if err := ctx.Err(); err != nil {
			m.state = stateCompleted
			return nil, fmt.Errorf("cochlea: solve canceled: %w", err)
		}

		// 4-sample window around sample j for sub-step interpolation.
		if j > 0 {
			m.win[0] = m.stim[j-1]
		} else {
			m.win[0] = 0
		}
		m.win[1] = m.stim[j]
		m.win[2] = m.stim[j+1]
		m.win[3] = m.stim[j+2]

		m.lastT = float64(j) * m.dt
		if err := m.dop.integrate(m.lastT, m.lastT+m.dt, m.ystate); err != nil {
			m.state = stateCompleted
			return nil, &SolveError{Step: j, Time: m.lastT, Err: err}
		}

		if i := firstNonFinite(m.ystate); i >= 0 {
			m.state = stateCompleted
			return nil, &SolveError{Step: j, Time: m.lastT, Err: ErrNumericalInstability}
		}

		m.commitStep(v, disp)

		for k, p := range m.probeIdx {
			res.Velocity[j][k] = v[p]
			res.Displacement[j][k] = disp[p]
		}
		res.Emission[j] = m.lastQ0

		if m.progress != nil {
			m.progress(j+1, steps)
		}
	}

	// Otoacoustic emission: causal band-pass of the boundary coupling trace.
	emissionFilter := biquad.NewChain(
		[]biquad.Coefficients{design.BandpassButterworth(puriaLowHz, puriaHighHz, m.fs)},
		biquad.WithGain(m.q0Factor),
	)
	emissionFilter.ProcessBlock(res.Emission)

	res.Stats = m.dop.stats
	m.state = stateCompleted

	return res, nil
}

// commitStep publishes the persistent state of the just-accepted step:
// the delay buffer gains the new displacement column, and the pole state
// advances if the candidate moved past the 1% threshold. This runs exactly
// once per accepted outer step; rejected and internal-stage evaluations
// never reach it.
func (m *Model) commitStep(v, disp []float64) {
	m.buf.push(disp)

	m.nl.candidate(m.poleCand, v, disp)
	if poleShiftExceeds(m.poleCand, m.sheraP) {
		copy(m.sheraP, m.poleCand)
		m.commitShera()
	}
}

// firstNonFinite returns the index of the first NaN or Inf in s, or -1.
func firstNonFinite(s []float64) int {
	for i, x := range s {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
