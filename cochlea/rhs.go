package cochlea

import (
	"github.com/cwbudde/algo-cochlea/dsp/interp"
	"github.com/cwbudde/algo-vecmath"
)

// derivative evaluates the state derivative at time t. The state vector y
// is the concatenation of section velocities and displacements, length
// 2*(n+1); dy receives the derivative in the same layout.
//
// The evaluation is pure with respect to persistent model state: it reads
// the committed pole parameters and delay buffer but mutates only scratch.
// The adaptive stepper may call it any number of times per attempted step;
// commits happen separately, once per accepted step.
func (m *Model) derivative(t float64, y, dy []float64) {
	n1 := m.n + 1
	frac := (t - m.lastT) / m.dt

	// Stimulus pressure at the sub-step time, cubic-interpolated over the
	// 4-sample window around the current sample.
	f0 := interp.Cubic4(frac, m.win[0], m.win[1], m.win[2], m.win[3])

	v := y[:n1]
	disp := y[n1:]

	// Delayed displacement seen by the active feedback.
	for i := 0; i < n1; i++ {
		m.yZweig[i] = m.buf.read(i, m.intDelay[i], m.dev[i]+frac)
	}

	// Restoring-force vector: g = (omega*d)*v + omega^2*(y + rho*yZweig).
	// The boundary row is replaced by the stapes damping term.
	vecmath.MulBlock(m.scratch, m.sheraRho, m.yZweig)
	vecmath.AddBlockInPlace(m.scratch, disp)
	vecmath.MulBlockInPlace(m.scratch, m.omega2)
	vecmath.MulBlock(m.g, m.dtot, v)
	vecmath.AddBlockInPlace(m.g, m.scratch)
	m.g[0] = m.dmFactor * v[0]

	// Right-hand side of the coupling system; the boundary row couples the
	// middle-ear pressure into the line.
	vecmath.MulBlock(m.right, m.zasq, m.g)
	m.right[0] = m.g[0] + m.p0x*f0

	m.td.solve(m.q, m.right)
	m.lastQ0 = m.q[0]

	// Velocity derivative; section 0 takes the closed-form stapes boundary
	// term instead of the general formula.
	dy[0] = m.rk40*m.q[0] + m.rk4g0*(m.g[0]+m.p0x*f0)
	for i := 1; i < n1; i++ {
		dy[i] = m.q[i] - m.g[i]
	}

	// Displacement derivative is the velocity itself.
	copy(dy[n1:], v)
}
