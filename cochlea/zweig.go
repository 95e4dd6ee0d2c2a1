package cochlea

import "math"

// delayBuffer is the circular per-section history of membrane displacement
// used to model the propagation delay of the active feedback. One row per
// section, one column per sample of committed model time.
//
// Only Solve's commit phase writes to the buffer, exactly once per accepted
// integration step; derivative evaluations are read-only. This keeps
// rejected and internal-stage evaluations of the adaptive stepper from
// leaking into persistent state.
type delayBuffer struct {
	rows  [][]float64
	width int
	write int // column of the most recent committed sample
}

func newDelayBuffer(sections, width int) *delayBuffer {
	b := &delayBuffer{
		rows:  make([][]float64, sections),
		width: width,
	}
	for i := range b.rows {
		b.rows[i] = make([]float64, width)
	}
	return b
}

// push advances the write pointer and stores y as the newest column.
func (b *delayBuffer) push(y []float64) {
	b.write++
	if b.write == b.width {
		b.write = 0
	}
	for i, row := range b.rows {
		row[b.write] = y[i]
	}
}

// read returns the displacement of section i at (intDelay - frac) samples
// before the newest committed column, interpolating linearly between the
// two neighboring columns.
//
// frac may extend into [0,2): the extra unit absorbs the integrator's
// sub-step offset within the current sample. intDelay must be >= 1 so the
// interpolation never reaches past the write head; the feedback delays of
// the physical parameter range are orders of magnitude larger.
func (b *delayBuffer) read(i, intDelay int, frac float64) float64 {
	if frac >= 1 {
		intDelay--
		frac--
	}
	if intDelay < 1 {
		intDelay = 1
	}

	i0 := b.write - intDelay
	if i0 < 0 {
		i0 += b.width
	}
	i1 := i0 + 1
	if i1 == b.width {
		i1 = 0
	}

	row := b.rows[i]
	return row[i0] + frac*(row[i1]-row[i0])
}

// reset zeroes the history and rewinds the write pointer.
func (b *delayBuffer) reset() {
	for _, row := range b.rows {
		for j := range row {
			row[j] = 0
		}
	}
	b.write = 0
}

// computeDelayPointers derives the per-section integer delay and fractional
// remainder from the current feedback delays. The exact delay in samples is
// mu/(omega*dt); the integer delay rounds up so the remainder stays in
// [0,1) and reads always interpolate between two committed columns.
func computeDelayPointers(intDelay []int, dev, mu, omega []float64, dt float64) {
	for i := range mu {
		exact := mu[i] / (omega[i] * dt)
		id := math.Floor(exact) + 1
		intDelay[i] = int(id)
		dev[i] = id - exact
	}
}

// maxDelayWidth returns the buffer width needed to hold the largest
// possible feedback delay for the given resonance frequencies.
func maxDelayWidth(fres []float64, dt float64) int {
	w := 0
	for _, f := range fres {
		d := int(math.Floor(sheraMuMax/(f*dt))) + 1
		if d > w {
			w = d
		}
	}
	return w
}
