package cochlea

import (
	"math"
	"testing"
)

func TestDelayBufferReadback(t *testing.T) {
	b := newDelayBuffer(2, 4)

	b.push([]float64{1, 10})
	b.push([]float64{2, 20})
	b.push([]float64{3, 30})

	// intDelay=1, frac=0 reads one committed column back.
	if got := b.read(0, 1, 0); got != 2 {
		t.Fatalf("read(0,1,0) = %v, want 2", got)
	}
	if got := b.read(1, 1, 0); got != 20 {
		t.Fatalf("read(1,1,0) = %v, want 20", got)
	}
	if got := b.read(0, 2, 0); got != 1 {
		t.Fatalf("read(0,2,0) = %v, want 1", got)
	}

	// Fractional reads interpolate toward the newer column.
	if got := b.read(0, 2, 0.5); got != 1.5 {
		t.Fatalf("read(0,2,0.5) = %v, want 1.5", got)
	}
	// frac >= 1 folds into one fewer integer delay.
	if got, want := b.read(0, 2, 1.25), b.read(0, 1, 0.25); got != want {
		t.Fatalf("read(0,2,1.25) = %v, want %v", got, want)
	}
}

func TestDelayBufferWraps(t *testing.T) {
	b := newDelayBuffer(1, 3)

	for i := 1; i <= 7; i++ {
		b.push([]float64{float64(i)})
	}
	// Only the 3 newest columns survive: 5, 6, 7.
	if got := b.read(0, 1, 0); got != 6 {
		t.Fatalf("read(0,1,0) = %v, want 6", got)
	}
	if got := b.read(0, 2, 0); got != 5 {
		t.Fatalf("read(0,2,0) = %v, want 5", got)
	}
}

func TestDelayBufferReset(t *testing.T) {
	b := newDelayBuffer(2, 4)
	b.push([]float64{1, 2})
	b.push([]float64{3, 4})

	b.reset()
	if b.write != 0 {
		t.Fatalf("write = %d after reset, want 0", b.write)
	}
	for d := 1; d < 4; d++ {
		if got := b.read(0, d, 0); got != 0 {
			t.Fatalf("read(0,%d,0) = %v after reset, want 0", d, got)
		}
	}
}

func TestComputeDelayPointers(t *testing.T) {
	const dt = 1.0 / 20000

	mu := []float64{10.9, 8.2, 11.5}
	omega := []float64{2 * math.Pi * 8000, 2 * math.Pi * 1000, 2 * math.Pi * 120}

	intDelay := make([]int, 3)
	dev := make([]float64, 3)
	computeDelayPointers(intDelay, dev, mu, omega, dt)

	for i := range mu {
		exact := mu[i] / (omega[i] * dt)

		if intDelay[i] < 1 {
			t.Fatalf("intDelay[%d] = %d, want >= 1", i, intDelay[i])
		}
		if dev[i] < 0 || dev[i] >= 1 {
			t.Fatalf("dev[%d] = %v, want in [0,1)", i, dev[i])
		}
		// The integer pointer minus the deviation recovers the exact delay.
		if got := float64(intDelay[i]) - dev[i]; math.Abs(got-exact) > 1e-12 {
			t.Fatalf("intDelay[%d]-dev[%d] = %v, want %v", i, i, got, exact)
		}
	}
}

func TestDelayedReadMatchesAnalyticDelay(t *testing.T) {
	const dt = 1.0 / 20000

	mu := []float64{10.9}
	omega := []float64{2 * math.Pi * 800}
	intDelay := make([]int, 1)
	dev := make([]float64, 1)
	computeDelayPointers(intDelay, dev, mu, omega, dt)

	exact := mu[0] / (omega[0] * dt)

	// Feed a unit ramp through the buffer. Linear interpolation is exact on
	// a ramp, so the delayed read must equal the write index minus the
	// analytic delay, not just the integer pointer.
	b := newDelayBuffer(1, intDelay[0]+4)
	for j := 0; j <= intDelay[0]+2; j++ {
		b.push([]float64{float64(j)})

		if j < intDelay[0] {
			continue
		}
		got := b.read(0, intDelay[0], dev[0])
		want := float64(j) - exact
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: delayed read = %v, want %v (exact delay %v)",
				j, got, want, exact)
		}
	}
}

func TestMaxDelayWidthCoversAllSections(t *testing.T) {
	const dt = 1.0 / 20000
	fres := testResonanceMap(50)

	w := maxDelayWidth(fres, dt)

	// The width must hold the worst-case feedback delay of every section.
	for _, f := range fres {
		need := int(math.Floor(sheraMuMax/(f*dt))) + 1
		if need > w {
			t.Fatalf("width %d too small for section at %v Hz (needs %d)", w, f, need)
		}
	}
	// The slowest (apical) section dominates.
	apex := int(math.Floor(sheraMuMax/(fres[len(fres)-1]*dt))) + 1
	if w != apex {
		t.Fatalf("width = %d, want %d from the apical section", w, apex)
	}
}
