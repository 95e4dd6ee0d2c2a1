package cochlea

import (
	"math"
	"testing"
)

func TestSheraParams(t *testing.T) {
	// Resting-range poles; all sit below a (~0.091 for this c), where the
	// section is active.
	p := []float64{0.05, 0.061, 0.08}
	d := make([]float64, 3)
	mu := make([]float64, 3)
	rho := make([]float64, 3)

	sheraParams(d, mu, rho, p)

	for i := range p {
		a := (p[i] + math.Sqrt(p[i]*p[i]+sheraC*(1-p[i]*p[i]))) / sheraC

		if got := 1 / a; math.Abs(mu[i]-got) > 1e-12 {
			t.Fatalf("mu[%d] = %v, want %v", i, mu[i], got)
		}
		if got := 2 * (p[i] - a); math.Abs(d[i]-got) > 1e-12 {
			t.Fatalf("d[%d] = %v, want %v", i, d[i], got)
		}
		// Active sections have negative damping and positive feedback gain;
		// damping changes sign only once the pole crosses a.
		if d[i] >= 0 {
			t.Fatalf("d[%d] = %v, want negative", i, d[i])
		}
		if rho[i] <= 0 {
			t.Fatalf("rho[%d] = %v, want positive", i, rho[i])
		}
	}

	// Past a the damping turns positive (passive section).
	dp := make([]float64, 1)
	mp := make([]float64, 1)
	rp := make([]float64, 1)
	sheraParams(dp, mp, rp, []float64{0.5})
	if dp[0] <= 0 {
		t.Fatalf("d = %v for pole 0.5, want positive", dp[0])
	}

	// Larger poles mean more damping (closer to zero from below) and less
	// feedback delay.
	if !(d[0] < d[1] && d[1] < d[2]) {
		t.Fatalf("damping %v not increasing with pole", d)
	}
	if !(mu[0] > mu[1] && mu[1] > mu[2]) {
		t.Fatalf("delay %v not decreasing with pole", mu)
	}
}

func TestPoleShiftExceeds(t *testing.T) {
	cur := []float64{0.061, 0.061, 0.061, 0.061}

	same := append([]float64{}, cur...)
	if poleShiftExceeds(same, cur) {
		t.Fatal("identical poles reported as exceeding")
	}

	// Section 0 is the boundary section and never participates.
	boundary := append([]float64{}, cur...)
	boundary[0] *= 10
	if poleShiftExceeds(boundary, cur) {
		t.Fatal("boundary-only shift reported as exceeding")
	}

	small := append([]float64{}, cur...)
	small[2] *= 1.005
	if poleShiftExceeds(small, cur) {
		t.Fatal("0.5% shift reported as exceeding")
	}

	big := append([]float64{}, cur...)
	big[2] *= 1.02
	if !poleShiftExceeds(big, cur) {
		t.Fatal("2% shift not reported as exceeding")
	}
}

func newTestNonlinearity(mode NonlinearityMode, n1 int) *nonlinearity {
	nl := &nonlinearity{mode: mode}
	nl.poleS = make([]float64, n1)
	nl.poleE = make([]float64, n1)
	nl.vKnee = make([]float64, n1)
	for i := 0; i < n1; i++ {
		nl.poleS[i] = 0.061
		nl.poleE[i] = 0.061 + 0.64
		nl.vKnee[i] = vKnee1
	}
	return nl
}

func TestCandidateVelocitySaturates(t *testing.T) {
	kt := kneeForSlope(0.4)
	nl := newTestNonlinearity(NonlinearityVelocity, 4)
	nl.initVelocity(kt.vKnee2 / vKnee1)

	rest := make([]float64, 4)
	loud := make([]float64, 4)
	zero := make([]float64, 4)
	v := make([]float64, 4)

	nl.candidate(rest, zero, zero)
	for i := range v {
		v[i] = 1 // far above any physical membrane velocity
	}
	nl.candidate(loud, v, zero)

	for i := range rest {
		if math.IsNaN(rest[i]) || math.IsNaN(loud[i]) {
			t.Fatalf("candidate produced NaN at %d", i)
		}
		// Loud input drives the pole up to (and never past) the ceiling.
		if loud[i] != nl.poleE[i] {
			t.Fatalf("loud[%d] = %v, want ceiling %v", i, loud[i], nl.poleE[i])
		}
		if rest[i] >= loud[i] {
			t.Fatalf("rest pole %v not below saturated pole %v", rest[i], loud[i])
		}
		if rest[i] <= 0 {
			t.Fatalf("rest[%d] = %v, want positive", i, rest[i])
		}
	}

	// The transform is monotonic in |v| between rest and saturation.
	prev := rest[0]
	for _, scale := range []float64{0.5, 2, 10, 100} {
		for i := range v {
			v[i] = vKnee1 * scale
		}
		out := make([]float64, 4)
		nl.candidate(out, v, zero)
		if out[0] < prev {
			t.Fatalf("pole decreased from %v to %v at |v| = %v*knee", prev, out[0], scale)
		}
		prev = out[0]
	}
}

func TestCandidateDisplacementSaturates(t *testing.T) {
	kt := kneeForSlope(0.4)
	nl := newTestNonlinearity(NonlinearityDisplacement, 4)

	rthY1 := make([]float64, 4)
	omega := make([]float64, 4)
	for i := range rthY1 {
		rthY1[i] = yKnee1
		omega[i] = 2 * math.Pi * 1000
	}
	nl.initDisplacement(rthY1, kt.yKnee2/yKnee1, omega, 0)

	rest := make([]float64, 4)
	loud := make([]float64, 4)
	zero := make([]float64, 4)
	y := make([]float64, 4)

	nl.candidate(rest, zero, zero)
	for i := range y {
		y[i] = 1 // far above any physical membrane displacement
	}
	nl.candidate(loud, zero, y)

	for i := range rest {
		if math.IsNaN(rest[i]) || math.IsNaN(loud[i]) {
			t.Fatalf("candidate produced NaN at %d", i)
		}
		if loud[i] != nl.poleE[i] {
			t.Fatalf("loud[%d] = %v, want ceiling %v", i, loud[i], nl.poleE[i])
		}
		if rest[i] >= loud[i] {
			t.Fatalf("rest pole %v not below saturated pole %v", rest[i], loud[i])
		}
	}

	// Monotonic in |y| between rest and saturation; velocity input is
	// ignored in this mode.
	prev := rest[0]
	for _, scale := range []float64{0.5, 2, 10, 100} {
		for i := range y {
			y[i] = yKnee1 * scale
		}
		out := make([]float64, 4)
		nl.candidate(out, zero, y)
		if out[0] < prev {
			t.Fatalf("pole decreased from %v to %v at |y| = %v*knee", prev, out[0], scale)
		}
		prev = out[0]
	}
}

func TestCandidateNoneFreezesPoles(t *testing.T) {
	nl := newTestNonlinearity(NonlinearityNone, 3)

	dst := make([]float64, 3)
	v := []float64{1, 1, 1}
	y := []float64{1, 1, 1}
	nl.candidate(dst, v, y)

	for i := range dst {
		if dst[i] != nl.poleS[i] {
			t.Fatalf("dst[%d] = %v, want resting pole %v", i, dst[i], nl.poleS[i])
		}
	}
}

func TestNonlinearityModeString(t *testing.T) {
	if NonlinearityVelocity.String() != "velocity" {
		t.Fatal("velocity mode name")
	}
	if NonlinearityDisplacement.String() != "displacement" {
		t.Fatal("displacement mode name")
	}
	if NonlinearityNone.String() != "none" {
		t.Fatal("none mode name")
	}
	if NonlinearityMode(42).String() != "none" {
		t.Fatal("unknown mode must behave like none")
	}
}
