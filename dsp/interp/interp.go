package interp

// Linear2 interpolates linearly between x0 and x1 for t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Cubic4 computes 4-point third-order Lagrange interpolation between x0 and
// x1 using neighbor points xm1 and x2, with t in [0,1].
//
// The factored form needs no coefficient precomputation, which makes it the
// cheapest cubic when the four support points change on every call (as they
// do for the stimulus window advanced once per sample).
func Cubic4(t, xm1, x0, x1, x2 float64) float64 {
	d := x1 - x0
	return x0 + t*(d-(1.0/6.0)*(1.0-t)*((x2-xm1-3.0*d)*t+(x2+2.0*xm1-3.0*x0)))
}

// Hermite4 computes 4-point cubic Hermite interpolation between x0 and x1
// using neighbor points xm1 and x2, with t in [0,1].
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
