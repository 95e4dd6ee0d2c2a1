package cochlea

// tridiag solves the banded coupling system with the Thomas algorithm.
//
// The matrix is fixed at initialization, so the forward elimination of the
// coefficient part is factored once; each solve only eliminates the
// right-hand side and back-substitutes, O(n) per call with no allocation.
//
// No pivoting is performed: the coupling matrix is diagonally dominant by
// construction of the physical parameters. Callers supplying pathological
// custom geometry get garbage out, which the solve loop catches as NaN/Inf
// in the state after the step.
type tridiag struct {
	sub []float64 // sub-diagonal, entry i couples row i to i-1 (sub[0] unused)
	cp  []float64 // precomputed upper factors c'
	inv []float64 // precomputed reciprocal pivots
	dp  []float64 // scratch for the transformed right-hand side
}

func newTridiag(sub, diag, sup []float64) *tridiag {
	n := len(diag)
	td := &tridiag{
		sub: sub,
		cp:  make([]float64, n),
		inv: make([]float64, n),
		dp:  make([]float64, n),
	}

	td.inv[0] = 1 / diag[0]
	td.cp[0] = sup[0] * td.inv[0]
	for i := 1; i < n; i++ {
		td.inv[i] = 1 / (diag[i] - sub[i]*td.cp[i-1])
		td.cp[i] = sup[i] * td.inv[i]
	}

	return td
}

// solve computes the solution of the system for the given right-hand side.
// dst and rhs must have the factored length; they may be the same slice.
func (td *tridiag) solve(dst, rhs []float64) {
	n := len(td.dp)

	td.dp[0] = rhs[0] * td.inv[0]
	for i := 1; i < n; i++ {
		td.dp[i] = (rhs[i] - td.sub[i]*td.dp[i-1]) * td.inv[i]
	}

	dst[n-1] = td.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		dst[i] = td.dp[i] - td.cp[i]*dst[i+1]
	}
}
