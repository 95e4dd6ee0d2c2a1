// Package interp provides the fractional interpolation kernels used by the
// cochlear solver: cubic 4-point interpolation of the stimulus at integrator
// sub-step times, and fractional reads from the feedback delay buffer.
//
// Available kernels, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Cubic4]:   4-point third-order Lagrange in factored form (solver default)
//   - [Hermite4]: 4-point cubic Hermite
package interp
