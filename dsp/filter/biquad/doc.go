// Package biquad implements second-order IIR filter sections and cascades.
//
// The cochlear model uses these for the middle-ear (Puria) band-pass applied
// to the stimulus at initialization and for the otoacoustic-emission band-pass
// applied to the basal-section trace after a solve. All filtering is causal
// and single-pass; the outputs carry the phase response of the filter.
package biquad
