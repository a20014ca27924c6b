// Package biquad provides second-order IIR section runtimes.
//
// A [Section] runs Direct Form II Transposed for one set of [Coefficients].
// A [Chain] cascades sections for higher-order designs such as the
// Chebyshev anti-alias filter used before decimation.
//
// Coefficient design lives in dsp/filter/design.
package biquad
