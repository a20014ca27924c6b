// Package fir provides a direct-form FIR filter runtime together with the
// windowed-sinc low-pass design used for anti-alias filtering ahead of
// decimation.
//
// A [Filter] applies pre-computed coefficients through a circular-buffer
// delay line. [ZeroPhase] wraps it for offline signals where output samples
// must stay time-aligned with the input, as required when label times are
// compared against filtered data.
package fir
