// Package pass designs lowpass IIR filters as biquad cascades.
package pass
