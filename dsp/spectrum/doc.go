// Package spectrum provides the short-time spectral analysis used by the
// burst detector and the fricative balance measure: windowed FFT power
// spectra, mel-scaled band energies in dB, and frame-to-frame spectral
// change.
//
// FFTs are computed with algo-fft plans sized to the next power of two at
// or above the analysis window, with the frame zero-padded to fit.
package spectrum
