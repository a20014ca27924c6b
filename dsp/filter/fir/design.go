package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-phonetics/dsp/window"
)

// ErrInvalidDesign is returned for unusable tap counts or cutoffs.
var ErrInvalidDesign = errors.New("fir: invalid design parameters")

// Lowpass designs a windowed-sinc low-pass filter with numTaps coefficients.
// cutoff is normalised to the Nyquist frequency and must lie in (0, 1].
// The taps are scaled to unity gain at DC.
func Lowpass(numTaps int, cutoff float64, w window.Type) ([]float64, error) {
	if numTaps <= 0 {
		return nil, fmt.Errorf("%w: numTaps %d", ErrInvalidDesign, numTaps)
	}
	if cutoff <= 0 || cutoff > 1 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: cutoff %v", ErrInvalidDesign, cutoff)
	}

	taps := make([]float64, numTaps)
	win := window.Generate(w, numTaps)
	center := 0.5 * float64(numTaps-1)
	for n := range taps {
		x := float64(n) - center
		taps[n] = cutoff * sinc(cutoff*x) * win[n]
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: zero DC gain", ErrInvalidDesign)
	}
	for i := range taps {
		taps[i] /= sum
	}

	return taps, nil
}

// ZeroPhase filters x with a symmetric odd-length FIR and removes the group
// delay so that output sample i lines up with input sample i. The input is
// extended by reflection at both ends to limit edge transients.
func ZeroPhase(coeffs, x []float64) ([]float64, error) {
	if len(coeffs) == 0 || len(coeffs)%2 == 0 {
		return nil, fmt.Errorf("%w: zero-phase filtering needs an odd tap count, got %d", ErrInvalidDesign, len(coeffs))
	}
	if len(x) == 0 {
		return nil, nil
	}

	f := New(coeffs)
	delay := f.GroupDelay()

	ext := reflectPad(x, delay)
	f.ProcessBlock(ext)

	out := make([]float64, len(x))
	copy(out, ext[2*delay:])

	return out, nil
}

// reflectPad extends x by n samples on each side using odd reflection about
// the end points, which keeps the extension continuous in value and slope.
func reflectPad(x []float64, n int) []float64 {
	out := make([]float64, len(x)+2*n)
	copy(out[n:], x)
	first, last := x[0], x[len(x)-1]
	for i := 1; i <= n; i++ {
		out[n-i] = 2*first - at(x, i)
		out[n+len(x)-1+i] = 2*last - at(x, len(x)-1-i)
	}
	return out
}

// at clamps i into range so that very short signals can still be padded.
func at(x []float64, i int) float64 {
	switch {
	case i < 0:
		return x[0]
	case i >= len(x):
		return x[len(x)-1]
	}
	return x[i]
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}
