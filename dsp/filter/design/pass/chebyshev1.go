package pass

import (
	"math"

	"github.com/cwbudde/algo-phonetics/dsp/filter/biquad"
)

// Chebyshev1LP designs a Chebyshev Type I lowpass of the given order with
// rippleDB of passband ripple. freq is the passband edge, where the gain
// is -rippleDB, and both frequencies share a unit. The analog prototype is
// mapped with the bilinear transform, prewarped at freq.
//
// Each returned section has unity DC gain. The cascade gain to apply with
// biquad.WithGain is returned separately: 10^(-rippleDB/20) for even orders,
// where DC sits at a ripple trough, and 1 for odd orders. nil is returned for
// invalid parameters.
func Chebyshev1LP(freq float64, order int, rippleDB, sampleRate float64) ([]biquad.Coefficients, float64) {
	if order <= 0 || rippleDB <= 0 {
		return nil, 0
	}
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return nil, 0
	}

	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	mu := math.Asinh(1/eps) / float64(order)
	sh, ch := math.Sinh(mu), math.Cosh(mu)

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := range order / 2 {
		theta := float64(2*i+1) * math.Pi / (2 * float64(order))
		re := k * sh * math.Sin(theta)
		im := k * ch * math.Cos(theta)
		sections = append(sections, lowpassSection(2*re, re*re+im*im))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLP(k*sh))
	}

	gain := 1.0
	if order%2 == 0 {
		gain = math.Pow(10, -rippleDB/20)
	}
	return sections, gain
}

// lowpassSection maps w0²/(s² + a·s + w0²) through s = (z-1)/(z+1).
func lowpassSection(a, w0sq float64) biquad.Coefficients {
	d0 := 1 + a + w0sq
	b0 := w0sq / d0
	return biquad.Coefficients{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: 2 * (w0sq - 1) / d0,
		A2: (1 - a + w0sq) / d0,
	}
}

// firstOrderLP maps w/(s + w) through s = (z-1)/(z+1).
func firstOrderLP(w float64) biquad.Coefficients {
	norm := 1 / (1 + w)
	return biquad.Coefficients{
		B0: w * norm,
		B1: w * norm,
		A1: (w - 1) * norm,
	}
}
