package resample

import (
	"fmt"

	"github.com/cwbudde/algo-phonetics/dsp/filter/biquad"
	"github.com/cwbudde/algo-phonetics/dsp/filter/design/pass"
	"github.com/cwbudde/algo-phonetics/dsp/filter/fir"
	"github.com/cwbudde/algo-phonetics/dsp/window"
)

// Anti-alias filter of the default IIR decimator.
const (
	DecimateOrder    = 8
	DecimateRippleDB = 0.05
)

// FilterType selects the anti-alias filter used by Decimate.
type FilterType int

const (
	// FilterIIR is an order-8 Chebyshev Type I lowpass with 0.05 dB ripple
	// and its edge at 0.8/q of Nyquist, run forwards and backwards.
	FilterIIR FilterType = iota
	// FilterFIR is a Hamming-windowed FIR of 20*q+1 taps with cutoff 1/q
	// of Nyquist, applied with its delay removed.
	FilterFIR
)

type decimateConfig struct {
	filter FilterType
}

// DecimateOption configures Decimate.
type DecimateOption func(*decimateConfig)

// WithFilter selects the anti-alias filter (default FilterIIR).
func WithFilter(f FilterType) DecimateOption {
	return func(c *decimateConfig) { c.filter = f }
}

// Decimate reduces the sample rate by the integer factor q. The signal is
// low-passed with zero phase and every q-th sample, starting at index 0,
// is kept. The output has ceil(len(x)/q) samples.
func Decimate(x []float64, q int, opts ...DecimateOption) ([]float64, error) {
	if q < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, q)
	}
	if len(x) == 0 {
		return nil, nil
	}
	if q == 1 {
		return append([]float64(nil), x...), nil
	}

	cfg := decimateConfig{filter: FilterIIR}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var (
		filtered []float64
		err      error
	)
	switch cfg.filter {
	case FilterFIR:
		filtered, err = decimateFIR(x, q)
	default:
		filtered, err = decimateIIR(x, q)
	}
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, (len(x)+q-1)/q)
	for i := 0; i < len(filtered); i += q {
		out = append(out, filtered[i])
	}

	return out, nil
}

func decimateFIR(x []float64, q int) ([]float64, error) {
	taps, err := fir.Lowpass(20*q+1, 1/float64(q), window.TypeHamming)
	if err != nil {
		return nil, err
	}
	return fir.ZeroPhase(taps, x)
}

func decimateIIR(x []float64, q int) ([]float64, error) {
	// Frequencies relative to a sample rate of 2, so Nyquist is 1.
	sections, gain := pass.Chebyshev1LP(0.8/float64(q), DecimateOrder, DecimateRippleDB, 2)
	if sections == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, q)
	}
	return filtFilt(biquad.NewChain(sections, biquad.WithGain(gain)), DecimateOrder, x), nil
}

// filtFilt runs ch forwards and then backwards over x. x is first extended
// at both ends by odd reflection over 3*(order+1) samples, fewer for short
// inputs, and each pass starts in the steady state for its first sample.
func filtFilt(ch *biquad.Chain, order int, x []float64) []float64 {
	pad := min(3*(order+1), len(x)-1)
	ext := oddExtend(x, pad)

	ch.Reset()
	ch.Settle(ext[0])
	ch.ProcessBlock(ext)

	reverse(ext)
	ch.Reset()
	ch.Settle(ext[0])
	ch.ProcessBlock(ext)
	reverse(ext)

	return ext[pad : pad+len(x)]
}

// oddExtend returns x with n samples added at each end, reflected about the
// end points: x[-i] = 2*x[0] - x[i].
func oddExtend(x []float64, n int) []float64 {
	out := make([]float64, len(x)+2*n)
	copy(out[n:], x)
	first, last := x[0], x[len(x)-1]
	for i := 1; i <= n; i++ {
		out[n-i] = 2*first - x[i]
		out[n+len(x)-1+i] = 2*last - x[len(x)-1-i]
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
