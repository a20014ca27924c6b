package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-phonetics/dsp/window"
)

var (
	// ErrInvalidFrame is returned for non-positive frame lengths.
	ErrInvalidFrame = errors.New("spectrum: invalid frame length")
	// ErrFrameTooLong is returned when a frame exceeds the analyzer length.
	ErrFrameTooLong = errors.New("spectrum: frame longer than analysis window")
)

// Analyzer computes windowed power spectra of fixed-length frames.
// It is not safe for concurrent use.
type Analyzer struct {
	frameLen int
	fftSize  int
	win      []float64
	plan     *algofft.Plan[complex128]
	in       []complex128
	out      []complex128
}

// NewAnalyzer creates an analyzer for frames of frameLen samples weighted by
// window type w. The FFT size is the next power of two >= frameLen.
func NewAnalyzer(frameLen int, w window.Type) (*Analyzer, error) {
	if frameLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrame, frameLen)
	}

	n := nextPowerOf2(frameLen)
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	return &Analyzer{
		frameLen: frameLen,
		fftSize:  n,
		win:      window.Generate(w, frameLen),
		plan:     plan,
		in:       make([]complex128, n),
		out:      make([]complex128, n),
	}, nil
}

// FrameLen returns the analysis window length in samples.
func (a *Analyzer) FrameLen() int { return a.frameLen }

// FFTSize returns the transform size.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// PowerSpectrum returns |X[k]|^2 for k = 0..FFTSize/2 of the windowed frame.
// Frames shorter than the analysis window are zero-padded at the end.
func (a *Analyzer) PowerSpectrum(frame []float64) ([]float64, error) {
	if len(frame) > a.frameLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLong, len(frame), a.frameLen)
	}

	clear(a.in)
	for i, v := range frame {
		a.in[i] = complex(v*a.win[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: FFT failed: %w", err)
	}

	return Power(a.out[:a.fftSize/2+1]), nil
}

// BinFrequency returns the centre frequency of bin k at the given rate.
func (a *Analyzer) BinFrequency(k int, rate float64) float64 {
	return float64(k) * rate / float64(a.fftSize)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
