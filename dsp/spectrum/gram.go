package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-phonetics/dsp/window"
)

// Spectrogram holds consecutive mel spectra of a signal.
type Spectrogram struct {
	Rate     float64
	FrameLen int
	Hop      int
	// Freqs are the mel band centres in Hz.
	Freqs []float64
	// Frames[i] is the dB mel spectrum of the frame starting at sample i*Hop.
	Frames [][]float64
}

// Config describes a mel analysis.
type Config struct {
	FrameLen int
	Hop      int
	Window   window.Type
	LowHz    float64
	// HighHz defaults to the Nyquist frequency when zero.
	HighHz float64
	Bands  int
}

// MelSpectrogram analyses x in frames of cfg.FrameLen samples every cfg.Hop
// samples. Frames start at 0 and continue while the start lies inside x;
// the last frame is zero-padded if it runs past the end.
func MelSpectrogram(x []float64, rate float64, cfg Config) (*Spectrogram, error) {
	if cfg.Hop <= 0 {
		cfg.Hop = cfg.FrameLen
	}
	if cfg.HighHz == 0 {
		cfg.HighHz = rate / 2
	}

	a, err := NewAnalyzer(cfg.FrameLen, cfg.Window)
	if err != nil {
		return nil, err
	}
	bank, err := NewMelBank(rate, a.FFTSize(), cfg.LowHz, cfg.HighHz, cfg.Bands)
	if err != nil {
		return nil, err
	}

	g := &Spectrogram{
		Rate:     rate,
		FrameLen: cfg.FrameLen,
		Hop:      cfg.Hop,
		Freqs:    bank.Centers(),
	}
	for start := 0; start < len(x); start += cfg.Hop {
		end := min(start+cfg.FrameLen, len(x))
		p, err := a.PowerSpectrum(x[start:end])
		if err != nil {
			return nil, fmt.Errorf("spectrum: frame at %d: %w", start, err)
		}
		mel, err := bank.Apply(p)
		if err != nil {
			return nil, err
		}
		g.Frames = append(g.Frames, mel)
	}

	return g, nil
}

// Change returns the first-order time difference of the frames summed over
// bands: change[i] = sum_k frames[i][k] - frames[i-1][k]. The first frame
// has no predecessor and gets 0.
func Change(frames [][]float64) []float64 {
	if len(frames) == 0 {
		return nil
	}
	out := make([]float64, len(frames))
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		var d float64
		for k := range min(len(prev), len(cur)) {
			d += cur[k] - prev[k]
		}
		out[i] = d
	}
	return out
}

// Sum adds the values of a band range [from, to).
func Sum(values []float64, from, to int) float64 {
	from = max(from, 0)
	to = min(to, len(values))
	var s float64
	for i := from; i < to; i++ {
		s += values[i]
	}
	return s
}
