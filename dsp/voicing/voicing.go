// Package voicing computes a frame-by-frame voicing decision track, the
// quantity that a pitch tracker's probability-of-voicing column provides.
//
// Frames are spaced Step seconds apart; frame k is centred on k*Step. A frame
// is voiced when it is loud enough relative to the loudest frame, its
// zero-crossing rate is speech-like, and it shows a periodicity between
// MinF0 and MaxF0.
//
// Periodicity is a normalised cross-correlation of a short window at the
// frame centre against the signal one lag earlier or later, whichever
// matches better. A release burst or a phase break on one side of the
// frame then leaves the other direction intact, so voicing that runs up to
// a transient is not lost.
package voicing

import (
	"errors"
	"fmt"
	"math"

	timestats "github.com/cwbudde/algo-phonetics/stats/time"
)

// ErrInvalidOption is returned for out-of-range analysis parameters.
var ErrInvalidOption = errors.New("voicing: invalid option")

// Frame is one analysis frame of a voicing track.
type Frame struct {
	Time   float64
	Voiced bool
	// F0 is the pitch estimate in Hz for voiced frames, 0 otherwise.
	F0 float64
	// Periodicity is the peak normalised cross-correlation in the F0 range.
	Periodicity float64
	RMS         float64
}

type config struct {
	step      float64
	window    float64
	corr      float64
	minF0     float64
	maxF0     float64
	threshold float64
	silenceDB float64
	maxZCR    float64
}

// Option configures Track.
type Option func(*config)

// WithStep sets the frame step in seconds (default 0.005).
func WithStep(s float64) Option { return func(c *config) { c.step = s } }

// WithWindow sets the energy and zero-crossing window in seconds
// (default 0.03).
func WithWindow(s float64) Option { return func(c *config) { c.window = s } }

// WithCorrelationWindow sets the periodicity window in seconds
// (default 0.0075).
func WithCorrelationWindow(s float64) Option { return func(c *config) { c.corr = s } }

// WithF0Range sets the pitch search range in Hz (default 60..500).
func WithF0Range(lo, hi float64) Option {
	return func(c *config) { c.minF0, c.maxF0 = lo, hi }
}

// WithThreshold sets the minimum periodicity for a voiced frame (default 0.45).
func WithThreshold(v float64) Option { return func(c *config) { c.threshold = v } }

// WithSilenceDB sets how far below the loudest frame a frame may be and
// still count as voiced (default 40 dB).
func WithSilenceDB(db float64) Option { return func(c *config) { c.silenceDB = db } }

func (c config) validate() error {
	switch {
	case c.step <= 0:
		return fmt.Errorf("%w: step %v", ErrInvalidOption, c.step)
	case c.window <= 0:
		return fmt.Errorf("%w: window %v", ErrInvalidOption, c.window)
	case c.corr <= 0:
		return fmt.Errorf("%w: correlation window %v", ErrInvalidOption, c.corr)
	case c.minF0 <= 0 || c.maxF0 <= c.minF0:
		return fmt.Errorf("%w: f0 range %v..%v", ErrInvalidOption, c.minF0, c.maxF0)
	case c.threshold <= 0 || c.threshold >= 1:
		return fmt.Errorf("%w: threshold %v", ErrInvalidOption, c.threshold)
	}
	return nil
}

// Track returns one frame per step covering the whole signal.
func Track(x []float64, rate float64, opts ...Option) ([]Frame, error) {
	cfg := config{
		step:      0.005,
		window:    0.03,
		corr:      0.0075,
		minF0:     60,
		maxF0:     500,
		threshold: 0.45,
		silenceDB: 40,
		maxZCR:    0.3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, fmt.Errorf("%w: rate %v", ErrInvalidOption, rate)
	}
	if len(x) == 0 {
		return nil, nil
	}

	half := int(math.Round(cfg.window * rate / 2))
	corrHalf := max(1, int(math.Round(cfg.corr*rate/2)))
	minLag := max(1, int(math.Floor(rate/cfg.maxF0)))
	maxLag := int(math.Ceil(rate / cfg.minF0))

	duration := float64(len(x)) / rate
	n := int(math.Floor(duration/cfg.step)) + 1
	frames := make([]Frame, n)

	loudest := 0.0
	for k := range frames {
		center := int(math.Round(float64(k) * cfg.step * rate))
		seg := x[max(0, center-half):min(len(x), center+half)]
		f := &frames[k]
		f.Time = float64(k) * cfg.step
		f.RMS = timestats.RMS(seg)
		loudest = math.Max(loudest, f.RMS)
		if timestats.ZeroCrossingRate(seg) > cfg.maxZCR {
			continue
		}
		lo, hi := max(0, center-corrHalf), min(len(x), center+corrHalf)
		f.Periodicity, f.F0 = periodicity(x, lo, hi, minLag, maxLag, rate)
	}

	if loudest == 0 {
		return frames, nil
	}
	floor := loudest * math.Pow(10, -cfg.silenceDB/20)
	for k := range frames {
		f := &frames[k]
		f.Voiced = f.RMS >= floor && f.Periodicity >= cfg.threshold
		if !f.Voiced {
			f.F0 = 0
		}
	}

	return frames, nil
}

// Decisions extracts the voiced flags.
func Decisions(frames []Frame) []bool {
	out := make([]bool, len(frames))
	for i, f := range frames {
		out[i] = f.Voiced
	}
	return out
}

// periodicity returns the best normalised cross-correlation between
// x[lo:hi] and the same-length stretch lag samples before or after it, over
// lags [minLag, maxLag], and the matching F0. Directions that would leave x
// are skipped.
func periodicity(x []float64, lo, hi, minLag, maxLag int, rate float64) (float64, float64) {
	if hi-lo < 2 {
		return 0, 0
	}
	win := x[lo:hi]
	best, bestLag := 0.0, 0
	for lag := minLag; lag <= maxLag; lag++ {
		if lo-lag >= 0 {
			if r := ncc(win, x[lo-lag:hi-lag]); r > best {
				best, bestLag = r, lag
			}
		}
		if hi+lag <= len(x) {
			if r := ncc(win, x[lo+lag:hi+lag]); r > best {
				best, bestLag = r, lag
			}
		}
	}
	if bestLag == 0 {
		return 0, 0
	}
	return best, rate / float64(bestLag)
}

func ncc(a, b []float64) float64 {
	var ab, aa, bb float64
	for i, v := range a {
		ab += v * b[i]
		aa += v * v
		bb += b[i] * b[i]
	}
	if aa == 0 || bb == 0 {
		return 0
	}
	return ab / math.Sqrt(aa*bb)
}
