// Package native implements analysis.Backend in-process: recordings are
// decoded with format/wav, resampled with dsp/resample, and analysed with
// dsp/spectrum and dsp/voicing.
package native

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/dsp/resample"
	"github.com/cwbudde/algo-phonetics/dsp/spectrum"
	"github.com/cwbudde/algo-phonetics/dsp/voicing"
	"github.com/cwbudde/algo-phonetics/dsp/window"
	"github.com/cwbudde/algo-phonetics/format/wav"
)

// Backend is the in-process analysis backend.
type Backend struct {
	log     logrus.FieldLogger
	voicing []voicing.Option
}

// Option configures the backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// WithVoicingOptions passes options to the voicing tracker.
func WithVoicingOptions(opts ...voicing.Option) Option {
	return func(b *Backend) { b.voicing = append(b.voicing, opts...) }
}

// New returns a native backend.
func New(opts ...Option) *Backend {
	b := &Backend{log: discard()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements analysis.Backend.
func (b *Backend) Name() string { return "native" }

// Open decodes path and converts it to rate when rate is non-zero and
// differs from the file's rate.
func (b *Backend) Open(ctx context.Context, path string, rate float64) (analysis.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snd, err := wav.Load(path)
	if err != nil {
		return nil, err
	}

	samples := snd.Samples
	if rate > 0 && rate != snd.Rate {
		b.log.WithFields(logrus.Fields{"file": path, "from": snd.Rate, "to": rate}).Debug("resampling")
		samples, err = resample.Convert(snd.Samples, snd.Rate, rate, resample.WithQuality(resample.QualityBest))
		if err != nil {
			return nil, fmt.Errorf("native: resample %s: %w", path, err)
		}
	} else {
		rate = snd.Rate
	}

	return &source{backend: b, path: path, rate: rate, samples: samples}, nil
}

type source struct {
	backend *Backend
	path    string
	rate    float64
	samples []float64

	mu     sync.Mutex
	tracks map[float64][]bool
}

func (s *source) Path() string  { return s.path }
func (s *source) Rate() float64 { return s.rate }
func (s *source) Close() error  { return nil }

func (s *source) Samples(ctx context.Context, start, end int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = max(start, 0)
	end = min(end, len(s.samples)-1)
	if end < start {
		return nil, fmt.Errorf("%w: %d:%d of %d", analysis.ErrRange, start, end, len(s.samples))
	}
	return append([]float64(nil), s.samples[start:end+1]...), nil
}

func (s *source) Mel(ctx context.Context, req analysis.MelRequest) (*analysis.MelFrames, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(len(s.samples)); err != nil {
		return nil, err
	}
	end := min(req.End, len(s.samples)-1)

	g, err := spectrum.MelSpectrogram(s.samples[req.Start:end+1], s.rate, spectrum.Config{
		FrameLen: req.FrameLen,
		Hop:      req.FrameLen,
		Window:   window.TypeHamming,
		LowHz:    req.LowHz,
		Bands:    req.Bands,
	})
	if err != nil {
		return nil, fmt.Errorf("native: mel analysis of %s: %w", s.path, err)
	}
	return &analysis.MelFrames{FrameLen: req.FrameLen, Freqs: g.Freqs, Frames: g.Frames}, nil
}

func (s *source) Voicing(ctx context.Context, step float64) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.tracks[step]; ok {
		return v, nil
	}

	opts := append([]voicing.Option{voicing.WithStep(step)}, s.backend.voicing...)
	frames, err := voicing.Track(s.samples, s.rate, opts...)
	if err != nil {
		return nil, fmt.Errorf("native: voicing of %s: %w", s.path, err)
	}
	v := voicing.Decisions(frames)
	if s.tracks == nil {
		s.tracks = make(map[float64][]bool)
	}
	s.tracks[step] = v
	s.backend.log.WithFields(logrus.Fields{"file": s.path, "frames": len(v)}).Debug("voicing track computed")
	return v, nil
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
