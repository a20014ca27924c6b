// Package esps implements analysis.Backend on top of the ESPS signal
// processing tools (wav2sd, pplain, fft, melspec, hditem, get_f0) and sox.
//
// Each opened source owns a scratch directory holding the converted
// recording and the intermediate feature files; Close removes it.
package esps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/dsp/window"
)

// ErrNoRate is returned when the sampling rate of a converted file cannot
// be read back from its header.
var ErrNoRate = errors.New("esps: unable to determine sampling rate")

// Backend opens recordings through the ESPS tools.
type Backend struct {
	run Runner
	log logrus.FieldLogger
}

// Option configures the backend.
type Option func(*Backend)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(b *Backend) {
		if r != nil {
			b.run = r
		}
	}
}

// WithBinDir looks the tools up in dir.
func WithBinDir(dir string) Option {
	return func(b *Backend) { b.run = ExecRunner{BinDir: dir} }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns an ESPS backend running tools from PATH.
func New(opts ...Option) *Backend {
	l := logrus.New()
	l.SetOutput(io.Discard)
	b := &Backend{run: ExecRunner{}, log: l}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements analysis.Backend.
func (b *Backend) Name() string { return "esps" }

// Open converts path with sox (resampling to rate when it is non-zero) and
// then to an ESPS sampled-data file.
func (b *Backend) Open(ctx context.Context, path string, rate float64) (analysis.Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("esps: %w", err)
	}
	dir, err := os.MkdirTemp("", "phonetics-esps-")
	if err != nil {
		return nil, fmt.Errorf("esps: scratch dir: %w", err)
	}

	s := &source{backend: b, path: path, dir: dir, sd: filepath.Join(dir, "temp.sd")}
	if err := s.prepare(ctx, rate); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	b.log.WithFields(logrus.Fields{"file": path, "rate": s.rate, "dir": dir}).Debug("esps source ready")
	return s, nil
}

type source struct {
	backend *Backend
	path    string
	dir     string
	sd      string
	rate    float64

	// mu serialises tool runs sharing the scratch files.
	mu     sync.Mutex
	tracks map[float64][]bool
}

func (s *source) prepare(ctx context.Context, rate float64) error {
	tmp := filepath.Join(s.dir, "temp.wav")
	args := []string{s.path, tmp}
	if rate > 0 {
		args = append(args, "rate", formatNumber(rate))
	}
	if _, err := s.backend.run.Run(ctx, "sox", args...); err != nil {
		return err
	}
	if _, err := s.backend.run.Run(ctx, "wav2sd", tmp); err != nil {
		return err
	}

	if rate > 0 {
		s.rate = rate
		return nil
	}
	out, err := s.backend.run.Run(ctx, "hditem", "-i", "record_freq", s.sd)
	if err != nil {
		return err
	}
	v, err := analysis.ParseFloats(string(out))
	if err != nil || len(v) == 0 || v[0] <= 0 {
		return fmt.Errorf("%w: %s", ErrNoRate, s.path)
	}
	s.rate = v[0]
	return nil
}

func (s *source) Path() string  { return s.path }
func (s *source) Rate() float64 { return s.rate }

func (s *source) Close() error {
	return os.RemoveAll(s.dir)
}

func (s *source) Samples(ctx context.Context, start, end int) ([]float64, error) {
	start = max(start, 0)
	if end < start {
		return nil, fmt.Errorf("%w: %d:%d", analysis.ErrRange, start, end)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.backend.run.Run(ctx, "pplain", "-i", fmt.Sprintf("-r%d:%d", start, end), s.sd)
	if err != nil {
		return nil, err
	}
	v, err := analysis.ParseFloats(string(out))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: %d:%d", analysis.ErrRange, start, end)
	}
	return v, nil
}

func (s *source) Mel(ctx context.Context, req analysis.MelRequest) (*analysis.MelFrames, error) {
	if req.Start < 0 || req.End < req.Start {
		return nil, fmt.Errorf("%w: %d:%d", analysis.ErrRange, req.Start, req.End)
	}
	if err := req.Validate(req.End + 1); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fft := filepath.Join(s.dir, "temp1.fea")
	mel := filepath.Join(s.dir, "temp2.fea")
	n := strconv.Itoa(req.FrameLen)
	steps := []struct {
		name string
		args []string
	}{
		{"fft", []string{"-z", "-w" + window.TypeHamming.String(), "-l" + n, "-S" + n, fmt.Sprintf("-r%d:%d", req.Start, req.End), s.sd, fft}},
		{"melspec", []string{fmt.Sprintf("-H%s:%s", formatNumber(req.LowHz), formatNumber(s.rate/2)), "-n" + strconv.Itoa(req.Bands), fft, mel}},
	}
	for _, st := range steps {
		if _, err := s.backend.run.Run(ctx, st.name, st.args...); err != nil {
			return nil, err
		}
	}

	out, err := s.backend.run.Run(ctx, "pplain", "-fre_spec_val", mel)
	if err != nil {
		return nil, err
	}
	frames, err := analysis.ParseRows(string(out))
	if err != nil {
		return nil, err
	}
	out, err = s.backend.run.Run(ctx, "hditem", "-ifreqs", mel)
	if err != nil {
		return nil, err
	}
	freqs, err := analysis.ParseFloats(string(out))
	if err != nil {
		return nil, err
	}

	return &analysis.MelFrames{FrameLen: req.FrameLen, Freqs: freqs, Frames: frames}, nil
}

// Voicing reads the probability-of-voicing column of the recording's .f0
// file, running get_f0 first when the file does not exist yet.
func (s *source) Voicing(ctx context.Context, step float64) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.tracks[step]; ok {
		return v, nil
	}

	f0 := strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".f0"
	if _, err := os.Stat(f0); errors.Is(err, os.ErrNotExist) {
		s.backend.log.WithField("file", f0).Info("running get_f0")
		if _, err := s.backend.run.Run(ctx, "get_f0", "-i", formatNumber(step), s.path, f0); err != nil {
			return nil, err
		}
	}

	out, err := s.backend.run.Run(ctx, "pplain", "-e2", f0)
	if err != nil {
		return nil, err
	}
	prob, err := analysis.ParseFloats(string(out))
	if err != nil {
		return nil, err
	}
	v := make([]bool, len(prob))
	for i, p := range prob {
		v[i] = p >= 0.5
	}
	if s.tracks == nil {
		s.tracks = make(map[float64][]bool)
	}
	s.tracks[step] = v
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
