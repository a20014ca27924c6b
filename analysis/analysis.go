// Package analysis defines the signal-access layer shared by the phonetic
// measures. A Backend opens a recording as a Source at a chosen sample rate;
// the Source then serves sample ranges, short-time mel spectra and a
// voicing track.
//
// Two backends exist: [native] computes everything in-process, and [esps]
// drives the ESPS command-line tools the measures were first written
// against.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Mel analysis defaults shared by all measures: 60 bands from 300 Hz to
// the Nyquist frequency.
const (
	DefaultLowHz = 300
	DefaultBands = 60
)

// ErrRange is returned for sample ranges outside a recording.
var ErrRange = errors.New("analysis: sample range out of bounds")

// MelRequest selects consecutive, non-overlapping mel frames.
type MelRequest struct {
	// Start and End are inclusive sample indices.
	Start, End int
	FrameLen   int
	LowHz      float64
	Bands      int
}

// Validate checks the request against a recording of n samples.
func (r MelRequest) Validate(n int) error {
	switch {
	case r.FrameLen <= 0:
		return fmt.Errorf("analysis: frame length must be > 0: %d", r.FrameLen)
	case r.Bands <= 0:
		return fmt.Errorf("analysis: band count must be > 0: %d", r.Bands)
	case r.Start < 0 || r.End < r.Start || r.Start >= n:
		return fmt.Errorf("%w: %d:%d of %d", ErrRange, r.Start, r.End, n)
	}
	return nil
}

// MelFrames is the result of a mel analysis.
type MelFrames struct {
	FrameLen int
	// Freqs holds the band centre frequencies in Hz.
	Freqs []float64
	// Frames[i] holds band levels in dB for the frame starting at
	// Start + i*FrameLen.
	Frames [][]float64
}

// Source is an opened recording.
type Source interface {
	// Path is the recording the source was opened from.
	Path() string
	// Rate is the analysis sample rate in Hz.
	Rate() float64
	// Samples returns samples start..end inclusive, clamped to the recording.
	Samples(ctx context.Context, start, end int) ([]float64, error)
	// Mel returns mel spectra for the requested range.
	Mel(ctx context.Context, req MelRequest) (*MelFrames, error)
	// Voicing returns one voiced/unvoiced decision per step seconds, frame k
	// centred on k*step.
	Voicing(ctx context.Context, step float64) ([]bool, error)
	Close() error
}

// Backend opens recordings. A rate of 0 keeps the file's own rate.
type Backend interface {
	Name() string
	Open(ctx context.Context, path string, rate float64) (Source, error)
}

// ParseFloats parses whitespace-separated numbers.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("analysis: parse %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseRows parses one row of whitespace-separated numbers per non-empty
// line.
func ParseRows(s string) ([][]float64, error) {
	var rows [][]float64
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseFloats(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
