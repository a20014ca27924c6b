// Package wav loads and writes mono PCM recordings for analysis.
//
// Samples are kept in integer sample units (a 16-bit file yields values in
// -32768..32767) so that waveform measures see the same numbers a sample
// dump of the file would print.
package wav

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

var (
	// ErrInvalidFile is returned for files that are not PCM WAV.
	ErrInvalidFile = errors.New("wav: not a valid wav file")
	// ErrEmpty is returned for files without sample data.
	ErrEmpty = errors.New("wav: no sample data")
	// ErrFormat is returned by Write for unsupported bit depths or rates.
	ErrFormat = errors.New("wav: unsupported output format")
)

// Sound is a decoded single-channel recording.
type Sound struct {
	Rate     float64
	BitDepth int
	Samples  []float64
}

// Load decodes the wav file at path. Multi-channel files keep their first
// channel.
func Load(path string) (*Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: open %s: %w", path, err)
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: read %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	ch := max(1, buf.Format.NumChannels)
	s := &Sound{
		Rate:     float64(buf.Format.SampleRate),
		BitDepth: buf.SourceBitDepth,
		Samples:  make([]float64, len(buf.Data)/ch),
	}
	for i := range s.Samples {
		s.Samples[i] = float64(buf.Data[i*ch])
	}

	return s, nil
}

// Write encodes samples as a mono PCM wav file. Values are rounded and
// clipped to the range of bitDepth, which must be 8, 16, 24 or 32.
func Write(path string, rate, bitDepth int, samples []float64) error {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d-bit", ErrFormat, bitDepth)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: rate %d", ErrFormat, rate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: create %s: %w", path, err)
	}

	limit := float64(int(1)<<(bitDepth-1)) - 1
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Round(math.Max(-limit-1, math.Min(limit, v))))
	}

	enc := gowav.NewEncoder(f, rate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wav: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wav: finalize %s: %w", path, err)
	}
	return f.Close()
}

// Duration returns the length of the recording in seconds.
func (s *Sound) Duration() float64 {
	if s.Rate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / s.Rate
}

// SampleIndex converts a time to a sample index by truncation.
func (s *Sound) SampleIndex(t float64) int {
	return int(t * s.Rate)
}

// Range returns samples start..end inclusive, clamped to the recording.
// The result aliases the sound's storage.
func (s *Sound) Range(start, end int) []float64 {
	start = max(start, 0)
	end = min(end, len(s.Samples)-1)
	if end < start {
		return nil
	}
	return s.Samples[start : end+1]
}
