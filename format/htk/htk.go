// Package htk reads and writes HTK parameter files, the per-channel storage
// format of the UCSF ECoG recordings.
//
// A file is a 12-byte big-endian header followed by nSamples frames of
// sampSize bytes each, stored as big-endian float32 values:
//
//	nSamples   int32  number of frames
//	sampPeriod int32  frame period in 100 ns units
//	sampSize   int16  bytes per frame
//	parmKind   int16  parameter kind code and qualifier bits
package htk

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

const headerSize = 12

// maxPrealloc caps the frame slice allocated from the header count; larger
// files grow as frames arrive.
const maxPrealloc = 1 << 16

// Qualifier bits of parmKind that change the payload layout.
const (
	qualCompressed = 0o2000
	qualCRC        = 0o10000
)

var (
	// ErrUnsupportedKind is returned for compressed or checksummed files.
	ErrUnsupportedKind = errors.New("htk: unsupported parameter kind")
	// ErrInvalidHeader is returned for inconsistent headers.
	ErrInvalidHeader = errors.New("htk: invalid header")
)

// File is a decoded HTK parameter file.
type File struct {
	// SampPeriod is the raw header period in 100 ns units.
	SampPeriod int32
	Kind       int16
	// Data holds one row per frame with SampleSize/4 values each.
	Data [][]float64
}

// Frames returns the number of frames.
func (f *File) Frames() int { return len(f.Data) }

// Features returns the number of values per frame.
func (f *File) Features() int {
	if len(f.Data) == 0 {
		return 0
	}
	return len(f.Data[0])
}

// Period returns the frame period.
func (f *File) Period() time.Duration {
	return time.Duration(f.SampPeriod) * 100 * time.Nanosecond
}

// Rate returns the frame rate in Hz.
func (f *File) Rate() float64 {
	if f.SampPeriod <= 0 {
		return 0
	}
	return 1e7 / float64(f.SampPeriod)
}

// PeriodMillis returns sampPeriod*1e-3, the value legacy loaders report as
// the block "rate".
func (f *File) PeriodMillis() float64 {
	return float64(f.SampPeriod) * 1e-3
}

// Column returns feature j of every frame.
func (f *File) Column(j int) []float64 {
	out := make([]float64, len(f.Data))
	for i, row := range f.Data {
		out[i] = row[j]
	}
	return out
}

type header struct {
	NSamples   int32
	SampPeriod int32
	SampSize   int16
	ParmKind   int16
}

// ReadFile reads the HTK file at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("htk: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Read(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read decodes an HTK parameter file from r.
func Read(r io.Reader) (*File, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("htk: read header: %w", err)
	}
	if h.NSamples < 0 || h.SampPeriod <= 0 || h.SampSize <= 0 || h.SampSize%4 != 0 {
		return nil, fmt.Errorf("%w: nSamples=%d sampPeriod=%d sampSize=%d", ErrInvalidHeader, h.NSamples, h.SampPeriod, h.SampSize)
	}
	if h.ParmKind&(qualCompressed|qualCRC) != 0 {
		return nil, fmt.Errorf("%w: parmKind %#o", ErrUnsupportedKind, h.ParmKind)
	}

	width := int(h.SampSize) / 4
	raw := make([]byte, int(h.SampSize))
	f := &File{
		SampPeriod: h.SampPeriod,
		Kind:       h.ParmKind,
		Data:       make([][]float64, 0, min(int(h.NSamples), maxPrealloc)),
	}
	for i := range int(h.NSamples) {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("htk: frame %d of %d: %w", i, h.NSamples, err)
		}
		row := make([]float64, width)
		for j := range row {
			row[j] = float64(math.Float32frombits(binary.BigEndian.Uint32(raw[4*j:])))
		}
		f.Data = append(f.Data, row)
	}
	return f, nil
}

// Write encodes data as an HTK file with the given period (100 ns units)
// and parameter kind. All rows must have the same width.
func Write(w io.Writer, sampPeriod int32, kind int16, data [][]float64) error {
	width := 1
	if len(data) > 0 {
		width = len(data[0])
	}
	h := header{
		NSamples:   int32(len(data)),
		SampPeriod: sampPeriod,
		SampSize:   int16(4 * width),
		ParmKind:   kind,
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("htk: write header: %w", err)
	}

	raw := make([]byte, 4*width)
	for i, row := range data {
		if len(row) != width {
			return fmt.Errorf("htk: row %d has %d values, want %d", i, len(row), width)
		}
		for j, v := range row {
			binary.BigEndian.PutUint32(raw[4*j:], math.Float32bits(float32(v)))
		}
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("htk: write frame %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes an HTK file to path.
func WriteFile(path string, sampPeriod int32, kind int16, data [][]float64) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("htk: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(fh)
	if err := Write(bw, sampPeriod, kind, data); err != nil {
		fh.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		fh.Close()
		return fmt.Errorf("htk: flush %s: %w", path, err)
	}
	return fh.Close()
}
