// Package ecog loads UCSF electrocorticography blocks.
//
// A block directory holds one HTK file per electrode, named after the
// 64-channel grid and the position on it: channel 1 is Wav11.htk, channel
// 64 is Wav164.htk, channel 65 is Wav21.htk and channel 256 is
// Wav464.htk. Channels known to be noisy are listed on the first line of
// Artifacts/badChannels.txt in the recording directory.
package ecog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-phonetics/dsp/resample"
	"github.com/cwbudde/algo-phonetics/format/htk"
)

const (
	// Channels is the number of electrodes in a block.
	Channels = 256
	// GridSize is the number of electrodes per grid.
	GridSize = 64
	// DefaultDecimate is the decimation factor applied along time.
	DefaultDecimate = 10
)

var (
	// ErrChannel is returned for channel numbers outside 1..Channels.
	ErrChannel = errors.New("ecog: channel out of range")
	// ErrShape is returned when a channel's dimensions differ from channel 1.
	ErrShape = errors.New("ecog: channel shape mismatch")
)

// ChannelFileName returns the HTK file name of channel n (1-based).
func ChannelFileName(n int) (string, error) {
	if n < 1 || n > Channels {
		return "", fmt.Errorf("%w: %d", ErrChannel, n)
	}
	return fmt.Sprintf("Wav%d%d.htk", (n+GridSize-1)/GridSize, (n-1)%GridSize+1), nil
}

type options struct {
	subdir   string
	badFile  string
	decimate int
	workers  int
	log      logrus.FieldLogger
}

// Option configures block loading.
type Option func(*options)

// WithBadChannelsFile sets the artifact directory and file listing bad
// channels, relative to the recording directory.
func WithBadChannelsFile(subdir, name string) Option {
	return func(o *options) { o.subdir, o.badFile = subdir, name }
}

// WithDecimate sets the decimation factor. 1 keeps every frame.
func WithDecimate(q int) Option {
	return func(o *options) { o.decimate = q }
}

// WithWorkers bounds the number of channels loaded concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	o := options{
		subdir:   "Artifacts",
		badFile:  "badChannels.txt",
		decimate: DefaultDecimate,
		workers:  8,
		log:      l,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// BadChannels reads the channel numbers on the first line of the bad
// channel file in dir.
func BadChannels(dir string, opts ...Option) ([]int, error) {
	o := newOptions(opts)
	path := filepath.Join(dir, o.subdir, o.badFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ecog: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("ecog: read %s: %w", path, err)
		}
		return []int{}, nil
	}
	fields := strings.Fields(sc.Text())
	bad := make([]int, 0, len(fields))
	for _, s := range fields {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("ecog: %s: bad channel %q: %w", path, s, err)
		}
		bad = append(bad, n)
	}
	return bad, nil
}

// Block is a loaded recording block.
type Block struct {
	// Data is indexed [channel-1][frame][feature]. Bad channels hold NaN.
	Data [][][]float64 `msgpack:"data"`
	// PeriodMillis is the header frame period times 1e-3, the value
	// historically reported as the block rate.
	PeriodMillis float64 `msgpack:"period_ms"`
	// Rate is the frame rate in Hz after decimation.
	Rate float64 `msgpack:"rate"`
	Bad  []int   `msgpack:"bad"`
}

// Shape returns the channel, frame and feature counts.
func (b *Block) Shape() (channels, frames, features int) {
	channels = len(b.Data)
	if channels > 0 {
		frames = len(b.Data[0])
		if frames > 0 {
			features = len(b.Data[0][0])
		}
	}
	return channels, frames, features
}

// Channel returns the frames of channel n (1-based).
func (b *Block) Channel(n int) ([][]float64, error) {
	if n < 1 || n > len(b.Data) {
		return nil, fmt.Errorf("%w: %d", ErrChannel, n)
	}
	return b.Data[n-1], nil
}

// IsBad reports whether channel n is listed as bad.
func (b *Block) IsBad(n int) bool {
	for _, c := range b.Bad {
		if c == n {
			return true
		}
	}
	return false
}

// LoadBlock reads all channels of dir/block, decimates each one along time
// and assembles them into a Block. Channel 1 fixes the shape; it is read
// even when listed as bad.
func LoadBlock(ctx context.Context, dir, block string, opts ...Option) (*Block, error) {
	o := newOptions(opts)
	if o.decimate < 1 {
		return nil, fmt.Errorf("%w: %d", resample.ErrInvalidFactor, o.decimate)
	}

	bad, err := BadChannels(dir, opts...)
	if err != nil {
		return nil, err
	}
	b := &Block{Data: make([][][]float64, Channels), Bad: bad}
	log := o.log.WithFields(logrus.Fields{"dir": dir, "block": block})

	first, err := readChannel(dir, block, 1)
	if err != nil {
		return nil, err
	}
	frames, features := first.Frames(), first.Features()
	b.PeriodMillis = first.PeriodMillis()
	b.Rate = first.Rate() / float64(o.decimate)
	log.WithFields(logrus.Fields{"frames": frames, "features": features, "bad": len(bad)}).Debug("loading block")

	var g *errgroup.Group
	g, ctx = errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for n := 1; n <= Channels; n++ {
		if b.IsBad(n) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := first
			if n > 1 {
				var err error
				if f, err = readChannel(dir, block, n); err != nil {
					return err
				}
				if f.Frames() != frames || f.Features() != features {
					return fmt.Errorf("%w: channel %d is %dx%d, channel 1 is %dx%d",
						ErrShape, n, f.Frames(), f.Features(), frames, features)
				}
			}
			d, err := decimateFrames(f, o.decimate)
			if err != nil {
				return fmt.Errorf("ecog: channel %d: %w", n, err)
			}
			b.Data[n-1] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outFrames := (frames + o.decimate - 1) / o.decimate
	for i := range b.Data {
		if b.Data[i] == nil {
			b.Data[i] = nanFrames(outFrames, features)
		}
	}
	return b, nil
}

func readChannel(dir, block string, n int) (*htk.File, error) {
	name, err := ChannelFileName(n)
	if err != nil {
		return nil, err
	}
	f, err := htk.ReadFile(filepath.Join(dir, block, name))
	if err != nil {
		return nil, fmt.Errorf("ecog: channel %d: %w", n, err)
	}
	return f, nil
}

// decimateFrames decimates every feature column of f by q.
func decimateFrames(f *htk.File, q int) ([][]float64, error) {
	frames, features := f.Frames(), f.Features()
	out := make([][]float64, (frames+q-1)/q)
	for i := range out {
		out[i] = make([]float64, features)
	}
	if frames == 0 {
		return out, nil
	}
	for j := range features {
		col := f.Column(j)
		if q > 1 {
			var err error
			if col, err = resample.Decimate(col, q); err != nil {
				return nil, err
			}
		}
		for i := range out {
			out[i][j] = col[i]
		}
	}
	return out, nil
}

func nanFrames(frames, features int) [][]float64 {
	out := make([][]float64, frames)
	for i := range out {
		row := make([]float64, features)
		for j := range row {
			row[j] = math.NaN()
		}
		out[i] = row
	}
	return out
}

// Encode writes the block as msgpack.
func (b *Block) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("ecog: encode block: %w", err)
	}
	return nil
}

// DecodeBlock reads a block written by Encode.
func DecodeBlock(r io.Reader) (*Block, error) {
	var b Block
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("ecog: decode block: %w", err)
	}
	return &b, nil
}
