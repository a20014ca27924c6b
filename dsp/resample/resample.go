package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrInvalidFactor indicates a decimation factor below 1.
	ErrInvalidFactor = errors.New("resample: invalid decimation factor")
)

// Quality selects the anti-aliasing filter length.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

// prototype is the Kaiser-windowed sinc design for one quality mode.
type prototype struct {
	tapsPerPhase int
	cutoffScale  float64
	beta         float64
}

var prototypes = map[Quality]prototype{
	QualityFast:     {tapsPerPhase: 16, cutoffScale: 0.88, beta: 5.0},
	QualityBalanced: {tapsPerPhase: 32, cutoffScale: 0.92, beta: 7.5},
	QualityBest:     {tapsPerPhase: 64, cutoffScale: 0.96, beta: 9.0},
}

func (q Quality) prototype() prototype {
	if p, ok := prototypes[q]; ok {
		return p
	}
	return prototypes[QualityBalanced]
}

type options struct {
	quality Quality
	maxDen  int
}

// Option configures a Resampler.
type Option func(*options)

// WithQuality selects the anti-aliasing quality mode.
func WithQuality(q Quality) Option { return func(o *options) { o.quality = q } }

// WithMaxDenominator caps the denominator used when a rate ratio is
// approximated by NewForRates.
func WithMaxDenominator(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDen = n
		}
	}
}

func collect(opts []Option) options {
	o := options{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Resampler converts by up/down with a polyphase FIR. Successive Process
// calls continue the same stream.
type Resampler struct {
	up, down int
	ntaps    int
	branches [][]float64
	memory   int

	phase int
	next  int // absolute index of the input sample for the next output
	seen  int // input samples consumed so far
	tail  []float64
}

// NewRational creates a resampler for the ratio up/down, reduced to lowest
// terms.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}
	g := gcd(up, down)
	up, down = up/g, down/g

	o := collect(opts)
	taps, err := designPrototype(up, down, o.quality.prototype())
	if err != nil {
		return nil, err
	}
	branches, memory := splitBranches(taps, up)

	return &Resampler{
		up:       up,
		down:     down,
		ntaps:    len(taps),
		branches: branches,
		memory:   memory,
		tail:     make([]float64, 0, memory),
	}, nil
}

// NewForRates creates a resampler whose ratio approximates outRate/inRate.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}
	up, down := approximateRatio(outRate/inRate, collect(opts).maxDen)
	return NewRational(up, down, opts...)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

// Ratio returns the reduced conversion factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// Delay is the prototype group delay in output samples.
func (r *Resampler) Delay() float64 {
	return 0.5 * float64(r.ntaps-1) / float64(r.down)
}

// Reset starts a new stream.
func (r *Resampler) Reset() {
	r.phase, r.next, r.seen = 0, 0, 0
	r.tail = r.tail[:0]
}

// Process converts the next block of the stream.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	buf := append(append(make([]float64, 0, len(r.tail)+len(input)), r.tail...), input...)
	first := r.seen - len(r.tail)
	last := r.seen + len(input) - 1

	out := make([]float64, 0, r.PredictOutputLen(len(input)))
	for r.next <= last {
		var acc float64
		for k, c := range r.branches[r.phase] {
			idx := r.next - k
			if idx < first {
				break
			}
			acc += c * buf[idx-first]
		}
		out = append(out, acc)
		r.advance()
	}

	r.seen += len(input)
	keep := min(r.memory, len(buf))
	r.tail = append(r.tail[:0], buf[len(buf)-keep:]...)
	return out
}

// PredictOutputLen returns how many samples the next Process call of
// inputLen samples will produce.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}
	saved := *r
	defer func() { r.phase, r.next = saved.phase, saved.next }()

	n := 0
	for last := r.seen + inputLen - 1; r.next <= last; n++ {
		r.advance()
	}
	return n
}

func (r *Resampler) advance() {
	r.phase += r.down
	r.next += r.phase / r.up
	r.phase %= r.up
}
