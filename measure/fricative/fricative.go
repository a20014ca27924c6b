// Package fricative measures the spectral balance of fricatives: the ratio
// of mel-spectral level in the upper half of the bands to the lower half,
// taken from a short window at the fricative's midpoint.
package fricative

import (
	"context"
	"fmt"
	"io"
	"math"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/analysis/native"
	"github.com/cwbudde/algo-phonetics/corpus"
	"github.com/cwbudde/algo-phonetics/dsp/spectrum"
	"github.com/cwbudde/algo-phonetics/dsp/window"
	"github.com/cwbudde/algo-phonetics/format/textgrid"
	"github.com/cwbudde/algo-phonetics/stats/frequency"
)

// DefaultWindow is the analysis window in seconds.
const DefaultWindow = 0.005

// PhoneTier is the tier searched for fricatives.
const PhoneTier = "phone"

// Pattern matches fricative labels anywhere in the label text.
var Pattern = regexp.MustCompile(`(?i)S|SH|F|V|TH|DH`)

// Result is the spectral balance of one fricative.
type Result struct {
	File     string  `json:"file" yaml:"file"`
	Talker   string  `json:"talker" yaml:"talker"`
	Word     string  `json:"word" yaml:"word"`
	Phone    string  `json:"phone" yaml:"phone"`
	Midpoint float64 `json:"midpoint" yaml:"midpoint"`
	High     float64 `json:"high" yaml:"high"`
	Low      float64 `json:"low" yaml:"low"`
	Ratio    float64 `json:"ratio" yaml:"ratio"`
	// Moments describe the linear power spectrum of the same window.
	Moments frequency.Moments `json:"moments" yaml:"moments"`
	// Freqs and Spectrum are the mel band centres and levels in dB.
	Freqs    []float64 `json:"freqs,omitempty" yaml:"freqs,omitempty"`
	Spectrum []float64 `json:"spectrum,omitempty" yaml:"spectrum,omitempty"`
}

// String formats the result as "<talker> <word> <phone> <high> <low> <ratio>".
func (r Result) String() string {
	return fmt.Sprintf("%s %s %s %g %g %g", r.Talker, r.Word, r.Phone, r.High, r.Low, r.Ratio)
}

// Balance sums the lower and upper halves of a spectrum, leaving out the
// last band of each half: with 60 bands, low is bands 0-28 and high is bands
// 30-58. With an odd band count the middle band opens the upper half.
func Balance(bands []float64) (high, low, ratio float64) {
	half := len(bands) / 2
	low = spectrum.Sum(bands, 0, half-1)
	high = spectrum.Sum(bands, half, len(bands)-1)
	return high, low, high / low
}

// Config holds analysis parameters.
type Config struct {
	// Window is the spectral window in seconds.
	Window  float64
	Bands   int
	LowHz   float64
	Backend analysis.Backend
	Logger  logrus.FieldLogger
}

func normalizeConfig(cfg Config) Config {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Bands <= 0 {
		cfg.Bands = analysis.DefaultBands
	}
	if cfg.LowHz <= 0 {
		cfg.LowHz = analysis.DefaultLowHz
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	if cfg.Backend == nil {
		cfg.Backend = native.New(native.WithLogger(cfg.Logger))
	}
	return cfg
}

// Analyzer computes fricative spectral balance.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: normalizeConfig(cfg)}
}

// Analyze measures every fricative on the recording's phone tier at the
// recording's own sampling rate. Fricatives whose window falls outside the
// recording are logged and skipped.
func (a *Analyzer) Analyze(ctx context.Context, rec corpus.Recording) ([]Result, error) {
	tg, err := textgrid.ReadFile(rec.TextGrid)
	if err != nil {
		return nil, err
	}
	phones, err := tg.Tier(PhoneTier)
	if err != nil {
		return nil, err
	}

	src, err := a.cfg.Backend.Open(ctx, rec.Path, 0)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rate := src.Rate()
	wsamps := int(math.Round(a.cfg.Window * rate))
	log := a.cfg.Logger.WithField("file", rec.Path)
	fft, err := spectrum.NewAnalyzer(max(wsamps, 1), window.TypeHamming)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, f := range phones.Search(Pattern) {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		mid := f.Center()
		start := int(math.Round(mid*rate - float64(wsamps/2)))

		mel, err := src.Mel(ctx, analysis.MelRequest{
			Start:    start,
			End:      start + wsamps - 1,
			FrameLen: wsamps,
			LowHz:    a.cfg.LowHz,
			Bands:    a.cfg.Bands,
		})
		if err != nil {
			log.WithError(err).WithField("phone", f.Text).Warn("fricative skipped")
			continue
		}
		if len(mel.Frames) == 0 {
			log.WithField("phone", f.Text).Warn("fricative produced no spectrum")
			continue
		}

		spec := mel.Frames[0]
		high, low, ratio := Balance(spec)
		moments, err := windowMoments(ctx, src, fft, start, rate)
		if err != nil {
			log.WithError(err).WithField("phone", f.Text).Warn("spectral moments unavailable")
		}
		results = append(results, Result{
			File:     rec.Path,
			Talker:   rec.Talker,
			Word:     rec.Word,
			Phone:    f.Text,
			Midpoint: mid,
			High:     high,
			Low:      low,
			Ratio:    ratio,
			Moments:  moments,
			Freqs:    mel.Freqs,
			Spectrum: spec,
		})
	}
	return results, nil
}

func windowMoments(ctx context.Context, src analysis.Source, fft *spectrum.Analyzer, start int, rate float64) (frequency.Moments, error) {
	x, err := src.Samples(ctx, start, start+fft.FrameLen()-1)
	if err != nil {
		return frequency.Moments{}, err
	}
	power, err := fft.PowerSpectrum(x)
	if err != nil {
		return frequency.Moments{}, err
	}
	return frequency.Calculate(power, rate), nil
}

// AnalyzeTree walks root and analyses every labelled recording, passing
// each result to emit. Recordings that cannot be analysed are logged and
// skipped.
func (a *Analyzer) AnalyzeTree(ctx context.Context, root string, emit func(Result) error) error {
	return corpus.Walk(ctx, root, func(rec corpus.Recording, err error) error {
		log := a.cfg.Logger.WithField("file", rec.Path)
		if err != nil {
			log.WithError(err).Warn("recording skipped")
			return nil
		}
		res, err := a.Analyze(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.WithError(err).Warn("recording skipped")
			return nil
		}
		for _, r := range res {
			if err := emit(r); err != nil {
				return err
			}
		}
		return nil
	})
}
