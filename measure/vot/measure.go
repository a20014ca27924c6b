package vot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/analysis/native"
	"github.com/cwbudde/algo-phonetics/dsp/spectrum"
	"github.com/cwbudde/algo-phonetics/format/textgrid"
)

// Tier names read from the TextGrid.
const (
	PhoneTier = "phone"
	WordTier  = "word"
)

// ErrNoVowel is returned when the phone tier has no vowel to take the
// waveform polarity from.
var ErrNoVowel = errors.New("vot: no vowel on phone tier")

// Status classifies a measurement.
type Status string

const (
	StatusOK Status = "ok"
	// StatusNoBurst marks stops where no candidate pair passed the score
	// threshold.
	StatusNoBurst Status = "no-burst"
	// StatusNoOnset marks stops where voicing never starts after the burst.
	StatusNoOnset Status = "no-onset"
)

// Result is the measurement of one stop.
type Result struct {
	File  string  `json:"file" yaml:"file"`
	Word  string  `json:"word" yaml:"word"`
	Phone string  `json:"phone" yaml:"phone"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	// Burst is the absolute burst time in seconds.
	Burst      float64 `json:"burst,omitempty" yaml:"burst,omitempty"`
	BurstScore float64 `json:"burst_score,omitempty" yaml:"burst_score,omitempty"`
	VOT        float64 `json:"vot" yaml:"vot"`
	Status     Status  `json:"status" yaml:"status"`
}

// String formats the result as "<file> <word> <phone> <vot>". VOT is NA
// when it could not be measured.
func (r Result) String() string {
	v := "NA"
	if r.Status == StatusOK {
		v = strconv.FormatFloat(r.VOT, 'f', -1, 64)
	}
	return fmt.Sprintf("%s %s %s %s", r.File, r.Word, r.Phone, v)
}

// Config holds measurement parameters.
type Config struct {
	// Rate is the analysis sampling rate in Hz.
	Rate float64
	// Step is the voicing frame step and spectral frame length in seconds.
	Step float64
	// Backend opens recordings; the native backend is used when nil.
	Backend analysis.Backend
	Logger  logrus.FieldLogger
}

func normalizeConfig(cfg Config) Config {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
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

// Measurer measures VOT for every stop in a recording.
type Measurer struct {
	cfg Config
}

// NewMeasurer creates a measurer.
func NewMeasurer(cfg Config) *Measurer {
	return &Measurer{cfg: normalizeConfig(cfg)}
}

// Config returns the effective configuration.
func (m *Measurer) Config() Config { return m.cfg }

// Measure reads <stem>.TextGrid next to soundPath and measures every stop on
// its phone tier. Stops that cannot be measured are returned with a
// non-OK status.
func (m *Measurer) Measure(ctx context.Context, soundPath string) ([]Result, error) {
	tg, err := textgrid.ReadFile(textgrid.PathFor(soundPath))
	if err != nil {
		return nil, err
	}
	phones, err := tg.Tier(PhoneTier)
	if err != nil {
		return nil, err
	}
	words, err := tg.Tier(WordTier)
	if err != nil {
		return nil, err
	}

	vowels := phones.Search(VowelPattern)
	if len(vowels) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVowel, soundPath)
	}

	src, err := m.cfg.Backend.Open(ctx, soundPath, m.cfg.Rate)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rate := src.Rate()
	data, err := src.Samples(ctx, int(vowels[0].Start*rate), int(vowels[0].End*rate))
	if err != nil {
		return nil, fmt.Errorf("vot: polarity vowel: %w", err)
	}
	pol := Polarity(data)

	voiced, err := src.Voicing(ctx, m.cfg.Step)
	if err != nil {
		return nil, err
	}

	log := m.cfg.Logger.WithField("file", soundPath)
	log.WithFields(logrus.Fields{"polarity": pol, "frames": len(voiced)}).Debug("measuring stops")

	var results []Result
	for _, phone := range phones.Search(StopPattern) {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := m.measureStop(ctx, src, pol, voiced, phone)
		if err != nil {
			return results, err
		}
		res.File = soundPath
		if w, ok := words.LabelAt(phone.Center()); ok {
			res.Word = w.Text
		}
		if res.Status != StatusOK {
			log.WithFields(logrus.Fields{
				"phone": phone.Text, "start": phone.Start, "status": res.Status,
			}).Warn("stop not measured")
		}
		results = append(results, res)
	}
	return results, nil
}

func (m *Measurer) measureStop(ctx context.Context, src analysis.Source, pol int, voiced []bool, phone textgrid.Interval) (Result, error) {
	rate := src.Rate()
	step := m.cfg.Step
	t := int(step * rate)
	s, e := int(phone.Start*rate), int(phone.End*rate)

	res := Result{Phone: phone.Text, Start: phone.Start, End: phone.End}

	data, err := src.Samples(ctx, s, e)
	if err != nil {
		return res, fmt.Errorf("vot: stop at %.3f: %w", phone.Start, err)
	}
	wave := WaveBurst(data, rate, pol, t)

	mel, err := src.Mel(ctx, analysis.MelRequest{
		Start:    s,
		End:      e,
		FrameLen: t,
		LowHz:    analysis.DefaultLowHz,
		Bands:    analysis.DefaultBands,
	})
	if err != nil {
		return res, fmt.Errorf("vot: stop at %.3f: %w", phone.Start, err)
	}
	spec := SpecBurst(spectrum.Change(mel.Frames), t, rate)

	b, ok := PickBurst(wave, spec)
	if !ok {
		res.Status = StatusNoBurst
		return res, nil
	}
	res.Burst = phone.Start + b.Time
	res.BurstScore = b.Score

	burstFrame := int(math.Round(res.Burst / step))
	startFrame := int(math.Round(phone.Start / step))
	v, ok := VoicingOnset(voiced, burstFrame, startFrame, step)
	if !ok {
		res.Status = StatusNoOnset
		return res, nil
	}
	res.VOT = math.Round(v*1e6) / 1e6
	res.Status = StatusOK
	return res, nil
}
