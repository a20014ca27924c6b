package vot

import (
	"math"
	"regexp"

	timestats "github.com/cwbudde/algo-phonetics/stats/time"
)

const (
	// DefaultStep is the voicing track and spectral frame step in seconds.
	DefaultStep = 0.005
	// DefaultRate is the analysis sampling rate in Hz.
	DefaultRate = 16000
	// PairTolerance is the largest distance in seconds between a waveform
	// and a spectral candidate that still counts as the same burst.
	PairTolerance = 0.004
	// ScoreThreshold is the lowest burst score accepted, exclusive.
	ScoreThreshold = -2.0
)

var (
	// StopPattern matches stop consonant labels.
	StopPattern = regexp.MustCompile(`^(P|B|T|D|K|G)$`)
	// VowelPattern matches vowel labels with an optional stress digit.
	VowelPattern = regexp.MustCompile(`^(?P<vowel>AA|AE|AH|AO|AW|AXR|AX|AY|EH|ER|EY|IH|IX|IY|OW|OY|UH|UW|UX)(?P<stress>\d)?$`)
)

// Candidate is a ranked burst location. Time is relative to the start of
// the analysed segment.
type Candidate struct {
	Score float64
	Time  float64
}

// Ranking holds the three highest scoring candidates in descending order.
// Empty slots have a zero score.
type Ranking [3]Candidate

// Insert places a candidate, pushing lower entries down. Scores that do not
// beat an existing entry are dropped, so equal scores keep the earlier time.
func (r *Ranking) Insert(score, time float64) {
	for i := range r {
		if score > r[i].Score {
			copy(r[i+1:], r[i:len(r)-1])
			r[i] = Candidate{Score: score, Time: time}
			return
		}
	}
}

// Candidates returns the filled entries.
func (r Ranking) Candidates() []Candidate {
	out := make([]Candidate, 0, len(r))
	for _, c := range r {
		if c.Score > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Polarity reports +1 when the largest positive excursion of d is at least
// as large as the largest negative one and -1 otherwise.
func Polarity(d []float64) int {
	neg, pos := timestats.Extremes(d)
	if -neg > pos {
		return -1
	}
	return 1
}

// WaveBurst ranks peaks (pol > 0) or valleys (pol < 0) of d by the size of
// the step into the extremum relative to the mean absolute first difference
// over the preceding t samples. Candidate times are loc/rate.
func WaveBurst(d []float64, rate float64, pol, t int) Ranking {
	var r Ranking
	if t < 2 {
		return r
	}
	for loc := t + 1; loc < len(d)-2; loc++ {
		a, b, c := d[loc], d[loc+1], d[loc+2]
		if !(pol > 0 && a < b && b > c) && !(pol < 0 && a > b && b < c) {
			continue
		}
		var ave float64
		for i := t; i > 1; i-- {
			ave += math.Abs(d[loc-i] - d[loc-i-1])
		}
		ave /= float64(t)
		if ave == 0 {
			continue
		}
		r.Insert(math.Abs(a-b)/ave, float64(loc)/rate)
	}
	return r
}

// SpecBurst ranks frames by their spectral change. Frame i starts
// i*frameLen samples into the segment.
func SpecBurst(change []float64, frameLen int, rate float64) Ranking {
	var r Ranking
	for loc, d := range change {
		r.Insert(d, float64(loc*frameLen)/rate)
	}
	return r
}

// Score is the discriminant score of a waveform/spectral candidate pair.
func Score(wave, spec float64) float64 {
	return -1.814 + 0.618*math.Log(wave) + 0.003*spec
}

// Burst is the selected burst candidate.
type Burst struct {
	// Time is the waveform candidate's time.
	Time      float64
	WaveScore float64
	SpecScore float64
	Score     float64
}

// PickBurst pairs each waveform candidate with the last spectral candidate
// closer than PairTolerance and returns the best scoring pair above
// ScoreThreshold.
func PickBurst(wave, spec Ranking) (Burst, bool) {
	var (
		best  Burst
		found bool
	)
	maxScore := ScoreThreshold
	for _, w := range wave.Candidates() {
		var (
			pair   Candidate
			paired bool
		)
		for _, s := range spec.Candidates() {
			if math.Abs(w.Time-s.Time) < PairTolerance {
				pair, paired = s, true
			}
		}
		if !paired {
			continue
		}
		if b := Score(w.Score, pair.Score); b > maxScore {
			maxScore = b
			best = Burst{Time: w.Time, WaveScore: w.Score, SpecScore: pair.Score, Score: b}
			found = true
		}
	}
	return best, found
}

// VoicingOnset measures VOT in seconds from a voicing track. burstFrame and
// startFrame index voiced; startFrame is the start of the stop. ok is false
// when no voicing follows a voiceless burst or the burst lies outside the
// track.
func VoicingOnset(voiced []bool, burstFrame, startFrame int, step float64) (vot float64, ok bool) {
	if burstFrame < 0 || burstFrame >= len(voiced) {
		return 0, false
	}
	if burstFrame > 0 && voiced[burstFrame-1] {
		i := 1
		for burstFrame-i > startFrame && burstFrame-i > 0 && voiced[burstFrame-i] {
			i++
		}
		return -float64(i) * step, true
	}
	for i := 0; burstFrame+i < len(voiced); i++ {
		if voiced[burstFrame+i] {
			return float64(i) * step, true
		}
	}
	return 0, false
}
