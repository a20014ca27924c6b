// Package textgrid reads Praat TextGrid label files.
//
// Both the long ("ooTextFile" with key = value lines) and the short text
// layouts are accepted, in UTF-8 or BOM-marked UTF-16. The two layouts carry
// the same values in the same order, so the reader tokenizes the file into
// quoted strings, numbers and flags and ignores keys, brackets and
// punctuation.
package textgrid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrTierNotFound is returned by TextGrid.Tier for unknown tier names.
	ErrTierNotFound = errors.New("textgrid: tier not found")
	// ErrSyntax is returned for malformed files.
	ErrSyntax = errors.New("textgrid: syntax error")
)

// Tier classes.
const (
	IntervalTier = "IntervalTier"
	TextTier     = "TextTier"
)

// Interval is a labelled stretch of time.
type Interval struct {
	Start float64
	End   float64
	Text  string
}

// Center returns the midpoint of the interval.
func (iv Interval) Center() float64 { return (iv.Start + iv.End) / 2 }

// Duration returns End - Start.
func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// Point is a labelled instant on a TextTier.
type Point struct {
	Time float64
	Mark string
}

// Tier is a named label tier.
type Tier struct {
	Name      string
	Class     string
	XMin      float64
	XMax      float64
	Intervals []Interval
	Points    []Point
}

// TextGrid is a parsed label file.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []*Tier
}

// Match is an interval found by SearchMatch with its regexp submatches.
type Match struct {
	Interval
	Groups []string
}

// PathFor returns the TextGrid path that accompanies a sound file:
// the same name with the extension replaced by ".TextGrid".
func PathFor(soundPath string) string {
	return strings.TrimSuffix(soundPath, filepath.Ext(soundPath)) + ".TextGrid"
}

// ReadFile parses the TextGrid at path.
func ReadFile(path string) (*TextGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textgrid: open %s: %w", path, err)
	}
	defer f.Close()

	tg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tg, nil
}

// Read parses a TextGrid from r.
func Read(r io.Reader) (*TextGrid, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, fmt.Errorf("textgrid: read: %w", err)
	}

	toks, err := tokenize(string(data))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.textGrid()
}

// Tier returns the tier with the given name.
func (tg *TextGrid) Tier(name string) (*Tier, error) {
	for _, t := range tg.Tiers {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTierNotFound, name)
}

// Search returns the intervals whose text matches re, in time order.
func (t *Tier) Search(re *regexp.Regexp) []Interval {
	var out []Interval
	for _, iv := range t.Intervals {
		if re.MatchString(iv.Text) {
			out = append(out, iv)
		}
	}
	return out
}

// SearchMatch is Search that also returns the submatches of each hit.
func (t *Tier) SearchMatch(re *regexp.Regexp) []Match {
	var out []Match
	for _, iv := range t.Intervals {
		if m := re.FindStringSubmatch(iv.Text); m != nil {
			out = append(out, Match{Interval: iv, Groups: m})
		}
	}
	return out
}

// LabelAt returns the interval that contains time tm. An interval owns its
// start but not its end, except for the last interval of the tier.
func (t *Tier) LabelAt(tm float64) (Interval, bool) {
	for i, iv := range t.Intervals {
		if tm >= iv.Start && (tm < iv.End || (i == len(t.Intervals)-1 && tm == iv.End)) {
			return iv, true
		}
	}
	return Interval{}, false
}
