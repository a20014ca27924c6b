package textgrid

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokString tokenKind = iota
	tokNumber
	tokFlag
)

type token struct {
	kind tokenKind
	text string
	num  float64
	line int
}

// tokenize extracts quoted strings, numbers and <flags>. Identifiers,
// "=" and ":" separators and bracketed indices such as [3] are skipped.
func tokenize(s string) ([]token, error) {
	var toks []token
	line := 1
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '\n':
			line++
		case c == '"':
			var b strings.Builder
			start := line
			closed := false
			for i++; i < len(rs); i++ {
				if rs[i] == '"' {
					if i+1 < len(rs) && rs[i+1] == '"' {
						b.WriteRune('"')
						i++
						continue
					}
					closed = true
					break
				}
				if rs[i] == '\n' {
					line++
				}
				b.WriteRune(rs[i])
			}
			if !closed {
				return nil, fmt.Errorf("%w: line %d: unterminated string", ErrSyntax, start)
			}
			toks = append(toks, token{kind: tokString, text: b.String(), line: start})
		case c == '[':
			for i < len(rs) && rs[i] != ']' {
				i++
			}
		case c == '<':
			j := i
			for j < len(rs) && rs[j] != '>' {
				j++
			}
			if j == len(rs) {
				return nil, fmt.Errorf("%w: line %d: unterminated flag", ErrSyntax, line)
			}
			toks = append(toks, token{kind: tokFlag, text: string(rs[i+1 : j]), line: line})
			i = j
		case c == '!':
			// Comment to end of line.
			for i+1 < len(rs) && rs[i+1] != '\n' {
				i++
			}
		case c == '-' || c == '+' || c == '.' || unicode.IsDigit(c):
			j := i
			for j < len(rs) && !unicode.IsSpace(rs[j]) && rs[j] != '"' && rs[j] != '!' {
				j++
			}
			v, err := strconv.ParseFloat(string(rs[i:j]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad number %q", ErrSyntax, line, string(rs[i:j]))
			}
			toks = append(toks, token{kind: tokNumber, num: v, line: line})
			i = j - 1
		case unicode.IsLetter(c) || c == '_':
			// Keys such as xmin, intervals, size; keep digits that belong
			// to them (e.g. "item2") out of the number stream.
			for i+1 < len(rs) && (unicode.IsLetter(rs[i+1]) || unicode.IsDigit(rs[i+1]) || rs[i+1] == '_' || rs[i+1] == '?') {
				i++
			}
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) next() (token, error) {
	if p.pos >= len(p.toks) {
		return token{}, fmt.Errorf("%w: unexpected end of file", ErrSyntax)
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) str() (string, error) {
	t, err := p.next()
	if err != nil {
		return "", err
	}
	if t.kind != tokString {
		return "", fmt.Errorf("%w: line %d: expected string", ErrSyntax, t.line)
	}
	return t.text, nil
}

func (p *parser) number() (float64, error) {
	t, err := p.next()
	if err != nil {
		return 0, err
	}
	if t.kind != tokNumber {
		return 0, fmt.Errorf("%w: line %d: expected number", ErrSyntax, t.line)
	}
	return t.num, nil
}

func (p *parser) count() (int, error) {
	v, err := p.number()
	if err != nil {
		return 0, err
	}
	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: invalid count %v", ErrSyntax, v)
	}
	return int(v), nil
}

func (p *parser) textGrid() (*TextGrid, error) {
	ftype, err := p.str()
	if err != nil {
		return nil, err
	}
	class, err := p.str()
	if err != nil {
		return nil, err
	}
	if ftype != "ooTextFile" || class != "TextGrid" {
		return nil, fmt.Errorf("%w: not a text TextGrid (%q %q)", ErrSyntax, ftype, class)
	}

	tg := &TextGrid{}
	if tg.XMin, err = p.number(); err != nil {
		return nil, err
	}
	if tg.XMax, err = p.number(); err != nil {
		return nil, err
	}

	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.kind != tokFlag {
		return nil, fmt.Errorf("%w: line %d: expected <exists> or <absent>", ErrSyntax, t.line)
	}
	if t.text != "exists" {
		return tg, nil
	}

	n, err := p.count()
	if err != nil {
		return nil, err
	}
	for range n {
		tier, err := p.tier()
		if err != nil {
			return nil, err
		}
		tg.Tiers = append(tg.Tiers, tier)
	}
	return tg, nil
}

func (p *parser) tier() (*Tier, error) {
	var (
		t   Tier
		err error
	)
	if t.Class, err = p.str(); err != nil {
		return nil, err
	}
	if t.Name, err = p.str(); err != nil {
		return nil, err
	}
	if t.XMin, err = p.number(); err != nil {
		return nil, err
	}
	if t.XMax, err = p.number(); err != nil {
		return nil, err
	}
	n, err := p.count()
	if err != nil {
		return nil, err
	}

	switch t.Class {
	case IntervalTier:
		t.Intervals = make([]Interval, 0, n)
		for range n {
			var iv Interval
			if iv.Start, err = p.number(); err != nil {
				return nil, err
			}
			if iv.End, err = p.number(); err != nil {
				return nil, err
			}
			if iv.Text, err = p.str(); err != nil {
				return nil, err
			}
			t.Intervals = append(t.Intervals, iv)
		}
	case TextTier:
		t.Points = make([]Point, 0, n)
		for range n {
			var pt Point
			if pt.Time, err = p.number(); err != nil {
				return nil, err
			}
			if pt.Mark, err = p.str(); err != nil {
				return nil, err
			}
			t.Points = append(t.Points, pt)
		}
	default:
		return nil, fmt.Errorf("%w: unknown tier class %q", ErrSyntax, t.Class)
	}
	return &t, nil
}
