// Package corpus walks directory trees of labelled recordings.
//
// Recordings are named talker_word_rest.wav and carry their labels in a
// sibling file with the same stem and a .TextGrid extension.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-phonetics/format/textgrid"
)

var (
	// ErrBadName is returned for file names without talker and word fields.
	ErrBadName = errors.New("corpus: file name is not talker_word_rest")
	// ErrNoTextGrid is reported for recordings without a label file.
	ErrNoTextGrid = errors.New("corpus: no TextGrid for recording")
)

// Recording is one labelled sound file.
type Recording struct {
	Path     string
	TextGrid string
	Talker   string
	Word     string
	// Rest is everything after the word field, without extension.
	Rest string
}

// ParseName splits a recording's base name into talker, word and rest.
// Fields after the word are kept together in rest.
func ParseName(file string) (talker, word, rest string, err error) {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.SplitN(stem, "_", 3)
	if len(parts) < 3 {
		return "", "", "", fmt.Errorf("%w: %s", ErrBadName, base)
	}
	return parts[0], parts[1], parts[2], nil
}

// WalkFunc is called for each recording. err is non-nil when the file
// name cannot be parsed or the label file is missing; rec then carries
// whatever could be determined. Returning an error stops the walk, and
// returning fs.SkipDir skips the current directory.
type WalkFunc func(rec Recording, err error) error

// Walk visits every .wav file under root in lexical order. The extension
// match is case-sensitive, so X.WAV is skipped.
func Walk(ctx context.Context, root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".wav" {
			return nil
		}

		rec := Recording{Path: path, TextGrid: textgrid.PathFor(path)}
		talker, word, rest, err := ParseName(path)
		if err != nil {
			return fn(rec, err)
		}
		rec.Talker, rec.Word, rec.Rest = talker, word, rest

		if _, err := os.Stat(rec.TextGrid); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fn(rec, fmt.Errorf("%w: %s", ErrNoTextGrid, path))
			}
			return fn(rec, err)
		}
		return fn(rec, nil)
	})
}
