// Package report writes measurement results as plain text lines, JSON or
// YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Format is an output format.
type Format string

const (
	// FormatText writes one String() line per result as results arrive.
	FormatText Format = "text"
	// FormatJSON writes all results as one JSON array on Flush.
	FormatJSON Format = "json"
	// FormatYAML writes all results as one YAML sequence on Flush.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("report: unsupported output format: %s", s)
	}
}

// Writer collects results and renders them in one format.
type Writer struct {
	w      io.Writer
	format Format
	items  []any
}

// NewWriter returns a writer for format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Write adds one result.
func (r *Writer) Write(v fmt.Stringer) error {
	if r.format == FormatText || r.format == "" {
		_, err := fmt.Fprintln(r.w, v.String())
		return err
	}
	r.items = append(r.items, v)
	return nil
}

// Flush renders the collected results. It is a no-op for text output.
func (r *Writer) Flush() error {
	items := r.items
	r.items = nil
	if items == nil {
		items = []any{}
	}

	switch r.format {
	case FormatText, "":
		return nil
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("report: json: %w", err)
		}
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		_, err = r.w.Write(data)
		return err
	default:
		return fmt.Errorf("report: unsupported output format: %s", r.format)
	}
}
