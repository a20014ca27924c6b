package fricative

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
)

// PlotStyles colours the two halves of the spectrum plot.
type PlotStyles struct {
	Low   lipgloss.Style
	High  lipgloss.Style
	Title lipgloss.Style
	Axis  lipgloss.Style
}

// DefaultPlotStyles draws low bands blue and high bands red.
var DefaultPlotStyles = PlotStyles{
	Low:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1f77b4")),
	High:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d62728")),
	Title: lipgloss.NewStyle().Bold(true),
	Axis:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
}

// Plot renders the spectrum of r as a horizontal bar chart, one row per mel
// band, with bars up to width cells long.
func Plot(r Result, width int, st PlotStyles) string {
	if len(r.Spectrum) == 0 {
		return ""
	}
	width = max(width, 1)

	lo, hi := floats.Min(r.Spectrum), floats.Max(r.Spectrum)
	span := hi - lo
	half := len(r.Spectrum) / 2

	var b strings.Builder
	b.WriteString(st.Title.Render(fmt.Sprintf("%s %s %s   H/L = %g", r.Talker, r.Word, r.Phone, r.Ratio)))
	b.WriteByte('\n')
	for i, v := range r.Spectrum {
		n := width
		if span > 0 {
			n = int(float64(width)*(v-lo)/span + 0.5)
		}
		style := st.Low
		if i >= half {
			style = st.High
		}
		freq := ""
		if i < len(r.Freqs) {
			freq = fmt.Sprintf("%6.0f", r.Freqs[i])
		}
		b.WriteString(st.Axis.Render(freq + " |"))
		b.WriteString(style.Render(strings.Repeat("█", max(n, 0))))
		b.WriteString(st.Axis.Render(fmt.Sprintf(" %.1f", v)))
		b.WriteByte('\n')
	}
	return b.String()
}
