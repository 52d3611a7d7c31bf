// Package tui renders terminal output: the lipgloss palette shared by the
// command line and a bubbletea progress view for long spin integrations.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Header renders a title line with an optional dimmed subtitle and a rule.
func Header(title, subtitle string) string {
	var b strings.Builder
	b.WriteString("\n  " + cyan.Render(title))
	if subtitle != "" {
		b.WriteString("  " + dim.Render(subtitle))
	}
	b.WriteString("\n" + dimmer.Render("  "+strings.Repeat("─", 40)) + "\n")
	return b.String()
}

// Field is one labelled value of a summary.
type Field struct {
	Label string
	Value float64
	Unit  string
}

// Fields renders aligned label/value lines.
func Fields(fields ...Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString("  " + dim.Render(fmt.Sprintf("%-*s", width, f.Label)) + "  ")
		b.WriteString(white.Render(fmt.Sprintf("%.6g", f.Value)))
		if f.Unit != "" {
			b.WriteString(" " + dimmer.Render(f.Unit))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Warn renders a highlighted note.
func Warn(msg string) string { return "  " + yellow.Render("! ") + msg + "\n" }

// Sparkline draws data with block characters, sampling at most width points.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	step := max(len(data)/width, 1)
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - lo) * 7 / span)
		sb.WriteRune(chars[max(0, min(7, idx))])
	}
	return sb.String()
}
