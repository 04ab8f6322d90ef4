// Package report renders analysis results outside the interactive screen.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/core"
)

// Risk level colors shared with the interactive meter
var (
	LowColor    = core.RGB{R: 34, G: 197, B: 94}
	MediumColor = core.RGB{R: 245, G: 158, B: 11}
	HighColor   = core.RGB{R: 239, G: 68, B: 68}
)

// RiskColor returns the meter color for a level
func RiskColor(r analysis.Risk) core.RGB {
	switch r {
	case analysis.RiskLow:
		return LowColor
	case analysis.RiskMedium:
		return MediumColor
	default:
		return HighColor
	}
}

// RiskLabel returns the meter caption for a level
func RiskLabel(r analysis.Risk) string {
	switch r {
	case analysis.RiskLow:
		return "LOW RISK"
	case analysis.RiskMedium:
		return "MEDIUM RISK"
	case analysis.RiskHigh:
		return "HIGH RISK"
	}
	return "UNKNOWN RISK"
}

// Filled returns how many of width cells a score fills
func Filled(score float64, width int) int {
	if width <= 0 {
		return 0
	}
	n := int(math.Round(score / 100 * float64(width)))
	return max(0, min(width, n))
}

// Meter renders the risk bar line with lipgloss
func Meter(r *analysis.Result, width int) string {
	filled := Filled(r.RiskScore, width)
	color := lipgloss.Color(RiskColor(r.OverallRisk).Hex())

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#3b2a4f")).Render(strings.Repeat("░", width-filled))
	label := lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(fmt.Sprintf("%s %d/100", RiskLabel(r.OverallRisk), int(math.Round(r.RiskScore))))

	return bar + "  " + label
}

// Markdown builds the report document
func Markdown(prompt string, files []attachment.File, r *analysis.Result) string {
	var b strings.Builder
	warnings, successes := r.Counts()

	b.WriteString("# AI Resilience Report\n\n")
	fmt.Fprintf(&b, "**Overall risk:** %s (%d/100)\n\n", strings.ToUpper(string(r.OverallRisk)), int(math.Round(r.RiskScore)))
	if r.Summary != "" {
		b.WriteString(r.Summary + "\n\n")
	}

	if prompt != "" {
		b.WriteString("## Assignment\n\n")
		for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
	}
	if len(files) > 0 {
		b.WriteString("## Attachments\n\n")
		for _, f := range files {
			fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.MIME)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Diagnostic checklist (%d warnings, %d strengths)\n\n", warnings, successes)
	for _, f := range r.Findings {
		mark := "✗"
		if f.Type == analysis.FindingSuccess {
			mark = "✓"
		}
		fmt.Fprintf(&b, "- %s **%s:** %s\n", mark, f.Category, f.Message)
		if f.Details != "" {
			fmt.Fprintf(&b, "  %s\n", f.Details)
		}
	}
	b.WriteString("\n")

	if len(r.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "### %s\n\n", s.Category)
			if s.Issue != "" {
				b.WriteString(s.Issue + "\n\n")
			}
			if s.Explanation != "" {
				b.WriteString(s.Explanation + "\n\n")
			}
			fmt.Fprintf(&b, "- **Instead of:** %s\n", s.InsteadOf)
			fmt.Fprintf(&b, "- **Try this:** %s\n\n", s.TryThis)
		}
	}
	return b.String()
}

// Options controls terminal rendering
type Options struct {
	Width int
	// Style is a glamour standard style name, empty selects by terminal
	Style string
}

// Render writes the meter and the glamour-rendered report
func Render(w io.Writer, prompt string, files []attachment.File, r *analysis.Result, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStandardStyle(opts.Style)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.Width))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(prompt, files, r))
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	meterWidth := max(10, min(40, opts.Width-20))
	if _, err := fmt.Fprintf(w, "\n  %s\n", Meter(r, meterWidth)); err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// JSON writes the result as indented JSON
func JSON(w io.Writer, r *analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
