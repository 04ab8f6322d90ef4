package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/render"
)

// State is the analyzer screen phase
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	}
	return "unknown"
}

// promptPreviewLines bounds the prompt shown above results and while waiting
const promptPreviewLines = 6

func heading(text string) Line {
	return Line{{Text: text, Style: headingStyle}}
}

func blank() Line { return Line{} }

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// promptLines renders the prompt, truncated to limit lines when limit > 0
func promptLines(prompt string, width, limit int) []Line {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Wrap([]Span{{Text: "No prompt loaded. Press s for the sample assignment or pass a prompt file.", Style: italicMuted}}, width)
	}
	lines := Wrap([]Span{{Text: prompt, Style: plainStyle}}, width)
	if limit > 0 && len(lines) > limit {
		lines = append(lines[:limit], Line{{Text: fmt.Sprintf("… %d more lines", len(lines)-limit), Style: mutedStyle}})
	}
	return lines
}

func fileLines(files []attachment.File, rejected []attachment.Rejected, width int) []Line {
	var lines []Line
	for _, f := range files {
		text := fmt.Sprintf("%s (%s, %s)", f.Name, f.MIME, humanSize(f.Size))
		lines = append(lines, Indent(Wrap([]Span{{Text: text, Style: plainStyle}}, width-2), Line{{Text: "• ", Style: mutedStyle}})...)
	}
	for _, r := range rejected {
		text := fmt.Sprintf("%s: %v", filepath.Base(r.Path), r.Err)
		lines = append(lines, Indent(Wrap([]Span{{Text: text, Style: Style{Fg: errorColor}}}, width-2), Line{{Text: "✗ ", Style: Style{Fg: errorColor}}})...)
	}
	return lines
}

func inputLines(prompt string, files []attachment.File, rejected []attachment.Rejected, width, limit int) []Line {
	lines := []Line{heading("Assignment prompt")}
	lines = append(lines, promptLines(prompt, width, limit)...)
	if len(files) > 0 || len(rejected) > 0 {
		lines = append(lines, blank(), heading("Supporting materials"))
		lines = append(lines, fileLines(files, rejected, width)...)
	}
	return lines
}

func idleLines(prompt string, files []attachment.File, rejected []attachment.Rejected, width int) []Line {
	lines := inputLines(prompt, files, rejected, width, 0)
	return append(lines, blank(), Line{{Text: "Press a to analyze.", Style: mutedStyle}})
}

func analyzingLines(prompt string, files []attachment.File, width int, frame int) []Line {
	spin := spinnerFrames[frame%len(spinnerFrames)]
	lines := []Line{
		{{Text: string(spin) + " ", Style: Style{Fg: accentColor}}, {Text: "Analyzing assignment…", Style: plainStyle}},
		blank(),
	}
	return append(lines, inputLines(prompt, files, nil, width, promptPreviewLines)...)
}

func errorLines(err error, width int) []Line {
	msg := analysis.ErrAnalysisFailed.Error()
	if err != nil {
		msg = err.Error()
	}
	lines := Indent(Wrap([]Span{{Text: msg, Style: Style{Fg: errorColor}}}, width-2), Line{{Text: "✗ ", Style: Style{Fg: errorColor, Attrs: render.AttrBold}}})
	return append(lines, blank(), Line{{Text: "Press a to retry or r to reset.", Style: mutedStyle}})
}

func findingLines(f analysis.Finding, width int) []Line {
	mark := Span{Text: "✗ ", Style: Style{Fg: warningColor, Attrs: render.AttrBold}}
	if f.Type == analysis.FindingSuccess {
		mark = Span{Text: "✓ ", Style: Style{Fg: successColor, Attrs: render.AttrBold}}
	}

	body := []Span{{Text: f.Category + ": ", Style: Style{Fg: textColor, Attrs: render.AttrBold}}}
	body = append(body, Inline(f.Message, plainStyle)...)
	lines := Indent(Wrap(body, width-2), Line{mark})

	if f.Details != "" {
		details := Wrap(Inline(f.Details, mutedStyle), width-2)
		lines = append(lines, Indent(details, Line{{Text: "  "}})...)
	}
	return lines
}

func suggestionLines(s analysis.Suggestion, width int) []Line {
	inner := width - 2
	lines := []Line{{{Text: "▍", Style: Style{Fg: accentColor}}, {Text: s.Category, Style: headingStyle}}}
	bar := Line{{Text: "▍ ", Style: Style{Fg: trackColor}}}

	if s.Issue != "" {
		lines = append(lines, Indent(Wrap(Inline(s.Issue, plainStyle), inner), bar)...)
	}
	if s.Explanation != "" {
		lines = append(lines, Indent(Wrap(Inline(s.Explanation, italicMuted), inner), bar)...)
	}
	instead := append([]Span{{Text: "Instead of: ", Style: Style{Fg: errorColor, Attrs: render.AttrBold}}}, Inline(s.InsteadOf, plainStyle)...)
	try := append([]Span{{Text: "Try this: ", Style: Style{Fg: successColor, Attrs: render.AttrBold}}}, Inline(s.TryThis, plainStyle)...)
	lines = append(lines, Indent(Wrap(instead, inner), bar)...)
	lines = append(lines, Indent(Wrap(try, inner), bar)...)
	return lines
}

// resultLines is the scrollable body below the meter
func resultLines(r *analysis.Result, prompt string, files []attachment.File, width int) []Line {
	var lines []Line

	if r.Summary != "" {
		lines = append(lines, heading("Summary"))
		lines = append(lines, Wrap(Inline(r.Summary, plainStyle), width)...)
		lines = append(lines, blank())
	}

	warnings, successes := r.Counts()
	lines = append(lines, Line{
		{Text: "Diagnostic checklist", Style: headingStyle},
		{Text: fmt.Sprintf("  %d warnings · %d strengths", warnings, successes), Style: mutedStyle},
	})
	for _, f := range r.Findings {
		lines = append(lines, findingLines(f, width)...)
	}

	if len(r.Suggestions) > 0 {
		lines = append(lines, blank(), heading("Suggestions"))
		for i, s := range r.Suggestions {
			if i > 0 {
				lines = append(lines, blank())
			}
			lines = append(lines, suggestionLines(s, width)...)
		}
	}

	lines = append(lines, blank())
	return append(lines, inputLines(prompt, files, nil, width, promptPreviewLines)...)
}
