package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/render"
)

// Style is the foreground treatment of a span
type Style struct {
	Fg    core.RGB
	Attrs render.Attr
}

// Span is a run of text in one style
type Span struct {
	Text  string
	Style Style
}

// Line is one screen row of spans
type Line []Span

// Width returns the display width of the line
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// String returns the unstyled text
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Inline parses **bold**, *italic* and `code` markers into spans over base
// Unclosed markers are kept as literal text
func Inline(text string, base Style) []Span {
	var spans []Span
	var plain strings.Builder

	emit := func(s string, st Style) {
		if s == "" {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Style == st {
			spans[n-1].Text += s
			return
		}
		spans = append(spans, Span{Text: s, Style: st})
	}
	flush := func() {
		emit(plain.String(), base)
		plain.Reset()
	}

	for i := 0; i < len(text); {
		var marker string
		var attr render.Attr
		fg := base.Fg
		switch {
		case strings.HasPrefix(text[i:], "**"):
			marker, attr = "**", render.AttrBold
		case text[i] == '*':
			marker, attr = "*", render.AttrItalic
		case text[i] == '`':
			marker, attr = "`", render.AttrNone
			fg = codeColor
		default:
			plain.WriteByte(text[i])
			i++
			continue
		}

		body := text[i+len(marker):]
		end := strings.Index(body, marker)
		if end <= 0 {
			plain.WriteString(marker)
			i += len(marker)
			continue
		}
		flush()
		emit(body[:end], Style{Fg: fg, Attrs: base.Attrs | attr})
		i += len(marker)*2 + end
	}
	flush()
	return spans
}

type styledRune struct {
	r  rune
	st Style
}

// Wrap breaks spans into lines no wider than width
// Breaks happen at spaces, words longer than width are split
func Wrap(spans []Span, width int) []Line {
	if width < 1 {
		width = 1
	}

	var lines []Line
	for _, para := range splitParagraphs(spans) {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, Line{})
	}
	return lines
}

// splitParagraphs flattens spans into rune runs separated at newlines
func splitParagraphs(spans []Span) [][]styledRune {
	paras := [][]styledRune{nil}
	for _, s := range spans {
		for _, r := range s.Text {
			if r == '\n' {
				paras = append(paras, nil)
				continue
			}
			if r == '\t' || r == '\r' {
				r = ' '
			}
			last := len(paras) - 1
			paras[last] = append(paras[last], styledRune{r, s.Style})
		}
	}
	return paras
}

func wrapParagraph(runes []styledRune, width int) []Line {
	var lines []Line
	var cur []styledRune
	curW := 0

	push := func() {
		lines = append(lines, toLine(trimRight(cur)))
		cur = nil
		curW = 0
	}

	for i := 0; i < len(runes); {
		if runes[i].r == ' ' {
			if curW > 0 && curW < width {
				cur = append(cur, runes[i])
				curW++
			}
			i++
			continue
		}

		j := i
		wordW := 0
		for j < len(runes) && runes[j].r != ' ' {
			wordW += runewidth.RuneWidth(runes[j].r)
			j++
		}

		if curW+wordW > width && curW > 0 {
			push()
		}
		for k := i; k < j; k++ {
			rw := runewidth.RuneWidth(runes[k].r)
			if curW+rw > width && curW > 0 {
				push()
			}
			cur = append(cur, runes[k])
			curW += rw
		}
		i = j
	}
	push()
	return lines
}

func trimRight(rs []styledRune) []styledRune {
	for len(rs) > 0 && rs[len(rs)-1].r == ' ' {
		rs = rs[:len(rs)-1]
	}
	return rs
}

func toLine(rs []styledRune) Line {
	var line Line
	var b strings.Builder
	for i, sr := range rs {
		if i > 0 && sr.st != rs[i-1].st {
			line = append(line, Span{Text: b.String(), Style: rs[i-1].st})
			b.Reset()
		}
		b.WriteRune(sr.r)
	}
	if b.Len() > 0 {
		line = append(line, Span{Text: b.String(), Style: rs[len(rs)-1].st})
	}
	return line
}

// Indent prefixes the first line with lead and the rest with matching blanks
func Indent(lines []Line, lead Line) []Line {
	pad := Span{Text: strings.Repeat(" ", lead.Width())}
	out := make([]Line, len(lines))
	for i, l := range lines {
		prefix := Line{pad}
		if i == 0 {
			prefix = lead
		}
		out[i] = append(append(Line{}, prefix...), l...)
	}
	return out
}

// drawLine writes a line at x,y keeping the existing background, clipped to maxW
func drawLine(buf *render.RenderBuffer, x, y, maxW int, line Line) {
	col := 0
	for _, s := range line {
		for _, r := range s.Text {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if col+w > maxW {
				return
			}
			buf.SetFg(x+col, y, r, s.Style.Fg, s.Style.Attrs)
			col += w
		}
	}
}
