package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/audwanee/render"
)

func TestInline(t *testing.T) {
	base := plainStyle
	bold := Style{Fg: base.Fg, Attrs: render.AttrBold}
	italic := Style{Fg: base.Fg, Attrs: render.AttrItalic}
	code := Style{Fg: codeColor}

	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{"plain", "just text", []Span{{"just text", base}}},
		{"bold", "a **b** c", []Span{{"a ", base}, {"b", bold}, {" c", base}}},
		{"italic", "*x*", []Span{{"x", italic}}},
		{"code", "use `go test`", []Span{{"use ", base}, {"go test", code}}},
		{"unclosed bold", "a **b", []Span{{"a **b", base}}},
		{"lone star", "5 * 3", []Span{{"5 * 3", base}}},
		{"mixed", "**A** and *B*", []Span{{"A", bold}, {" and ", base}, {"B", italic}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Inline(tt.in, base)); diff != "" {
				t.Errorf("Inline(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	lines := Wrap([]Span{{Text: "the quick brown fox jumps over the lazy dog", Style: plainStyle}}, 10)
	var got []string
	for _, l := range lines {
		got = append(got, l.String())
		if l.Width() > 10 {
			t.Errorf("line %q exceeds width", l.String())
		}
	}
	want := []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapSplitsLongWordsAndNewlines(t *testing.T) {
	lines := Wrap([]Span{{Text: "abcdefghij\n\nxy", Style: plainStyle}}, 4)
	var got []string
	for _, l := range lines {
		got = append(got, l.String())
	}
	want := []string{"abcd", "efgh", "ij", "", "xy"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapKeepsStyles(t *testing.T) {
	spans := Inline("plain **bold words** end", plainStyle)
	lines := Wrap(spans, 11)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0][1].Style.Attrs != render.AttrBold || lines[0][1].Text != "bold" {
		t.Errorf("bold span lost on first line: %+v", lines[0])
	}
	if lines[1][0].Text != "words" || lines[1][0].Style.Attrs != render.AttrBold {
		t.Errorf("bold span lost after wrap: %+v", lines[1])
	}
}

func TestWrapWideRunes(t *testing.T) {
	lines := Wrap([]Span{{Text: "日本語テキスト", Style: plainStyle}}, 6)
	for _, l := range lines {
		if l.Width() > 6 {
			t.Errorf("wide line %q has width %d", l.String(), l.Width())
		}
	}
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestIndent(t *testing.T) {
	lines := Indent([]Line{{{Text: "one"}}, {{Text: "two"}}}, Line{{Text: "• "}})
	if lines[0].String() != "• one" || lines[1].String() != "  two" {
		t.Errorf("unexpected indent: %q %q", lines[0].String(), lines[1].String())
	}
}

func TestMeterConverges(t *testing.T) {
	m := NewMeter(60)
	m.SetTarget(82)
	for i := 0; i < 600; i++ {
		m.Update()
	}
	if !m.Settled() {
		t.Errorf("meter not settled, value %f", m.Value())
	}
	if v := m.Value(); v < 81.9 || v > 82.1 {
		t.Errorf("meter value %f, want 82", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should drop to zero")
	}
}
