package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/audwanee/core"
)

// Screen is the subset of tcell.Screen the flush needs
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// ToTcell converts an RGB to a true-color tcell color
func ToTcell(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// StyleOf builds the tcell style for a cell
func StyleOf(c Cell) tcell.Style {
	st := tcell.StyleDefault.Foreground(ToTcell(c.Fg)).Background(ToTcell(c.Bg))
	if c.Attrs&AttrBold != 0 {
		st = st.Bold(true)
	}
	if c.Attrs&AttrDim != 0 {
		st = st.Dim(true)
	}
	if c.Attrs&AttrItalic != 0 {
		st = st.Italic(true)
	}
	if c.Attrs&AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if c.Attrs&AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}

// Flush copies the buffer to the screen, clipped to the smaller of both sizes
// Caller invokes Show
func Flush(b *RenderBuffer, s Screen) {
	sw, sh := s.Size()
	w := min(b.width, sw)
	h := min(b.height, sh)
	for y := 0; y < h; y++ {
		row := b.cells[y*b.width : y*b.width+b.width]
		for x := 0; x < w; x++ {
			c := row[x]
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			s.SetContent(x, y, r, nil, StyleOf(c))
		}
	}
}
