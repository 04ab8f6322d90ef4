package render

import "github.com/lixenwraith/audwanee/core"

// RenderBuffer is a width×height cell compositor
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
	bg     core.RGB
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{bg: DefaultBgRGB}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// SetBackground changes the color used by Clear
func (b *RenderBuffer) SetBackground(bg core.RGB) {
	b.bg = bg
}

// Background returns the clear color
func (b *RenderBuffer) Background() core.RGB {
	return b.bg
}

// Clear resets all cells to blank background using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Fg: DefaultFgRGB, Bg: b.bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns buffer dimensions in cells
func (b *RenderBuffer) Size() (int, int) {
	return b.width, b.height
}

// inBounds returns true if in buffer bounds
func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at x,y, zero Cell if out of bounds
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Set replaces the cell at x,y
func (b *RenderBuffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// SetRune writes a glyph with explicit colors
func (b *RenderBuffer) SetRune(x, y int, r rune, fg, bg core.RGB, attrs Attr) {
	b.Set(x, y, Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs})
}

// SetFg writes a glyph keeping the existing background
func (b *RenderBuffer) SetFg(x, y int, r rune, fg core.RGB, attrs Attr) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
	c.Attrs = attrs
}

// BlendBg alpha-blends color into the background of x,y
func (b *RenderBuffer) BlendBg(x, y int, color core.RGB, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Bg = c.Bg.Blend(color, alpha)
}

// Dim scales a rectangle's colors, used to seat panels over the rain
func (b *RenderBuffer) Dim(x, y, w, h int, factor float64) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if !b.inBounds(col, row) {
				continue
			}
			c := &b.cells[row*b.width+col]
			c.Fg = c.Fg.Scale(factor)
			c.Bg = c.Bg.Scale(factor)
		}
	}
}
