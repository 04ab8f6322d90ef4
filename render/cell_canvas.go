package render

import (
	"math"

	"github.com/lixenwraith/audwanee/parameter"
	"github.com/lixenwraith/audwanee/rain"
)

// Stroke glyphs by width band
const (
	glyphThin   = '│'
	glyphMedium = '┃'
	glyphHeavy  = '▐'
	glyphLean   = '╲'
)

// Stroke width band limits in pixels
const (
	strokeThinMax   = 2.3
	strokeMediumMax = 3.2
)

// capAlpha scales the end cells, the terminal rendition of round caps
const capAlpha = 0.5

// CellCanvas rasterizes rain strokes from pixel space into a RenderBuffer
type CellCanvas struct {
	buf        *RenderBuffer
	cellWidth  float64
	cellHeight float64

	// Cells touched by the current stroke, reused across calls
	visited []int
}

// NewCellCanvas projects pixels onto buf, non-positive cell sizes fall back to defaults
func NewCellCanvas(buf *RenderBuffer, cellWidth, cellHeight float64) *CellCanvas {
	if cellWidth <= 0 {
		cellWidth = parameter.RainCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = parameter.RainCellHeight
	}
	return &CellCanvas{
		buf:        buf,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		visited:    make([]int, 0, 16),
	}
}

// Viewport returns the pixel size covered by the buffer
func (c *CellCanvas) Viewport() (float64, float64) {
	w, h := c.buf.Size()
	return float64(w) * c.cellWidth, float64(h) * c.cellHeight
}

// Clear wipes the buffer to background
func (c *CellCanvas) Clear() {
	c.buf.Clear()
}

// StrokeLine samples the segment at half-cell steps and blends each cell once
func (c *CellCanvas) StrokeLine(s rain.Stroke) {
	dx := s.X1 - s.X0
	dy := s.Y1 - s.Y0
	dist := math.Hypot(dx, dy)

	step := math.Min(c.cellWidth, c.cellHeight) / 2
	n := int(math.Ceil(dist/step)) + 1
	if n < 2 {
		n = 2
	}

	glyph := glyphFor(s.Width, dx, dy, c.cellWidth, c.cellHeight)

	c.visited = c.visited[:0]
	lastCell := -1
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		cx := int(math.Floor((s.X0 + dx*t) / c.cellWidth))
		cy := int(math.Floor((s.Y0 + dy*t) / c.cellHeight))
		if !c.buf.inBounds(cx, cy) {
			continue
		}
		idx := cy*c.buf.width + cx
		if idx == lastCell || c.seen(idx) {
			continue
		}
		lastCell = idx
		c.visited = append(c.visited, idx)

		color, alpha := s.Gradient.At(t)
		if i == 0 || i == n-1 {
			alpha *= capAlpha
		}

		cell := &c.buf.cells[idx]
		cell.Fg = cell.Bg.Blend(color, alpha)
		cell.Rune = glyph
		cell.Attrs = AttrNone
		// A faint wash keeps wide strokes visible between glyph columns
		if s.Width > strokeMediumMax {
			cell.Bg = cell.Bg.Blend(color, alpha*0.25)
		}
	}
}

func (c *CellCanvas) seen(idx int) bool {
	for _, v := range c.visited {
		if v == idx {
			return true
		}
	}
	return false
}

// glyphFor picks a glyph by stroke width, leaning strokes use the diagonal when the cell-space slope is shallow
func glyphFor(width, dx, dy, cellWidth, cellHeight float64) rune {
	if dy != 0 {
		lean := (dx / cellWidth) / (dy / cellHeight)
		if math.Abs(lean) >= 1 {
			return glyphLean
		}
	}
	switch {
	case width < strokeThinMax:
		return glyphThin
	case width < strokeMediumMax:
		return glyphMedium
	default:
		return glyphHeavy
	}
}
