package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/rain"
)

// SVGCanvas records strokes and writes them as a still SVG frame
// Gradients are bounding-box relative, start to end of each segment
type SVGCanvas struct {
	width, height int
	background    core.RGB
	strokes       []rain.Stroke
}

// NewSVGCanvas creates a canvas of width×height pixels
func NewSVGCanvas(width, height int, background core.RGB) *SVGCanvas {
	return &SVGCanvas{
		width:      max(width, 1),
		height:     max(height, 1),
		background: background,
	}
}

// Clear drops recorded strokes
func (c *SVGCanvas) Clear() {
	c.strokes = c.strokes[:0]
}

// StrokeLine records one stroke
func (c *SVGCanvas) StrokeLine(s rain.Stroke) {
	c.strokes = append(c.strokes, s)
}

// Len returns the number of recorded strokes
func (c *SVGCanvas) Len() int {
	return len(c.strokes)
}

// WriteTo renders the recorded frame
func (c *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(c.width, c.height)
	canvas.Rect(0, 0, c.width, c.height, "fill:"+c.background.Hex())

	canvas.Def()
	for i, s := range c.strokes {
		stops := make([]svg.Offcolor, len(s.Gradient))
		for j, st := range s.Gradient {
			stops[j] = svg.Offcolor{
				Offset:  uint8(math.Round(st.Offset * 100)),
				Color:   st.Color.Hex(),
				Opacity: st.Alpha,
			}
		}
		canvas.LinearGradient(gradientID(i), 0, 0, 100, 100, stops)
	}
	canvas.DefEnd()

	for i, s := range c.strokes {
		canvas.Line(
			int(math.Round(s.X0)), int(math.Round(s.Y0)),
			int(math.Round(s.X1)), int(math.Round(s.Y1)),
			fmt.Sprintf("stroke:url(#%s);stroke-width:%.2f;stroke-linecap:round", gradientID(i), s.Width),
		)
	}
	canvas.End()
	return cw.n, cw.err
}

func gradientID(i int) string {
	return fmt.Sprintf("drop%d", i)
}

// countingWriter tracks bytes and the first error, svgo writes without returning errors
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
