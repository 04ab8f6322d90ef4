package rain

import "github.com/lixenwraith/audwanee/core"

// Stop is one gradient color stop, Offset in [0,1] along the stroke
type Stop struct {
	Offset float64
	Color  core.RGB
	Alpha  float64
}

// Gradient is a three-stop linear gradient from stroke start to end
type Gradient [3]Stop

// At evaluates color and alpha at t in [0,1] by piecewise linear interpolation
func (g Gradient) At(t float64) (core.RGB, float64) {
	if t <= g[0].Offset {
		return g[0].Color, g[0].Alpha
	}
	for i := 1; i < len(g); i++ {
		if t <= g[i].Offset {
			span := g[i].Offset - g[i-1].Offset
			if span <= 0 {
				return g[i].Color, g[i].Alpha
			}
			f := (t - g[i-1].Offset) / span
			return g[i-1].Color.Lerp(g[i].Color, f), g[i-1].Alpha + (g[i].Alpha-g[i-1].Alpha)*f
		}
	}
	last := g[len(g)-1]
	return last.Color, last.Alpha
}

// Stroke is a gradient line segment with round caps
type Stroke struct {
	X0, Y0   float64
	X1, Y1   float64
	Width    float64
	Gradient Gradient
}

// Canvas receives rendered strokes
type Canvas interface {
	// Clear wipes the whole surface
	Clear()
	// StrokeLine draws one segment
	StrokeLine(s Stroke)
}
