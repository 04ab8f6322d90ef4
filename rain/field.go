package rain

import (
	"math"
	"time"

	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/parameter"
	"github.com/lixenwraith/audwanee/vmath"
)

// Palette holds the head, middle and tail stroke colors
type Palette [3]core.RGB

// DefaultPalette is the purple rain gradient
var DefaultPalette = Palette{
	core.RGBFrom(parameter.RainHeadColor),
	core.RGBFrom(parameter.RainMidColor),
	core.RGBFrom(parameter.RainTailColor),
}

// Field is the particle set bounded to a viewport
type Field struct {
	Width, Height float64
	Drops         []Particle
	Palette       Palette

	rng *vmath.FastRand
}

// NewField creates an empty field, seed 0 seeds from the clock
func NewField(seed uint64) *Field {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Field{
		Palette: DefaultPalette,
		rng:     vmath.NewFastRand(seed),
	}
}

// Count returns the drop count for a viewport width
func Count(width float64) int {
	if width < parameter.RainDensityDivisor || math.IsNaN(width) {
		return 0
	}
	return int(math.Floor(width / parameter.RainDensityDivisor))
}

// Reset discards all drops and scatters a fresh set above the viewport
func (f *Field) Reset(width, height float64) {
	f.Width = max(width, 0)
	f.Height = max(height, 0)

	n := Count(f.Width)
	f.Drops = make([]Particle, n)
	for i := range f.Drops {
		d := &f.Drops[i]
		d.X = f.rng.Range(0, f.Width)
		d.Y = f.rng.Range(-f.Height, 0)
		f.randomizeLook(d)
	}
}

// randomizeLook redraws length, speed and opacity
func (f *Field) randomizeLook(p *Particle) {
	p.Length = f.rng.Range(parameter.RainLengthMin, parameter.RainLengthMax)
	p.Speed = f.rng.Range(parameter.RainSpeedMin, parameter.RainSpeedMax)
	p.Opacity = f.rng.Range(parameter.RainOpacityMin, parameter.RainOpacityMax)
}

// Advance moves a drop one tick, respawning past the bottom and wrapping past the right edge
// Both checks run on every tick: a respawned drop can still be past the right edge
func (f *Field) Advance(p *Particle) {
	p.Y += p.Speed
	p.X += p.Speed * parameter.RainDrift

	if p.Y > f.Height+p.Length {
		p.Y = -p.Length
		p.X = f.rng.Range(0, f.Width)
		f.randomizeLook(p)
	}

	if p.X > f.Width+p.Length {
		p.X = -p.Length
	}
}

// Stroke builds the render stroke for a drop, width is drawn fresh on every call
func (f *Field) Stroke(p Particle) Stroke {
	x1, y1 := p.Tail(parameter.RainDrift)
	return Stroke{
		X0:    p.X,
		Y0:    p.Y,
		X1:    x1,
		Y1:    y1,
		Width: f.rng.Range(parameter.RainStrokeWidthMin, parameter.RainStrokeWidthMax),
		Gradient: Gradient{
			{Offset: 0, Color: f.Palette[0], Alpha: p.Opacity * parameter.RainStopHeadAlpha},
			{Offset: 0.5, Color: f.Palette[1], Alpha: p.Opacity * parameter.RainStopMidAlpha},
			{Offset: 1, Color: f.Palette[2], Alpha: p.Opacity * parameter.RainStopTailAlpha},
		},
	}
}

// Draw renders a single drop
func (f *Field) Draw(p Particle, c Canvas) {
	c.StrokeLine(f.Stroke(p))
}

// Frame clears the canvas, then draws and advances every drop in one pass
func (f *Field) Frame(c Canvas) {
	c.Clear()
	for i := range f.Drops {
		f.Draw(f.Drops[i], c)
		f.Advance(&f.Drops[i])
	}
}

// Len returns the live drop count
func (f *Field) Len() int {
	return len(f.Drops)
}
