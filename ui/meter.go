package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Spring tuning for the risk meter fill
const (
	meterFrequency = 5.0
	meterDamping   = 0.6
)

// Meter animates the displayed risk score toward its target
type Meter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewMeter creates a meter stepped once per frame at fps
func NewMeter(fps int) *Meter {
	if fps < 1 {
		fps = 1
	}
	return &Meter{spring: harmonica.NewSpring(harmonica.FPS(fps), meterFrequency, meterDamping)}
}

// SetTarget starts animating toward score
func (m *Meter) SetTarget(score float64) {
	m.target = score
}

// Reset drops the fill to zero without animation
func (m *Meter) Reset() {
	m.pos, m.vel, m.target = 0, 0, 0
}

// Update advances one frame
func (m *Meter) Update() {
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
}

// Value returns the displayed score clamped to [0,100]
func (m *Meter) Value() float64 {
	return math.Max(0, math.Min(100, m.pos))
}

// Settled reports whether the fill has reached its target
func (m *Meter) Settled() bool {
	return math.Abs(m.pos-m.target) < 0.05 && math.Abs(m.vel) < 0.05
}
