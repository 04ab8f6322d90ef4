package parameter

import "time"

// Rain field density: one drop per RainDensityDivisor pixels of viewport width
const RainDensityDivisor = 4

// Drop attribute ranges, redrawn on every respawn
const (
	RainLengthMin  = 15.0
	RainLengthMax  = 45.0
	RainSpeedMin   = 2.0
	RainSpeedMax   = 5.0
	RainOpacityMin = 0.3
	RainOpacityMax = 0.9
)

// RainDrift is horizontal advance per unit of vertical speed (wind), also the stroke slope
const RainDrift = 0.3

// Stroke width is drawn per render call, not stored on the drop
const (
	RainStrokeWidthMin = 1.5
	RainStrokeWidthMax = 4.0
)

// Gradient stop alpha multipliers along the stroke: head, middle, tail
const (
	RainStopHeadAlpha = 1.0
	RainStopMidAlpha  = 0.9
	RainStopTailAlpha = 0.6
)

// Gradient stop colors (dark purple to medium purple)
var (
	RainHeadColor = [3]uint8{88, 28, 135}
	RainMidColor  = [3]uint8{107, 33, 168}
	RainTailColor = [3]uint8{126, 58, 183}
)

// Frame pacing
const (
	// RainDefaultFPS approximates display refresh
	RainDefaultFPS = 60
	RainMinFPS     = 1
	RainMaxFPS     = 240
)

// RainFrameInterval returns the tick interval for fps, clamped to the supported range
func RainFrameInterval(fps int) time.Duration {
	if fps < RainMinFPS {
		fps = RainMinFPS
	}
	if fps > RainMaxFPS {
		fps = RainMaxFPS
	}
	return time.Second / time.Duration(fps)
}

// Terminal projection: virtual pixels per cell, terminal cells are roughly 1:2
const (
	RainCellWidth  = 8.0
	RainCellHeight = 16.0
)
