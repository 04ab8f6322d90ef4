package ui

import (
	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/render"
)

// Palette over the violet night background
var (
	textColor    = render.DefaultFgRGB
	mutedColor   = core.RGB{R: 150, G: 140, B: 170}
	accentColor  = core.RGB{R: 216, G: 180, B: 254}
	codeColor    = core.RGB{R: 244, G: 194, B: 255}
	panelColor   = core.RGB{R: 24, G: 12, B: 40}
	trackColor   = core.RGB{R: 59, G: 42, B: 79}
	successColor = core.RGB{R: 34, G: 197, B: 94}
	warningColor = core.RGB{R: 245, G: 158, B: 11}
	errorColor   = core.RGB{R: 239, G: 68, B: 68}
)

// Panel seating over the rain
const (
	panelDim   = 0.45
	panelAlpha = 0.6
	headerDim  = 0.3
	maxPanelW  = 100
)

var (
	plainStyle   = Style{Fg: textColor}
	mutedStyle   = Style{Fg: mutedColor}
	headingStyle = Style{Fg: accentColor, Attrs: render.AttrBold}
	italicMuted  = Style{Fg: mutedColor, Attrs: render.AttrItalic}
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
