package render

import "github.com/lixenwraith/audwanee/core"

// Attr is a cell attribute bitmask
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Cell is one terminal cell; Rune 0 renders as a blank
type Cell struct {
	Rune  rune
	Fg    core.RGB
	Bg    core.RGB
	Attrs Attr
}

// DefaultBgRGB is the default background (deep violet night)
var DefaultBgRGB = core.RGB{R: 14, G: 6, B: 24}

// DefaultFgRGB is the default text color
var DefaultFgRGB = core.RGB{R: 226, G: 220, B: 236}
