// Package rain simulates the falling-line particle field drawn behind the
// interface.
//
// Coordinates are viewport pixels. A Field owns floor(width/4) drops; each
// frame every drop is drawn and then advanced. Drops leaving the bottom are
// respawned above the top with fresh attributes, drops leaving the right
// edge wrap to the left keeping everything else.
//
// Field is not safe for concurrent use; the frame loop owns it.
package rain
