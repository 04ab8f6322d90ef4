package ui

import (
	"github.com/gdamore/tcell/v2"
)

// handleKey applies one key press and reports whether to keep running
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyUp:
		a.scrollBy(-1)
		return true
	case tcell.KeyDown:
		a.scrollBy(1)
		return true
	case tcell.KeyPgUp:
		a.scrollPage(-1)
		return true
	case tcell.KeyPgDn:
		a.scrollPage(1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	if a.opts.RainOnly {
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			if a.loop.IsPaused() {
				a.loop.Resume()
			} else {
				a.loop.Pause()
			}
		case 'm':
			a.opts.Sound.ToggleMute()
		}
		return true
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Rune() {
	case 'q':
		return false
	case 'a':
		if a.state != StateAnalyzing {
			a.startAnalysis()
		}
	case 'r':
		a.reset()
	case 's':
		a.loadSample()
	case 'j':
		a.scroll++
	case 'k':
		a.scroll = max(0, a.scroll-1)
	case 'g':
		a.scroll = 0
	case 'G':
		a.scroll = len(a.lines)
	case 'm':
		a.opts.Sound.ToggleMute()
	}
	return true
}

func (a *App) scrollBy(n int) {
	a.mu.Lock()
	a.scroll = max(0, a.scroll+n)
	a.mu.Unlock()
}

func (a *App) scrollPage(dir int) {
	a.mu.Lock()
	_, _, _, h := a.panelRect()
	a.scroll = max(0, a.scroll+dir*max(1, h-4))
	a.mu.Unlock()
}
