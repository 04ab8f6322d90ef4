package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/audwanee/core"
)

// FrameFunc runs once per refresh signal on the loop goroutine
type FrameFunc func(now time.Time)

// ResizeFunc runs on the loop goroutine before the next frame after a viewport change
type ResizeFunc func(width, height int)

// FrameLoop drives per-frame callbacks from a refresh source
// All callbacks run on one goroutine, so state they touch needs no locking
type FrameLoop struct {
	source   FrameSource
	onFrame  FrameFunc
	onResize ResizeFunc
	clock    *PausableClock

	// Pending resize, coalesced: only the latest size is applied
	sizeMu       sync.Mutex
	pendingW     int
	pendingH     int
	resizeSignal chan struct{}

	ticks  atomic.Uint64
	paused atomic.Bool

	// Frame rate over the last window
	fpsMu       sync.Mutex
	fpsWindow   time.Time
	fpsFrames   int
	fpsMeasured float64

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool
}

// NewFrameLoop creates a loop over source, onResize may be nil
func NewFrameLoop(source FrameSource, onFrame FrameFunc, onResize ResizeFunc) *FrameLoop {
	return &FrameLoop{
		source:       source,
		onFrame:      onFrame,
		onResize:     onResize,
		clock:        NewPausableClock(nil),
		resizeSignal: make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// SetClock replaces the clock used for FPS measurement, must be called before Start
// Paused spans are excluded from the measurement
func (l *FrameLoop) SetClock(c Clock) {
	l.clock = NewPausableClock(c)
}

// Start launches the loop goroutine, no-op if already started or stopped
func (l *FrameLoop) Start() {
	if l.stopped.Load() {
		return
	}
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(func() {
			defer l.wg.Done()
			l.loop()
		})
	}
}

// Stop halts the loop and releases the refresh source
// After Stop returns no further callback runs
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stopChan)
		l.source.Stop()
		l.wg.Wait()
		l.running.Store(false)
	})
}

// Resize requests a viewport change, applied on the loop goroutine before the next frame
func (l *FrameLoop) Resize(width, height int) {
	l.sizeMu.Lock()
	l.pendingW, l.pendingH = width, height
	l.sizeMu.Unlock()

	select {
	case l.resizeSignal <- struct{}{}:
	default:
	}
}

// Pause suspends frame callbacks without releasing the source
func (l *FrameLoop) Pause() {
	l.paused.Store(true)
	l.clock.Pause()
}

// Resume re-enables frame callbacks
func (l *FrameLoop) Resume() {
	l.clock.Resume()
	l.paused.Store(false)
}

// IsPaused reports pause state
func (l *FrameLoop) IsPaused() bool {
	return l.paused.Load()
}

// Ticks returns the number of frame callbacks run
func (l *FrameLoop) Ticks() uint64 {
	return l.ticks.Load()
}

// FPS returns the frame rate measured over the last completed second
func (l *FrameLoop) FPS() float64 {
	l.fpsMu.Lock()
	defer l.fpsMu.Unlock()
	return l.fpsMeasured
}

func (l *FrameLoop) loop() {
	frames := l.source.C()
	for {
		select {
		case <-l.stopChan:
			return
		case <-l.resizeSignal:
			l.applyResize()
		case now, ok := <-frames:
			if !ok {
				return
			}
			// Stop wins over a signal that raced with it
			select {
			case <-l.stopChan:
				return
			default:
			}
			// Pending resize is applied first so the frame sees the new viewport
			select {
			case <-l.resizeSignal:
				l.applyResize()
			default:
			}
			if l.paused.Load() {
				continue
			}
			l.onFrame(now)
			l.ticks.Add(1)
			l.measure()
		}
	}
}

func (l *FrameLoop) applyResize() {
	l.sizeMu.Lock()
	w, h := l.pendingW, l.pendingH
	l.sizeMu.Unlock()
	if l.onResize != nil {
		l.onResize(w, h)
	}
}

func (l *FrameLoop) measure() {
	now := l.clock.Now()

	l.fpsMu.Lock()
	defer l.fpsMu.Unlock()

	if l.fpsWindow.IsZero() {
		l.fpsWindow = now
		return
	}
	l.fpsFrames++
	if elapsed := now.Sub(l.fpsWindow); elapsed >= time.Second {
		l.fpsMeasured = float64(l.fpsFrames) / elapsed.Seconds()
		l.fpsFrames = 0
		l.fpsWindow = now
	}
}
