package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lixenwraith/audwanee/rain"
)

const fireTimeout = 200 * time.Millisecond

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFrameLoopRunsFrames(t *testing.T) {
	src := NewManualSource(nil)
	var frames atomic.Int64
	loop := NewFrameLoop(src, func(time.Time) { frames.Add(1) }, nil)
	loop.Start()
	defer loop.Stop()

	for i := 0; i < 3; i++ {
		if !src.Fire(fireTimeout) {
			t.Fatalf("frame %d not accepted", i)
		}
	}

	// Fire returns once the loop received the signal; the callback may still be running
	waitFor(t, func() bool { return loop.Ticks() == 3 })
	if frames.Load() != 3 {
		t.Errorf("frames = %d, want 3", frames.Load())
	}
}

func TestFrameLoopStopHaltsTicks(t *testing.T) {
	src := NewManualSource(nil)
	loop := NewFrameLoop(src, func(time.Time) {}, nil)
	loop.Start()

	for i := 0; i < 2; i++ {
		src.Fire(fireTimeout)
	}
	waitFor(t, func() bool { return loop.Ticks() == 2 })

	loop.Stop()
	if !src.Stopped() {
		t.Error("Stop did not release the refresh source")
	}

	before := loop.Ticks()
	for i := 0; i < 5; i++ {
		if src.Fire(10 * time.Millisecond) {
			t.Errorf("refresh %d accepted after Stop", i)
		}
	}
	if loop.Ticks() != before {
		t.Errorf("ticks advanced after Stop: %d -> %d", before, loop.Ticks())
	}
}

func TestFrameLoopStopWithRealTicker(t *testing.T) {
	var frames atomic.Int64
	loop := NewFrameLoop(NewTickerSource(time.Millisecond), func(time.Time) { frames.Add(1) }, nil)
	loop.Start()

	waitFor(t, func() bool { return frames.Load() > 0 })
	loop.Stop()

	after := frames.Load()
	// Five refresh intervals at 1ms
	time.Sleep(5 * time.Millisecond)
	if frames.Load() != after {
		t.Errorf("frames advanced after Stop: %d -> %d", after, frames.Load())
	}
}

func TestFrameLoopStopIdempotent(t *testing.T) {
	loop := NewFrameLoop(NewManualSource(nil), func(time.Time) {}, nil)
	loop.Start()
	loop.Stop()
	loop.Stop()

	// Start after Stop must not resurrect the loop
	loop.Start()
	if loop.running.Load() {
		t.Error("loop restarted after Stop")
	}
}

func TestFrameLoopResizeBeforeNextFrame(t *testing.T) {
	src := NewManualSource(nil)
	field := rain.NewField(1)
	field.Reset(400, 300)

	var mu sync.Mutex
	var order []string
	loop := NewFrameLoop(src,
		func(time.Time) {
			mu.Lock()
			order = append(order, "frame")
			mu.Unlock()
		},
		func(w, h int) {
			field.Reset(float64(w), float64(h))
			mu.Lock()
			order = append(order, "resize")
			mu.Unlock()
		},
	)
	loop.Start()
	defer loop.Stop()

	loop.Resize(800, 600)
	loop.Resize(1200, 600) // coalesced with the previous request
	src.Fire(fireTimeout)
	waitFor(t, func() bool { return loop.Ticks() == 1 })

	mu.Lock()
	defer mu.Unlock()
	if len(order) == 0 || order[0] != "resize" {
		t.Fatalf("resize not applied before frame: %v", order)
	}
	if order[len(order)-1] != "frame" {
		t.Fatalf("frame missing: %v", order)
	}
	if field.Len() != 300 {
		t.Errorf("field count after resize = %d, want 300", field.Len())
	}
}

func TestFrameLoopPause(t *testing.T) {
	src := NewManualSource(nil)
	loop := NewFrameLoop(src, func(time.Time) {}, nil)
	loop.Start()
	defer loop.Stop()

	loop.Pause()
	src.Fire(fireTimeout)
	src.Fire(fireTimeout)
	if loop.Ticks() != 0 {
		t.Errorf("ticks while paused = %d, want 0", loop.Ticks())
	}

	loop.Resume()
	src.Fire(fireTimeout)
	waitFor(t, func() bool { return loop.Ticks() == 1 })
}

func TestFrameLoopStartAfterStop(t *testing.T) {
	src := NewManualSource(nil)
	var ticks atomic.Int32
	loop := NewFrameLoop(src, func(time.Time) { ticks.Add(1) }, nil)

	loop.Stop()
	loop.Start()

	if src.Fire(50 * time.Millisecond) {
		t.Error("stopped source accepted a refresh signal")
	}
	if ticks.Load() != 0 || loop.Ticks() != 0 {
		t.Errorf("callback ran after Stop: %d", ticks.Load())
	}
}

func TestFrameLoopFPS(t *testing.T) {
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	src := NewManualSource(clock)
	loop := NewFrameLoop(src, func(time.Time) { clock.Advance(100 * time.Millisecond) }, nil)
	loop.SetClock(clock)
	loop.Start()
	defer loop.Stop()

	for i := 0; i < 12; i++ {
		src.Fire(fireTimeout)
	}
	waitFor(t, func() bool { return loop.Ticks() == 12 })

	fps := loop.FPS()
	if fps < 9 || fps > 11 {
		t.Errorf("FPS = %.2f, want ~10", fps)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
