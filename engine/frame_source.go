package engine

import (
	"sync"
	"time"
)

// FrameSource delivers display refresh signals
// Stop releases the underlying timer; C may stay open afterwards
type FrameSource interface {
	C() <-chan time.Time
	Stop()
}

// tickerSource drives frames from a time.Ticker
type tickerSource struct {
	ticker *time.Ticker
	once   sync.Once
}

// NewTickerSource creates a refresh source firing every interval
func NewTickerSource(interval time.Duration) FrameSource {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &tickerSource{ticker: time.NewTicker(interval)}
}

func (s *tickerSource) C() <-chan time.Time { return s.ticker.C }

func (s *tickerSource) Stop() {
	s.once.Do(s.ticker.Stop)
}

// ManualSource is a refresh source fired by hand, used by tests and single-frame export
type ManualSource struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
	clock   Clock
}

// NewManualSource creates a source whose signals are stamped by clock
func NewManualSource(clock Clock) *ManualSource {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &ManualSource{
		ch:    make(chan time.Time),
		clock: clock,
	}
}

func (s *ManualSource) C() <-chan time.Time { return s.ch }

// Fire offers one refresh signal, returns false if nobody took it within timeout or the source is stopped
func (s *ManualSource) Fire(timeout time.Duration) bool {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s.ch <- s.clock.Now():
		return true
	case <-timer.C:
		return false
	}
}

func (s *ManualSource) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Stopped reports whether Stop was called
func (s *ManualSource) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
