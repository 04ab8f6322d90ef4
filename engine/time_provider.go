package engine

import "time"

// Clock stamps refresh signals and feeds the loop's FPS window
type Clock interface {
	Now() time.Time
}

// TimeProvider is the wall clock behind ticker-driven frames
type TimeProvider struct{}

// NewMonotonicTimeProvider returns the default frame clock
// Readings carry the monotonic component, so frame intervals survive wall clock jumps
func NewMonotonicTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

func (p *TimeProvider) Now() time.Time {
	return time.Now()
}
