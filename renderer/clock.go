package renderer

import "time"

// FrameClock measures shader time from a fixed start.
type FrameClock struct {
	start time.Time
}

func NewFrameClock() *FrameClock {
	return &FrameClock{start: time.Now()}
}

// Elapsed returns seconds since the clock started. time.Since reads Go's
// monotonic clock, so the value never decreases.
func (c *FrameClock) Elapsed() float32 {
	return float32(time.Since(c.start).Seconds())
}
