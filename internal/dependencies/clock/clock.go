// Package clock is the injection seam for time. Deadline checks and session
// expiry must run against the same notion of "now", so services take a Clock
// instead of calling time.Now directly.
package clock

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
