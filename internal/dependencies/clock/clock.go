package clock

import "time"

// Clock provides the current time to the ledger, registry and audit log.
// Production code uses RealClock; tests use mocks.MockClock for fixed
// timestamps.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the system clock. Times are UTC so every
// backend stores the same representation.
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
