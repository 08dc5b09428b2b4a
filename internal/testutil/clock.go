package testutil

import (
	"sync"
	"time"
)

// Epoch is the instant scenarios and tests read as "now" unless they set one.
var Epoch = time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)

// FixedClock is a settable time source for tests.
//
// The reasoner reads wall time only through time builtins; handing them
// FixedClock.Now makes time:localTime and friends reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
}

// NewFixedClock creates a clock reading t. A zero t means Epoch.
func NewFixedClock(t time.Time) *FixedClock {
	if t.IsZero() {
		t = Epoch
	}
	return &FixedClock{start: t, now: t}
}

// Now returns the current reading. Suitable for engine.WithNow.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new reading.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Reset returns the clock to its starting reading.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
