// Package testutil provides shared test helpers.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock hands out strictly increasing timestamps for
// tests. Each call to Now advances the clock by a fixed step, so
// insertion order and chronological order are both controlled.
//
// Thread-safety: all methods are safe for concurrent use via an
// internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewDeterministicClock creates a clock starting at start that
// advances by step on every Now call.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{now: start, step: step}
}

// Now returns the current time and advances the clock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Current returns the current time without advancing.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset moves the clock back to start.
func (c *DeterministicClock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = start
}
