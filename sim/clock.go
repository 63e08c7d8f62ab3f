// Package sim models timer and counter peripherals in software so the timer
// and uptime logic can run on the host.
package sim

import (
	"sync"
	"time"
)

// Clock is the time base that drives simulated peripherals.
type Clock interface {
	Now() time.Duration
}

// RealClock follows the Go monotonic clock from the moment it is created.
type RealClock struct {
	start time.Time
}

func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

func (c *RealClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// StepClock advances by Step every time it is read, like a CPU cycle
// counter observed by a busy loop. Deterministic stand-in for RealClock.
type StepClock struct {
	Step time.Duration

	mu  sync.Mutex
	now time.Duration
}

func (c *StepClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += c.Step
	return c.now
}

// Peek returns the current time without advancing.
func (c *StepClock) Peek() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
