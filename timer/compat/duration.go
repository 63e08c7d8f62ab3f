package compat

import (
	"time"

	"gotick/tick"
	"gotick/timer"
)

// NsDelay is the nanosecond delay contract.
type NsDelay interface {
	DelayNs(ns uint32)
}

// Sleeper is the time.Sleep-shaped delay contract.
type Sleeper interface {
	Sleep(d time.Duration)
}

// DelayNs rounds up to whole microseconds.
func (d Delay) DelayNs(ns uint32) {
	d.t.DelayNanos(ns)
}

// Sleep blocks for at least dur. Non-positive durations return at once.
func (d Delay) Sleep(dur time.Duration) {
	if dur <= 0 {
		return
	}
	d.t.Delay(tick.FromStd[tick.MHz1](dur))
}

// Ticker is a polled periodic trigger over a Periodic.
type Ticker struct {
	p        *timer.Periodic
	interval time.Duration
}

// NewTicker starts p with the given interval.
func NewTicker(p *timer.Periodic, interval time.Duration) *Ticker {
	t := &Ticker{p: p}
	t.Reset(interval)
	return t
}

// Tick reports whether an interval has elapsed since the last tick.
func (t *Ticker) Tick() bool {
	return t.p.Wait() == nil
}

// Reset switches to interval d and starts it from now.
func (t *Ticker) Reset(d time.Duration) {
	t.interval = d
	t.p.Start(tick.FromStd[tick.MHz1](d))
}

// Stop stops the ticker. Stopping a stopped ticker returns
// timer.ErrTimerInactive.
func (t *Ticker) Stop() error {
	return t.p.Cancel()
}

// Interval returns the ticker's interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

var (
	_ NsDelay = Delay{}
	_ Sleeper = Delay{}
)
