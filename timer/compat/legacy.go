// Package compat adapts OneShot and Periodic to external timer contracts.
//
// Two contracts are covered, each a thin translation onto the timer
// package: the integer-unit delay/countdown contract used by older drivers
// (legacy.go) and the time.Duration contract (duration.go).
package compat

import (
	"gotick/tick"
	"gotick/timer"
)

// LegacyDelay is the millisecond/microsecond blocking delay contract.
type LegacyDelay interface {
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// LegacyCountDown is the start/poll countdown contract.
type LegacyCountDown interface {
	Start(timeout tick.MicrosDuration)
	Wait() error
}

// Cancelable countdowns can be stopped before they fire.
type Cancelable interface {
	Cancel() error
}

// Delay exposes a OneShot through both delay contracts.
type Delay struct {
	t *timer.OneShot
}

// NewDelay wraps t.
func NewDelay(t *timer.OneShot) Delay {
	return Delay{t: t}
}

func (d Delay) DelayMs(ms uint32) {
	d.t.DelayMillis(ms)
}

func (d Delay) DelayUs(us uint32) {
	d.t.DelayMicros(us)
}

// DelayMsOf accepts any unsigned width, as the legacy contract did.
func DelayMsOf[U ~uint8 | ~uint16 | ~uint32](d LegacyDelay, ms U) {
	d.DelayMs(uint32(ms))
}

// DelayUsOf accepts any unsigned width.
func DelayUsOf[U ~uint8 | ~uint16 | ~uint32](d LegacyDelay, us U) {
	d.DelayUs(uint32(us))
}

// CountDown exposes a Periodic through the legacy countdown contract.
// It is also Cancelable and, being auto-reloading, periodic.
type CountDown struct {
	p *timer.Periodic
}

// NewCountDown wraps p.
func NewCountDown(p *timer.Periodic) CountDown {
	return CountDown{p: p}
}

func (c CountDown) Start(timeout tick.MicrosDuration) {
	c.p.Start(timeout)
}

// Wait returns nil once per period and timer.ErrWouldBlock otherwise.
func (c CountDown) Wait() error {
	return c.p.Wait()
}

func (c CountDown) Cancel() error {
	return c.p.Cancel()
}

// Periodic marks the countdown as repeating.
func (CountDown) Periodic() {}

var (
	_ LegacyDelay     = Delay{}
	_ LegacyCountDown = CountDown{}
	_ Cancelable      = CountDown{}
)
