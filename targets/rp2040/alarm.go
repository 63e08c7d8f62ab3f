//go:build rp2040

package rp2040

import (
	"gotick/mmio"
	"gotick/tick"
	"gotick/timer"
)

// Alarm is one of the four RP2040 timer alarms used as a countdown timer.
//
// The hardware has a single free-running counter and compare registers that
// fire once on a 32-bit match, so count, reset and reload are kept in
// software. Auto-reload happens in SetAlarmActive(true), which advances the
// compare value by one period; timer.Periodic calls it after every fire.
//
// TinyGo's runtime uses alarm 0 for sleeping; pick another.
type Alarm struct {
	index uint8

	running    bool
	autoReload bool
	period     uint32 // microseconds
	base       uint32 // counter value at count zero
	held       uint32 // count while stopped
	target     uint32 // armed compare value
}

const maxPeriod = 1<<31 - 1

var alarmsClaimed [4]bool

// NewAlarm claims alarm n. It returns nil if n is out of range or taken.
func NewAlarm(n uint8) *Alarm {
	if n > 3 || alarmsClaimed[n] {
		return nil
	}
	alarmsClaimed[n] = true
	return &Alarm{index: n, period: 1}
}

func (a *Alarm) bit() uint32 {
	return mmio.Bit(a.index)
}

func (a *Alarm) Start() {
	now := rawMicros()
	if !a.running {
		a.base = now - a.held
		a.running = true
	}
	a.target = a.base + a.period
	a.arm(now)
}

// arm writes the compare value. See armCompare.
func (a *Alarm) arm(now uint32) {
	a.target, a.base = armCompare(a.target, a.base, a.period, now, rawMicros,
		regs.alarm[a.index].Set, a.IsInterruptSet)
}

func (a *Alarm) Stop() {
	if a.running {
		a.held = rawMicros() - a.base
		a.running = false
	}
	regs.armed.Set(a.bit())
}

func (a *Alarm) Reset() {
	a.held = 0
	if a.running {
		a.base = rawMicros()
	}
}

func (a *Alarm) IsRunning() bool {
	return a.running
}

func (a *Alarm) Now() tick.Instant[tick.MHz1] {
	count := a.held
	if a.running {
		count = rawMicros() - a.base
	}
	return tick.InstantFromTicks[tick.MHz1](uint64(count))
}

// LoadValue saturates at half the 32-bit compare range (about 35 minutes)
// so a target can always be told apart from a past one. Zero becomes one
// microsecond: a compare equal to the current count would only match
// after a wrap.
func (a *Alarm) LoadValue(value tick.MicrosDuration) {
	us := value.Ticks()
	if us > maxPeriod {
		us = maxPeriod
	}
	if us == 0 {
		us = 1
	}
	a.period = uint32(us)
}

func (a *Alarm) EnableAutoReload(autoReload bool) {
	a.autoReload = autoReload
}

func (a *Alarm) EnableInterrupt(state bool) {
	if state {
		regs.inte.SetBits(a.bit())
	} else {
		regs.inte.ClearBits(a.bit())
	}
}

func (a *Alarm) ClearInterrupt() {
	regs.intr.Set(a.bit())
}

func (a *Alarm) IsInterruptSet() bool {
	return regs.intr.HasBits(a.bit())
}

// SetAlarmActive(true) re-arms the next period when auto-reload is on;
// the match that just fired disarmed the alarm. False disarms.
func (a *Alarm) SetAlarmActive(state bool) {
	if !state {
		regs.armed.Set(a.bit())
		return
	}
	if !a.running || !a.autoReload {
		return
	}
	a.base = a.target
	a.target += a.period
	a.arm(rawMicros())
}

var _ timer.Timer = (*Alarm)(nil)
