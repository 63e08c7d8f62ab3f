package timer

import "gotick/tick"

// OneShot turns a hardware timer into a blocking delay.
type OneShot struct {
	hw Timer
}

// NewOneShot takes ownership of hw.
func NewOneShot(hw Timer) *OneShot {
	return &OneShot{hw: hw}
}

// DelayMillis pauses execution for at least ms milliseconds.
func (o *OneShot) DelayMillis(ms uint32) {
	o.Delay(tick.Millis(uint64(ms)))
}

// DelayMicros pauses execution for at least us microseconds.
func (o *OneShot) DelayMicros(us uint32) {
	o.Delay(tick.Micros(uint64(us)))
}

// DelayNanos pauses execution for at least ns nanoseconds. The hardware
// counts whole microseconds, so ns is rounded up.
func (o *OneShot) DelayNanos(ns uint32) {
	o.Delay(tick.Nanos(uint64(ns)))
}

// Delay busy-waits until the timer fires. There is no timeout: the caller
// asked to block, and the flag is the only completion signal.
func (o *OneShot) Delay(d tick.MicrosDuration) {
	arm(o.hw, d, false)

	for !o.hw.IsInterruptSet() {
	}

	o.hw.Stop()
	o.hw.ClearInterrupt()
}

// State reports the timer state. Outside Delay it is always Idle.
func (o *OneShot) State() State {
	return stateOf(o.hw)
}

// Release hands the hardware timer back. It fails with ErrTimerActive if
// the timer was left running by someone else.
func (o *OneShot) Release() (Timer, error) {
	if o.hw.IsRunning() {
		return nil, ErrTimerActive
	}
	hw := o.hw
	o.hw = nil
	return hw, nil
}
