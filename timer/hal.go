// Package timer composes blocking delays and periodic countdowns from a
// minimal hardware timer capability.
package timer

import "gotick/tick"

// Timer is the capability set a hardware timer peripheral must provide.
// Implementations are exclusively owned by one OneShot or Periodic; nothing
// here takes locks.
type Timer interface {
	// Start starts counting.
	Start()

	// Stop stops counting. The count is retained.
	Stop()

	// Reset sets the count to zero.
	Reset()

	// IsRunning reports whether the timer is counting.
	IsRunning() bool

	// Now returns the current count.
	Now() tick.Instant[tick.MHz1]

	// LoadValue sets the count at which the timer fires. Values wider
	// than the hardware counter saturate.
	LoadValue(value tick.MicrosDuration)

	// EnableAutoReload makes the timer restart from zero when it fires.
	EnableAutoReload(autoReload bool)

	// EnableInterrupt routes the fire condition to the interrupt line.
	EnableInterrupt(state bool)

	// ClearInterrupt clears the fire flag.
	ClearInterrupt()

	// IsInterruptSet reports whether the timer has fired.
	IsInterruptSet() bool

	// SetAlarmActive (re)arms or disarms the alarm comparator. Some
	// peripherals drop the alarm after each fire and need it set again
	// before the next period can be observed.
	//
	// If the caller falls behind by several periods, an implementation
	// may either report each missed period on the following polls
	// (sim.Timer) or report one fire and skip the rest (rp2040.Alarm,
	// pio.Timer). Callers that count periods must poll at least once per
	// period.
	SetAlarmActive(state bool)
}

// State is the software view of a timer.
type State uint8

const (
	Idle State = iota
	Armed
	Fired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// stateOf derives the state from the hardware flags.
func stateOf(hw Timer) State {
	if !hw.IsRunning() {
		return Idle
	}
	if hw.IsInterruptSet() {
		return Fired
	}
	return Armed
}

// arm runs the stop/clear/reset/load/start sequence shared by both timers.
func arm(hw Timer, value tick.MicrosDuration, autoReload bool) {
	if hw.IsRunning() {
		hw.Stop()
	}

	hw.ClearInterrupt()
	hw.Reset()

	hw.EnableAutoReload(autoReload)
	hw.LoadValue(value)
	hw.Start()
}
