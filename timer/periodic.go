package timer

import "gotick/tick"

// Periodic is a repeating countdown polled without blocking.
//
//	Idle --Start--> Armed --(hw fires)--> Fired --Wait--> Armed
//	Armed|Fired --Cancel--> Idle
//	Armed|Fired --Start--> Armed (restart from zero)
type Periodic struct {
	hw Timer
}

// NewPeriodic takes ownership of hw.
func NewPeriodic(hw Timer) *Periodic {
	return &Periodic{hw: hw}
}

// Start arms a countdown that fires every timeout. Calling Start on a
// running timer restarts the period from zero.
func (p *Periodic) Start(timeout tick.MicrosDuration) {
	arm(p.hw, timeout, true)
}

// Wait reports whether the countdown has fired since the last successful
// Wait. It returns ErrWouldBlock otherwise, with no side effects.
func (p *Periodic) Wait() error {
	if !p.hw.IsInterruptSet() {
		return ErrWouldBlock
	}

	p.hw.ClearInterrupt()
	// Required on peripherals that drop the alarm after each fire.
	p.hw.SetAlarmActive(true)

	return nil
}

// Cancel stops the countdown. Cancelling a stopped timer returns
// ErrTimerInactive so double cancellation is visible to the caller.
func (p *Periodic) Cancel() error {
	if !p.hw.IsRunning() {
		return ErrTimerInactive
	}

	p.hw.Stop()
	return nil
}

// State reports the timer state.
func (p *Periodic) State() State {
	return stateOf(p.hw)
}

// Release hands the hardware timer back. Cancel first; a running timer
// yields ErrTimerActive.
func (p *Periodic) Release() (Timer, error) {
	if p.hw.IsRunning() {
		return nil, ErrTimerActive
	}
	hw := p.hw
	p.hw = nil
	return hw, nil
}
