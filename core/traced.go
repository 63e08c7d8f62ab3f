package core

import (
	"gotick/tick"
	"gotick/timer"
)

// Traced records the life of a hardware timer in the timing ring.
// Wrap the timer before handing it to timer.NewOneShot or NewPeriodic.
type Traced struct {
	timer.Timer
	ID uint8

	load  tick.MicrosDuration
	fired bool
}

// Trace wraps t.
func Trace(id uint8, t timer.Timer) *Traced {
	return &Traced{Timer: t, ID: id}
}

func (t *Traced) Start() {
	t.Timer.Start()
	RecordTiming(EvtTimerStart, t.ID, clockNow(), uint32(t.load.Ticks()), 0)
}

func (t *Traced) Stop() {
	t.Timer.Stop()
	RecordTiming(EvtTimerStop, t.ID, clockNow(), 0, 0)
}

func (t *Traced) LoadValue(value tick.MicrosDuration) {
	t.load = value
	t.Timer.LoadValue(value)
}

// IsInterruptSet records the first observation of each fire.
func (t *Traced) IsInterruptSet() bool {
	set := t.Timer.IsInterruptSet()
	if set && !t.fired {
		t.fired = true
		RecordTiming(EvtTimerFire, t.ID, clockNow(), uint32(t.Timer.Now().Ticks()), 0)
	}
	return set
}

func (t *Traced) ClearInterrupt() {
	t.Timer.ClearInterrupt()
	t.fired = false
}
