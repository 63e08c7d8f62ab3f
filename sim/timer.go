package sim

import (
	"sync"
	"time"

	"gotick/tick"
)

// Timer is a microsecond countdown timer with an alarm comparator.
//
// It behaves like an ESP32 TIMG timer: the alarm fires when the count
// reaches the loaded value, auto-reload restarts the count from zero at the
// fire instant, and the hardware drops the alarm enable on every fire. With
// auto-reload the next period is therefore only reported after
// SetAlarmActive(true). Set KeepAlarm to model hardware that keeps it.
type Timer struct {
	// KeepAlarm leaves the alarm enabled after it fires.
	KeepAlarm bool

	// OnInterrupt, if set, is called (outside the lock) when the timer
	// fires with the interrupt enabled.
	OnInterrupt func()

	mu    sync.Mutex
	clock Clock

	running bool
	base    time.Duration // clock time of count zero while running
	held    time.Duration // count while stopped

	load       time.Duration
	autoReload bool
	alarmEn    bool
	intEnabled bool
	intRaw     bool

	fires uint32
}

// NewTimer returns a stopped timer driven by clock.
func NewTimer(clock Clock) *Timer {
	return &Timer{clock: clock}
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.base = t.clock.Now() - t.held
		t.running = true
	}
	t.alarmEn = true
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.held = t.clock.Now() - t.base
		t.running = false
	}
}

func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = 0
	if t.running {
		t.base = t.clock.Now()
	}
}

func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Now() tick.Instant[tick.MHz1] {
	t.mu.Lock()
	fired := t.updateLocked()
	count := t.held
	if t.running {
		count = t.clock.Now() - t.base
	}
	t.mu.Unlock()
	t.notify(fired)
	return tick.InstantFromTicks[tick.MHz1](uint64(count / time.Microsecond))
}

func (t *Timer) LoadValue(value tick.MicrosDuration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load = value.Std()
}

func (t *Timer) EnableAutoReload(autoReload bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoReload = autoReload
}

func (t *Timer) EnableInterrupt(state bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.intEnabled = state
}

func (t *Timer) ClearInterrupt() {
	t.mu.Lock()
	fired := t.updateLocked()
	t.intRaw = false
	t.mu.Unlock()
	t.notify(fired)
}

func (t *Timer) IsInterruptSet() bool {
	t.mu.Lock()
	fired := t.updateLocked()
	set := t.intRaw
	t.mu.Unlock()
	t.notify(fired)
	return set
}

func (t *Timer) SetAlarmActive(state bool) {
	t.mu.Lock()
	fired := t.updateLocked()
	t.alarmEn = state
	t.mu.Unlock()
	t.notify(fired)
}

// Fires returns how many times the alarm has fired.
func (t *Timer) Fires() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updateLocked()
	return t.fires
}

// updateLocked applies any alarm that has come due. It reports whether the
// interrupt line should be raised.
func (t *Timer) updateLocked() bool {
	if !t.running || !t.alarmEn {
		return false
	}

	now := t.clock.Now()
	raised := false
	for t.alarmEn && now-t.base >= t.load {
		t.intRaw = true
		t.fires++
		raised = raised || t.intEnabled

		if !t.autoReload {
			t.alarmEn = false
			break
		}
		t.base += t.load
		if !t.KeepAlarm {
			t.alarmEn = false
		}
		if t.load == 0 {
			break
		}
	}
	return raised
}

func (t *Timer) notify(fired bool) {
	if fired && t.OnInterrupt != nil {
		t.OnInterrupt()
	}
}
