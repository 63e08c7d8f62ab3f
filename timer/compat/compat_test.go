package compat

import (
	"errors"
	"testing"
	"time"

	"gotick/sim"
	"gotick/tick"
	"gotick/timer"
)

func TestDelayContracts(t *testing.T) {
	clock := &sim.StepClock{Step: time.Microsecond}
	d := NewDelay(timer.NewOneShot(sim.NewTimer(clock)))

	testCases := []struct {
		name string
		call func()
		min  time.Duration
	}{
		{"DelayMs", func() { d.DelayMs(2) }, 2 * time.Millisecond},
		{"DelayUs", func() { d.DelayUs(150) }, 150 * time.Microsecond},
		{"DelayNs", func() { d.DelayNs(1500) }, 2 * time.Microsecond},
		{"Sleep", func() { d.Sleep(300 * time.Microsecond) }, 300 * time.Microsecond},
		{"DelayMsOf", func() { DelayMsOf(d, uint8(1)) }, time.Millisecond},
		{"DelayUsOf", func() { DelayUsOf(d, uint16(40)) }, 40 * time.Microsecond},
	}

	for _, tc := range testCases {
		before := clock.Peek()
		tc.call()
		if elapsed := clock.Peek() - before; elapsed < tc.min {
			t.Errorf("%s: waited %v, want at least %v", tc.name, elapsed, tc.min)
		}
	}
}

func TestSleepNonPositive(t *testing.T) {
	clock := &sim.StepClock{Step: time.Microsecond}
	hw := sim.NewTimer(clock)
	d := NewDelay(timer.NewOneShot(hw))

	d.Sleep(0)
	d.Sleep(-time.Second)

	if clock.Peek() != 0 {
		t.Errorf("Non-positive sleep touched the timer, clock at %v", clock.Peek())
	}
}

func TestCountDown(t *testing.T) {
	clock := &sim.ManualClock{}
	cd := NewCountDown(timer.NewPeriodic(sim.NewTimer(clock)))

	cd.Start(tick.Micros(250))
	clock.Advance(249 * time.Microsecond)
	if err := cd.Wait(); !errors.Is(err, timer.ErrWouldBlock) {
		t.Errorf("Expected ErrWouldBlock, got %v", err)
	}
	clock.Advance(time.Microsecond)
	if err := cd.Wait(); err != nil {
		t.Errorf("Expected ready, got %v", err)
	}

	if err := cd.Cancel(); err != nil {
		t.Errorf("Cancel failed: %v", err)
	}
	if err := cd.Cancel(); !errors.Is(err, timer.ErrTimerInactive) {
		t.Errorf("Expected ErrTimerInactive, got %v", err)
	}
}

func TestTicker(t *testing.T) {
	clock := &sim.ManualClock{}
	ticker := NewTicker(timer.NewPeriodic(sim.NewTimer(clock)), 50*time.Millisecond)

	if ticker.Tick() {
		t.Error("expected Tick() = false immediately after creation")
	}

	clock.Advance(50 * time.Millisecond)
	if !ticker.Tick() {
		t.Error("expected Tick() = true after interval elapsed")
	}
	if ticker.Tick() {
		t.Error("expected Tick() = false immediately after tick")
	}

	clock.Advance(30 * time.Millisecond)
	ticker.Reset(20 * time.Millisecond)
	if ticker.Interval() != 20*time.Millisecond {
		t.Errorf("Reset did not change the interval: %v", ticker.Interval())
	}
	clock.Advance(15 * time.Millisecond)
	if ticker.Tick() {
		t.Error("expected Tick() = false 15ms after Reset(20ms)")
	}
	clock.Advance(5 * time.Millisecond)
	if !ticker.Tick() {
		t.Error("expected Tick() = true one new interval after Reset()")
	}

	if err := ticker.Stop(); err != nil {
		t.Errorf("first Stop() returned %v", err)
	}
	if err := ticker.Stop(); !errors.Is(err, timer.ErrTimerInactive) {
		t.Errorf("second Stop() = %v, want %v", err, timer.ErrTimerInactive)
	}
}
