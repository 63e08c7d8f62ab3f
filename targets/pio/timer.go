//go:build rp2040

// Package pio runs countdown timers on RP2040 PIO state machines, giving
// up to eight timers beyond the four TIMER alarms.
package pio

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"gotick/targets/rp2040"
	"gotick/tick"
	"gotick/timer"
)

// Countdown program. Each TX FIFO word is one period:
//
//	0: pull block       wait for a period
//	1: out x, 32
//	2: jmp x--, 2       one cycle per count
//	3: push noblock     signal the fire through the RX FIFO
//
// A period of N words costs N+4 cycles, so the loaded count is N-4.
// Jump targets are absolute; the program must sit at offset 0.
func buildCountdownProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		asm.Pull(false, true).Encode(),           // 0: pull block
		asm.Out(rp2pio.OutDestX, 32).Encode(),    // 1: out x, 32
		asm.Jmp(2, rp2pio.JmpXNZeroDec).Encode(), // 2: jmp x--, 2
		asm.Push(false, false).Encode(),          // 3: push noblock
	}
}

const (
	countdownOrigin   = 0
	countdownOverhead = 4
)

var programLoaded [2]bool

var (
	errNoStateMachine = errors.New("pio: no free state machine")
	errClaimed        = errors.New("pio: state machine already claimed")
)

// Timer is a PIO state machine counting microseconds.
//
// The RX FIFO holding a word is the fire flag. Reload is the CPU queueing
// the next period: Start queues one extra period when auto-reload is on,
// and SetAlarmActive(true) tops the queue up after each observed fire.
// If software falls more than a period behind, the machine stalls on its
// pull until refilled. There is no interrupt routing; poll it.
type Timer struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	cfg rp2pio.StateMachineConfig

	running    bool
	autoReload bool
	count      uint32 // X value per period

	startedAt uint64
	held      uint64
}

// NewTimer claims the next free state machine.
func NewTimer() (*Timer, error) {
	pioNum, smNum, ok := allocate()
	if !ok {
		return nil, errNoStateMachine
	}
	return newTimer(pioNum, smNum)
}

// NewTimerOn claims a specific state machine.
func NewTimerOn(pioNum, smNum uint8) (*Timer, error) {
	if !reserve(pioNum, smNum) {
		return nil, errClaimed
	}
	return newTimer(pioNum, smNum)
}

func newTimer(pioNum, smNum uint8) (*Timer, error) {
	pioHW := rp2pio.PIO0
	if pioNum == 1 {
		pioHW = rp2pio.PIO1
	}
	t := &Timer{pio: pioHW, sm: pioHW.StateMachine(smNum)}

	// Another driver may have claimed it outside this package.
	if !t.sm.TryClaim() {
		release(pioNum, smNum)
		return nil, errClaimed
	}

	if !programLoaded[pioNum] {
		program := buildCountdownProgram()
		if _, err := t.pio.AddProgram(program, countdownOrigin); err != nil {
			t.sm.Unclaim()
			release(pioNum, smNum)
			return nil, err
		}
		programLoaded[pioNum] = true
	}

	t.cfg = rp2pio.DefaultStateMachineConfig()
	// Shift right, no autopull (the program pulls), 32-bit threshold
	t.cfg.SetOutShift(true, false, 32)
	t.cfg.SetWrap(countdownOrigin+3, countdownOrigin)
	// One state machine cycle per microsecond
	t.cfg.SetClkDivIntFrac(uint16(machine.CPUFrequency()/1_000_000), 0)

	t.sm.Init(countdownOrigin, t.cfg)
	return t, nil
}

func (t *Timer) queue() {
	if !t.sm.IsTxFIFOFull() {
		t.sm.TxPut(t.count)
	}
}

func (t *Timer) Start() {
	if t.running {
		return
	}
	t.queue()
	if t.autoReload {
		t.queue()
	}
	t.startedAt = rp2040.Micros()
	t.running = true
	t.sm.SetEnabled(true)
}

func (t *Timer) Stop() {
	t.sm.SetEnabled(false)
	if t.running {
		t.held += rp2040.Micros() - t.startedAt
		t.running = false
	}
}

// Reset reinitialises the state machine: FIFOs are flushed and the
// program counter returns to the pull.
func (t *Timer) Reset() {
	wasRunning := t.running
	t.sm.Init(countdownOrigin, t.cfg)
	t.held = 0
	t.running = false
	if wasRunning {
		t.Start()
	}
}

func (t *Timer) IsRunning() bool {
	return t.running
}

func (t *Timer) Now() tick.Instant[tick.MHz1] {
	count := t.held
	if t.running {
		count += rp2040.Micros() - t.startedAt
	}
	return tick.InstantFromTicks[tick.MHz1](count)
}

func (t *Timer) LoadValue(value tick.MicrosDuration) {
	us := value.Ticks()
	if us > 0xFFFFFFFF {
		us = 0xFFFFFFFF
	}
	if us < countdownOverhead {
		us = countdownOverhead
	}
	t.count = uint32(us) - countdownOverhead
}

func (t *Timer) EnableAutoReload(autoReload bool) {
	t.autoReload = autoReload
}

// EnableInterrupt is accepted for interface compatibility; the fire is
// only visible by polling.
func (t *Timer) EnableInterrupt(bool) {}

func (t *Timer) ClearInterrupt() {
	for !t.sm.IsRxFIFOEmpty() {
		t.sm.RxGet()
	}
}

func (t *Timer) IsInterruptSet() bool {
	return !t.sm.IsRxFIFOEmpty()
}

// SetAlarmActive(true) queues the next period. False is a no-op: words
// already in the TX FIFO cannot be withdrawn.
func (t *Timer) SetAlarmActive(state bool) {
	if state && t.running && t.autoReload {
		t.queue()
	}
}

var _ timer.Timer = (*Timer)(nil)
