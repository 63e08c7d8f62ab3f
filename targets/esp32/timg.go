//go:build esp32

package esp32

import (
	"gotick/mmio"
	"gotick/tick"
	"gotick/timer"
)

// Counter width of the general-purpose timers
const counterMask = 1<<54 - 1

// divider80 gives one tick per microsecond from the 80MHz APB clock.
const divider80 = apbFrequency / 1_000_000

// Timer is general-purpose timer A (T0) or B (T1) of a timer group.
// The alarm enable bit is cleared by hardware on every alarm, which is why
// timer.Periodic re-arms it after each observed fire.
type Timer struct {
	regs  *timerRegs
	group *timgRegs
	index uint8
}

var claimed [2][2]bool

// NewTimer claims timer index (0=A, 1=B) of timer group grp. It returns
// nil if the timer is already owned; each peripheral has one owner.
func NewTimer(grp, index uint8) *Timer {
	if grp > 1 || index > 1 || claimed[grp][index] {
		return nil
	}
	claimed[grp][index] = true

	g := group(grp)
	t := &Timer{regs: &g.t[index], group: g, index: index}

	t.regs.config.Set(0)
	dividerField.Set(&t.regs.config, divider80)
	t.regs.config.SetBits(mmio.Bit(cfgIncrease))
	return t
}

func (t *Timer) intBit() uint32 {
	if t.index == 0 {
		return mmio.Bit(intT0)
	}
	return mmio.Bit(intT1)
}

func (t *Timer) Start() {
	t.regs.config.SetBits(mmio.Bit(cfgEnable) | mmio.Bit(cfgAlarmEnable))
}

func (t *Timer) Stop() {
	t.regs.config.ClearBits(mmio.Bit(cfgEnable))
}

// Reset loads zero into the counter.
func (t *Timer) Reset() {
	t.regs.loadLo.Set(0)
	t.regs.loadHi.Set(0)
	t.regs.load.Set(1)
}

func (t *Timer) IsRunning() bool {
	return t.regs.config.HasBits(mmio.Bit(cfgEnable))
}

func (t *Timer) Now() tick.Instant[tick.MHz1] {
	t.regs.update.Set(1)
	lo := t.regs.lo.Get()
	hi := t.regs.hi.Get()
	return tick.InstantFromTicks[tick.MHz1](uint64(hi)<<32 | uint64(lo))
}

func (t *Timer) LoadValue(value tick.MicrosDuration) {
	ticks := value.Ticks()
	if ticks > counterMask {
		ticks = counterMask
	}
	t.regs.alarmLo.Set(uint32(ticks))
	t.regs.alarmHi.Set(uint32(ticks >> 32))
}

func (t *Timer) EnableAutoReload(autoReload bool) {
	if autoReload {
		t.regs.config.SetBits(mmio.Bit(cfgAutoReload))
	} else {
		t.regs.config.ClearBits(mmio.Bit(cfgAutoReload))
	}
}

func (t *Timer) EnableInterrupt(state bool) {
	if state {
		t.regs.config.SetBits(mmio.Bit(cfgLevelIntEn))
		t.group.intEna.SetBits(t.intBit())
	} else {
		t.group.intEna.ClearBits(t.intBit())
		t.regs.config.ClearBits(mmio.Bit(cfgLevelIntEn))
	}
}

// ClearInterrupt writes the group's write-1-to-clear register.
func (t *Timer) ClearInterrupt() {
	t.group.intClr.Set(t.intBit())
}

// IsInterruptSet reads the raw flag, which is set on alarm whether or not
// the interrupt is routed.
func (t *Timer) IsInterruptSet() bool {
	return t.group.intRaw.HasBits(t.intBit())
}

func (t *Timer) SetAlarmActive(state bool) {
	if state {
		t.regs.config.SetBits(mmio.Bit(cfgAlarmEnable))
	} else {
		t.regs.config.ClearBits(mmio.Bit(cfgAlarmEnable))
	}
}

var _ timer.Timer = (*Timer)(nil)
