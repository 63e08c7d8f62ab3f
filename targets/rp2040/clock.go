//go:build rp2040

// Package rp2040 provides the RP2040 64-bit microsecond timer as the system
// uptime source and its four alarms as timer.Timer implementations.
package rp2040

import (
	"runtime/volatile"
	"unsafe"

	"gotick/tick"
	"gotick/uptime"
)

// RP2040 Timer peripheral base address
const timerBase = 0x40054000

// timerRegs is the TIMER register file.
type timerRegs struct {
	timeHW   volatile.Register32    // 0x00 write to upper 32b
	timeLW   volatile.Register32    // 0x04 write to lower 32b
	timeHR   volatile.Register32    // 0x08 latched read of upper 32b
	timeLR   volatile.Register32    // 0x0C read of lower 32b, latches timeHR
	alarm    [4]volatile.Register32 // 0x10 arm alarm n, fire on low 32b match
	armed    volatile.Register32    // 0x20 write 1 to disarm
	timeRawH volatile.Register32    // 0x24 raw upper 32b, no latch
	timeRawL volatile.Register32    // 0x28 raw lower 32b, no latch
	dbgPause volatile.Register32    // 0x2C
	pause    volatile.Register32    // 0x30
	intr     volatile.Register32    // 0x34 raw interrupts, write 1 to clear
	inte     volatile.Register32    // 0x38 interrupt enable
	intf     volatile.Register32    // 0x3C interrupt force
	ints     volatile.Register32    // 0x40 interrupt status after masking
}

var regs = (*timerRegs)(unsafe.Pointer(uintptr(timerBase)))

var source *uptime.Source[tick.MHz1]

// Uptime returns the system uptime source. The RP2040 timer runs at 1MHz
// from the watchdog tick, which TinyGo's runtime starts before main; there
// is nothing to configure. Reading TIMELR freezes TIMEHR, so the lo/hi pair
// is a consistent 64-bit snapshot.
func Uptime() *uptime.Source[tick.MHz1] {
	if source == nil {
		source = uptime.New[tick.MHz1](uptime.Pair{Lo: &regs.timeLR, Hi: &regs.timeHR}, nil)
	}
	return source
}

// rawMicros reads the low 32 bits without touching the latch, so it is
// safe from any context.
func rawMicros() uint32 {
	return regs.timeRawL.Get()
}

// Micros returns the raw 64-bit microsecond count without the latch.
// The high word is read on both sides of the low word to detect rollover.
func Micros() uint64 {
	for {
		high1 := regs.timeRawH.Get()
		low := regs.timeRawL.Get()
		high2 := regs.timeRawH.Get()
		if high1 == high2 {
			return uint64(high1)<<32 | uint64(low)
		}
	}
}
