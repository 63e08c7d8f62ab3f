//go:build esp32

// Package esp32 drives the ESP32 timer groups: the two general-purpose
// timers of TIMG0/TIMG1 as timer.Timer, and the TIMG0 LACT counter as the
// system uptime source.
package esp32

import (
	"runtime/volatile"
	"unsafe"

	"gotick/mmio"
)

// Timer group base addresses
const (
	timg0Base = 0x3FF5F000
	timg1Base = 0x3FF60000
)

// APB clock feeding the timer groups. The clock tree is not touched here.
const apbFrequency = 80_000_000

// timerRegs is one general-purpose timer (T0 at 0x00, T1 at 0x24).
type timerRegs struct {
	config  volatile.Register32 // 0x00
	lo      volatile.Register32 // 0x04
	hi      volatile.Register32 // 0x08
	update  volatile.Register32 // 0x0C
	alarmLo volatile.Register32 // 0x10
	alarmHi volatile.Register32 // 0x14
	loadLo  volatile.Register32 // 0x18
	loadHi  volatile.Register32 // 0x1C
	load    volatile.Register32 // 0x20
}

// timgRegs is the register file of one timer group.
type timgRegs struct {
	t           [2]timerRegs           // 0x00
	wdt         [8]volatile.Register32 // 0x48 WDT config/feed/protect
	rtcCaliCfg  volatile.Register32    // 0x68
	rtcCaliCfg1 volatile.Register32    // 0x6C
	lactConfig  volatile.Register32    // 0x70
	lactRTC     volatile.Register32    // 0x74
	lactLo      volatile.Register32    // 0x78
	lactHi      volatile.Register32    // 0x7C
	lactUpdate  volatile.Register32    // 0x80
	lactAlarmLo volatile.Register32    // 0x84
	lactAlarmHi volatile.Register32    // 0x88
	lactLoadLo  volatile.Register32    // 0x8C
	lactLoadHi  volatile.Register32    // 0x90
	lactLoad    volatile.Register32    // 0x94
	intEna      volatile.Register32    // 0x98
	intRaw      volatile.Register32    // 0x9C
	intSt       volatile.Register32    // 0xA0
	intClr      volatile.Register32    // 0xA4
}

// Config register bits, shared by T0/T1 and LACT
const (
	cfgEnable      = 31
	cfgIncrease    = 30
	cfgAutoReload  = 29
	cfgLevelIntEn  = 11
	cfgAlarmEnable = 10
)

var dividerField = mmio.Field{Shift: 13, Width: 16}

// Interrupt bits in INT_ENA/INT_RAW/INT_CLR
const (
	intT0   = 0
	intT1   = 1
	intLACT = 3
)

var groups [2]*timgRegs

// group returns the register file of timer group n. This is the only place
// an address becomes a pointer.
func group(n uint8) *timgRegs {
	if groups[n] == nil {
		base := uintptr(timg0Base)
		if n == 1 {
			base = timg1Base
		}
		groups[n] = (*timgRegs)(unsafe.Pointer(base))
	}
	return groups[n]
}
