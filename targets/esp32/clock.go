//go:build esp32

package esp32

import (
	"gotick/mmio"
	"gotick/tick"
	"gotick/uptime"
)

// lactDivider brings the 80MHz APB clock down to 16MHz.
const lactDivider = apbFrequency / 16_000_000

var (
	lactReader *uptime.Latched
	lactSource *uptime.Source[tick.MHz16]
)

// Uptime returns the system uptime source backed by the TIMG0 LACT timer.
// The counter is configured on first use and never stopped. At 16MHz the
// 64-bit count wraps after about 36558 years.
func Uptime() *uptime.Source[tick.MHz16] {
	if lactSource == nil {
		g := group(0)
		lactReader = uptime.NewLatched(uptime.LatchRegisters{
			Update: &g.lactUpdate,
			Lo:     &g.lactLo,
			Hi:     &g.lactHi,
			Config: &g.lactConfig,
		}, dividerField)
		lactSource = uptime.New[tick.MHz16](lactReader, initLACT)
	}
	return lactSource
}

// LatchReader exposes the LACT reader for diagnostics.
func LatchReader() *uptime.Latched {
	Uptime()
	return lactReader
}

// initLACT sets the divider, pushes the alarm to the maximum span and
// starts the counter with auto-reload.
func initLACT() {
	g := group(0)

	g.lactConfig.Set(0)
	g.lactAlarmHi.Set(0xFFFFFFFF)
	g.lactAlarmLo.Set(0xFFFFFFFF)
	g.lactLoad.Set(1)

	dividerField.Set(&g.lactConfig, lactDivider)
	g.lactConfig.SetBits(mmio.Bit(cfgIncrease) | mmio.Bit(cfgAutoReload) | mmio.Bit(cfgEnable))
}
