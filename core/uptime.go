package core

// UptimeSource is the system tick counter provided by the target.
// uptime.Source satisfies it.
type UptimeSource interface {
	NowRaw() uint64
	Hz() uint64
}

// Global singleton used by core code.
var uptimeSource UptimeSource

// SetUptime is called by target-specific code to register its counter.
func SetUptime(s UptimeSource) {
	uptimeSource = s
}

// MustUptime returns the registered counter or panics if missing.
func MustUptime() UptimeSource {
	if uptimeSource == nil {
		panic("uptime source not configured")
	}
	return uptimeSource
}

// GetUptime returns the 64-bit uptime in ticks.
//
// The read happens with interrupts disabled: latched counters are read with
// a capture-then-poll sequence that must not interleave with a read from an
// interrupt handler.
func GetUptime() uint64 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return MustUptime().NowRaw()
}

// GetTime returns the low 32 bits of the uptime.
func GetTime() uint32 {
	return uint32(GetUptime())
}

// TimerFromUS converts microseconds to ticks at the registered rate.
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * MustUptime().Hz() / 1000000)
}

// TimerToUS converts ticks at the registered rate to microseconds.
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / MustUptime().Hz())
}

// clockNow is GetTime, or 0 before a counter is registered.
func clockNow() uint32 {
	if uptimeSource == nil {
		return 0
	}
	return GetTime()
}
