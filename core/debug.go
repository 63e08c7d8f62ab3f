package core

import "strconv"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a timer event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	ID        uint8  // Timer, event or task ID
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTimerStart     = 1 // Hardware timer armed (v1 = load in us)
	EvtTimerStop      = 2 // Hardware timer stopped
	EvtTimerFire      = 3 // Interrupt flag observed set
	EvtEventSchedule  = 4 // Event scheduled (v1/v2 = wake time lo/hi)
	EvtEventRun       = 5 // Event ran (v1 = lateness in ticks)
	EvtEventPast      = 6 // Event rescheduled into the past
	EvtTaskRun        = 7 // Polled task ran
	EvtUptimeUnverify = 8 // Latched uptime read exhausted its retry budget
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the platform output function (UART, USB, ...)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; off by default for timing accuracy
	debugEnabled bool

	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns event capture on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// DebugPrintln writes a debug message if debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer. Never blocks.
func RecordTiming(eventType, id uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		ID:        id,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

func eventName(eventType uint8) string {
	switch eventType {
	case EvtTimerStart:
		return "TIMER_START"
	case EvtTimerStop:
		return "TIMER_STOP"
	case EvtTimerFire:
		return "TIMER_FIRE"
	case EvtEventSchedule:
		return "EVENT_SCHED"
	case EvtEventRun:
		return "EVENT_RUN"
	case EvtEventPast:
		return "EVENT_PAST!"
	case EvtTaskRun:
		return "TASK_RUN"
	case EvtUptimeUnverify:
		return "UPTIME_STALE?"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing writes the ring buffer through the debug writer.
// Call after stopping time-critical code.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" id=" + strconv.Itoa(int(evt.ID)) +
			" clock=" + strconv.FormatUint(uint64(evt.Clock), 10) +
			" v1=" + strconv.FormatUint(uint64(evt.Value1), 10) +
			" v2=" + strconv.FormatUint(uint64(evt.Value2), 10))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
