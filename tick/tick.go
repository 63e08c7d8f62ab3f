// Package tick provides instants and durations measured in hardware ticks.
//
// The tick rate is part of the type: Instant[MHz16] and Instant[MHz1] cannot
// be mixed, so arithmetic between measures taken at different frequencies is
// a compile error rather than a silent unit bug.
package tick

import (
	"math/bits"
	"time"
)

// Rate is a compile-time tick frequency. Implementations are zero-size types.
type Rate interface {
	TicksPerSecond() uint64
}

// MHz1 is a 1 MHz tick (one tick per microsecond).
type MHz1 struct{}

func (MHz1) TicksPerSecond() uint64 { return 1_000_000 }

// MHz16 is a 16 MHz tick, the rate of the ESP32 LACT and SYSTIMER counters.
type MHz16 struct{}

func (MHz16) TicksPerSecond() uint64 { return 16_000_000 }

// GHz1 is a 1 GHz tick (one tick per nanosecond), used by host counters.
type GHz1 struct{}

func (GHz1) TicksPerSecond() uint64 { return 1_000_000_000 }

// Hz returns the tick frequency of R.
func Hz[R Rate]() uint64 {
	var r R
	return r.TicksPerSecond()
}

// Instant is a point in time, in ticks since the counter started.
type Instant[R Rate] struct {
	ticks uint64
}

// Duration is a span of ticks.
type Duration[R Rate] struct {
	ticks uint64
}

// MicrosDuration is the load value unit of hardware timers.
type MicrosDuration = Duration[MHz1]

// InstantFromTicks wraps a raw tick count.
func InstantFromTicks[R Rate](ticks uint64) Instant[R] {
	return Instant[R]{ticks: ticks}
}

// DurationFromTicks wraps a raw tick span.
func DurationFromTicks[R Rate](ticks uint64) Duration[R] {
	return Duration[R]{ticks: ticks}
}

// Ticks returns the raw count.
func (i Instant[R]) Ticks() uint64 { return i.ticks }

// Sub returns i - earlier. The subtraction wraps, so it stays correct across
// a counter wraparound as long as the true span fits in 64 bits.
func (i Instant[R]) Sub(earlier Instant[R]) Duration[R] {
	return Duration[R]{ticks: i.ticks - earlier.ticks}
}

// Add returns i + d.
func (i Instant[R]) Add(d Duration[R]) Instant[R] {
	return Instant[R]{ticks: i.ticks + d.ticks}
}

// Before reports whether i is strictly earlier than o.
func (i Instant[R]) Before(o Instant[R]) bool { return i.ticks < o.ticks }

// After reports whether i is strictly later than o.
func (i Instant[R]) After(o Instant[R]) bool { return i.ticks > o.ticks }

// SinceBoot returns the duration from tick zero to i.
func (i Instant[R]) SinceBoot() Duration[R] { return Duration[R]{ticks: i.ticks} }

// Ticks returns the raw span.
func (d Duration[R]) Ticks() uint64 { return d.ticks }

// Add returns d + o.
func (d Duration[R]) Add(o Duration[R]) Duration[R] {
	return Duration[R]{ticks: d.ticks + o.ticks}
}

// Micros returns d in whole microseconds, rounded down.
func (d Duration[R]) Micros() uint64 {
	return scale(d.ticks, 1_000_000, Hz[R](), false)
}

// Std converts d to a time.Duration, saturating at the maximum.
func (d Duration[R]) Std() time.Duration {
	ns := scale(d.ticks, 1_000_000_000, Hz[R](), false)
	if ns > uint64(1<<63-1) {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ns)
}

// Millis builds a microsecond duration from milliseconds.
func Millis(ms uint64) MicrosDuration {
	return MicrosDuration{ticks: ms * 1000}
}

// Micros builds a microsecond duration.
func Micros(us uint64) MicrosDuration {
	return MicrosDuration{ticks: us}
}

// Nanos builds a microsecond duration from nanoseconds, rounding up so the
// result is never shorter than requested.
func Nanos(ns uint64) MicrosDuration {
	return MicrosDuration{ticks: ns/1000 + boolToUint(ns%1000 != 0)}
}

// FromStd converts a time.Duration to ticks of R, rounding up. Negative
// durations become zero.
func FromStd[R Rate](d time.Duration) Duration[R] {
	if d <= 0 {
		return Duration[R]{}
	}
	return Duration[R]{ticks: scale(uint64(d), Hz[R](), 1_000_000_000, true)}
}

// Convert rescales a duration to another rate, rounding down.
func Convert[To, From Rate](d Duration[From]) Duration[To] {
	return Duration[To]{ticks: scale(d.ticks, Hz[To](), Hz[From](), false)}
}

// scale computes v*mul/div with a 128-bit intermediate, saturating on overflow.
func scale(v, mul, div uint64, roundUp bool) uint64 {
	hi, lo := bits.Mul64(v, mul)
	if hi >= div {
		return ^uint64(0)
	}
	q, r := bits.Div64(hi, lo, div)
	if roundUp && r != 0 && q != ^uint64(0) {
		q++
	}
	return q
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
