package sim

import (
	"sync"

	"gotick/mmio"
	"gotick/tick"
	"gotick/uptime"
)

// count converts clock time to ticks of R, rounding down.
func count[R tick.Rate](clock Clock) uint64 {
	return tick.Convert[R](tick.DurationFromTicks[tick.GHz1](uint64(clock.Now()))).Ticks()
}

// WideCounter is a free-running 64-bit counter readable in one access.
type WideCounter[R tick.Rate] struct {
	Preset uint64
	clock  Clock
}

func NewWideCounter[R tick.Rate](clock Clock) *WideCounter[R] {
	return &WideCounter[R]{clock: clock}
}

// Count returns the current counter value.
func (c *WideCounter[R]) Count() uint64 {
	return c.Preset + count[R](c.clock)
}

// LatchCounter is a free-running counter visible only through a capture
// register pair, like the ESP32 TIMG LACT timer.
//
// A write to the Update register starts a capture which lands after
// CaptureDelay reads of Lo. While Stuck, captures never land.
type LatchCounter[R tick.Rate] struct {
	// Preset is added to the counted value, e.g. to start near a 32-bit carry.
	Preset uint64
	// CaptureDelay is the number of Lo reads that still return the old value.
	CaptureDelay int
	// Stuck disables the capture mechanism.
	Stuck bool

	mu      sync.Mutex
	clock   Clock
	config  mmio.Reg32
	lo, hi  uint32
	pending int
	loReads int
	updates int
}

// NewLatchCounter returns a counter whose captures land on the second Lo read.
func NewLatchCounter[R tick.Rate](clock Clock) *LatchCounter[R] {
	return &LatchCounter[R]{clock: clock, CaptureDelay: 1}
}

// Registers exposes the counter's register file.
func (c *LatchCounter[R]) Registers() uptime.LatchRegisters {
	return uptime.LatchRegisters{
		Update: mmio.Func{Write: c.writeUpdate},
		Lo:     mmio.Func{Read: c.readLo},
		Hi:     mmio.Func{Read: c.readHi},
		Config: &c.config,
	}
}

// LoReads returns the number of Lo reads so far.
func (c *LatchCounter[R]) LoReads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loReads
}

// Updates returns the number of capture requests so far.
func (c *LatchCounter[R]) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// Value returns the live counter without a capture.
func (c *LatchCounter[R]) Value() uint64 {
	return c.Preset + count[R](c.clock)
}

func (c *LatchCounter[R]) writeUpdate(uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates++
	if c.Stuck {
		return
	}
	if c.CaptureDelay <= 0 {
		c.captureLocked()
		return
	}
	c.pending = c.CaptureDelay
}

func (c *LatchCounter[R]) readLo() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loReads++
	lo := c.lo
	if c.pending > 0 {
		c.pending--
		if c.pending == 0 {
			c.captureLocked()
		}
	}
	return lo
}

func (c *LatchCounter[R]) readHi() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hi
}

func (c *LatchCounter[R]) captureLocked() {
	v := c.Preset + count[R](c.clock)
	c.lo = uint32(v)
	c.hi = uint32(v >> 32)
}
