// Package uptime derives a monotonic 64-bit tick count from hardware
// counters and exposes it as elapsed time since boot.
package uptime

import (
	"time"

	"gotick/mmio"
)

// Reader produces the raw 64-bit tick count. It never fails once the
// counter has been configured.
type Reader interface {
	ReadRaw() uint64
}

// Direct reads a counter that is already 64 bits wide and consistent on
// every read, e.g. a free-running register the hardware snapshots for us.
type Direct func() uint64

func (d Direct) ReadRaw() uint64 {
	return d()
}

// Pair reads a lo/hi register pair where reading Lo freezes Hi until Hi is
// read (RP2040 TIMELR/TIMEHR). The read order is the whole protocol.
type Pair struct {
	Lo mmio.Register32
	Hi mmio.Register32
}

func (p Pair) ReadRaw() uint64 {
	lo := p.Lo.Get()
	hi := p.Hi.Get()
	return uint64(hi)<<32 | uint64(lo)
}

// HostCounter counts nanoseconds on the Go monotonic clock. It serves host
// builds where no peripheral exists.
type HostCounter struct {
	boot time.Time
}

// NewHostCounter starts counting from zero now.
func NewHostCounter() *HostCounter {
	return &HostCounter{boot: time.Now()}
}

func (h *HostCounter) ReadRaw() uint64 {
	return uint64(time.Since(h.boot))
}
