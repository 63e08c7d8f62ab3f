package uptime

import "gotick/mmio"

// LatchRegisters is a counter whose value is only visible after a capture.
// A write to Update copies the live counter into Lo/Hi some time later;
// the hardware has no completion flag.
type LatchRegisters struct {
	Update mmio.Register32
	Lo     mmio.Register32
	Hi     mmio.Register32
	Config mmio.Register32
}

// Latched reads a LatchRegisters counter.
//
// Completion is inferred from the low half changing after the capture
// request. Polling is bounded by the divider field of Config, so a disabled
// or broken capture costs a stale value instead of a hang.
//
// Not reentrant: a capture issued from an interrupt handler while another
// read is polling interleaves with it. Callers serialize access.
type Latched struct {
	regs    LatchRegisters
	divider mmio.Field

	unverified uint32
}

// NewLatched reads regs using the divider field as the retry budget.
func NewLatched(regs LatchRegisters, divider mmio.Field) *Latched {
	return &Latched{regs: regs, divider: divider}
}

func (l *Latched) ReadRaw() uint64 {
	l.regs.Update.Set(1)

	initial := l.regs.Lo.Get()
	budget := l.divider.Get(l.regs.Config)

	lo := l.regs.Lo.Get()
	for lo == initial {
		if budget == 0 {
			l.unverified++
			break
		}
		budget--
		lo = l.regs.Lo.Get()
	}

	hi := l.regs.Hi.Get()
	return uint64(hi)<<32 | uint64(lo)
}

// Unverified returns how many reads ended with the retry budget exhausted.
// Such a read may be stale by up to one capture.
func (l *Latched) Unverified() uint32 {
	return l.unverified
}
