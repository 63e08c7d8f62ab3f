package rp2040

// armCompare writes an alarm compare value, pushing it forward by whole
// periods while it is not after the counter so a late re-arm cannot wait a
// full 32-bit wrap (~71 minutes). base moves with target.
//
// The alarm matches only on equality, so a target that the counter passes
// while the register write is in flight never fires. The counter is read
// again after the write and the target moved on if that happened.
func armCompare(target, base, period, now uint32, counter func() uint32, write func(uint32), fired func() bool) (uint32, uint32) {
	for {
		for int32(target-now) <= 0 {
			target += period
			base += period
		}
		write(target)

		now = counter()
		if int32(target-now) > 0 || fired() {
			return target, base
		}
	}
}
