//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts enters a critical section and returns the state to
// restore. Critical sections nest.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts leaves a critical section.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
