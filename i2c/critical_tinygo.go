//go:build tinygo

package i2c

import "runtime/interrupt"

// critState is the saved interrupt mask state.
type critState = interrupt.State

// enterCritical masks interrupts and returns the previous state.
func enterCritical() critState {
	return interrupt.Disable()
}

// exitCritical restores the saved interrupt state.
func exitCritical(s critState) {
	interrupt.Restore(s)
}

// idleWait is one iteration of a foreground wait loop. On hardware the
// interrupt wakes the core, so there is nothing useful to do but spin.
func idleWait() {
}
