//go:build tinygo

package uart

import "runtime/interrupt"

type critState = interrupt.State

func enterCritical() critState {
	return interrupt.Disable()
}

func exitCritical(s critState) {
	interrupt.Restore(s)
}

// idleWait is one iteration of a foreground wait loop; the interrupt wakes
// the core, so spinning is all there is.
func idleWait() {
}
