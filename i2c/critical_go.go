//go:build !tinygo

package i2c

import (
	"runtime"
	"sync"
)

// On regular Go the "interrupt context" is another goroutine (the test
// harness pumping the simulated hardware), so the critical section is a
// plain mutex shared by all instances, mirroring a global interrupt mask.

type critState struct{}

var critMu sync.Mutex

func enterCritical() critState {
	critMu.Lock()
	return critState{}
}

func exitCritical(critState) {
	critMu.Unlock()
}

// idleWait lets the harness goroutine run while the foreground waits.
func idleWait() {
	runtime.Gosched()
}
