//go:build !tinygo

package uart

import (
	"runtime"
	"sync"
)

// On regular Go the interrupt context is the test harness goroutine, so the
// critical section is a plain mutex shared by all instances.

type critState struct{}

var critMu sync.Mutex

func enterCritical() critState {
	critMu.Lock()
	return critState{}
}

func exitCritical(critState) {
	critMu.Unlock()
}

func idleWait() {
	runtime.Gosched()
}
