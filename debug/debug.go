// Package debug provides the HAL's diagnostic sinks: a pluggable text
// writer for foreground messages and a fixed-size event ring that interrupt
// handlers can append to without allocating or blocking.
package debug

// Writer is a function that emits one debug message.
type Writer func(string)

// Event codes recorded by the peripheral drivers.
const (
	EvtI2CStart     = 1 // master queued a start condition
	EvtI2CStop      = 2 // stop condition queued
	EvtI2CAddrMatch = 3 // slave address matched
	EvtI2CFault     = 4 // terminal bus fault
	EvtI2CRecover   = 5 // bus recovery performed
	EvtUARTOverflow = 6 // UART RX ring dropped a byte
)

// TraceEvent captures one timing-critical event for post-mortem analysis.
type TraceEvent struct {
	Code  uint8
	Value uint32
}

const traceRingSize = 32

var (
	// println is the global debug sink; no-op until a platform installs one.
	println Writer = func(string) {}

	enabled bool

	traceRing [traceRingSize]TraceEvent
	traceHead uint8
)

// SetWriter installs the platform-specific output function (UART,
// semihosting, stderr on the host).
func SetWriter(w Writer) {
	println = w
}

// SetEnabled turns foreground debug output on or off. Trace capture is
// always on; it is cheap and never blocks.
func SetEnabled(on bool) {
	enabled = on
}

// Print emits a message through the installed writer when enabled.
func Print(s string) {
	if enabled {
		println(s)
	}
}

// Trace records an event in the ring. Safe to call from interrupt context:
// fixed storage, no locking, single writer per event slot.
func Trace(code uint8, value uint32) {
	traceRing[traceHead%traceRingSize] = TraceEvent{Code: code, Value: value}
	traceHead++
}

// TraceLog returns the captured events, oldest first. Intended for
// post-mortem dumps after a fault; not synchronized against concurrent
// Trace calls.
func TraceLog() []TraceEvent {
	out := make([]TraceEvent, 0, traceRingSize)
	n := int(traceHead)
	if n > traceRingSize {
		n = traceRingSize
	}
	start := traceHead - uint8(n)
	for i := 0; i < n; i++ {
		out = append(out, traceRing[(start+uint8(i))%traceRingSize])
	}
	return out
}
