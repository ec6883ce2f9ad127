package i2c

// State is the bus state machine. Exactly one State value exists per
// peripheral instance; the dispatcher is its only writer and the foreground
// reads it under the same critical section.
type State uint8

const (
	// StateIdle means no transaction is in progress.
	StateIdle State = iota

	// StateStarted means a start (or repeated start) has been queued and
	// the address byte is on its way out.
	StateStarted

	// StateAddress means the address phase completed: the master saw an
	// ACK, or the slave matched its own address.
	StateAddress

	// StateData means byte-wise data transfer is in progress.
	StateData

	// StateStopPending means a stop has been queued and the engine is
	// waiting for the hardware to confirm it went out.
	StateStopPending

	// StateError is the terminal fault state. It is left for StateIdle
	// when the foreground collects the transaction result.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateAddress:
		return "address"
	case StateData:
		return "data"
	case StateStopPending:
		return "stop-pending"
	case StateError:
		return "error"
	}
	return "unknown"
}

// direction is the data direction of a transfer phase.
type direction uint8

const (
	dirWrite direction = iota
	dirRead
	dirWriteRead
)

// transfer is the in-flight master transaction. It lives inside the Bus by
// value; nothing here is heap-allocated per call.
type transfer struct {
	addr  uint16
	dir   direction
	phase direction // current phase: dirWrite or dirRead

	// Address bytes still to transmit in the current phase (two for the
	// 10-bit form).
	aq    [2]byte
	aqLen uint8
	aqPos uint8

	w  []byte
	r  []byte
	wi int
	ri int

	done bool
	err  error
}

// addrBytes encodes the wire form of an address for the given direction,
// MSB first. Addresses above 0x7F use the 10-bit 11110xx prefix form; the
// read phase of a 10-bit exchange resends only the prefix byte after the
// repeated start.
func addrBytes(addr uint16, read bool, resend bool) (aq [2]byte, n uint8) {
	rw := byte(0)
	if read {
		rw = 1
	}
	if addr <= 0x7F {
		aq[0] = byte(addr)<<1 | rw
		return aq, 1
	}
	aq[0] = 0xF0 | byte(addr>>8)<<1 | rw
	if resend {
		return aq, 1
	}
	aq[1] = byte(addr)
	return aq, 2
}
