package i2c

import (
	"time"

	"sechal/fifo"
)

// TxSource supplies the bytes a slave sends when the master reads from it.
type TxSource interface {
	// NextByte returns the next byte to transmit, or ok=false when the
	// source is exhausted. An exhausted source makes the engine send the
	// 0x00 filler byte and report ErrBufferUnderrun once per transaction.
	NextByte() (b byte, ok bool)
}

// BytesSource is a TxSource over a byte slice. Rewind re-arms it for the
// next transaction.
type BytesSource struct {
	p []byte
	i int
}

// NewBytesSource returns a source that yields p front to back.
func NewBytesSource(p []byte) *BytesSource {
	return &BytesSource{p: p}
}

func (s *BytesSource) NextByte() (byte, bool) {
	if s.i >= len(s.p) {
		return 0, false
	}
	b := s.p[s.i]
	s.i++
	return b, true
}

// Rewind restarts the source from the first byte.
func (s *BytesSource) Rewind() {
	s.i = 0
}

// EventKind classifies slave session events.
type EventKind uint8

const (
	// EventNone means no event is pending.
	EventNone EventKind = iota

	// EventAddressedForWrite: the master addressed us and will write.
	EventAddressedForWrite

	// EventByteReceived: a byte arrived and was stored in the rx ring.
	// Event.Byte carries its value.
	EventByteReceived

	// EventAddressedForRead: the master addressed us and will read.
	EventAddressedForRead

	// EventByteRequested: a byte was handed to the hardware for
	// transmission. Event.Byte carries its value.
	EventByteRequested

	// EventTransactionComplete: a stop or repeated start ended the
	// transaction; the bus is idle again.
	EventTransactionComplete

	// EventError: a non-fatal fault occurred. Event.Err carries the
	// classification. The session keeps listening.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventAddressedForWrite:
		return "addressed-for-write"
	case EventByteReceived:
		return "byte-received"
	case EventAddressedForRead:
		return "addressed-for-read"
	case EventByteRequested:
		return "byte-requested"
	case EventTransactionComplete:
		return "transaction-complete"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is one slave session occurrence.
type Event struct {
	Kind EventKind
	Byte byte
	Err  error
}

const evqSize = 16

// Session is an active slave listener on one bus instance. The dispatcher
// fills it from interrupt context; the application drains it with Poll or
// WaitEvent.
type Session struct {
	bus *Bus
	rx  *fifo.Ring
	tx  TxSource

	// Fixed-capacity event queue written from interrupt context. When it
	// overflows the oldest event is dropped, so terminal events are never
	// lost to a slow poller.
	evq    [evqSize]Event
	evHead uint8
	evTail uint8

	dir        direction
	overflowed bool
	underrun   bool
}

// Listen registers a slave session. rx receives bytes when the master
// writes to us; tx supplies bytes when the master reads. Only one session
// may exist per bus; a new Listen replaces nothing and fails if one is
// already registered.
func (b *Bus) Listen(rx *fifo.Ring, tx TxSource) (*Session, error) {
	if rx == nil || tx == nil {
		return nil, ErrInvalidState
	}

	cs := enterCritical()
	defer exitCritical(cs)

	if !b.configured {
		return nil, ErrNotConfigured
	}
	if b.cfg.Role != RoleSlave {
		return nil, ErrWrongRole
	}
	if b.session != nil {
		return nil, ErrInvalidState
	}

	s := &Session{bus: b, rx: rx, tx: tx}
	b.session = s
	b.regs.ClearFlags(flagAll)
	b.regs.FlushFIFO()
	b.regs.AckNext(true)
	b.regs.EnableInterrupts(slaveIntSources)
	return s, nil
}

// Close detaches the session. The bus stays configured and can Listen
// again.
func (s *Session) Close() {
	cs := enterCritical()
	defer exitCritical(cs)
	if s.bus.session == s {
		s.bus.regs.DisableInterrupts(slaveIntSources)
		s.bus.session = nil
	}
}

// Poll returns the next pending event without blocking. When nothing is
// pending it returns an Event with Kind EventNone.
func (s *Session) Poll() Event {
	cs := enterCritical()
	defer exitCritical(cs)
	if s.evHead == s.evTail {
		return Event{Kind: EventNone}
	}
	ev := s.evq[s.evHead]
	s.evHead = (s.evHead + 1) % evqSize
	return ev
}

// WaitEvent blocks for up to timeout waiting for the next event. Slave
// timing is driven by the remote master, so this is a bounded convenience
// wait, not a completion guarantee; it returns EventNone on timeout.
func (s *Session) WaitEvent(timeout time.Duration) Event {
	deadline := time.Now().Add(timeout)
	for {
		if ev := s.Poll(); ev.Kind != EventNone {
			return ev
		}
		if time.Now().After(deadline) {
			return Event{Kind: EventNone}
		}
		idleWait()
	}
}

// pushLocked appends an event from interrupt context, dropping the oldest
// on overflow. Caller holds the critical section.
func (s *Session) pushLocked(ev Event) {
	next := (s.evTail + 1) % evqSize
	if next == s.evHead {
		s.evHead = (s.evHead + 1) % evqSize
	}
	s.evq[s.evTail] = ev
	s.evTail = next
}
