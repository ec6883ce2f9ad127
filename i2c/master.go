package i2c

import (
	"time"

	"sechal/debug"
)

// DefaultTimeout is used by the Tx convenience wrapper, which has no
// timeout parameter of its own.
const DefaultTimeout = time.Second

// Write transmits p to the peer at addr and waits for completion or the
// timeout. The timeout covers the whole transaction; a slave stretching the
// clock does not trip it as long as the deadline holds.
func (b *Bus) Write(addr uint16, p []byte, timeout time.Duration) error {
	_, err := b.transact(addr, dirWrite, p, nil, timeout)
	return err
}

// Read fills p from the peer at addr. Every received byte is ACKed except
// the last, which is NACKed to end the transfer per protocol convention.
// Returns the number of bytes received.
func (b *Bus) Read(addr uint16, p []byte, timeout time.Duration) (int, error) {
	return b.transact(addr, dirRead, nil, p, timeout)
}

// WriteRead transmits w and then receives into r as a single transaction
// with a repeated start between the phases. No other master can interleave
// between the write and the read.
func (b *Bus) WriteRead(addr uint16, w, r []byte, timeout time.Duration) (int, error) {
	return b.transact(addr, dirWriteRead, w, r, timeout)
}

// Tx implements the transaction shape used by the TinyGo driver ecosystem
// (tinygo.org/x/drivers): write w then read r, skipping either side when
// nil, under DefaultTimeout.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		_, err := b.WriteRead(addr, w, r, DefaultTimeout)
		return err
	case len(w) > 0:
		return b.Write(addr, w, DefaultTimeout)
	case len(r) > 0:
		_, err := b.Read(addr, r, DefaultTimeout)
		return err
	}
	return nil
}

func (b *Bus) transact(addr uint16, dir direction, w, r []byte, timeout time.Duration) (int, error) {
	if !validTargetAddress(addr) {
		return 0, ErrInvalidAddress
	}
	if err := b.begin(addr, dir, w, r); err != nil {
		return 0, err
	}
	return b.wait(timeout)
}

// begin claims the instance for one transaction and kicks off the address
// phase. Fails fast with ErrInvalidState if a transaction is already in
// flight, without disturbing it.
func (b *Bus) begin(addr uint16, dir direction, w, r []byte) error {
	cs := enterCritical()
	defer exitCritical(cs)

	if !b.configured {
		return ErrNotConfigured
	}
	if b.cfg.Role != RoleMaster {
		return ErrWrongRole
	}
	if b.active || b.state != StateIdle {
		return ErrInvalidState
	}

	b.xfer = transfer{addr: addr, dir: dir, w: w, r: r}
	b.active = true

	// A pure read of a 10-bit target still opens with the two-byte
	// address in write form; the read prefix is resent after the repeated
	// start.
	phase := dirWrite
	if dir == dirRead && addr <= 0x7F {
		phase = dirRead
	}
	b.xfer.phase = phase
	b.xfer.aq, b.xfer.aqLen = addrBytes(addr, phase == dirRead, false)

	b.regs.ClearFlags(flagAll)
	b.regs.FlushFIFO()
	b.regs.WriteData(b.xfer.aq[0])
	b.xfer.aqPos = 1
	if phase == dirRead {
		b.regs.AckNext(len(r) > 1)
	}
	b.regs.EnableInterrupts(masterIntSources)
	b.regs.Start()
	b.state = StateStarted
	debug.Trace(debug.EvtI2CStart, uint32(addr))
	return nil
}

// wait blocks the foreground until the dispatcher marks the transaction
// terminal or the deadline expires. On deadline expiry the foreground
// forces the state machine into the timeout error state and performs bus
// recovery before returning.
func (b *Bus) wait(timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		cs := enterCritical()
		if b.xfer.done {
			n := b.xfer.ri
			err := b.xfer.err
			b.finishLocked()
			exitCritical(cs)
			return n, err
		}
		if timeout > 0 && time.Now().After(deadline) {
			b.abortLocked()
			n := b.xfer.ri
			b.finishLocked()
			exitCritical(cs)
			return n, ErrTimeout
		}
		exitCritical(cs)
		idleWait()
	}
}

// abortLocked forces the in-flight transaction into the timeout error
// state. The dispatcher tolerates this happening between any two of its own
// steps. Caller holds the critical section.
func (b *Bus) abortLocked() {
	b.xfer.err = ErrTimeout
	b.xfer.done = true
	b.state = StateError
	b.regs.Stop()
	b.regs.FlushFIFO()
	b.regs.Recover()
	debug.Trace(debug.EvtI2CRecover, uint32(b.h.ID()))
}

// finishLocked collects a terminal transaction and returns the bus to
// idle. Caller holds the critical section.
func (b *Bus) finishLocked() {
	b.regs.DisableInterrupts(masterIntSources)
	b.regs.ClearFlags(flagAll)
	b.active = false
	b.state = StateIdle
}
