package i2c

import "sechal/debug"

// Interrupt is the single dispatch entry point for this instance's hardware
// interrupt. Target packages register it as the ISR body; the test harness
// calls it directly.
//
// It reads the flag word once, performs at most one state transition, and
// clears exactly the flag bits it consumed, so an event arriving together
// with another stays pending for the next invocation. No allocation and no
// blocking happens here.
func (b *Bus) Interrupt() {
	cs := enterCritical()
	defer exitCritical(cs)

	flags := b.regs.Flags()
	if flags == 0 {
		return
	}
	if b.cfg.Role == RoleMaster {
		b.masterStep(flags)
	} else {
		b.slaveStep(flags)
	}
}

// masterStep advances the master engine by one transition. Caller holds the
// critical section.
func (b *Bus) masterStep(flags Flags) {
	if !b.active || b.xfer.done {
		// Spurious or late interrupt: the foreground may have aborted
		// between our steps. Acknowledge and ignore.
		b.regs.ClearFlags(flags)
		return
	}

	// Faults preempt whatever state we are in.
	if flags&FlagArbLost != 0 {
		b.regs.ClearFlags(FlagArbLost)
		b.failLocked(ErrArbitrationLost)
		return
	}
	if flags&FlagBusTimeout != 0 {
		b.regs.ClearFlags(FlagBusTimeout)
		b.regs.Recover()
		b.failLocked(ErrTimeout)
		return
	}

	switch b.state {
	case StateStarted:
		switch {
		case flags&FlagAddrNack != 0:
			b.regs.ClearFlags(FlagAddrNack)
			// The bus must never be left hung: give it up before
			// surfacing the error.
			b.failLocked(ErrNack)
		case flags&FlagAddrAck != 0:
			b.regs.ClearFlags(FlagAddrAck)
			b.state = StateAddress
		default:
			b.regs.ClearFlags(flags)
		}

	case StateAddress, StateData:
		if b.xfer.phase == dirWrite {
			b.masterWriteStep(flags)
		} else {
			b.masterReadStep(flags)
		}

	case StateStopPending:
		if flags&FlagDone != 0 {
			b.regs.ClearFlags(FlagDone)
			b.state = StateIdle
			b.xfer.done = true
		} else {
			b.regs.ClearFlags(flags)
		}

	default:
		b.regs.ClearFlags(flags)
	}
}

// masterWriteStep handles one event of the data phase in write direction.
func (b *Bus) masterWriteStep(flags Flags) {
	if flags&FlagDataNack != 0 {
		b.regs.ClearFlags(FlagDataNack)
		b.failLocked(ErrNack)
		return
	}
	if flags&FlagTxReady == 0 {
		b.regs.ClearFlags(flags)
		return
	}
	b.regs.ClearFlags(FlagTxReady)

	x := &b.xfer
	switch {
	case x.aqPos < x.aqLen:
		// Second byte of a 10-bit address.
		b.regs.WriteData(x.aq[x.aqPos])
		x.aqPos++
	case x.wi < len(x.w):
		b.regs.WriteData(x.w[x.wi])
		x.wi++
		b.state = StateData
	case x.dir != dirWrite:
		// Write phase exhausted and a read phase follows: repeated
		// start, then the address again in read form.
		b.beginReadPhaseLocked()
	default:
		b.regs.Stop()
		b.state = StateStopPending
		debug.Trace(debug.EvtI2CStop, uint32(x.addr))
	}
}

// masterReadStep handles one received byte of the read phase.
func (b *Bus) masterReadStep(flags Flags) {
	if flags&FlagRxReady == 0 {
		b.regs.ClearFlags(flags)
		return
	}
	b.regs.ClearFlags(FlagRxReady)

	x := &b.xfer
	if x.ri < len(x.r) {
		x.r[x.ri] = b.regs.ReadData()
		x.ri++
	}
	if x.ri >= len(x.r) {
		b.regs.Stop()
		b.state = StateStopPending
		debug.Trace(debug.EvtI2CStop, uint32(x.addr))
		return
	}
	// ACK everything except the last wanted byte, which is NACKed to tell
	// the slave no more data is needed.
	b.regs.AckNext(x.ri < len(x.r)-1)
	b.state = StateData
}

// beginReadPhaseLocked switches a write-then-read transaction into its read
// phase with a repeated start. Caller holds the critical section.
func (b *Bus) beginReadPhaseLocked() {
	x := &b.xfer
	x.phase = dirRead
	x.aq, x.aqLen = addrBytes(x.addr, true, x.addr > 0x7F)
	x.aqPos = 1
	b.regs.WriteData(x.aq[0])
	b.regs.AckNext(len(x.r) > 1)
	b.regs.Restart()
	b.state = StateStarted
	debug.Trace(debug.EvtI2CStart, uint32(x.addr))
}

// slaveStep advances the slave engine by one transition. Caller holds the
// critical section.
func (b *Bus) slaveStep(flags Flags) {
	s := b.session
	if s == nil {
		b.regs.ClearFlags(flags)
		return
	}

	switch b.state {
	case StateIdle, StateError:
		switch {
		case flags&FlagAddrMatchWrite != 0:
			b.regs.ClearFlags(FlagAddrMatchWrite)
			s.dir = dirWrite
			b.state = StateAddress
			s.pushLocked(Event{Kind: EventAddressedForWrite})
			debug.Trace(debug.EvtI2CAddrMatch, uint32(b.cfg.OwnAddress))
		case flags&FlagAddrMatchRead != 0:
			b.regs.ClearFlags(FlagAddrMatchRead)
			s.dir = dirRead
			b.state = StateAddress
			s.pushLocked(Event{Kind: EventAddressedForRead})
			debug.Trace(debug.EvtI2CAddrMatch, uint32(b.cfg.OwnAddress))
		default:
			b.regs.ClearFlags(flags)
		}

	case StateAddress, StateData:
		switch {
		case s.dir == dirWrite && flags&FlagRxReady != 0:
			b.regs.ClearFlags(FlagRxReady)
			b.slaveRxStep(s)
		case s.dir == dirRead && flags&FlagTxReady != 0:
			b.regs.ClearFlags(FlagTxReady)
			b.slaveTxStep(s)
		case flags&FlagDone != 0:
			b.regs.ClearFlags(FlagDone)
			b.state = StateIdle
			s.overflowed = false
			s.underrun = false
			s.pushLocked(Event{Kind: EventTransactionComplete})
		case flags&FlagBusTimeout != 0:
			b.regs.ClearFlags(FlagBusTimeout)
			b.state = StateIdle
			s.overflowed = false
			s.underrun = false
			s.pushLocked(Event{Kind: EventError, Err: ErrTimeout})
		default:
			b.regs.ClearFlags(flags)
		}

	default:
		b.regs.ClearFlags(flags)
	}
}

// slaveRxStep stores one received byte. On a full ring the incoming byte is
// dropped (drop-newest policy) and the overflow is reported exactly once
// per transaction; the hardware keeps ACKing, so the master is not
// disturbed.
func (b *Bus) slaveRxStep(s *Session) {
	v := b.regs.ReadData()
	b.state = StateData
	if s.rx.Push(v) {
		s.pushLocked(Event{Kind: EventByteReceived, Byte: v})
		return
	}
	if !s.overflowed {
		s.overflowed = true
		s.pushLocked(Event{Kind: EventError, Err: ErrBufferOverflow})
	}
}

// slaveTxStep hands one byte to the hardware for transmission. An exhausted
// source supplies the documented 0x00 filler and reports underrun once per
// transaction.
func (b *Bus) slaveTxStep(s *Session) {
	v, ok := s.tx.NextByte()
	if !ok {
		v = 0x00
		if !s.underrun {
			s.underrun = true
			s.pushLocked(Event{Kind: EventError, Err: ErrBufferUnderrun})
		}
	}
	b.regs.WriteData(v)
	b.state = StateData
	s.pushLocked(Event{Kind: EventByteRequested, Byte: v})
}
