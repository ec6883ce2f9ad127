package i2c

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"sechal/periph"
)

// The tests drive the real engines over simulated register blocks joined by
// a wire model. The pump goroutine plays the role of the hardware: it moves
// bytes across the wire and invokes each bus's interrupt dispatcher, so the
// foreground calls under test block and complete exactly as they would on
// the chip.

type wirePhase uint8

const (
	wireIdle wirePhase = iota
	wireWrite
	wireRead
	wireAwaitStop
)

// simWire models the electrical bus between one master and at most one
// slave simulated register block.
type simWire struct {
	mu sync.Mutex
	m  *simRegs
	s  *simRegs

	phase     wirePhase
	await10Lo bool
	prefix    byte

	// Fault-injection knobs.
	stall       bool // hold SCL: nothing moves while set
	arbLoseNext bool // next address byte loses arbitration
	nackData    bool // peer NACKs every data byte

	starts int
	stops  int
}

// simRegs implements Regs over plain fields guarded by the wire mutex.
type simRegs struct {
	w *simWire

	enabled bool
	master  bool
	divHi   uint32
	divLo   uint32
	ownAddr uint16
	tenBit  bool

	pending Flags
	inten   Flags

	txByte byte
	txFull bool
	rxByte byte
	rxFull bool

	ackNext    bool
	startReq   bool
	restartReq bool
	stopReq    bool

	recovered int
	flushes   int
}

func newSimWire(withSlave bool) *simWire {
	w := &simWire{}
	w.m = &simRegs{w: w}
	if withSlave {
		w.s = &simRegs{w: w}
	}
	return w
}

func (w *simWire) slaveActive() bool {
	return w.s != nil && w.s.enabled && !w.s.master
}

func (w *simWire) stopCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stops
}

func (w *simWire) startCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.starts
}

func (w *simWire) setStall(on bool) {
	w.mu.Lock()
	w.stall = on
	w.mu.Unlock()
}

// step propagates one bus-level action, mimicking the hardware shift
// register: at most one byte moves per invocation.
func (w *simWire) step() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stall {
		return
	}
	m := w.m
	if m == nil || !m.enabled || !m.master {
		return
	}

	// Level-type conditions are recomputed every pass; the engines clear
	// them when consumed and the hardware re-raises them while they hold.
	if (w.phase == wireWrite || w.await10Lo) && !m.txFull && !m.stopReq && !m.restartReq {
		m.pending |= FlagTxReady
	}
	if w.slaveActive() && w.phase == wireRead && !w.s.txFull {
		w.s.pending |= FlagTxReady
	}

	if m.stopReq {
		m.stopReq = false
		if w.phase != wireIdle && w.slaveActive() {
			w.s.pending |= FlagDone
		}
		m.pending |= FlagDone
		w.phase = wireIdle
		w.await10Lo = false
		w.stops++
		return
	}

	if (m.startReq || m.restartReq) && m.txFull {
		restart := m.restartReq
		m.startReq, m.restartReq = false, false
		b0 := m.txByte
		m.txFull = false
		w.starts++
		if restart && w.phase != wireIdle && w.slaveActive() {
			w.s.pending |= FlagDone
		}
		w.phase = wireIdle
		w.await10Lo = false
		if w.arbLoseNext {
			w.arbLoseNext = false
			m.pending |= FlagArbLost
			return
		}
		w.resolveAddr(b0)
		return
	}

	if w.await10Lo && m.txFull {
		lo := m.txByte
		m.txFull = false
		w.await10Lo = false
		full := uint16(w.prefix>>1&0x3)<<8 | uint16(lo)
		if w.slaveActive() && w.s.tenBit && w.s.ownAddr == full {
			w.s.pending |= FlagAddrMatchWrite
			w.phase = wireWrite
		} else {
			m.pending |= FlagAddrNack
		}
		return
	}

	switch w.phase {
	case wireWrite:
		if !m.txFull {
			return
		}
		if w.nackData {
			m.txFull = false
			m.pending |= FlagDataNack
			return
		}
		// A full slave data register stretches the clock: the byte
		// stays put until the slave drains it.
		if w.slaveActive() && !w.s.rxFull {
			w.s.rxByte = m.txByte
			w.s.rxFull = true
			w.s.pending |= FlagRxReady
			m.txFull = false
		}
	case wireRead:
		if w.slaveActive() && w.s.txFull && !m.rxFull {
			m.rxByte = w.s.txByte
			w.s.txFull = false
			m.rxFull = true
			m.pending |= FlagRxReady
			if !m.ackNext {
				// Master NACKed this byte: no more will be
				// requested.
				w.phase = wireAwaitStop
			}
		}
	}
}

// resolveAddr matches an address byte against the attached slave. Callers
// hold the wire mutex.
func (w *simWire) resolveAddr(b0 byte) {
	m := w.m
	read := b0&1 != 0
	if b0&0xF8 == 0xF0 {
		// 10-bit prefix form.
		hi := uint16(b0>>1) & 0x3
		match := w.slaveActive() && w.s.tenBit && w.s.ownAddr>>8 == hi
		if !match {
			m.pending |= FlagAddrNack
			return
		}
		m.pending |= FlagAddrAck
		if read {
			w.s.pending |= FlagAddrMatchRead
			w.phase = wireRead
		} else {
			w.prefix = b0
			w.await10Lo = true
		}
		return
	}
	addr := uint16(b0 >> 1)
	if w.slaveActive() && !w.s.tenBit && w.s.ownAddr == addr {
		m.pending |= FlagAddrAck
		if read {
			w.s.pending |= FlagAddrMatchRead
			w.phase = wireRead
		} else {
			w.s.pending |= FlagAddrMatchWrite
			w.phase = wireWrite
		}
	} else {
		m.pending |= FlagAddrNack
	}
}

// Regs implementation. Every method takes the wire mutex; the engines call
// in while holding the critical section, which establishes a fixed lock
// order (critical section, then wire).

func (r *simRegs) Enable(on bool) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.enabled = on
	if !on {
		// Disabling aborts bus activity.
		r.pending = 0
		r.txFull = false
		r.rxFull = false
		r.startReq = false
		r.restartReq = false
		r.stopReq = false
	}
}

func (r *simRegs) SetRole(master bool) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.master = master
}

func (r *simRegs) SetClockDivider(hi, lo uint32) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.divHi, r.divLo = hi, lo
}

func (r *simRegs) SetOwnAddress(addr uint16, tenBit bool) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.ownAddr, r.tenBit = addr, tenBit
}

func (r *simRegs) Flags() Flags {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	return r.pending
}

func (r *simRegs) ClearFlags(f Flags) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.pending &^= f
}

func (r *simRegs) EnableInterrupts(f Flags) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.inten |= f
}

func (r *simRegs) DisableInterrupts(f Flags) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.inten &^= f
}

func (r *simRegs) ReadData() byte {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.rxFull = false
	return r.rxByte
}

func (r *simRegs) WriteData(b byte) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.txByte = b
	r.txFull = true
}

func (r *simRegs) FlushFIFO() {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.txFull = false
	r.rxFull = false
	r.flushes++
}

func (r *simRegs) Start() {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.startReq = true
}

func (r *simRegs) Restart() {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.restartReq = true
}

func (r *simRegs) Stop() {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.stopReq = true
}

func (r *simRegs) AckNext(ack bool) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.ackNext = ack
}

func (r *simRegs) Recover() {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	r.recovered++
}

func (r *simRegs) recoverCount() int {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	return r.recovered
}

// startPump runs the wire and dispatchers in the background until the
// returned stop function is called.
func startPump(w *simWire, buses ...*Bus) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			w.step()
			for _, b := range buses {
				b.Interrupt()
			}
			runtime.Gosched()
		}
	}()
	return func() { close(stop); <-done }
}

const (
	testPclk    = 50_000_000
	testTimeout = 2 * time.Second
)

// newMasterBus claims an instance and configures it as a 100 kHz master
// over the wire's master register block.
func newMasterBus(t *testing.T, w *simWire) *Bus {
	t.Helper()
	h, err := periph.Claim(periph.I2C0)
	if err != nil {
		t.Fatalf("claim master instance: %v", err)
	}
	t.Cleanup(h.Release)
	b, err := New(h, w.m, testPclk)
	if err != nil {
		t.Fatalf("bind master bus: %v", err)
	}
	if err := b.Configure(Config{Frequency: Standard100kHz, Role: RoleMaster}); err != nil {
		t.Fatalf("configure master: %v", err)
	}
	return b
}

// newSlaveBus claims an instance and configures it as a slave at addr over
// the wire's slave register block.
func newSlaveBus(t *testing.T, w *simWire, addr uint16, tenBit bool) *Bus {
	t.Helper()
	h, err := periph.Claim(periph.I2C1)
	if err != nil {
		t.Fatalf("claim slave instance: %v", err)
	}
	t.Cleanup(h.Release)
	b, err := New(h, w.s, testPclk)
	if err != nil {
		t.Fatalf("bind slave bus: %v", err)
	}
	cfg := Config{Frequency: Standard100kHz, Role: RoleSlave, OwnAddress: addr, TenBit: tenBit}
	if err := b.Configure(cfg); err != nil {
		t.Fatalf("configure slave: %v", err)
	}
	return b
}
