// Package uart drives a memory-mapped UART: interrupt-fed receive ring,
// blocking transmit, and bounded line reads. The portable layer talks to the
// hardware through the Regs interface; target packages supply the MMIO
// implementation and the test suite a simulated one.
package uart

import (
	"errors"
	"time"

	"sechal/debug"
	"sechal/fifo"
	"sechal/periph"
)

var (
	ErrInvalidBaud   = errors.New("uart: baud rate not representable")
	ErrNotConfigured = errors.New("uart: not configured")
	ErrTimeout       = errors.New("uart: timeout")
	ErrBadHandle     = errors.New("uart: invalid peripheral handle")
	ErrLineTooLong   = errors.New("uart: line exceeds buffer")
)

// Regs is the hardware register surface the engine needs.
type Regs interface {
	Enable(on bool)
	SetBaudDivider(div uint32)

	RxReady() bool
	ReadData() byte
	TxReady() bool
	WriteData(b byte)

	EnableRxInterrupt(on bool)
}

// maxDivider is the width of the baud counter field.
const maxDivider = 0xFFFFF

// rxBufBytes sizes the receive ring storage (usable capacity is one less).
const rxBufBytes = 257

type Config struct {
	BaudRate uint32
}

// Bus is one UART instance. Methods are not safe for concurrent foreground
// use; the interrupt handler synchronizes with the foreground through the
// critical section.
type Bus struct {
	regs Regs
	h    periph.Handle
	pclk uint32

	configured bool
	cfg        Config

	rxStorage [rxBufBytes]byte
	rx        *fifo.Ring
	overflow  bool
}

// New binds a claimed peripheral instance to its register block. pclkHz is
// the peripheral clock feeding the baud generator.
func New(h periph.Handle, regs Regs, pclkHz uint32) (*Bus, error) {
	if !h.Valid() || regs == nil || pclkHz == 0 {
		return nil, ErrBadHandle
	}
	b := &Bus{regs: regs, h: h, pclk: pclkHz}
	b.rx = fifo.NewRing(b.rxStorage[:])
	return b, nil
}

func divider(pclk, baud uint32) (uint32, bool) {
	if baud == 0 || baud > pclk {
		return 0, false
	}
	div := pclk / baud
	if div == 0 || div > maxDivider {
		return 0, false
	}
	return div, true
}

// Configure validates the configuration and applies it. The receive ring is
// emptied; nothing is written to hardware if validation fails.
func (b *Bus) Configure(cfg Config) error {
	div, ok := divider(b.pclk, cfg.BaudRate)
	if !ok {
		return ErrInvalidBaud
	}

	cs := enterCritical()
	b.regs.Enable(false)
	b.regs.SetBaudDivider(div)
	b.rx.Reset()
	b.overflow = false
	b.cfg = cfg
	b.configured = true
	b.regs.Enable(true)
	b.regs.EnableRxInterrupt(true)
	exitCritical(cs)
	return nil
}

// Interrupt is the receive ISR body: it drains the hardware into the ring.
// A full ring drops the incoming byte and latches the overflow flag.
func (b *Bus) Interrupt() {
	cs := enterCritical()
	defer exitCritical(cs)
	for b.regs.RxReady() {
		v := b.regs.ReadData()
		if !b.rx.Push(v) && !b.overflow {
			b.overflow = true
			debug.Trace(debug.EvtUARTOverflow, uint32(b.h.ID()))
		}
	}
}

// Buffered returns the number of received bytes waiting in the ring.
func (b *Bus) Buffered() int {
	cs := enterCritical()
	defer exitCritical(cs)
	return b.rx.Len()
}

// Overflowed reports and clears the receive-overflow latch.
func (b *Bus) Overflowed() bool {
	cs := enterCritical()
	defer exitCritical(cs)
	v := b.overflow
	b.overflow = false
	return v
}

// WriteByte transmits one byte, blocking until the hardware accepts it.
func (b *Bus) WriteByte(v byte) error {
	if !b.configured {
		return ErrNotConfigured
	}
	for {
		cs := enterCritical()
		ready := b.regs.TxReady()
		if ready {
			b.regs.WriteData(v)
		}
		exitCritical(cs)
		if ready {
			return nil
		}
		idleWait()
	}
}

// Write transmits the whole buffer, blocking as needed.
func (b *Bus) Write(p []byte) (int, error) {
	for i, v := range p {
		if err := b.WriteByte(v); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Read drains up to len(p) buffered bytes without blocking. It returns 0
// when nothing is buffered.
func (b *Bus) Read(p []byte) (int, error) {
	if !b.configured {
		return 0, ErrNotConfigured
	}
	cs := enterCritical()
	n := b.rx.Read(p)
	exitCritical(cs)
	return n, nil
}

// ReadByte blocks until one byte arrives or the timeout elapses. A timeout
// of zero or less means wait forever.
func (b *Bus) ReadByte(timeout time.Duration) (byte, error) {
	if !b.configured {
		return 0, ErrNotConfigured
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		cs := enterCritical()
		v, ok := b.rx.Pop()
		exitCritical(cs)
		if ok {
			return v, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return 0, ErrTimeout
		}
		idleWait()
	}
}

// ReadFull fills p completely or fails with ErrTimeout. The deadline covers
// the whole transfer, not each byte.
func (b *Bus) ReadFull(p []byte, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for i := range p {
		remain := time.Duration(0)
		if !deadline.IsZero() {
			remain = time.Until(deadline)
			if remain <= 0 {
				return ErrTimeout
			}
		}
		v, err := b.ReadByte(remain)
		if err != nil {
			return err
		}
		p[i] = v
	}
	return nil
}

// ReadLine reads into p until delim arrives, returning the line without the
// delimiter. A line longer than p fails with ErrLineTooLong after consuming
// the overlong bytes up to len(p).
func (b *Bus) ReadLine(p []byte, delim byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	n := 0
	for {
		remain := time.Duration(0)
		if !deadline.IsZero() {
			remain = time.Until(deadline)
			if remain <= 0 {
				return n, ErrTimeout
			}
		}
		v, err := b.ReadByte(remain)
		if err != nil {
			return n, err
		}
		if v == delim {
			return n, nil
		}
		if n >= len(p) {
			return n, ErrLineTooLong
		}
		p[n] = v
		n++
	}
}
