// Package i2c implements both roles of the I2C peripheral over a register
// interface: an interrupt-driven master engine and a reactive slave engine
// sharing one state machine per hardware instance.
//
// Hardware access goes through the Regs interface, implemented by target
// packages over the memory-mapped block and by tests over a simulated bus.
// All state shared between the interrupt dispatcher and foreground callers
// is touched only inside critical sections.
package i2c

import (
	"sechal/debug"
	"sechal/periph"
)

// Bus is one I2C peripheral instance. Construct it with New, configure it
// with Configure, then use the master calls (Write, Read, WriteRead) or
// Listen for a slave session depending on the configured role.
//
// A Bus must not be copied.
type Bus struct {
	regs Regs
	h    periph.Handle
	pclk uint32

	// Everything below is shared with the interrupt dispatcher and only
	// accessed inside critical sections.
	cfg        Config
	configured bool
	state      State
	active     bool
	xfer       transfer
	session    *Session
}

// New binds a claimed peripheral instance to its register block. pclkHz is
// the peripheral clock feeding the SCL divider.
func New(h periph.Handle, regs Regs, pclkHz uint32) (*Bus, error) {
	if !h.Valid() {
		return nil, ErrBadHandle
	}
	if regs == nil || pclkHz == 0 {
		return nil, ErrBadHandle
	}
	return &Bus{regs: regs, h: h, pclk: pclkHz}, nil
}

// Configure validates cfg and applies it to the hardware. It fails without
// touching any register if cfg is invalid or if the bus is not idle, so a
// failed call leaves the previous configuration in effect.
//
// Reconfiguration is allowed whenever the bus is idle, including switching
// between master and slave roles. Any registered slave session is detached.
func (b *Bus) Configure(cfg Config) error {
	div, ok := divider(b.pclk, cfg.Frequency)
	if !ok {
		return ErrInvalidClock
	}
	if cfg.Role == RoleSlave && !validOwnAddress(cfg.OwnAddress, cfg.TenBit) {
		return ErrInvalidAddress
	}

	cs := enterCritical()
	defer exitCritical(cs)

	if b.active || (b.configured && b.state != StateIdle && b.state != StateError) {
		return ErrInvalidState
	}

	b.regs.DisableInterrupts(flagAll)
	b.regs.Enable(false)
	b.regs.SetRole(cfg.Role == RoleMaster)
	b.regs.SetClockDivider(div, div)
	if cfg.Role == RoleSlave {
		b.regs.SetOwnAddress(cfg.OwnAddress, cfg.TenBit)
	}
	b.regs.FlushFIFO()
	b.regs.ClearFlags(flagAll)
	b.regs.Enable(true)

	b.cfg = cfg
	b.configured = true
	b.state = StateIdle
	b.session = nil
	b.xfer = transfer{}
	return nil
}

// State returns the current bus state.
func (b *Bus) State() State {
	cs := enterCritical()
	defer exitCritical(cs)
	return b.state
}

// Role returns the configured role. Only meaningful after Configure.
func (b *Bus) Role() Role {
	cs := enterCritical()
	defer exitCritical(cs)
	return b.cfg.Role
}

// failLocked drives the state machine into its terminal error state and
// leaves the bus released. Caller holds the critical section.
func (b *Bus) failLocked(err error) {
	b.regs.Stop()
	b.regs.FlushFIFO()
	b.state = StateError
	b.xfer.err = err
	b.xfer.done = true
	debug.Trace(debug.EvtI2CFault, uint32(b.h.ID()))
}
