//go:build tinygo

package chip

import (
	"runtime/volatile"
	"unsafe"

	"sechal/i2c"
)

// I2C register block instances.
const (
	I2C0Base uintptr = 0x4001_D000
	I2C1Base uintptr = 0x4001_E000
	I2C2Base uintptr = 0x4001_F000
)

// i2cMMIO mirrors the hardware register block layout.
type i2cMMIO struct {
	ctrl    volatile.Register32 // 0x00
	status  volatile.Register32 // 0x04
	intfl0  volatile.Register32 // 0x08
	inten0  volatile.Register32 // 0x0C
	intfl1  volatile.Register32 // 0x10
	inten1  volatile.Register32 // 0x14
	fifolen volatile.Register32 // 0x18
	rxctrl0 volatile.Register32 // 0x1C
	rxctrl1 volatile.Register32 // 0x20
	txctrl0 volatile.Register32 // 0x24
	txctrl1 volatile.Register32 // 0x28
	fifo    volatile.Register32 // 0x2C
	mstctrl volatile.Register32 // 0x30
	clklo   volatile.Register32 // 0x34
	clkhi   volatile.Register32 // 0x38
	hsclk   volatile.Register32 // 0x3C
	timeout volatile.Register32 // 0x40
	_       volatile.Register32 // 0x44
	dma     volatile.Register32 // 0x48
	slave   volatile.Register32 // 0x4C
}

// ctrl bits
const (
	ctrlEn      = 1 << 0
	ctrlMstMode = 1 << 1
	ctrlIRXMAck = 1 << 4
	ctrlSCLOut  = 1 << 6
	ctrlSDAOut  = 1 << 7
	ctrlSCL     = 1 << 8
	ctrlSDA     = 1 << 9
	ctrlSWOutEn = 1 << 10
)

// intfl0 bits
const (
	flDone      = 1 << 0
	flAddrMatch = 1 << 3
	flRxThd     = 1 << 4
	flTxThd     = 1 << 5
	flStop      = 1 << 6
	flAddrAck   = 1 << 7
	flArbErr    = 1 << 8
	flToErr     = 1 << 9
	flAddrNack  = 1 << 10
	flDataErr   = 1 << 11
	flRdMatch   = 1 << 22
	flWrMatch   = 1 << 23
)

// mstctrl bits
const (
	mstStart   = 1 << 0
	mstRestart = 1 << 1
	mstStop    = 1 << 2
	mstExtAddr = 1 << 7
)

// txctrl0/rxctrl0 flush bits
const (
	txFlush = 1 << 7
	rxFlush = 1 << 7
)

// slave register
const slaveExtAddr = 1 << 15

// I2CRegs adapts one MMIO block to the portable driver's register
// interface.
type I2CRegs struct {
	r *i2cMMIO
}

func NewI2CRegs(base uintptr) *I2CRegs {
	return &I2CRegs{r: (*i2cMMIO)(unsafe.Pointer(base))}
}

func (g *I2CRegs) Enable(on bool) {
	if on {
		g.r.ctrl.SetBits(ctrlEn)
	} else {
		g.r.ctrl.ClearBits(ctrlEn)
	}
}

func (g *I2CRegs) SetRole(master bool) {
	if master {
		g.r.ctrl.SetBits(ctrlMstMode)
	} else {
		g.r.ctrl.ClearBits(ctrlMstMode)
	}
}

func (g *I2CRegs) SetClockDivider(hi, lo uint32) {
	g.r.clkhi.Set(hi)
	g.r.clklo.Set(lo)
}

func (g *I2CRegs) SetOwnAddress(addr uint16, tenBit bool) {
	v := uint32(addr)
	if tenBit {
		v |= slaveExtAddr
	}
	g.r.slave.Set(v)
}

// flagMap pairs a hardware interrupt bit with the portable flag it reports.
var flagMap = [...]struct {
	hw uint32
	fl i2c.Flags
}{
	{flDone, i2c.FlagDone},
	{flStop, i2c.FlagDone},
	{flAddrAck, i2c.FlagAddrAck},
	{flAddrNack, i2c.FlagAddrNack},
	{flDataErr, i2c.FlagDataNack},
	{flRxThd, i2c.FlagRxReady},
	{flTxThd, i2c.FlagTxReady},
	{flArbErr, i2c.FlagArbLost},
	{flToErr, i2c.FlagBusTimeout},
	{flRdMatch, i2c.FlagAddrMatchRead},
	{flWrMatch, i2c.FlagAddrMatchWrite},
}

func (g *I2CRegs) Flags() i2c.Flags {
	hw := g.r.intfl0.Get()
	var fl i2c.Flags
	for _, m := range flagMap {
		if hw&m.hw != 0 {
			fl |= m.fl
		}
	}
	return fl
}

func (g *I2CRegs) ClearFlags(fl i2c.Flags) {
	var hw uint32
	for _, m := range flagMap {
		if fl&m.fl != 0 {
			hw |= m.hw
		}
	}
	// Write-one-to-clear; threshold bits re-raise while the condition
	// persists, which is exactly the level semantics the engine expects.
	g.r.intfl0.Set(hw)
}

func (g *I2CRegs) EnableInterrupts(fl i2c.Flags) {
	var hw uint32
	for _, m := range flagMap {
		if fl&m.fl != 0 {
			hw |= m.hw
		}
	}
	g.r.inten0.SetBits(hw)
}

func (g *I2CRegs) DisableInterrupts(fl i2c.Flags) {
	var hw uint32
	for _, m := range flagMap {
		if fl&m.fl != 0 {
			hw |= m.hw
		}
	}
	g.r.inten0.ClearBits(hw)
}

func (g *I2CRegs) ReadData() byte {
	return byte(g.r.fifo.Get())
}

func (g *I2CRegs) WriteData(b byte) {
	g.r.fifo.Set(uint32(b))
}

func (g *I2CRegs) FlushFIFO() {
	g.r.txctrl0.SetBits(txFlush)
	g.r.rxctrl0.SetBits(rxFlush)
	for g.r.txctrl0.HasBits(txFlush) || g.r.rxctrl0.HasBits(rxFlush) {
	}
}

func (g *I2CRegs) Start()   { g.r.mstctrl.SetBits(mstStart) }
func (g *I2CRegs) Restart() { g.r.mstctrl.SetBits(mstRestart) }
func (g *I2CRegs) Stop()    { g.r.mstctrl.SetBits(mstStop) }

func (g *I2CRegs) AckNext(ack bool) {
	if ack {
		g.r.ctrl.ClearBits(ctrlIRXMAck)
	} else {
		g.r.ctrl.SetBits(ctrlIRXMAck)
	}
}

// Recover bit-bangs the bus free through the software-output override: up
// to nine SCL pulses until SDA reads high, then a manual stop condition.
func (g *I2CRegs) Recover() {
	g.r.ctrl.SetBits(ctrlSWOutEn | ctrlSCLOut | ctrlSDAOut)
	for i := 0; i < 9; i++ {
		if g.r.ctrl.HasBits(ctrlSDA) {
			break
		}
		g.r.ctrl.ClearBits(ctrlSCLOut)
		delayHalfBit()
		g.r.ctrl.SetBits(ctrlSCLOut)
		delayHalfBit()
	}
	g.r.ctrl.ClearBits(ctrlSDAOut)
	delayHalfBit()
	g.r.ctrl.SetBits(ctrlSDAOut)
	delayHalfBit()
	g.r.ctrl.ClearBits(ctrlSWOutEn)
}
