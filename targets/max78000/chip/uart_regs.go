//go:build tinygo

package chip

import (
	"runtime/volatile"
	"unsafe"
)

const (
	UART0Base uintptr = 0x4004_2000
	UART1Base uintptr = 0x4004_3000
	UART2Base uintptr = 0x4004_4000
)

type uartMMIO struct {
	ctrl   volatile.Register32 // 0x00
	status volatile.Register32 // 0x04
	inten  volatile.Register32 // 0x08
	intfl  volatile.Register32 // 0x0C
	clkdiv volatile.Register32 // 0x10
	osr    volatile.Register32 // 0x14
	txpeek volatile.Register32 // 0x18
	pnr    volatile.Register32 // 0x1C
	fifo   volatile.Register32 // 0x20
}

const (
	uartCtrlEn      = 1 << 0
	uartCtrlRxFlush = 1 << 9

	uartStatusRxEmpty = 1 << 4
	uartStatusTxFull  = 1 << 7

	uartIntRxThd = 1 << 4
)

// UARTRegs adapts one MMIO block to the portable UART register interface.
type UARTRegs struct {
	r *uartMMIO
}

func NewUARTRegs(base uintptr) *UARTRegs {
	return &UARTRegs{r: (*uartMMIO)(unsafe.Pointer(base))}
}

func (g *UARTRegs) Enable(on bool) {
	if on {
		g.r.ctrl.SetBits(uartCtrlEn)
	} else {
		g.r.ctrl.ClearBits(uartCtrlEn)
		g.r.ctrl.SetBits(uartCtrlRxFlush)
	}
}

func (g *UARTRegs) SetBaudDivider(div uint32) {
	g.r.clkdiv.Set(div)
}

func (g *UARTRegs) RxReady() bool {
	return !g.r.status.HasBits(uartStatusRxEmpty)
}

func (g *UARTRegs) ReadData() byte {
	return byte(g.r.fifo.Get())
}

func (g *UARTRegs) TxReady() bool {
	return !g.r.status.HasBits(uartStatusTxFull)
}

func (g *UARTRegs) WriteData(b byte) {
	g.r.fifo.Set(uint32(b))
}

func (g *UARTRegs) EnableRxInterrupt(on bool) {
	if on {
		g.r.inten.SetBits(uartIntRxThd)
	} else {
		g.r.inten.ClearBits(uartIntRxThd)
	}
}
