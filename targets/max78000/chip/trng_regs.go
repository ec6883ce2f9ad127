//go:build tinygo

package chip

import (
	"runtime/volatile"
	"unsafe"
)

const trngBase uintptr = 0x4004_D000

type trngMMIO struct {
	ctrl   volatile.Register32 // 0x00
	status volatile.Register32 // 0x04
	data   volatile.Register32 // 0x08
}

const trngStatusRdy = 1 << 0

type TRNGRegs struct {
	r *trngMMIO
}

func NewTRNGRegs() *TRNGRegs {
	return &TRNGRegs{r: (*trngMMIO)(unsafe.Pointer(trngBase))}
}

func (g *TRNGRegs) Ready() bool {
	return g.r.status.HasBits(trngStatusRdy)
}

func (g *TRNGRegs) Word() uint32 {
	return g.r.data.Get()
}
