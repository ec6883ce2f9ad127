// Package trng exposes the hardware true-random-number generator as an
// io.Reader. The engine busy-waits on the ready flag and consumes one
// 32-bit entropy word at a time.
package trng

import (
	"errors"

	"sechal/periph"
)

var ErrBadHandle = errors.New("trng: invalid peripheral handle")

// Regs is the register surface of the entropy source.
type Regs interface {
	// Ready reports whether a fresh entropy word is available.
	Ready() bool
	// Word consumes the current entropy word.
	Word() uint32
}

// Generator drains entropy words from the hardware. It implements io.Reader
// and never returns an error from Read.
type Generator struct {
	regs Regs
	h    periph.Handle
}

func New(h periph.Handle, regs Regs) (*Generator, error) {
	if !h.Valid() || regs == nil {
		return nil, ErrBadHandle
	}
	return &Generator{regs: regs, h: h}, nil
}

// Uint32 blocks until the hardware has a word and returns it.
func (g *Generator) Uint32() uint32 {
	for !g.regs.Ready() {
	}
	return g.regs.Word()
}

// Read fills p with random bytes, little-endian within each word. It always
// fills the whole buffer.
func (g *Generator) Read(p []byte) (int, error) {
	i := 0
	for i < len(p) {
		w := g.Uint32()
		for b := 0; b < 4 && i < len(p); b++ {
			p[i] = byte(w >> (8 * b))
			i++
		}
	}
	return len(p), nil
}
