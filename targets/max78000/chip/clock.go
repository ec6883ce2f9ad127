//go:build tinygo

// Package chip holds the memory-mapped register adapters and pad
// assignments for the MAX78000: everything target binaries need to bind the
// portable drivers to this silicon.
package chip

// Clock tree as the boot ROM leaves it: 100 MHz internal oscillator, with
// the APB peripherals (I2C, UART, TRNG) fed at half the system clock.
const (
	SysClockHz = 100_000_000
	PclkHz     = SysClockHz / 2
)

// delayCycles burns roughly n core cycles. Used for bus-recovery bit timing
// where precision does not matter, only a lower bound.
//
//go:noinline
func delayCycles(n uint32) {
	for i := uint32(0); i < n; i++ {
	}
}

// delayHalfBit holds one half period of a 100 kHz recovery clock.
func delayHalfBit() {
	delayCycles(SysClockHz / 100_000 / 2)
}
