// Package flashmap fixes the internal-flash partition geometry that the
// linker script and the firmware must agree on. The layout is declared as
// constants and checked by Validate, mirroring the link-time size
// assertions; there is no flash controller driver here.
package flashmap

import "errors"

// Internal flash geometry.
const (
	FlashBase uint32 = 0x1000_0000
	FlashSize uint32 = 512 * 1024
	PageSize  uint32 = 8 * 1024
)

// Fixed partitions. Code occupies the bottom of flash; the secure store
// takes the final pages so a code image can grow without relinking the
// store.
const (
	CodeBase uint32 = FlashBase
	CodeSize uint32 = FlashSize - SecureSize

	SecureSize uint32 = 2 * PageSize
	SecureBase uint32 = FlashBase + FlashSize - SecureSize
)

var (
	ErrUnaligned  = errors.New("flashmap: partition not page aligned")
	ErrOutOfFlash = errors.New("flashmap: partition outside flash")
	ErrOverlap    = errors.New("flashmap: partitions overlap")
	ErrEmpty      = errors.New("flashmap: empty partition")
)

// Partition is one contiguous page-aligned flash region.
type Partition struct {
	Name string
	Base uint32
	Size uint32
}

// Code returns the firmware image partition.
func Code() Partition {
	return Partition{Name: "code", Base: CodeBase, Size: CodeSize}
}

// Secure returns the secret-storage partition.
func Secure() Partition {
	return Partition{Name: "secure", Base: SecureBase, Size: SecureSize}
}

// Contains reports whether addr falls inside the partition.
func (p Partition) Contains(addr uint32) bool {
	return addr >= p.Base && addr-p.Base < p.Size
}

// End returns the first address past the partition.
func (p Partition) End() uint32 {
	return p.Base + p.Size
}

// Pages returns the number of flash pages the partition spans.
func (p Partition) Pages() uint32 {
	return p.Size / PageSize
}

// check validates one partition in isolation.
func (p Partition) check() error {
	if p.Size == 0 {
		return ErrEmpty
	}
	if p.Base%PageSize != 0 || p.Size%PageSize != 0 {
		return ErrUnaligned
	}
	if p.Base < FlashBase || p.End() > FlashBase+FlashSize || p.End() < p.Base {
		return ErrOutOfFlash
	}
	return nil
}

// Validate checks that all partitions are page aligned, inside flash, and
// pairwise disjoint. Firmware calls it once at init; a failure means the
// constants above disagree with the linker script.
func Validate(parts ...Partition) error {
	if len(parts) == 0 {
		parts = []Partition{Code(), Secure()}
	}
	for _, p := range parts {
		if err := p.check(); err != nil {
			return err
		}
	}
	for i := 0; i < len(parts); i++ {
		for j := i + 1; j < len(parts); j++ {
			a, b := parts[i], parts[j]
			if a.Base < b.End() && b.Base < a.End() {
				return ErrOverlap
			}
		}
	}
	return nil
}
