// Package periph tracks exclusive ownership of on-chip peripheral
// instances. Each physical block has one arena slot; claiming it yields a
// handle that cannot be duplicated, so no two drivers can bind the same
// register block.
package periph

import (
	"errors"
	"sync"
)

// ID names a physical peripheral instance.
type ID uint8

const (
	I2C0 ID = iota
	I2C1
	I2C2
	UART0
	UART1
	UART2
	UART3
	TRNG0
	numInstances
)

func (id ID) String() string {
	switch id {
	case I2C0:
		return "I2C0"
	case I2C1:
		return "I2C1"
	case I2C2:
		return "I2C2"
	case UART0:
		return "UART0"
	case UART1:
		return "UART1"
	case UART2:
		return "UART2"
	case UART3:
		return "UART3"
	case TRNG0:
		return "TRNG0"
	}
	return "unknown"
}

// ErrAlreadyOwned is returned when a peripheral instance has already been
// claimed by another driver.
var ErrAlreadyOwned = errors.New("periph: instance already owned")

// ErrUnknownInstance is returned for an ID outside the arena.
var ErrUnknownInstance = errors.New("periph: unknown instance")

var (
	mu      sync.Mutex
	claimed [numInstances]bool
)

// Handle is proof of exclusive ownership of one peripheral instance.
// The zero Handle is invalid.
type Handle struct {
	id    ID
	valid bool
}

// Claim checks the instance out of the arena. A second Claim for the same
// ID fails with ErrAlreadyOwned until the handle is released.
func Claim(id ID) (Handle, error) {
	if id >= numInstances {
		return Handle{}, ErrUnknownInstance
	}
	mu.Lock()
	defer mu.Unlock()
	if claimed[id] {
		return Handle{}, ErrAlreadyOwned
	}
	claimed[id] = true
	return Handle{id: id, valid: true}, nil
}

// ID returns the instance this handle owns.
func (h Handle) ID() ID {
	return h.id
}

// Valid reports whether the handle was produced by a successful Claim.
func (h Handle) Valid() bool {
	return h.valid
}

// Release returns the instance to the arena. Firmware normally holds
// handles for the process lifetime; Release exists for tests and for
// dynamic role rebinding.
func (h *Handle) Release() {
	if !h.valid {
		return
	}
	mu.Lock()
	claimed[h.id] = false
	mu.Unlock()
	h.valid = false
}
