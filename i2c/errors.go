package i2c

import "errors"

// Configuration errors. Configure fails without touching the hardware, so
// the previous configuration stays in effect.
var (
	// ErrInvalidClock means the requested SCL frequency cannot be produced
	// by the peripheral clock divider.
	ErrInvalidClock = errors.New("i2c: clock not representable by divider")

	// ErrInvalidAddress means the own address does not fit the configured
	// width or is a reserved bus address.
	ErrInvalidAddress = errors.New("i2c: invalid address")
)

// Bus errors. Each terminates the current transaction; the bus is returned
// to idle before the error is surfaced. The driver never retries on its
// own.
var (
	// ErrNack is returned when the peer does not acknowledge the address
	// or a data byte.
	ErrNack = errors.New("i2c: not acknowledged")

	// ErrArbitrationLost is returned in master mode when the level driven
	// on the bus does not match the level observed, indicating another
	// master won the bus.
	ErrArbitrationLost = errors.New("i2c: arbitration lost")

	// ErrTimeout is returned when the caller's deadline expires before the
	// transaction reaches a terminal state. Bus recovery has already been
	// attempted when this is returned.
	ErrTimeout = errors.New("i2c: transaction timeout")

	// ErrBufferOverflow is reported by a slave session when the receive
	// ring is full and an incoming byte had to be dropped.
	ErrBufferOverflow = errors.New("i2c: receive buffer overflow")

	// ErrBufferUnderrun is reported by a slave session when the transmit
	// source ran dry and filler bytes were sent instead.
	ErrBufferUnderrun = errors.New("i2c: transmit source underrun")

	// ErrInvalidState is returned when an operation is issued while a
	// transaction is already in flight, or in a state that cannot accept
	// it. The in-flight transaction is not disturbed.
	ErrInvalidState = errors.New("i2c: invalid state for operation")
)

// Usage errors.
var (
	// ErrNotConfigured is returned for any transaction attempted before a
	// successful Configure.
	ErrNotConfigured = errors.New("i2c: bus not configured")

	// ErrWrongRole is returned when a master operation is issued on a bus
	// configured as slave, or vice versa.
	ErrWrongRole = errors.New("i2c: operation not valid for configured role")

	// ErrBadHandle is returned by New for a handle that did not come from
	// a successful periph.Claim.
	ErrBadHandle = errors.New("i2c: invalid peripheral handle")
)
