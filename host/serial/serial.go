// Package serial opens the boards' console UARTs from the host side. The
// host commands talk to the firmware through the Port interface so tests
// can substitute an in-memory implementation.
package serial

import "io"

// Port is an open serial connection. Reads return within the configured
// timeout so callers can poll without blocking forever.
type Port interface {
	io.ReadWriteCloser

	// Flush discards anything buffered in either direction.
	Flush() error
}

// Config selects the device and line settings for Open.
type Config struct {
	// Device is the OS device path ("/dev/ttyACM0", "COM3").
	Device string

	// Baud is the line rate in bits per second.
	Baud int

	// ReadTimeout bounds a single Read, in milliseconds. Zero blocks.
	ReadTimeout int
}

// DefaultConfig matches the firmware consoles: 115200 baud with a short
// read timeout suited to line polling.
func DefaultConfig(device string) *Config {
	return &Config{Device: device, Baud: 115200, ReadTimeout: 100}
}
