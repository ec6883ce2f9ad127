// Package gpio is the minimal pin abstraction the bus drivers need: pin
// identifiers, alternate-function muxing for the peripheral pads, and the
// open-drain bit-banging the I2C recovery sequence uses. Target packages
// register the hardware driver.
package gpio

// Pin identifies a hardware pin as port*32 + bit.
type Pin uint32

// Port returns the pin's port index.
func (p Pin) Port() uint32 { return uint32(p) / 32 }

// Bit returns the pin's position within its port.
func (p Pin) Bit() uint32 { return uint32(p) % 32 }

// AltFunc selects a pad's connection to a peripheral.
type AltFunc uint8

const (
	AltGPIO AltFunc = iota
	Alt1
	Alt2
	Alt3
)

// Driver is the hardware pin interface. Platform code implements it over
// the pad-control registers.
type Driver interface {
	// ConfigureAltFunc routes the pad to a peripheral function.
	ConfigureAltFunc(pin Pin, fn AltFunc) error

	// ConfigureOutputOpenDrain configures the pad as an open-drain output
	// with the pull-up enabled, the electrical mode bus recovery needs.
	ConfigureOutputOpenDrain(pin Pin) error

	// SetPin drives the pin high (released, for open drain) or low.
	SetPin(pin Pin, value bool) error

	// GetPin samples the pad.
	GetPin(pin Pin) (bool, error)
}

// Global singleton registered by target code.
var driver Driver

// SetDriver is called by target-specific code to register its driver.
func SetDriver(d Driver) {
	driver = d
}

// MustDriver returns the registered driver or panics if missing.
func MustDriver() Driver {
	if driver == nil {
		panic("gpio: driver not configured")
	}
	return driver
}

// HaveDriver reports whether a driver has been registered.
func HaveDriver() bool {
	return driver != nil
}
