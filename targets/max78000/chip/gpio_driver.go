//go:build tinygo

package chip

import (
	"errors"
	"runtime/volatile"
	"unsafe"

	"sechal/gpio"
)

const (
	gpio0Base uintptr = 0x4000_8000
	gpio1Base uintptr = 0x4000_9000
)

var errBadPin = errors.New("max78000: pin out of range")

type gpioMMIO struct {
	en0      volatile.Register32 // 0x00
	en0Set   volatile.Register32 // 0x04
	en0Clr   volatile.Register32 // 0x08
	outEn    volatile.Register32 // 0x0C
	outEnSet volatile.Register32 // 0x10
	outEnClr volatile.Register32 // 0x14
	out      volatile.Register32 // 0x18
	outSet   volatile.Register32 // 0x1C
	outClr   volatile.Register32 // 0x20
	in       volatile.Register32 // 0x24
	_        [14]volatile.Register32
	padCtrl0 volatile.Register32 // 0x60
	padCtrl1 volatile.Register32 // 0x64
	en1      volatile.Register32 // 0x68
	en1Set   volatile.Register32 // 0x6C
	en1Clr   volatile.Register32 // 0x70
	en2      volatile.Register32 // 0x74
	en2Set   volatile.Register32 // 0x78
	en2Clr   volatile.Register32 // 0x7C
}

// I2C pad assignments on this package.
const (
	PinI2C0SCL gpio.Pin = 0*32 + 10
	PinI2C0SDA gpio.Pin = 0*32 + 11
	PinI2C1SCL gpio.Pin = 0*32 + 16
	PinI2C1SDA gpio.Pin = 0*32 + 17
)

// PadDriver implements the portable pin interface over the two GPIO ports.
type PadDriver struct {
	ports [2]*gpioMMIO
}

func NewPadDriver() *PadDriver {
	return &PadDriver{ports: [2]*gpioMMIO{
		(*gpioMMIO)(unsafe.Pointer(gpio0Base)),
		(*gpioMMIO)(unsafe.Pointer(gpio1Base)),
	}}
}

func (d *PadDriver) port(pin gpio.Pin) (*gpioMMIO, uint32, error) {
	if pin.Port() >= uint32(len(d.ports)) {
		return nil, 0, errBadPin
	}
	return d.ports[pin.Port()], 1 << pin.Bit(), nil
}

// ConfigureAltFunc routes the pad via the en register pair: en1/en2 select
// the function, en0 hands the pad to the peripheral when cleared.
func (d *PadDriver) ConfigureAltFunc(pin gpio.Pin, fn gpio.AltFunc) error {
	p, mask, err := d.port(pin)
	if err != nil {
		return err
	}
	switch fn {
	case gpio.AltGPIO:
		p.en0Set.Set(mask)
	case gpio.Alt1:
		p.en1Clr.Set(mask)
		p.en2Clr.Set(mask)
		p.en0Clr.Set(mask)
	case gpio.Alt2:
		p.en1Set.Set(mask)
		p.en2Clr.Set(mask)
		p.en0Clr.Set(mask)
	case gpio.Alt3:
		p.en1Clr.Set(mask)
		p.en2Set.Set(mask)
		p.en0Clr.Set(mask)
	}
	return nil
}

func (d *PadDriver) ConfigureOutputOpenDrain(pin gpio.Pin) error {
	p, mask, err := d.port(pin)
	if err != nil {
		return err
	}
	p.en0Set.Set(mask)
	p.outEnSet.Set(mask)
	p.padCtrl0.SetBits(mask) // pull-up
	p.outSet.Set(mask)       // released
	return nil
}

func (d *PadDriver) SetPin(pin gpio.Pin, value bool) error {
	p, mask, err := d.port(pin)
	if err != nil {
		return err
	}
	if value {
		p.outSet.Set(mask)
	} else {
		p.outClr.Set(mask)
	}
	return nil
}

func (d *PadDriver) GetPin(pin gpio.Pin) (bool, error) {
	p, mask, err := d.port(pin)
	if err != nil {
		return false, err
	}
	return p.in.Get()&mask != 0, nil
}
