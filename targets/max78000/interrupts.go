//go:build tinygo

package main

import (
	"runtime/interrupt"

	"sechal/i2c"
	"sechal/uart"
)

// Vector numbers from the device header.
const (
	irqTRNG  = 4
	irqI2C0  = 13
	irqUART0 = 14
	irqUART1 = 15
	irqI2C1  = 36
)

// ISR targets; set before the matching enable call.
var (
	i2cBus0     *i2c.Bus
	i2cBus1     *i2c.Bus
	consoleBus  *uart.Bus
	loopbackBus *uart.Bus
)

func handleI2C0(interrupt.Interrupt) {
	if i2cBus0 != nil {
		i2cBus0.Interrupt()
	}
}

func handleI2C1(interrupt.Interrupt) {
	if i2cBus1 != nil {
		i2cBus1.Interrupt()
	}
}

func handleUART0(interrupt.Interrupt) {
	if consoleBus != nil {
		consoleBus.Interrupt()
	}
}

func handleUART1(interrupt.Interrupt) {
	if loopbackBus != nil {
		loopbackBus.Interrupt()
	}
}

func enableI2C0Interrupt() {
	interrupt.New(irqI2C0, handleI2C0).Enable()
}

func enableI2C1Interrupt() {
	interrupt.New(irqI2C1, handleI2C1).Enable()
}

func enableUART0Interrupt() {
	interrupt.New(irqUART0, handleUART0).Enable()
}

func enableUART1Interrupt() {
	interrupt.New(irqUART1, handleUART1).Enable()
}
