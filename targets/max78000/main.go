//go:build tinygo

package main

import (
	"time"

	"sechal/debug"
	"sechal/fifo"
	"sechal/gpio"
	"sechal/i2c"
	"sechal/periph"
	"sechal/targets/max78000/chip"
	"sechal/trng"
	"sechal/uart"
)

// runMode selects what this board does after boot. Two boards flashed with
// the two I2C roles and wired SCL-SCL / SDA-SDA exercise a full master and
// slave exchange against each other.
type runMode uint8

const (
	modeI2CMaster runMode = iota
	modeI2CSlave
	modeUARTLoopback
)

// Change at compile time to flash the counterpart role.
const mode = modeI2CMaster

const (
	peerAddr     = 0x45
	replyLen     = 16
	consoleBaud  = 115_200
	loopbackBaud = 115_200
)

var console *uart.Bus

func main() {
	initConsole()
	initPads()
	printBootBanner()

	switch mode {
	case modeI2CMaster:
		runI2CMaster()
	case modeI2CSlave:
		runI2CSlave()
	case modeUARTLoopback:
		runUARTLoopback()
	}
}

func initConsole() {
	h, err := periph.Claim(periph.UART0)
	if err != nil {
		return
	}
	console, _ = uart.New(h, chip.NewUARTRegs(chip.UART0Base), chip.PclkHz)
	if console == nil {
		return
	}
	if err := console.Configure(uart.Config{BaudRate: consoleBaud}); err != nil {
		return
	}
	consoleBus = console
	enableUART0Interrupt()

	debug.SetWriter(func(s string) {
		console.Write([]byte(s))
		console.Write([]byte("\r\n"))
	})
	debug.SetEnabled(true)
}

func initPads() {
	d := chip.NewPadDriver()
	gpio.SetDriver(d)
	d.ConfigureAltFunc(chip.PinI2C0SCL, gpio.Alt1)
	d.ConfigureAltFunc(chip.PinI2C0SDA, gpio.Alt1)
}

func printBootBanner() {
	g, err := newEntropy()
	if err != nil {
		debug.Print("boot: trng unavailable")
		return
	}
	var nonce [4]byte
	g.Read(nonce[:])
	debug.Print("boot nonce " + hexString(nonce[:]))
}

func newEntropy() (*trng.Generator, error) {
	h, err := periph.Claim(periph.TRNG0)
	if err != nil {
		return nil, err
	}
	return trng.New(h, chip.NewTRNGRegs())
}

// runI2CMaster drives the scripted exchange against the slave board: write
// "ping", read back its 16-byte reply, repeat.
func runI2CMaster() {
	h, err := periph.Claim(periph.I2C0)
	if err != nil {
		debug.Print("i2c: claim failed")
		return
	}
	bus, err := i2c.New(h, chip.NewI2CRegs(chip.I2C0Base), chip.PclkHz)
	if err != nil {
		debug.Print("i2c: bind failed")
		return
	}
	if err := bus.Configure(i2c.Config{Frequency: i2c.Standard100kHz, Role: i2c.RoleMaster}); err != nil {
		debug.Print("i2c: configure failed")
		return
	}
	i2cBus0 = bus
	enableI2C0Interrupt()

	reply := make([]byte, replyLen)
	for {
		if err := bus.Write(peerAddr, []byte("ping"), i2c.DefaultTimeout); err != nil {
			debug.Print("master write: " + err.Error())
			time.Sleep(time.Second)
			continue
		}
		n, err := bus.Read(peerAddr, reply, i2c.DefaultTimeout)
		if err != nil {
			debug.Print("master read: " + err.Error())
			time.Sleep(time.Second)
			continue
		}
		debug.Print("reply " + hexString(reply[:n]))
		time.Sleep(time.Second)
	}
}

// runI2CSlave answers the master board: buffer whatever it writes, serve a
// fixed reply when it reads.
func runI2CSlave() {
	h, err := periph.Claim(periph.I2C0)
	if err != nil {
		debug.Print("i2c: claim failed")
		return
	}
	bus, err := i2c.New(h, chip.NewI2CRegs(chip.I2C0Base), chip.PclkHz)
	if err != nil {
		debug.Print("i2c: bind failed")
		return
	}
	cfg := i2c.Config{Frequency: i2c.Standard100kHz, Role: i2c.RoleSlave, OwnAddress: peerAddr}
	if err := bus.Configure(cfg); err != nil {
		debug.Print("i2c: configure failed")
		return
	}
	i2cBus0 = bus
	enableI2C0Interrupt()

	var rxStorage [65]byte
	src := i2c.NewBytesSource([]byte("slave says hello"))
	sess, err := bus.Listen(fifo.NewRing(rxStorage[:]), src)
	if err != nil {
		debug.Print("i2c: listen failed")
		return
	}

	line := make([]byte, 64)
	n := 0
	for {
		ev := sess.WaitEvent(time.Second)
		switch ev.Kind {
		case i2c.EventByteReceived:
			if n < len(line) {
				line[n] = ev.Byte
				n++
			}
		case i2c.EventTransactionComplete:
			if n > 0 {
				debug.Print("received " + string(line[:n]))
				n = 0
			}
			src.Rewind()
		case i2c.EventError:
			debug.Print("slave: " + ev.Err.Error())
		}
	}
}

// runUARTLoopback answers the host's fidelity probe on the second UART.
func runUARTLoopback() {
	h, err := periph.Claim(periph.UART1)
	if err != nil {
		debug.Print("uart: claim failed")
		return
	}
	bus, err := uart.New(h, chip.NewUARTRegs(chip.UART1Base), chip.PclkHz)
	if err != nil {
		debug.Print("uart: bind failed")
		return
	}
	if err := bus.Configure(uart.Config{BaudRate: loopbackBaud}); err != nil {
		debug.Print("uart: configure failed")
		return
	}
	loopbackBus = bus
	enableUART1Interrupt()

	probe := []byte("bleh bleh bleh")
	reply := []byte("meow meow meow")
	buf := make([]byte, len(probe))
	for {
		if err := bus.ReadFull(buf, 10*time.Second); err != nil {
			continue
		}
		if string(buf) == string(probe) {
			bus.Write(reply)
		} else {
			debug.Print("loopback: corrupted probe " + hexString(buf))
		}
	}
}

const hexDigits = "0123456789abcdef"

func hexString(p []byte) string {
	out := make([]byte, 0, len(p)*2)
	for _, b := range p {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return string(out)
}
