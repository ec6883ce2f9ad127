package i2c

// Flags is the peripheral's interrupt flag word. The dispatcher reads it
// once per invocation and clears exactly the bits it consumed (the hardware
// flags are write-one-to-clear).
type Flags uint32

const (
	// FlagAddrAck fires in master mode when the addressed peer ACKed the
	// address byte.
	FlagAddrAck Flags = 1 << iota

	// FlagAddrNack fires in master mode when the address byte was not
	// acknowledged.
	FlagAddrNack

	// FlagDataNack fires in master mode when a transmitted data byte was
	// not acknowledged.
	FlagDataNack

	// FlagAddrMatchWrite fires in slave mode when the own address matched
	// with the R/W bit clear (master will write).
	FlagAddrMatchWrite

	// FlagAddrMatchRead fires in slave mode when the own address matched
	// with the R/W bit set (master will read).
	FlagAddrMatchRead

	// FlagRxReady indicates the data register holds a received byte.
	FlagRxReady

	// FlagTxReady indicates the data register can accept a byte to send.
	FlagTxReady

	// FlagDone indicates a stop or repeated start terminated the current
	// transfer.
	FlagDone

	// FlagArbLost indicates master-mode arbitration loss.
	FlagArbLost

	// FlagBusTimeout indicates the hardware's own SCL-low timeout tripped.
	FlagBusTimeout
)

const flagAll = FlagAddrAck | FlagAddrNack | FlagDataNack |
	FlagAddrMatchWrite | FlagAddrMatchRead | FlagRxReady | FlagTxReady |
	FlagDone | FlagArbLost | FlagBusTimeout

// masterIntSources are the flag bits unmasked while a master transaction is
// in flight.
const masterIntSources = FlagAddrAck | FlagAddrNack | FlagDataNack |
	FlagRxReady | FlagTxReady | FlagDone | FlagArbLost | FlagBusTimeout

// slaveIntSources are the flag bits unmasked while a slave session is
// listening.
const slaveIntSources = FlagAddrMatchWrite | FlagAddrMatchRead |
	FlagRxReady | FlagTxReady | FlagDone | FlagBusTimeout

// Regs is the contract between the portable engine and one I2C hardware
// instance's register block. Target packages implement it over the
// memory-mapped registers; tests implement it over a simulated bus. The
// engine is the only caller, and it always holds the instance's critical
// section while calling in.
type Regs interface {
	// Enable turns the peripheral on or off. Disabling aborts any bus
	// activity and releases the lines.
	Enable(on bool)

	// SetRole selects master (clock-driving) or slave (address-matching)
	// operation. Only called while disabled.
	SetRole(master bool)

	// SetClockDivider programs the SCL high and low period counts.
	SetClockDivider(hi, lo uint32)

	// SetOwnAddress programs the slave-mode address match register.
	SetOwnAddress(addr uint16, tenBit bool)

	// Flags returns the pending interrupt flags.
	Flags() Flags

	// ClearFlags acknowledges the given flag bits.
	ClearFlags(f Flags)

	// EnableInterrupts unmasks the given flag bits as interrupt sources.
	EnableInterrupts(f Flags)

	// DisableInterrupts masks the given flag bits.
	DisableInterrupts(f Flags)

	// ReadData pops one byte from the receive side of the data register.
	ReadData() byte

	// WriteData pushes one byte into the transmit side of the data
	// register.
	WriteData(b byte)

	// FlushFIFO discards anything staged in the data register FIFOs.
	FlushFIFO()

	// Start queues a start condition (master mode).
	Start()

	// Restart queues a repeated start condition (master mode).
	Restart()

	// Stop queues a stop condition (master mode).
	Stop()

	// AckNext selects whether the next received byte is ACKed (true) or
	// NACKed (false).
	AckNext(ack bool)

	// Recover performs bus recovery: release SDA and toggle SCL manually
	// until the bus floats high, then issue a stop. Used after timeouts so
	// a stuck peer cannot wedge the bus.
	Recover()
}
