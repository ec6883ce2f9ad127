package i2c

// Role selects how the peripheral participates on the bus.
type Role uint8

const (
	// RoleMaster initiates transactions and drives the clock.
	RoleMaster Role = iota

	// RoleSlave responds to address matches and is clocked externally.
	RoleSlave
)

func (r Role) String() string {
	if r == RoleSlave {
		return "slave"
	}
	return "master"
}

// Standard bus frequencies.
const (
	Standard100kHz = 100_000
	Fast400kHz     = 400_000
	FastPlus1MHz   = 1_000_000
)

// maxDivider is the width of the clock high/low count fields.
const maxDivider = 0x1FF

// Config describes one bus setup. It may be re-applied whenever the bus is
// idle, including to switch roles on the same physical block.
type Config struct {
	// Frequency is the SCL frequency in hertz. In slave role it is still
	// used to program timing-related registers but the clock itself is
	// driven by the remote master.
	Frequency uint32

	// Role selects master or slave operation.
	Role Role

	// OwnAddress is the address matched in slave role. Ignored for
	// masters.
	OwnAddress uint16

	// TenBit selects 10-bit addressing for OwnAddress.
	TenBit bool
}

// divider returns the SCL high/low count for the given peripheral clock, or
// ok=false if the frequency is out of the divider's range.
func divider(periphClockHz, busHz uint32) (uint32, bool) {
	if busHz == 0 || busHz > periphClockHz {
		return 0, false
	}
	// Symmetric high/low periods: each half-period is pclk/freq/2 cycles,
	// and the count field is offset by one.
	mult := periphClockHz / busHz
	val := mult/2 - 1
	if val < 1 || val > maxDivider {
		return 0, false
	}
	return val, true
}

// reservedAddr reports whether a 7-bit address falls in one of the ranges
// the protocol reserves (general call, CBUS, high-speed codes, 10-bit
// prefixes).
func reservedAddr(addr uint16) bool {
	return addr&0x78 == 0 || addr&0x78 == 0x78
}

// validOwnAddress checks a slave-role address against the configured width.
func validOwnAddress(addr uint16, tenBit bool) bool {
	if tenBit {
		return addr <= 0x3FF
	}
	return addr <= 0x7F && !reservedAddr(addr)
}

// validTargetAddress checks a master-role target address. Addresses above
// 0x7F are transmitted using the 10-bit form.
func validTargetAddress(addr uint16) bool {
	if addr > 0x7F {
		return addr <= 0x3FF
	}
	return !reservedAddr(addr)
}
