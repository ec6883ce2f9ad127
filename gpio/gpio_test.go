package gpio

import (
	"testing"
)

type pinSet struct {
	pin   Pin
	value bool
}

// mockDriver records pin operations and scripts SDA reads.
type mockDriver struct {
	sets     []pinSet
	sdaPin   Pin
	sdaReads []bool
	sdaPos   int
}

func (m *mockDriver) ConfigureAltFunc(Pin, AltFunc) error { return nil }
func (m *mockDriver) ConfigureOutputOpenDrain(Pin) error  { return nil }

func (m *mockDriver) SetPin(pin Pin, value bool) error {
	m.sets = append(m.sets, pinSet{pin, value})
	return nil
}

func (m *mockDriver) GetPin(pin Pin) (bool, error) {
	if pin == m.sdaPin && m.sdaPos < len(m.sdaReads) {
		v := m.sdaReads[m.sdaPos]
		m.sdaPos++
		return v, nil
	}
	return true, nil
}

func TestPinPortBit(t *testing.T) {
	cases := []struct {
		pin  Pin
		port uint32
		bit  uint32
	}{
		{0, 0, 0},
		{31, 0, 31},
		{32, 1, 0},
		{47, 1, 15},
	}
	for _, tc := range cases {
		if tc.pin.Port() != tc.port || tc.pin.Bit() != tc.bit {
			t.Errorf("pin %d: got port %d bit %d", tc.pin, tc.pin.Port(), tc.pin.Bit())
		}
	}
}

func TestDriverRegistry(t *testing.T) {
	defer SetDriver(nil)
	if HaveDriver() {
		t.Fatal("driver registered before SetDriver")
	}
	m := &mockDriver{}
	SetDriver(m)
	if !HaveDriver() || MustDriver() != Driver(m) {
		t.Fatal("registered driver not returned")
	}
}

func TestRecoverBusClocksUntilReleased(t *testing.T) {
	scl, sda := Pin(12), Pin(13)
	// SDA held low for three clock pulses, then released.
	m := &mockDriver{sdaPin: sda, sdaReads: []bool{false, false, false, true}}

	if err := RecoverBus(m, scl, sda, func() {}); err != nil {
		t.Fatalf("recover: %v", err)
	}

	sclPulses := 0
	for _, s := range m.sets {
		if s.pin == scl && !s.value {
			sclPulses++
		}
	}
	if sclPulses != 3 {
		t.Errorf("clocked %d pulses, expected 3", sclPulses)
	}

	// The sequence ends with a stop condition: SDA low then high.
	n := len(m.sets)
	if n < 2 || m.sets[n-2] != (pinSet{sda, false}) || m.sets[n-1] != (pinSet{sda, true}) {
		t.Errorf("missing trailing stop condition: %v", m.sets)
	}
}

func TestRecoverBusGivesUpAfterNinePulses(t *testing.T) {
	scl, sda := Pin(12), Pin(13)
	stuck := make([]bool, 16) // SDA never releases
	m := &mockDriver{sdaPin: sda, sdaReads: stuck}

	if err := RecoverBus(m, scl, sda, func() {}); err != nil {
		t.Fatalf("recover: %v", err)
	}
	sclPulses := 0
	for _, s := range m.sets {
		if s.pin == scl && !s.value {
			sclPulses++
		}
	}
	if sclPulses != 9 {
		t.Errorf("clocked %d pulses, expected the 9-pulse maximum", sclPulses)
	}
}
