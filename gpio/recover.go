package gpio

// RecoverBus bit-bangs an I2C bus release on the given SCL/SDA pads: up to
// nine clock pulses until SDA reads high, then a manual stop condition.
// Pads must already be configured open drain; the caller re-muxes them back
// to the peripheral afterwards. delay is called between edges to hold the
// half-period.
func RecoverBus(d Driver, scl, sda Pin, delay func()) error {
	if err := d.SetPin(sda, true); err != nil {
		return err
	}
	for i := 0; i < 9; i++ {
		released, err := d.GetPin(sda)
		if err != nil {
			return err
		}
		if released {
			break
		}
		if err := d.SetPin(scl, false); err != nil {
			return err
		}
		delay()
		if err := d.SetPin(scl, true); err != nil {
			return err
		}
		delay()
	}
	// Stop condition: SDA low to high while SCL is high.
	if err := d.SetPin(sda, false); err != nil {
		return err
	}
	delay()
	if err := d.SetPin(sda, true); err != nil {
		return err
	}
	delay()
	return nil
}
