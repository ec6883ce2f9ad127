package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// nativePort is the OS-backed Port implementation behind Open.
type nativePort struct {
	port *serial.Port
}

// Open opens the device described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: nil config")
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}
	return &nativePort{port: p}, nil
}

func (p *nativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *nativePort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *nativePort) Close() error                { return p.port.Close() }

// Flush drops whatever the OS driver has queued for the port, so a fresh
// exchange does not see stale boot chatter.
func (p *nativePort) Flush() error { return p.port.Flush() }
