// Package console drives a board's serial debug console from the host:
// line-oriented reads with deadlines and pattern waits, used by the test
// harness commands to script a firmware exchange.
package console

import (
	"fmt"
	"strings"
	"time"

	"sechal/host/serial"
)

// Console is a connection to one board's console UART.
type Console struct {
	port serial.Port

	// Partial line carried between reads.
	pending []byte
	lines   []string
}

// Connect opens the console on the given device with the firmware's
// default settings.
func Connect(device string) (*Console, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the console with a custom serial config.
func ConnectWithConfig(cfg *serial.Config) (*Console, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}
	c := &Console{port: port}

	// Give the board time to settle if it just reset on open.
	time.Sleep(100 * time.Millisecond)
	return c, nil
}

// NewOverPort wraps an already-open port. The caller keeps ownership of
// closing semantics through Close.
func NewOverPort(port serial.Port) *Console {
	return &Console{port: port}
}

// Close closes the underlying port.
func (c *Console) Close() error {
	if c.port != nil {
		return c.port.Close()
	}
	return nil
}

// Send writes a line to the console.
func (c *Console) Send(line string) error {
	_, err := c.port.Write(append([]byte(line), '\r', '\n'))
	return err
}

// poll reads whatever the port has and splits complete lines off.
func (c *Console) poll() error {
	buf := make([]byte, 256)
	n, err := c.port.Read(buf)
	if n > 0 {
		c.pending = append(c.pending, buf[:n]...)
		for {
			i := indexNewline(c.pending)
			if i < 0 {
				break
			}
			line := strings.TrimRight(string(c.pending[:i]), "\r")
			c.pending = c.pending[i+1:]
			if line != "" {
				c.lines = append(c.lines, line)
			}
		}
	}
	// A timeout read returns n=0 with an EOF-style error on some
	// platforms; only report errors when nothing arrived.
	if err != nil && n == 0 {
		return nil
	}
	return nil
}

func indexNewline(p []byte) int {
	for i, b := range p {
		if b == '\n' {
			return i
		}
	}
	return -1
}

// ReadLine returns the next console line, waiting up to timeout.
func (c *Console) ReadLine(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		if len(c.lines) > 0 {
			line := c.lines[0]
			c.lines = c.lines[1:]
			return line, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("console: no line within %v", timeout)
		}
		if err := c.poll(); err != nil {
			return "", err
		}
	}
}

// WaitFor consumes lines until one contains substr, returning that line.
// Lines read along the way are discarded.
func (c *Console) WaitFor(substr string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		remain := time.Until(deadline)
		if remain <= 0 {
			return "", fmt.Errorf("console: %q not seen within %v", substr, timeout)
		}
		line, err := c.ReadLine(remain)
		if err != nil {
			return "", err
		}
		if strings.Contains(line, substr) {
			return line, nil
		}
	}
}
