// sechal-uartloop sends the 14-byte fidelity probe to a board running the
// UART loopback firmware and verifies the reply arrives intact.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sechal/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Loopback UART device")
	baud    = flag.Int("baud", 115200, "Baud rate")
	timeout = flag.Duration("timeout", 5*time.Second, "Reply timeout")
)

const (
	probe = "bleh bleh bleh"
	reply = "meow meow meow"
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("sending %q on %s\n", probe, *device)
	if _, err := port.Write([]byte(probe)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write: %v\n", err)
		os.Exit(1)
	}

	got := make([]byte, 0, len(reply))
	buf := make([]byte, 64)
	deadline := time.Now().Add(*timeout)
	for len(got) < len(reply) {
		if time.Now().After(deadline) {
			fmt.Fprintf(os.Stderr, "Error: only %d/%d reply bytes within %v\n",
				len(got), len(reply), *timeout)
			os.Exit(1)
		}
		n, _ := port.Read(buf)
		got = append(got, buf[:n]...)
	}

	if string(got[:len(reply)]) != reply {
		fmt.Fprintf(os.Stderr, "Error: reply %q, expected %q\n", got[:len(reply)], reply)
		os.Exit(1)
	}
	fmt.Printf("received %q\n", reply)
	fmt.Println("PASS")
}
