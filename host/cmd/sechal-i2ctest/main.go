// sechal-i2ctest watches the consoles of two boards running the I2C test
// firmware (one flashed as master, one as slave) and verifies the scripted
// ping exchange completes on both sides.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sechal/host/console"
)

var (
	masterDev = flag.String("master", "/dev/ttyACM0", "Master board console device")
	slaveDev  = flag.String("slave", "/dev/ttyACM1", "Slave board console device")
	rounds    = flag.Int("rounds", 3, "Number of exchanges to verify")
	timeout   = flag.Duration("timeout", 10*time.Second, "Per-round timeout")
)

func main() {
	flag.Parse()

	fmt.Println("sechal I2C dual-board exchange test")
	fmt.Println("===================================")

	master, err := console.Connect(*masterDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: master console: %v\n", err)
		os.Exit(1)
	}
	defer master.Close()

	slave, err := console.Connect(*slaveDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: slave console: %v\n", err)
		os.Exit(1)
	}
	defer slave.Close()

	for round := 1; round <= *rounds; round++ {
		fmt.Printf("round %d:\n", round)

		// The slave logs the payload the master wrote.
		line, err := slave.WaitFor("received ping", *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: slave never saw the write: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  slave:  %s\n", line)

		// The master logs the reply it read back.
		line, err = master.WaitFor("reply ", *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: master never completed the read: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  master: %s\n", line)
	}

	fmt.Println("PASS")
}
