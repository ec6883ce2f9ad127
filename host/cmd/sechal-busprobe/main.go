// sechal-busprobe drives a board's slave engine from a Linux SBC wired to
// the same bus: it plays the master side of the ping exchange through the
// kernel's I2C adapter, so the firmware can be validated without a second
// board.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	busName = flag.String("bus", "1", "I2C bus name or number")
	addr    = flag.Uint("addr", 0x45, "Slave address of the board")
	rounds  = flag.Int("rounds", 3, "Number of exchanges")
	speed   = flag.Int64("hz", 100_000, "Bus speed in Hz")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()
	if err := b.SetSpeed(physic.Frequency(*speed) * physic.Hertz); err != nil {
		log.Printf("warning: cannot set bus speed: %v", err)
	}

	dev := &i2c.Dev{Bus: b, Addr: uint16(*addr)}
	reply := make([]byte, 16)
	for round := 1; round <= *rounds; round++ {
		// Same shape as the firmware's master test: write then read as
		// two bus transactions.
		if err := dev.Tx([]byte("ping"), nil); err != nil {
			log.Fatalf("round %d: write: %v", round, err)
		}
		if err := dev.Tx(nil, reply); err != nil {
			log.Fatalf("round %d: read: %v", round, err)
		}
		fmt.Printf("round %d: reply %s\n", round, hex.EncodeToString(reply))
		time.Sleep(time.Second)
	}
	fmt.Println("PASS")
}
