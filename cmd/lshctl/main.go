// Command lshctl is a developer console for lsh-node: it watches,
// sends, and replays the wire protocol of §6 from outside the engine,
// over either a real serial port or a websocket bridge. Grounded on
// the Thermoquad-heliostat cmd/ package's cobra root + serial/
// websocket Connection split, adapted from its Fusain/Helios protocol
// to lsh-core's own wire.Record framing.
package main

import (
	"fmt"
	"os"

	"lsh-core/cmd/lshctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
