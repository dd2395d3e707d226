//go:build !(rp2040 || rp2350)

package main

import (
	"fmt"
	"os"

	"lsh-core/internal/config"
	"lsh-core/internal/hal"
	"lsh-core/internal/hal/host"
	"lsh-core/internal/seriallink"
	"lsh-core/x/strx"
)

// deviceID is this node's "n" field in DEVICE_DETAILS.
const deviceID = "lsh-node-host"

// gpioChip is the Linux gpiochip device lines in device.json are
// numbered against. Override with LSH_GPIOCHIP for a non-default SBC.
var gpioChip = envOr("LSH_GPIOCHIP", "gpiochip0")

// serialDevice is the host port the bridge/console listens on.
var serialDevice = envOr("LSH_SERIAL", "/dev/serial0")

func envOr(key, fallback string) string {
	return strx.Coalesce(os.Getenv(key), fallback)
}

// hostPins opens every configured pin on gpioChip, satisfying
// config.PinFactory against real Linux GPIO character-device lines.
type hostPins struct{ chip string }

func (p hostPins) InputPin(id int) (hal.Pin, error) {
	return host.OpenInputPin(p.chip, id, false, true)
}

func (p hostPins) OutputPin(id int) (hal.Pin, error) {
	return host.OpenOutputPin(p.chip, id, false, false)
}

func platformHAL() (config.PinFactory, hal.Stream, hal.Clock, hal.Reset) {
	stream, err := host.OpenSerial(serialDevice, 115200)
	if err != nil {
		panic(fmt.Sprintf("lsh-node: open serial %s: %v", serialDevice, err))
	}
	return hostPins{chip: gpioChip}, stream, host.NewSystemClock(), host.ProcessReset{}
}

// newSerialLink frames the host build's link as LF-terminated JSON,
// the easier framing to tail with a terminal while developing against
// real GPIO lines.
func newSerialLink(stream hal.Stream) *seriallink.SerialLink {
	return seriallink.New(stream, seriallink.TextFramer{})
}
