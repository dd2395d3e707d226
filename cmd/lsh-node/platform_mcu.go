//go:build rp2040 || rp2350

package main

import (
	"lsh-core/internal/config"
	"lsh-core/internal/hal"
	"lsh-core/internal/hal/mcu"
	"lsh-core/internal/seriallink"
)

// deviceID is this node's "n" field in DEVICE_DETAILS.
const deviceID = "lsh-node-mcu"

// mcuPins configures every device.json pin number directly as a
// machine.Pin, satisfying config.PinFactory on the RP2040/RP2350
// target. Inputs are pulled up; buttons in this topology are
// active-low, matching the original firmware's wiring convention.
type mcuPins struct{}

func (mcuPins) InputPin(id int) (hal.Pin, error) {
	return mcu.NewInputPin(id, true, true), nil
}

func (mcuPins) OutputPin(id int) (hal.Pin, error) {
	return mcu.NewOutputPin(id, false, false), nil
}

const (
	uartID   = "uart0"
	uartBaud = 115200
	uartTX   = 0
	uartRX   = 1
)

func platformHAL() (config.PinFactory, hal.Stream, hal.Clock, hal.Reset) {
	stream, err := mcu.OpenUART(uartID, mcu.UARTConfig{
		Baud:  uartBaud,
		TXPin: uartTX,
		RXPin: uartRX,
	})
	if err != nil {
		// No debug sink can be trusted yet if the UART itself failed
		// to open; fall back to the watchdog reset directly.
		mcu.WatchdogReset{}.Fatal()
	}
	return mcuPins{}, stream, mcu.NewSystemClock(), mcu.WatchdogReset{}
}

// newSerialLink frames the MCU build as MessagePack binary, the
// compact framing the real hub bridge speaks in production (spec §6
// "binary mode").
func newSerialLink(stream hal.Stream) *seriallink.SerialLink {
	return seriallink.New(stream, &seriallink.BinaryFramer{})
}
