//go:build rp2040 || rp2350

package mcu

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// UARTConfig mirrors the field set the teacher's services/bridge
// expects a platform dial hook to consume: baud rate and TX/RX pin
// numbers on the RP2 family.
type UARTConfig struct {
	Baud  uint32
	TXPin int
	RXPin int
}

// UARTStream adapts tinygo-uartx's *uartx.UART onto hal.Stream's
// non-blocking Read contract: Read never waits for bytes that are not
// already in the driver's receive buffer.
type UARTStream struct {
	hw *uartx.UART
}

// OpenUART configures the on-board UART named by id ("uart0", "uart1")
// per cfg, the RP2 analogue of the teacher's bridge.UARTDial injection
// seam. The teacher selects its hardware UART the same way: a switch
// over a string id picking uartx.UART0/UART1, then Configure.
func OpenUART(id string, cfg UARTConfig) (*UARTStream, error) {
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errUnknownUART(id)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TXPin),
		RX:       machine.Pin(cfg.RXPin),
	}); err != nil {
		return nil, err
	}
	return &UARTStream{hw: hw}, nil
}

type errUnknownUART string

func (e errUnknownUART) Error() string { return "mcu: unknown UART id " + string(e) }

// Read drains whatever bytes are already in the receive buffer. The
// zero-deadline context makes RecvSomeContext return immediately
// instead of blocking the super loop for the next byte.
func (u *UARTStream) Read(p []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	n, err := u.hw.RecvSomeContext(ctx, p)
	if err == context.DeadlineExceeded {
		err = nil
	}
	return n, err
}

// Write sends p synchronously.
func (u *UARTStream) Write(p []byte) (int, error) {
	return u.hw.Write(p)
}
