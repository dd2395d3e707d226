//go:build rp2040 || rp2350

// Package mcu backs hal.Pin/hal.Clock/hal.Reset for the real RP2040/
// RP2350 target using the TinyGo "machine" package, the same
// pin-numbering and configuration idiom as the teacher's
// services/hal/internal/platform/factories_rp2xxx.go.
package mcu

import (
	"machine"
	"time"
)

// GPIOPin is a hal.Pin over a single machine.Pin, GP0..GP28 on the
// Pico/Pico 2 family.
type GPIOPin struct {
	p         machine.Pin
	activeLow bool
	output    bool
}

// NewInputPin configures pin n as an input with the given pull.
func NewInputPin(n int, activeLow bool, pullUp bool) *GPIOPin {
	p := machine.Pin(n)
	mode := machine.PinInputPulldown
	if pullUp {
		mode = machine.PinInputPullup
	}
	p.Configure(machine.PinConfig{Mode: mode})
	return &GPIOPin{p: p, activeLow: activeLow}
}

// NewOutputPin configures pin n as an output driven to its initial
// logical level.
func NewOutputPin(n int, activeLow bool, initial bool) *GPIOPin {
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	gp := &GPIOPin{p: p, activeLow: activeLow, output: true}
	gp.Write(initial)
	return gp
}

func (g *GPIOPin) Read() bool {
	raw := g.p.Get()
	if g.activeLow {
		return !raw
	}
	return raw
}

func (g *GPIOPin) Write(level bool) {
	if !g.output {
		return
	}
	raw := level
	if g.activeLow {
		raw = !raw
	}
	g.p.Set(raw)
}

// WatchdogReset is a hal.Reset backend arming the RP2 watchdog and
// busy-waiting for it to bite, mirroring the original firmware's
// reset.hpp: arm a short timeout, then spin forever.
type WatchdogReset struct{}

func (WatchdogReset) Fatal() {
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 15})
	machine.Watchdog.Start()
	for {
		// Wait for the watchdog to bite.
	}
}

// SystemClock is a hal.Clock over TinyGo's monotonic time.Now(),
// latched against the instant it was constructed so NowMillis reports
// milliseconds of uptime rather than a wall-clock value with no fixed
// epoch on a board with no RTC.
type SystemClock struct{ boot time.Time }

// NewSystemClock latches the current monotonic instant as tick zero.
func NewSystemClock() SystemClock {
	return SystemClock{boot: time.Now()}
}

func (c SystemClock) NowMillis() uint32 {
	return uint32(time.Since(c.boot).Milliseconds())
}
