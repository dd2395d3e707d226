//go:build !(rp2040 || rp2350)

// Package host backs hal.Pin/hal.Clock/hal.Reset with a Linux GPIO
// character-device chip (github.com/warthog618/go-gpiocdev) for real
// Raspberry Pi class deployments and development boxes, the same role
// the teacher's services/hal/internal/platform/factories_linux.go
// plays for its HAL. This is the default build (no rp2040/rp2350
// build tag), letting the whole engine and its tests run on a
// workstation without TinyGo.
package host

import (
	"fmt"
	"os"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOPin is a hal.Pin backed by a single requested line on a Linux
// gpiochip. ActiveLow inverts the raw line level so callers always
// see the logical (not electrical) state, matching the teacher's
// gpio_dout/gpio_button logicalPressed/setLogical helpers.
type GPIOPin struct {
	line      *gpiocdev.Line
	activeLow bool
	output    bool
}

// OpenInputPin requests offset on chipName as a pulled input line.
func OpenInputPin(chipName string, offset int, activeLow, pullDown bool) (*GPIOPin, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open chip %s: %w", chipName, err)
	}
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	if pullDown {
		opts = append(opts, gpiocdev.WithPullDown)
	}
	line, err := chip.RequestLine(offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("request input line %d on %s: %w", offset, chipName, err)
	}
	return &GPIOPin{line: line, activeLow: activeLow}, nil
}

// OpenOutputPin requests offset on chipName as an output line, driven
// to its initial logical level.
func OpenOutputPin(chipName string, offset int, activeLow, initial bool) (*GPIOPin, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open chip %s: %w", chipName, err)
	}
	raw := initial
	if activeLow {
		raw = !raw
	}
	rawVal := 0
	if raw {
		rawVal = 1
	}
	line, err := chip.RequestLine(offset, gpiocdev.AsOutput(rawVal))
	if err != nil {
		return nil, fmt.Errorf("request output line %d on %s: %w", offset, chipName, err)
	}
	return &GPIOPin{line: line, activeLow: activeLow, output: true}, nil
}

// Read returns the logical level, inverted per activeLow.
func (p *GPIOPin) Read() bool {
	v, err := p.line.Value()
	if err != nil {
		return false
	}
	on := v != 0
	if p.activeLow {
		on = !on
	}
	return on
}

// Write sets the logical level, inverted per activeLow. No-op on
// input-only lines.
func (p *GPIOPin) Write(level bool) {
	if !p.output {
		return
	}
	raw := level
	if p.activeLow {
		raw = !raw
	}
	rawVal := 0
	if raw {
		rawVal = 1
	}
	_ = p.line.SetValue(rawVal)
}

// Close releases the underlying line.
func (p *GPIOPin) Close() error {
	if p.line == nil {
		return nil
	}
	return p.line.Close()
}

// SystemClock is a hal.Clock backed by the host's monotonic wall clock.
type SystemClock struct{ boot time.Time }

// NewSystemClock returns a clock anchored at the current instant, so
// NowMillis starts near zero like an MCU's millis() and only wraps
// after the full 32-bit range (~49.7 days).
func NewSystemClock() *SystemClock { return &SystemClock{boot: time.Now()} }

func (c *SystemClock) NowMillis() uint32 {
	return uint32(time.Since(c.boot).Milliseconds())
}

// ProcessReset is a hal.Reset backend for hosts without a hardware
// watchdog: it exits the process with status 1, matching "unconditional
// reset with no continuation" as closely as a host process can.
type ProcessReset struct{}

func (ProcessReset) Fatal() {
	os.Exit(1)
}
