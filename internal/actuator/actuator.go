// Package actuator implements a single digital output with on/off
// state, optional auto-off timer, an optional protected flag, and
// switching debounce. Grounded on the original firmware's
// Actuator::setState/toggleState/checkAutoOffTimer
// (peripherals/output/actuator.cpp) and on the teacher's gpio_dout
// device's ActiveLow inversion idiom.
package actuator

import "lsh-core/internal/hal"

// Config is the immutable, boot-time shape of one actuator, supplied
// by the configuration builder.
type Config struct {
	ID            uint8
	DefaultState  bool
	SwitchDebounceMs uint32
	AutoOffMs     uint32 // 0 disables auto-off
	Protected     bool
}

// Actuator is one controllable digital output.
type Actuator struct {
	cfg            Config
	pin            hal.Pin
	state          bool
	lastSwitchTime uint32
}

// New constructs an Actuator and applies its default state to the
// hardware immediately, per spec: "constructed at boot with default
// state applied to hardware". now is recorded as the last switch time,
// so the switch debounce window also applies right after construction.
func New(cfg Config, pin hal.Pin, now uint32) *Actuator {
	a := &Actuator{cfg: cfg, pin: pin, state: cfg.DefaultState, lastSwitchTime: now}
	pin.Write(a.state)
	return a
}

func (a *Actuator) ID() uint8           { return a.cfg.ID }
func (a *Actuator) State() bool         { return a.state }
func (a *Actuator) DefaultState() bool  { return a.cfg.DefaultState }
func (a *Actuator) Protected() bool     { return a.cfg.Protected }
func (a *Actuator) HasAutoOff() bool    { return a.cfg.AutoOffMs > 0 }

// SetState applies target to the hardware if it differs from the
// current state and the switch debounce window has elapsed. Returns
// whether a change was actually applied; false is not an error — the
// caller ORs it into a state_changed flag (spec §7, "local state
// change with hardware busy").
func (a *Actuator) SetState(target bool, now uint32) bool {
	if target == a.state {
		return false
	}
	if now-a.lastSwitchTime < a.cfg.SwitchDebounceMs {
		return false
	}
	a.pin.Write(target)
	a.state = target
	a.lastSwitchTime = now
	return true
}

// ToggleState flips the current state, subject to the same debounce
// rule as SetState.
func (a *Actuator) ToggleState(now uint32) bool {
	return a.SetState(!a.state, now)
}

// CheckAutoOff turns the actuator off if it has an auto-off timer and
// that timer has elapsed since the last switch. Intended to be called
// from the scheduler's periodic auto-off sweep, not every tick.
func (a *Actuator) CheckAutoOff(now uint32) bool {
	if !a.state || a.cfg.AutoOffMs == 0 {
		return false
	}
	if now-a.lastSwitchTime < a.cfg.AutoOffMs {
		return false
	}
	return a.SetState(false, now)
}
