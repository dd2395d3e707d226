// Package indicator aggregates N actuator states into a boolean and
// drives an output pin. Grounded on the original firmware's
// peripherals/output/indicator.cpp.
package indicator

import "lsh-core/internal/hal"

// Mode selects how controlled actuator states combine into one boolean.
type Mode uint8

const (
	Any Mode = iota
	All
	Majority
)

// ActuatorStates reads actuator state by index; implemented by the registry.
type ActuatorStates interface {
	ActuatorState(index uint8) bool
}

// Config is the boot-time shape of one indicator.
type Config struct {
	Controlled []uint8
	Mode       Mode
}

// Indicator drives one output pin as a function of a set of actuators.
type Indicator struct {
	cfg   Config
	pin   hal.Pin
	state bool
}

// New constructs an Indicator; it does not drive the pin until the
// first Refresh.
func New(cfg Config, pin hal.Pin) *Indicator {
	return &Indicator{cfg: cfg, pin: pin}
}

// Refresh recomputes the aggregate per Mode and writes the output only
// when the computed value differs from the cached one.
func (i *Indicator) Refresh(actuators ActuatorStates) {
	next := i.compute(actuators)
	if next == i.state {
		return
	}
	i.state = next
	i.pin.Write(next)
}

func (i *Indicator) State() bool { return i.state }

func (i *Indicator) compute(actuators ActuatorStates) bool {
	switch i.cfg.Mode {
	case Any:
		for _, idx := range i.cfg.Controlled {
			if actuators.ActuatorState(idx) {
				return true
			}
		}
		return false
	case All:
		for _, idx := range i.cfg.Controlled {
			if !actuators.ActuatorState(idx) {
				return false
			}
		}
		return true
	case Majority:
		var on uint32
		for _, idx := range i.cfg.Controlled {
			if actuators.ActuatorState(idx) {
				on++
			}
		}
		// Strict majority: ties resolve to off, matching the
		// original's "(onCount<<1) > size" shift-based comparison.
		return (on << 1) > uint32(len(i.cfg.Controlled))
	default:
		return false
	}
}
