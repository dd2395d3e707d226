// Package config parses the boot-time device topology — which
// actuators, clickables, and indicators exist, which pins and IDs
// they use, and how they're wired to each other — and builds a
// registry.Registry from it. Grounded on the original firmware's
// config/configurator.{hpp,cpp} (the addActuator/addClickable/
// addIndicator/finalizeSetup sequence) and on the teacure's
// services/config/config.go use of github.com/andreyvit/tinyjson for
// a reflection-free JSON walk suited to a constrained target.
package config

import (
	"lsh-core/internal/actuator"
	"lsh-core/internal/clickable"
	"lsh-core/internal/indicator"
)

// ActuatorSpec is one "actuators[]" entry in the device's JSON config.
type ActuatorSpec struct {
	ID               uint8
	Pin              int
	DefaultState     bool
	SwitchDebounceMs uint32
	AutoOffMs        uint32
	Protected        bool
}

// ClickableSpec is one "clickables[]" entry. Actuator* fields carry
// actuator IDs as written in JSON; Build resolves them to
// registry indices.
type ClickableSpec struct {
	ID  uint8
	Pin int

	ActuatorsShort     []uint8
	ActuatorsLong      []uint8
	ActuatorsSuperLong []uint8

	ShortOK     bool
	LongOK      bool
	SuperLongOK bool

	NetLongOK      bool
	NetSuperLongOK bool

	LongKind          clickable.LongKind
	SuperLongKind     clickable.SuperLongKind
	LongFallback      clickable.Fallback
	SuperLongFallback clickable.Fallback

	DebounceMs  uint32
	LongMs      uint32
	SuperLongMs uint32
}

// IndicatorSpec is one "indicators[]" entry. Controlled carries
// actuator IDs, resolved to indices by Build.
type IndicatorSpec struct {
	Pin        int
	Controlled []uint8
	Mode       indicator.Mode
}

// DeviceSpec is the fully-parsed device topology, still in
// ID-referencing form (not yet built into a registry).
type DeviceSpec struct {
	CapActuators  int
	CapClickables int
	CapIndicators int

	Actuators  []ActuatorSpec
	Clickables []ClickableSpec
	Indicators []IndicatorSpec
}

func (s ActuatorSpec) toConfig() actuator.Config {
	return actuator.Config{
		ID:               s.ID,
		DefaultState:     s.DefaultState,
		SwitchDebounceMs: s.SwitchDebounceMs,
		AutoOffMs:        s.AutoOffMs,
		Protected:        s.Protected,
	}
}
