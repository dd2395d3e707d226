package config

import (
	"fmt"

	"github.com/andreyvit/tinyjson"

	"lsh-core/internal/clickable"
	"lsh-core/internal/hal"
	"lsh-core/internal/indicator"
	"lsh-core/internal/registry"
)

// PinFactory opens the hardware pin behind a numeric pin ID from the
// device config, direction-appropriate per call site. Implemented by
// hal/host and hal/mcu.
type PinFactory interface {
	InputPin(id int) (hal.Pin, error)
	OutputPin(id int) (hal.Pin, error)
}

// Parse walks a JSON device-config document with tinyjson's
// reflection-free generic decoder (the teacher's approach to keeping
// config parsing light on a constrained target) and returns its
// typed DeviceSpec.
func Parse(raw []byte) (DeviceSpec, error) {
	r := tinyjson.Raw(raw)
	val := r.Value()
	if err := r.EnsureEOF(); err != nil {
		return DeviceSpec{}, fmt.Errorf("config: trailing data after JSON document: %w", err)
	}

	root, ok := val.(map[string]any)
	if !ok {
		return DeviceSpec{}, fmt.Errorf("config: root document is not a JSON object")
	}

	var spec DeviceSpec
	spec.CapActuators = intField(root, "cap_actuators")
	spec.CapClickables = intField(root, "cap_clickables")
	spec.CapIndicators = intField(root, "cap_indicators")

	for _, v := range arrayField(root, "actuators") {
		m, ok := v.(map[string]any)
		if !ok {
			return DeviceSpec{}, fmt.Errorf("config: actuator entry is not an object")
		}
		spec.Actuators = append(spec.Actuators, ActuatorSpec{
			ID:               uint8(intField(m, "id")),
			Pin:              intField(m, "pin"),
			DefaultState:     boolField(m, "default_state"),
			SwitchDebounceMs: uint32(intField(m, "switch_debounce_ms")),
			AutoOffMs:        uint32(intField(m, "auto_off_ms")),
			Protected:        boolField(m, "protected"),
		})
	}

	for _, v := range arrayField(root, "clickables") {
		m, ok := v.(map[string]any)
		if !ok {
			return DeviceSpec{}, fmt.Errorf("config: clickable entry is not an object")
		}
		spec.Clickables = append(spec.Clickables, ClickableSpec{
			ID:                 uint8(intField(m, "id")),
			Pin:                intField(m, "pin"),
			ActuatorsShort:     uint8ArrayField(m, "actuators_short"),
			ActuatorsLong:      uint8ArrayField(m, "actuators_long"),
			ActuatorsSuperLong: uint8ArrayField(m, "actuators_super_long"),
			ShortOK:            boolField(m, "short_ok"),
			LongOK:             boolField(m, "long_ok"),
			SuperLongOK:        boolField(m, "super_long_ok"),
			NetLongOK:          boolField(m, "net_long_ok"),
			NetSuperLongOK:     boolField(m, "net_super_long_ok"),
			LongKind:           clickable.LongKind(intField(m, "long_kind")),
			SuperLongKind:      clickable.SuperLongKind(intField(m, "super_long_kind")),
			LongFallback:       clickable.Fallback(intField(m, "long_fallback")),
			SuperLongFallback:  clickable.Fallback(intField(m, "super_long_fallback")),
			DebounceMs:         uint32(intField(m, "debounce_ms")),
			LongMs:             uint32(intField(m, "long_ms")),
			SuperLongMs:        uint32(intField(m, "super_long_ms")),
		})
	}

	for _, v := range arrayField(root, "indicators") {
		m, ok := v.(map[string]any)
		if !ok {
			return DeviceSpec{}, fmt.Errorf("config: indicator entry is not an object")
		}
		spec.Indicators = append(spec.Indicators, IndicatorSpec{
			Pin:        intField(m, "pin"),
			Controlled: uint8ArrayField(m, "controlled"),
			Mode:       indicator.Mode(intField(m, "mode")),
		})
	}

	return spec, nil
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func arrayField(m map[string]any, key string) []any {
	a, _ := m[key].([]any)
	return a
}

func uint8ArrayField(m map[string]any, key string) []uint8 {
	raw := arrayField(m, key)
	if len(raw) == 0 {
		return nil
	}
	out := make([]uint8, len(raw))
	for i, v := range raw {
		switch x := v.(type) {
		case float64:
			out[i] = uint8(x)
		case int:
			out[i] = uint8(x)
		}
	}
	return out
}

// Build constructs a fully finalized registry.Registry from spec,
// opening one hardware pin per actuator/clickable/indicator via pins
// and translating every actuator-ID reference (clickable and
// indicator wiring) into the registry index assigned when that
// actuator was added — actuators are always added first, mirroring
// the original's configurator add-order requirement.
func Build(spec DeviceSpec, pins PinFactory, reset hal.Reset, now uint32) (*registry.Registry, error) {
	reg := registry.New(spec.CapActuators, spec.CapClickables, spec.CapIndicators, reset)

	for _, a := range spec.Actuators {
		pin, err := pins.OutputPin(a.Pin)
		if err != nil {
			return nil, fmt.Errorf("config: actuator %d pin %d: %w", a.ID, a.Pin, err)
		}
		reg.AddActuator(a.toConfig(), pin, now)
	}

	resolve := func(ids []uint8) ([]uint8, error) {
		if len(ids) == 0 {
			return nil, nil
		}
		out := make([]uint8, len(ids))
		for i, id := range ids {
			idx, ok := reg.ActuatorByID(id)
			if !ok {
				return nil, fmt.Errorf("config: unknown actuator id %d", id)
			}
			out[i] = idx
		}
		return out, nil
	}

	for _, c := range spec.Clickables {
		pin, err := pins.InputPin(c.Pin)
		if err != nil {
			return nil, fmt.Errorf("config: clickable %d pin %d: %w", c.ID, c.Pin, err)
		}
		short, err := resolve(c.ActuatorsShort)
		if err != nil {
			return nil, err
		}
		long, err := resolve(c.ActuatorsLong)
		if err != nil {
			return nil, err
		}
		superLong, err := resolve(c.ActuatorsSuperLong)
		if err != nil {
			return nil, err
		}
		reg.AddClickable(clickable.Config{
			ID:                 c.ID,
			ActuatorsShort:     short,
			ActuatorsLong:      long,
			ActuatorsSuperLong: superLong,
			ShortOK:            c.ShortOK,
			LongOK:             c.LongOK,
			SuperLongOK:        c.SuperLongOK,
			NetLongOK:          c.NetLongOK,
			NetSuperLongOK:     c.NetSuperLongOK,
			LongKind:           c.LongKind,
			SuperLongKind:      c.SuperLongKind,
			LongFallback:       c.LongFallback,
			SuperLongFallback:  c.SuperLongFallback,
			DebounceMs:         c.DebounceMs,
			LongMs:             c.LongMs,
			SuperLongMs:        c.SuperLongMs,
		}, pin)
	}

	for _, ind := range spec.Indicators {
		pin, err := pins.OutputPin(ind.Pin)
		if err != nil {
			return nil, fmt.Errorf("config: indicator pin %d: %w", ind.Pin, err)
		}
		controlled, err := resolve(ind.Controlled)
		if err != nil {
			return nil, err
		}
		reg.AddIndicator(indicator.Config{Controlled: controlled, Mode: ind.Mode}, pin)
	}

	reg.Finalize()
	return reg, nil
}
