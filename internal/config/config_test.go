package config

import (
	"testing"

	"lsh-core/internal/hal"
)

type fakePin struct{ level bool }

func (p *fakePin) Read() bool   { return p.level }
func (p *fakePin) Write(v bool) { p.level = v }

type fakePins struct{}

func (fakePins) InputPin(id int) (hal.Pin, error)  { return &fakePin{}, nil }
func (fakePins) OutputPin(id int) (hal.Pin, error) { return &fakePin{}, nil }

type fakeReset struct{ called bool }

func (r *fakeReset) Fatal() { r.called = true }

const sampleConfig = `{
  "cap_actuators": 4,
  "cap_clickables": 2,
  "cap_indicators": 1,
  "actuators": [
    {"id": 1, "pin": 10, "default_state": false, "switch_debounce_ms": 50, "auto_off_ms": 0, "protected": false},
    {"id": 2, "pin": 11, "default_state": false, "switch_debounce_ms": 50, "auto_off_ms": 30000, "protected": true}
  ],
  "clickables": [
    {
      "id": 100, "pin": 20,
      "actuators_short": [1],
      "actuators_long": [1, 2],
      "short_ok": true, "long_ok": true, "super_long_ok": false,
      "debounce_ms": 40, "long_ms": 800, "super_long_ms": 2000
    }
  ],
  "indicators": [
    {"pin": 30, "controlled": [1, 2], "mode": 0}
  ]
}`

func TestParseSampleConfig(t *testing.T) {
	spec, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.CapActuators != 4 || spec.CapClickables != 2 || spec.CapIndicators != 1 {
		t.Fatalf("capacity mismatch: %+v", spec)
	}
	if len(spec.Actuators) != 2 || spec.Actuators[1].Protected != true {
		t.Fatalf("actuator parse mismatch: %+v", spec.Actuators)
	}
	if len(spec.Clickables) != 1 || len(spec.Clickables[0].ActuatorsLong) != 2 {
		t.Fatalf("clickable parse mismatch: %+v", spec.Clickables)
	}
	if len(spec.Indicators) != 1 || len(spec.Indicators[0].Controlled) != 2 {
		t.Fatalf("indicator parse mismatch: %+v", spec.Indicators)
	}
}

func TestParseRejectsNonObjectRoot(t *testing.T) {
	if _, err := Parse([]byte(`[1,2,3]`)); err == nil {
		t.Fatal("expected an error for a non-object root document")
	}
}

func TestBuildUnknownActuatorReferenceFails(t *testing.T) {
	spec := DeviceSpec{
		CapActuators:  1,
		CapClickables: 1,
		Actuators:     []ActuatorSpec{{ID: 1, Pin: 1}},
		Clickables: []ClickableSpec{
			{ID: 2, Pin: 2, ActuatorsShort: []uint8{99}, ShortOK: true},
		},
	}
	if _, err := Build(spec, fakePins{}, &fakeReset{}, 0); err == nil {
		t.Fatal("expected an error referencing an unknown actuator id")
	}
}

func TestBuildResolvesActuatorIndices(t *testing.T) {
	spec := DeviceSpec{
		CapActuators:  2,
		CapClickables: 1,
		CapIndicators: 1,
		Actuators: []ActuatorSpec{
			{ID: 5, Pin: 1},
			{ID: 6, Pin: 2},
		},
		Clickables: []ClickableSpec{
			{ID: 7, Pin: 3, ActuatorsShort: []uint8{6}, ShortOK: true},
		},
		Indicators: []IndicatorSpec{
			{Pin: 4, Controlled: []uint8{5, 6}, Mode: 0},
		},
	}
	reg, err := Build(spec, fakePins{}, &fakeReset{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.Actuators()) != 2 || len(reg.Clickables()) != 1 || len(reg.Indicators()) != 1 {
		t.Fatalf("unexpected registry shape: %d/%d/%d", len(reg.Actuators()), len(reg.Clickables()), len(reg.Indicators()))
	}
}
