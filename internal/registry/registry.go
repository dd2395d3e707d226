// Package registry holds the fixed-capacity stores of actuators,
// clickables, and indicators, with id->index maps, and detects
// duplicate IDs / over-capacity as the engine's one fatal-error path.
// Grounded on the original firmware's device/clickable_manager.cpp,
// device/actuator_manager.cpp, device/indicator_manager.cpp, and on
// the teacher's services/hal/internal/core RegisterBuilder/registry
// idiom for the builder-pattern shape (adapted here to an instance
// method set, since this engine has no async device registry to share
// across goroutines).
package registry

import (
	"lsh-core/debug"
	"lsh-core/errcode"
	"lsh-core/internal/actuator"
	"lsh-core/internal/clickable"
	"lsh-core/internal/hal"
	"lsh-core/internal/indicator"
	"lsh-core/internal/wire"
)

// Registry owns every Actuator, Clickable, and Indicator in the
// device, plus their id->index maps. There are no pointer cycles:
// Clickables and Indicators reference Actuators only via the small
// integer indices assigned here.
type Registry struct {
	capActuators  int
	capClickables int
	capIndicators int

	actuators  []*actuator.Actuator
	clickables []*clickable.Clickable
	indicators []*indicator.Indicator

	actuatorByID  map[uint8]uint8
	clickableByID map[uint8]uint8

	reset hal.Reset

	// autoOffSet is the precomputed subset of actuator indices that
	// carry an auto-off timer, accelerating the per-tick sweep
	// (spec §4.5 "precomputation of the subset... to accelerate the
	// per-tick sweep").
	autoOffSet []uint8

	finalized bool
}

// New constructs an empty Registry with the given compile-time
// capacities. reset is invoked (and never returns) on any
// configuration-fatal error.
func New(capActuators, capClickables, capIndicators int, reset hal.Reset) *Registry {
	return &Registry{
		capActuators:  capActuators,
		capClickables: capClickables,
		capIndicators: capIndicators,
		actuatorByID:  make(map[uint8]uint8, capActuators),
		clickableByID: make(map[uint8]uint8, capClickables),
		reset:         reset,
	}
}

// fatal logs the message and invokes the unconditional reset path. It
// never returns, matching the original's deviceReset() after a print
// and grace delay (the grace delay itself belongs to hal.Reset's
// concrete backend, not here).
func (r *Registry) fatal(code errcode.Code, msg string) {
	debug.Fatal("%s: %s", code, msg)
	r.reset.Fatal()
	panic("unreachable: hal.Reset.Fatal must not return")
}

// AddActuator validates capacity (fatal on overflow per spec §7) and
// appends a new Actuator, applying its default state to pin
// immediately.
func (r *Registry) AddActuator(cfg actuator.Config, pin hal.Pin, now uint32) uint8 {
	if len(r.actuators) >= r.capActuators {
		r.fatal(errcode.CapacityExceeded, "actuator capacity exceeded")
	}
	idx := uint8(len(r.actuators))
	r.actuators = append(r.actuators, actuator.New(cfg, pin, now))
	r.actuatorByID[cfg.ID] = idx
	return idx
}

// AddClickable validates capacity and appends a new Clickable. cfg's
// actuator index lists must already reference indices returned by a
// prior AddActuator call.
func (r *Registry) AddClickable(cfg clickable.Config, pin hal.Pin) uint8 {
	if len(r.clickables) >= r.capClickables {
		r.fatal(errcode.CapacityExceeded, "clickable capacity exceeded")
	}
	idx := uint8(len(r.clickables))
	cfg.Index = idx
	r.clickables = append(r.clickables, clickable.New(cfg, pin))
	r.clickableByID[cfg.ID] = idx
	return idx
}

// AddIndicator validates capacity and appends a new Indicator.
func (r *Registry) AddIndicator(cfg indicator.Config, pin hal.Pin) uint8 {
	if len(r.indicators) >= r.capIndicators {
		r.fatal(errcode.CapacityExceeded, "indicator capacity exceeded")
	}
	idx := uint8(len(r.indicators))
	r.indicators = append(r.indicators, indicator.New(cfg, pin))
	return idx
}

// Finalize validates the fully-populated registry: duplicate IDs are
// fatal (map size must equal array size for both actuators and
// clickables), matching the original's
// "clickablesMap.size() != totalClickables" check.
func (r *Registry) Finalize() {
	if len(r.actuatorByID) != len(r.actuators) {
		r.fatal(errcode.DuplicateID, "duplicate actuator id")
	}
	if len(r.clickableByID) != len(r.clickables) {
		r.fatal(errcode.DuplicateID, "duplicate clickable id")
	}
	for idx, a := range r.actuators {
		if a.HasAutoOff() {
			r.autoOffSet = append(r.autoOffSet, uint8(idx))
		}
	}
	r.finalized = true
}

// --- clickable.ActuatorSet ---

func (r *Registry) ToggleActuator(index uint8, now uint32) bool {
	return r.actuators[index].ToggleState(now)
}
func (r *Registry) SetActuator(index uint8, state bool, now uint32) bool {
	return r.actuators[index].SetState(state, now)
}
func (r *Registry) ActuatorState(index uint8) bool { return r.actuators[index].State() }
func (r *Registry) ActuatorProtected(index uint8) bool {
	return r.actuators[index].Protected()
}

// SetActuatorStateVector applies a full-length SET_STATE vector, one
// state per actuator in registry order. ok is false (and nothing is
// applied) when states is the wrong length, mirroring the original's
// "statesArray.size() != totalActuators" guard.
func (r *Registry) SetActuatorStateVector(states []bool, now uint32) (changed bool, ok bool) {
	if len(states) != len(r.actuators) {
		return false, false
	}
	for i, a := range r.actuators {
		changed = a.SetState(states[i], now) || changed
	}
	return changed, true
}

// --- lookups ---

// NetworkFallback implements netclick.FallbackLookup by delegating to
// the indexed clickable's own configured fallback.
func (r *Registry) NetworkFallback(clickableIndex uint8, kind wire.ClickKind) clickable.Fallback {
	return r.clickables[clickableIndex].NetworkFallback(kind)
}

func (r *Registry) ClickableByID(id uint8) (uint8, bool) {
	idx, ok := r.clickableByID[id]
	return idx, ok
}
func (r *Registry) ActuatorByID(id uint8) (uint8, bool) {
	idx, ok := r.actuatorByID[id]
	return idx, ok
}

func (r *Registry) Clickable(index uint8) *clickable.Clickable { return r.clickables[index] }
func (r *Registry) Clickables() []*clickable.Clickable         { return r.clickables }
func (r *Registry) Actuators() []*actuator.Actuator             { return r.actuators }
func (r *Registry) Indicators() []*indicator.Indicator           { return r.indicators }
func (r *Registry) ActuatorIDs() []uint8 {
	ids := make([]uint8, len(r.actuators))
	for i, a := range r.actuators {
		ids[i] = a.ID()
	}
	return ids
}
func (r *Registry) ClickableIDs() []uint8 {
	ids := make([]uint8, len(r.clickables))
	for i, c := range r.clickables {
		ids[i] = c.ID()
	}
	return ids
}

// ActuatorsAutoOff returns the precomputed subset of actuator indices
// carrying an auto-off timer.
func (r *Registry) ActuatorsAutoOff() []uint8 { return r.autoOffSet }

// TurnOffUnprotectedActuators sets every non-protected actuator to
// off. This is the registry-level half of a NORMAL super-long click
// (spec §4.3): the Clickable cannot reach across the whole device's
// actuator set on its own.
func (r *Registry) TurnOffUnprotectedActuators(now uint32) bool {
	changed := false
	for _, a := range r.actuators {
		if a.Protected() {
			continue
		}
		changed = a.SetState(false, now) || changed
	}
	return changed
}

// ActuatorStateVector returns the current state of every actuator, in
// registry order, for ACTUATORS_STATE broadcasts and round-trip reads.
func (r *Registry) ActuatorStateVector() []bool {
	v := make([]bool, len(r.actuators))
	for i, a := range r.actuators {
		v[i] = a.State()
	}
	return v
}

// RefreshIndicators recomputes every indicator against current
// actuator state.
func (r *Registry) RefreshIndicators() {
	for _, ind := range r.indicators {
		ind.Refresh(r)
	}
}
