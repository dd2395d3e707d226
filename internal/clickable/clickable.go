// Package clickable implements the per-input finite-state machine that
// classifies button presses into short / long / super-long click
// events, with debounce and a "quick-click" fast path. Grounded
// bit-for-bit on the original firmware's
// peripherals/input/clickable.{hpp,cpp}.
package clickable

import (
	"lsh-core/internal/hal"
	"lsh-core/internal/wire"
)

// State is the FSM's current phase.
type State uint8

const (
	IDLE State = iota
	DEBOUNCING
	PRESSED
	RELEASED
)

// ActionFired tracks the highest-priority timed action already
// emitted during the current press, so a press held past the
// super-long threshold can never also emit LONG or a release SHORT.
// Ordered so `<` comparisons express priority, matching the original's
// ActionFired enum.
type ActionFired uint8

const (
	ActionNone ActionFired = iota
	ActionLong
	ActionSuperLong
)

// Result is the classification emitted by Detect for one poll.
type Result uint8

const (
	NoClick Result = iota
	NoClickKeepingClicked
	NoClickNotShortClickable
	ShortClick
	ShortClickQuick
	LongClick
	SuperLongClick
)

// LongKind selects the local long-click action (spec §4.3).
type LongKind uint8

const (
	LongNormal LongKind = iota
	LongOnOnly
	LongOffOnly
)

// SuperLongKind selects the local super-long-click action.
type SuperLongKind uint8

const (
	SuperLongNormal SuperLongKind = iota
	SuperLongSelective
)

// Fallback selects what happens to a network click on timeout/failover.
type Fallback uint8

const (
	LocalFallback Fallback = iota
	DoNothing
)

// Config is the boot-time, immutable shape of one clickable.
type Config struct {
	ID       uint8
	Index    uint8 // assigned by the registry

	ActuatorsShort     []uint8
	ActuatorsLong      []uint8
	ActuatorsSuperLong []uint8

	ShortOK     bool
	LongOK      bool
	SuperLongOK bool

	NetLongOK      bool
	NetSuperLongOK bool

	LongKind          LongKind
	SuperLongKind     SuperLongKind
	LongFallback      Fallback
	SuperLongFallback Fallback

	DebounceMs   uint32
	LongMs       uint32
	SuperLongMs  uint32
}

// QuickOK reports whether this is a "quick-click" input: short-only,
// so its event fires on the debounced press rather than on release.
func (c Config) QuickOK() bool {
	return c.ShortOK && !c.LongOK && !c.SuperLongOK
}

// Valid reports whether the clickable is actionable: enabled for at
// least one click type and wired to at least one actuator.
func (c Config) Valid() bool {
	if !c.ShortOK && !c.LongOK && !c.SuperLongOK {
		return false
	}
	return len(c.ActuatorsShort) > 0 || len(c.ActuatorsLong) > 0 || len(c.ActuatorsSuperLong) > 0
}

// ActuatorSet mutates actuators by index; the clickable never touches
// hardware directly, only through this interface. Implemented by the
// registry over its Actuator slice.
type ActuatorSet interface {
	ToggleActuator(index uint8, now uint32) bool
	SetActuator(index uint8, state bool, now uint32) bool
	ActuatorState(index uint8) bool
	ActuatorProtected(index uint8) bool
}

// Clickable is one digital input driven by the 4-state FSM.
type Clickable struct {
	cfg Config
	pin hal.Pin

	state          State
	stateChangeAt  uint32
	lastAction     ActionFired
}

// New constructs a Clickable at rest in IDLE.
func New(cfg Config, pin hal.Pin) *Clickable {
	return &Clickable{cfg: cfg, pin: pin}
}

func (c *Clickable) ID() uint8      { return c.cfg.ID }
func (c *Clickable) Index() uint8   { return c.cfg.Index }
func (c *Clickable) Config() Config { return c.cfg }

// NetworkFallback returns the configured fallback for the given click
// kind, so a caller holding only a clickable (not its Config) can
// answer netclick's FallbackLookup without a second accessor.
func (c *Clickable) NetworkFallback(kind wire.ClickKind) Fallback {
	if kind == wire.SuperLong {
		return c.cfg.SuperLongFallback
	}
	return c.cfg.LongFallback
}

// Detect reads the physical level once and advances the FSM,
// returning the classification for this poll. It must be called
// exactly once per scheduler tick per clickable (spec §4.9 step 2).
func (c *Clickable) Detect(now uint32) Result {
	pressed := c.pin.Read()

	switch c.state {
	case IDLE:
		if pressed {
			c.state = DEBOUNCING
			c.stateChangeAt = now
		}
		return NoClick

	case DEBOUNCING:
		if now-c.stateChangeAt < c.cfg.DebounceMs {
			return NoClick
		}
		if pressed {
			c.state = PRESSED
			c.stateChangeAt = now
			c.lastAction = ActionNone
			if c.cfg.QuickOK() {
				return ShortClickQuick
			}
			return NoClick
		}
		// Bounce/noise: return to IDLE without ever having confirmed a press.
		c.state = IDLE
		return NoClick

	case PRESSED:
		if pressed {
			duration := now - c.stateChangeAt
			if c.cfg.SuperLongOK && c.lastAction < ActionSuperLong && duration >= c.cfg.SuperLongMs {
				c.lastAction = ActionSuperLong
				return SuperLongClick
			}
			if c.cfg.LongOK && c.lastAction < ActionLong && duration >= c.cfg.LongMs {
				c.lastAction = ActionLong
				return LongClick
			}
			return NoClickKeepingClicked
		}
		// Released: fall through to RELEASED handling within the same tick.
		c.state = RELEASED
		fallthrough

	case RELEASED:
		c.state = IDLE
		if c.cfg.QuickOK() {
			return NoClick
		}
		if c.lastAction == ActionNone {
			if c.cfg.ShortOK {
				return ShortClick
			}
			return NoClickNotShortClickable
		}
		return NoClick
	}
	return NoClick
}

// ShortClickAction toggles every short-linked actuator. Returns
// whether any actuator changed state.
func (c *Clickable) ShortClickAction(actuators ActuatorSet, now uint32) bool {
	if !c.cfg.ShortOK {
		return false
	}
	changed := false
	for _, idx := range c.cfg.ActuatorsShort {
		changed = actuators.ToggleActuator(idx, now) || changed
	}
	return changed
}

// LongClickAction applies the configured LongKind to every long-linked
// actuator. NORMAL switches on iff strictly fewer than half of the
// linked actuators are currently on (the original's
// "(onCount<<1) < total" shift-based comparison, preserved exactly).
func (c *Clickable) LongClickAction(actuators ActuatorSet, now uint32) bool {
	if !c.cfg.LongOK {
		return false
	}
	var target bool
	switch c.cfg.LongKind {
	case LongOnOnly:
		target = true
	case LongOffOnly:
		target = false
	default: // LongNormal
		var on uint32
		for _, idx := range c.cfg.ActuatorsLong {
			if actuators.ActuatorState(idx) {
				on++
			}
		}
		target = (on << 1) < uint32(len(c.cfg.ActuatorsLong))
	}
	changed := false
	for _, idx := range c.cfg.ActuatorsLong {
		changed = actuators.SetActuator(idx, target, now) || changed
	}
	return changed
}

// SuperLongClickSelective turns off every unprotected super-long-linked
// actuator. Only meaningful when SuperLongKind == SuperLongSelective;
// the NORMAL variant is handled at the registry level via
// TurnOffUnprotectedActuators, matching the original's split between
// Clickable::superLongClickSelective and
// Actuators::turnOffUnprotectedActuators.
func (c *Clickable) SuperLongClickSelective(actuators ActuatorSet, now uint32) bool {
	if !c.cfg.SuperLongOK || c.cfg.SuperLongKind != SuperLongSelective {
		return false
	}
	changed := false
	for _, idx := range c.cfg.ActuatorsSuperLong {
		if actuators.ActuatorProtected(idx) {
			continue
		}
		changed = actuators.SetActuator(idx, false, now) || changed
	}
	return changed
}
