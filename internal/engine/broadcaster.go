package engine

import (
	"lsh-core/internal/clickable"
	"lsh-core/internal/registry"
	"lsh-core/internal/seriallink"
	"lsh-core/internal/wire"
)

// Broadcaster is the engine's single implementation of
// netclick.Emitter, netclick.Executor, and dispatch.Responder: it is
// the only component that can see the registry, the clickables, and
// the serial link all at once, exactly as lsh_core.cpp's loop() is
// the original's only such place.
type Broadcaster struct {
	link     *seriallink.SerialLink
	reg      *registry.Registry
	deviceID string
}

func newBroadcaster(link *seriallink.SerialLink, reg *registry.Registry, deviceID string) *Broadcaster {
	return &Broadcaster{link: link, reg: reg, deviceID: deviceID}
}

// --- netclick.Emitter ---

func (b *Broadcaster) SendNetworkClick(clickableIndex uint8, kind wire.ClickKind, confirm bool, now uint32) {
	c := uint8(0)
	if confirm {
		c = 1
	}
	rec := wire.Record{
		P: wire.NetworkClick,
		I: b.reg.Clickable(clickableIndex).ID(),
		T: kind,
		C: c,
	}
	_ = b.link.Send(rec, now)
}

// --- netclick.Executor ---

// ExecuteClick performs the local fallback action for a network click
// whose hub round-trip timed out or was explicitly failed over,
// mirroring device/clickable_manager.cpp's click(index, type) switch.
func (b *Broadcaster) ExecuteClick(clickableIndex uint8, kind wire.ClickKind, now uint32) bool {
	c := b.reg.Clickable(clickableIndex)
	switch kind {
	case wire.Long:
		return c.LongClickAction(b.reg, now)
	case wire.SuperLong:
		if c.Config().SuperLongKind == clickable.SuperLongSelective {
			return c.SuperLongClickSelective(b.reg, now)
		}
		return b.reg.TurnOffUnprotectedActuators(now)
	default:
		return false
	}
}

// --- dispatch.Responder ---

func (b *Broadcaster) SendDetails(now uint32) error {
	rec := wire.Record{
		P: wire.DeviceDetails,
		N: b.deviceID,
		A: b.reg.ActuatorIDs(),
		B: b.reg.ClickableIDs(),
	}
	return b.link.Send(rec, now)
}

func (b *Broadcaster) SendActuatorsState(now uint32) error {
	states := b.reg.ActuatorStateVector()
	s := make(wire.StateVal, len(states))
	for i, on := range states {
		if on {
			s[i] = 1
		}
	}
	return b.link.Send(wire.Record{P: wire.ActuatorsState, S: s}, now)
}
