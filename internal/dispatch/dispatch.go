// Package dispatch routes one decoded inbound wire.Record to the
// right registry/netclick action and reports whether actuator state
// changed as a result. Grounded bit-for-bit on the original firmware's
// communication/deserializer.cpp: one switch over the command byte,
// validation entirely by convention (a zero ID/command/click-kind
// means "absent" and the branch is simply skipped), no separate
// containsKey checks.
package dispatch

import (
	"lsh-core/internal/wire"
)

// Registry is the subset of registry.Registry dispatch needs: actuator
// lookups/mutation by ID, and state-vector application.
type Registry interface {
	ActuatorByID(id uint8) (index uint8, ok bool)
	SetActuator(index uint8, state bool, now uint32) bool
	SetActuatorStateVector(states []bool, now uint32) (changed bool, ok bool)
	ClickableByID(id uint8) (index uint8, ok bool)
}

// NetworkClicks is the subset of netclick.NetworkClicks dispatch needs.
type NetworkClicks interface {
	Confirm(clickableIndex uint8, kind wire.ClickKind, now uint32) bool
	IsExpired(clickableIndex uint8, kind wire.ClickKind, now uint32) bool
	CheckOne(clickableIndex uint8, kind wire.ClickKind, forceFailover bool, now uint32) bool
	CheckAll(forceFailover bool, now uint32) bool
}

// Responder emits the request/response records that have no other
// side effect (DEVICE_DETAILS, ACTUATORS_STATE on demand).
type Responder interface {
	SendDetails(now uint32) error
	SendActuatorsState(now uint32) error
}

// Result mirrors the original's DispatchResult: whether dispatching
// this record changed actuator state (and so an ACTUATORS_STATE
// broadcast is owed), and whether it was specifically a network-click
// response (so the scheduler keeps sweeping pending network clicks on
// the next tick, same as upstream's networkClickHandled flag — see
// spec §4.8).
type Result struct {
	StateChanged       bool
	NetworkClickHandled bool
}

// Dispatch applies one record's command and returns its side effects.
// An unrecognized or zero command, or a record with validation failing
// "by convention" (id=0, wrong-length state vector, a SET_SINGLE_ACTUATOR
// value other than 0/1, unknown click-kind), is simply a no-op: the link
// stays up and nothing is sent back.
func Dispatch(rec wire.Record, reg Registry, net NetworkClicks, resp Responder, now uint32) Result {
	var result Result

	switch rec.P {
	case wire.SetSingleActuator:
		idx, ok := reg.ActuatorByID(rec.I)
		if !ok {
			break
		}
		if len(rec.S) != 1 {
			break
		}
		if rec.S[0] != 0 && rec.S[0] != 1 {
			break
		}
		result.StateChanged = reg.SetActuator(idx, rec.S[0] == 1, now)

	case wire.SetState:
		// Any value other than 1 is treated as off, matching the
		// original firmware's deserializer: no vector is rejected for
		// carrying an out-of-range element.
		states := make([]bool, len(rec.S))
		for i, v := range rec.S {
			states[i] = v == 1
		}
		changed, ok := reg.SetActuatorStateVector(states, now)
		if !ok {
			break
		}
		result.StateChanged = changed

	case wire.NetworkClickAck, wire.FailoverClick:
		result = processNetworkClickResponse(rec, rec.P, reg, net, now)

	case wire.Failover:
		result.StateChanged = net.CheckAll(true, now)

	case wire.RequestState:
		resp.SendActuatorsState(now)

	case wire.RequestDetails:
		resp.SendDetails(now)

	case wire.Boot:
		resp.SendDetails(now)
		resp.SendActuatorsState(now)

	case wire.Ping:
		// No-op: PING's only purpose is to keep the connection timer fresh,
		// which Poll already did on receipt.

	default:
		// Unknown or zero command: ignored, link stays up.
	}

	return result
}

// processNetworkClickResponse shares the NETWORK_CLICK_ACK /
// FAILOVER_CLICK handling, exactly as the original's helper of the
// same name: both carry a clickable ID and a click kind, and differ
// only in whether the timer check is forced.
func processNetworkClickResponse(rec wire.Record, cmd wire.Command, reg Registry, net NetworkClicks, now uint32) Result {
	var result Result

	if rec.T != wire.Long && rec.T != wire.SuperLong {
		return result
	}
	idx, ok := reg.ClickableByID(rec.I)
	if !ok {
		return result
	}

	switch cmd {
	case wire.FailoverClick:
		result.StateChanged = net.CheckOne(idx, rec.T, true, now)
	case wire.NetworkClickAck:
		if !net.IsExpired(idx, rec.T, now) {
			// StateChanged here is literally Confirm's return value —
			// whether other network clicks are still pending — not a
			// claim that actuator state changed. Preserved unchanged
			// from the original's deserializeAndDispatch, which assigns
			// NetworkClicks::confirm's result straight into stateChanged.
			result.StateChanged = net.Confirm(idx, rec.T, now)
			result.NetworkClickHandled = result.StateChanged
		}
	}
	return result
}
