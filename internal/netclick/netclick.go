// Package netclick tracks pending long/super-long network-click
// requests, enforces the per-request timeout, and handles ACK
// confirmation, explicit failover, and local fallback execution.
// Grounded bit-for-bit on the original firmware's
// core/network_clicks.{hpp,cpp}.
package netclick

import (
	"lsh-core/internal/clickable"
	"lsh-core/internal/wire"
)

// Executor performs the local click fallback action for a given
// (clickable index, kind) pair, routing NORMAL super-long through a
// device-wide "turn off unprotected" and everything else through the
// clickable's own local-click method. Implemented by the engine,
// which is the only component that can see both the registry and the
// clickable in one place.
type Executor interface {
	ExecuteClick(clickableIndex uint8, kind wire.ClickKind, now uint32) bool
}

// Emitter sends the NETWORK_CLICK wire record. Implemented by the
// engine's Broadcaster, which writes it to the serial link.
type Emitter interface {
	SendNetworkClick(clickableIndex uint8, kind wire.ClickKind, confirm bool, now uint32)
}

// FallbackLookup returns the configured fallback kind (clickable.Fallback
// reused rather than redeclared: LocalFallback/DoNothing are a single
// concept, set once in clickable.Config and read here). Implemented by
// the registry/clickable layer.
type FallbackLookup interface {
	NetworkFallback(clickableIndex uint8, kind wire.ClickKind) clickable.Fallback
}

// TimeoutMs is the per-request deadline (spec §6 default 1000ms).
const TimeoutMs = 1000

// NetworkClicks holds the two pending-request maps and drives
// request/confirm/timeout/fallback.
type NetworkClicks struct {
	pendingLong      map[uint8]uint32
	pendingSuperLong map[uint8]uint32

	emit     Emitter
	fallback FallbackLookup
	execute  Executor
}

// New constructs an empty NetworkClicks.
func New(emit Emitter, fallback FallbackLookup, execute Executor) *NetworkClicks {
	return &NetworkClicks{
		pendingLong:      make(map[uint8]uint32),
		pendingSuperLong: make(map[uint8]uint32),
		emit:             emit,
		fallback:         fallback,
		execute:          execute,
	}
}

func (n *NetworkClicks) mapFor(kind wire.ClickKind) map[uint8]uint32 {
	if kind == wire.SuperLong {
		return n.pendingSuperLong
	}
	return n.pendingLong
}

// Request emits the outbound NETWORK_CLICK (c=0) and records the
// request time so a later timeout check can fall back.
func (n *NetworkClicks) Request(clickableIndex uint8, kind wire.ClickKind, now uint32) {
	n.emit.SendNetworkClick(clickableIndex, kind, false, now)
	n.StoreClickTime(clickableIndex, kind, now)
}

// StoreClickTime records now as the request deadline anchor for
// (clickableIndex, kind).
func (n *NetworkClicks) StoreClickTime(clickableIndex uint8, kind wire.ClickKind, now uint32) {
	n.mapFor(kind)[clickableIndex] = now
}

// Confirm emits the outbound NETWORK_CLICK (c=1) and removes the
// pending entry after an ACK. Returns whether any entries remain
// pending anywhere (in either map).
func (n *NetworkClicks) Confirm(clickableIndex uint8, kind wire.ClickKind, now uint32) bool {
	n.emit.SendNetworkClick(clickableIndex, kind, true, now)
	n.Erase(clickableIndex, kind)
	return n.ThereAreActiveNetworkClicks()
}

// Erase removes a stored pending entry, if any.
func (n *NetworkClicks) Erase(clickableIndex uint8, kind wire.ClickKind) {
	delete(n.mapFor(kind), clickableIndex)
}

// ThereAreActiveNetworkClicks reports whether either map holds an entry.
func (n *NetworkClicks) ThereAreActiveNetworkClicks() bool {
	return len(n.pendingLong) > 0 || len(n.pendingSuperLong) > 0
}

// IsExpired reports whether the pending entry for (clickableIndex,
// kind) is missing, or has been pending longer than TimeoutMs — in
// which case it is removed as a side effect, mirroring the original's
// isNetworkClickExpired "erase it for convenience".
func (n *NetworkClicks) IsExpired(clickableIndex uint8, kind wire.ClickKind, now uint32) bool {
	m := n.mapFor(kind)
	t, ok := m[clickableIndex]
	if !ok {
		return true
	}
	if now-t > TimeoutMs {
		delete(m, clickableIndex)
		return true
	}
	return false
}

// CheckOne applies the fallback-or-skip decision to a single pending
// entry: if it exists and (forceFailover or expired), execute the
// configured fallback action and remove the entry. Returns whether a
// local state change occurred.
func (n *NetworkClicks) CheckOne(clickableIndex uint8, kind wire.ClickKind, forceFailover bool, now uint32) bool {
	m := n.mapFor(kind)
	t, ok := m[clickableIndex]
	if !ok {
		return false
	}
	if !forceFailover && now-t <= TimeoutMs {
		return false
	}
	changed := false
	if n.fallback.NetworkFallback(clickableIndex, kind) == clickable.LocalFallback {
		changed = n.execute.ExecuteClick(clickableIndex, kind, now)
	}
	delete(m, clickableIndex)
	return changed
}

// CheckAll applies CheckOne's semantics to every pending entry in both
// maps, tolerating concurrent removal (delete-then-advance, expressed
// here by snapshotting the keys before iterating — Go map deletion
// during a range is itself safe, but a snapshot keeps the semantics
// explicit and independent of range-order guarantees).
func (n *NetworkClicks) CheckAll(forceFailover bool, now uint32) bool {
	changed := false
	for _, idx := range snapshotKeys(n.pendingLong) {
		changed = n.CheckOne(idx, wire.Long, forceFailover, now) || changed
	}
	for _, idx := range snapshotKeys(n.pendingSuperLong) {
		changed = n.CheckOne(idx, wire.SuperLong, forceFailover, now) || changed
	}
	return changed
}

func snapshotKeys(m map[uint8]uint32) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
