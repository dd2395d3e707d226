// Package engine implements the single-threaded, cooperative
// super-loop that drives one tick of the device: poll clickables,
// drain the serial link and dispatch whatever arrived, sweep
// pending network clicks and auto-off timers, and — at most once per
// tick, and only after the post-receive quiet window has elapsed —
// broadcast updated actuator state. Grounded bit-for-bit on the
// original firmware's core/lsh_core.cpp LSH::loop(), reshaped from its
// static-local-variable Arduino idiom into a Scheduler struct holding
// the same state as ordinary fields.
package engine

import (
	"lsh-core/internal/clickable"
	"lsh-core/internal/dispatch"
	"lsh-core/internal/netclick"
	"lsh-core/internal/registry"
	"lsh-core/internal/seriallink"
	"lsh-core/internal/timekeeper"
	"lsh-core/internal/wire"
)

// Timing constants, all grounded on util/constants/timing.hpp.
const (
	NetworkClickCheckIntervalMs = 50
	AutoOffCheckIntervalMs      = 1000
	DelayAfterReceiveMs         = 50
)

// Scheduler owns one tick of the device loop.
type Scheduler struct {
	clock *timekeeper.TimeKeeper
	reg   *registry.Registry
	link  *seriallink.SerialLink
	net   *netclick.NetworkClicks
	bcast *Broadcaster

	mustSendState          bool
	mustCheckNetworkClicks bool

	lastNetworkClickCheckAt uint32
	lastAutoOffCheckAt      uint32
}

// New wires a Scheduler from its already-constructed parts. deviceID
// is this device's "n" field in DEVICE_DETAILS.
func New(clock *timekeeper.TimeKeeper, reg *registry.Registry, link *seriallink.SerialLink, deviceID string) *Scheduler {
	bcast := newBroadcaster(link, reg, deviceID)
	return &Scheduler{
		clock: clock,
		reg:   reg,
		link:  link,
		net:   netclick.New(bcast, reg, bcast),
		bcast: bcast,
	}
}

// Boot sends the BOOT frame once, matching LSH::setup()'s final step.
func (s *Scheduler) Boot() error {
	return s.link.SendBoot(s.clock.Now())
}

// Tick runs exactly one iteration of the super-loop, first caching
// "now" once so every decision within the tick observes the same
// value (spec §4.9 step 1).
func (s *Scheduler) Tick() {
	s.clock.Update()
	now := s.clock.Now()

	s.pollClickables(now)
	s.pollSerial(now)
	s.checkNetworkClicks(now)
	s.checkAutoOff(now)
	s.maybeSendState(now)
}

// pollClickables detects one event per clickable this tick and routes
// it to a local action, a network-click request, or a local fallback
// when the link is down — exactly LSH::loop()'s clickables block. The
// original's "try ping every pass" is folded into CanPing/SendPing
// here, since this call already happens once per tick at ~1kHz.
func (s *Scheduler) pollClickables(now uint32) {
	if s.link.CanPing(now) {
		_ = s.link.SendPing(now)
	}

	for _, c := range s.reg.Clickables() {
		switch c.Detect(now) {
		case clickable.ShortClick, clickable.ShortClickQuick:
			s.mustSendState = c.ShortClickAction(s.reg, now) || s.mustSendState

		case clickable.LongClick:
			s.handleTimedClick(c, now, false)

		case clickable.SuperLongClick:
			s.handleTimedClick(c, now, true)
		}
	}
}

func (s *Scheduler) handleTimedClick(c *clickable.Clickable, now uint32, superLong bool) {
	cfg := c.Config()
	networkOK := cfg.NetLongOK
	fallback := cfg.LongFallback
	kind := wire.Long
	if superLong {
		networkOK = cfg.NetSuperLongOK
		fallback = cfg.SuperLongFallback
		kind = wire.SuperLong
	}

	if networkOK {
		if s.link.IsConnected(now) {
			s.net.Request(c.Index(), kind, now)
			s.mustCheckNetworkClicks = true
			return
		}
		if fallback == clickable.LocalFallback {
			s.mustSendState = s.localClick(c, now, superLong) || s.mustSendState
		}
		return
	}
	s.mustSendState = s.localClick(c, now, superLong) || s.mustSendState
}

func (s *Scheduler) localClick(c *clickable.Clickable, now uint32, superLong bool) bool {
	if !superLong {
		return c.LongClickAction(s.reg, now)
	}
	if c.Config().SuperLongKind == clickable.SuperLongSelective {
		return c.SuperLongClickSelective(s.reg, now)
	}
	return s.reg.TurnOffUnprotectedActuators(now)
}

// pollSerial drains the link and dispatches every decoded record.
func (s *Scheduler) pollSerial(now uint32) {
	recs, err := s.link.Poll(now)
	if err != nil {
		return
	}
	for _, rec := range recs {
		result := dispatch.Dispatch(rec, s.reg, s.net, s.bcast, now)
		s.mustSendState = result.StateChanged || s.mustSendState
		s.mustCheckNetworkClicks = result.NetworkClickHandled || s.mustCheckNetworkClicks
	}
}

// checkNetworkClicks sweeps pending network clicks for timeout every
// NetworkClickCheckIntervalMs, only while any are outstanding.
func (s *Scheduler) checkNetworkClicks(now uint32) {
	if !s.mustCheckNetworkClicks {
		return
	}
	if now-s.lastNetworkClickCheckAt <= NetworkClickCheckIntervalMs {
		return
	}
	s.lastNetworkClickCheckAt = now
	s.mustSendState = s.net.CheckAll(false, now) || s.mustSendState
	s.mustCheckNetworkClicks = s.net.ThereAreActiveNetworkClicks()
}

// checkAutoOff sweeps actuators carrying an auto-off timer every
// AutoOffCheckIntervalMs.
func (s *Scheduler) checkAutoOff(now uint32) {
	if now-s.lastAutoOffCheckAt <= AutoOffCheckIntervalMs {
		return
	}
	s.lastAutoOffCheckAt = now
	changed := false
	for _, idx := range s.reg.ActuatorsAutoOff() {
		changed = s.reg.Actuators()[idx].CheckAutoOff(now) || changed
	}
	s.mustSendState = changed || s.mustSendState
}

// maybeSendState broadcasts updated actuator state once the
// post-receive quiet window has elapsed, coalescing a burst of
// SET_SINGLE_ACTUATOR commands into a single outbound
// ACTUATORS_STATE, exactly as the original's DELAY_AFTER_RECEIVE_MS
// guard.
func (s *Scheduler) maybeSendState(now uint32) {
	if !s.mustSendState {
		return
	}
	if now-s.link.LastReceivedAt() <= DelayAfterReceiveMs {
		return
	}
	_ = s.bcast.SendActuatorsState(now)
	s.reg.RefreshIndicators()
	s.mustSendState = false
}
