package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"lsh-core/internal/config"
	"lsh-core/internal/hal"
	"lsh-core/internal/seriallink"
	"lsh-core/internal/timekeeper"
	"lsh-core/internal/wire"
)

// fakePin is a manually-driven digital input/output, letting a test
// simulate a button press by flipping level between ticks.
type fakePin struct{ level bool }

func (p *fakePin) Read() bool   { return p.level }
func (p *fakePin) Write(v bool) { p.level = v }

type fakePins struct{ pins map[int]*fakePin }

func newFakePins() *fakePins { return &fakePins{pins: map[int]*fakePin{}} }

func (f *fakePins) pin(id int) *fakePin {
	p, ok := f.pins[id]
	if !ok {
		p = &fakePin{}
		f.pins[id] = p
	}
	return p
}
func (f *fakePins) InputPin(id int) (hal.Pin, error)  { return f.pin(id), nil }
func (f *fakePins) OutputPin(id int) (hal.Pin, error) { return f.pin(id), nil }

type fakeReset struct{ called bool }

func (r *fakeReset) Fatal() { r.called = true }

// fakeClock is advanced explicitly by the test between Tick calls.
type fakeClock struct{ ms uint32 }

func (c *fakeClock) NowMillis() uint32 { return c.ms }

// fakeStream is a non-blocking hal.Stream: writes accumulate into out
// (one entry per Send/SendPing/SendBoot call's bytes), reads drain a
// queue the test fills to simulate inbound frames.
type fakeStream struct {
	out   [][]byte
	inbox []byte
}

func (s *fakeStream) Read(p []byte) (int, error) {
	if len(s.inbox) == 0 {
		return 0, nil
	}
	n := copy(p, s.inbox)
	s.inbox = s.inbox[n:]
	return n, nil
}

func (s *fakeStream) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	s.out = append(s.out, cp)
	return len(p), nil
}

func (s *fakeStream) queueRecord(t *testing.T, rec wire.Record) {
	t.Helper()
	b, err := (seriallink.TextFramer{}).Encode(rec)
	if err != nil {
		t.Fatalf("encode queued record: %v", err)
	}
	s.inbox = append(s.inbox, b...)
}

// lastSentRecords decodes every frame written to the stream as a
// TextFramer record, in send order.
func (s *fakeStream) lastSentRecords(t *testing.T) []wire.Record {
	t.Helper()
	var recs []wire.Record
	for _, frame := range s.out {
		var rec wire.Record
		if err := json.Unmarshal(bytes.TrimRight(frame, "\n"), &rec); err != nil {
			t.Fatalf("decode sent frame %q: %v", frame, err)
		}
		recs = append(recs, rec)
	}
	return recs
}

const testDeviceJSON = `{
  "cap_actuators": 4,
  "cap_clickables": 4,
  "cap_indicators": 0,
  "actuators": [
    {"id": 1, "pin": 10, "default_state": false, "switch_debounce_ms": 0, "auto_off_ms": 0, "protected": false},
    {"id": 2, "pin": 11, "default_state": true,  "switch_debounce_ms": 0, "auto_off_ms": 500, "protected": false}
  ],
  "clickables": [
    {
      "id": 100, "pin": 20,
      "actuators_short": [1],
      "actuators_long": [1],
      "short_ok": true, "long_ok": true, "super_long_ok": false,
      "net_long_ok": false,
      "debounce_ms": 10, "long_ms": 500, "super_long_ms": 2000
    },
    {
      "id": 101, "pin": 21,
      "actuators_long": [2],
      "long_ok": true, "super_long_ok": false,
      "net_long_ok": true,
      "debounce_ms": 10, "long_ms": 500, "super_long_ms": 2000
    }
  ],
  "indicators": []
}`

type harness struct {
	t      *testing.T
	clock  *fakeClock
	pins   *fakePins
	stream *fakeStream
	sched  *Scheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	spec, err := config.Parse([]byte(testDeviceJSON))
	if err != nil {
		t.Fatalf("parse test config: %v", err)
	}
	pins := newFakePins()
	reset := &fakeReset{}
	reg, err := config.Build(spec, pins, reset, 0)
	if err != nil {
		t.Fatalf("build test registry: %v", err)
	}
	if reset.called {
		t.Fatalf("unexpected fatal reset during build")
	}

	stream := &fakeStream{}
	link := seriallink.New(stream, seriallink.TextFramer{})
	clock := &fakeClock{}
	clk := timekeeper.New(clock)

	sched := New(clk, reg, link, "test-device")

	return &harness{t: t, clock: clock, pins: pins, stream: stream, sched: sched}
}

// tickAt sets the clock to ms and runs one scheduler tick.
func (h *harness) tickAt(ms uint32) {
	h.clock.ms = ms
	h.sched.Tick()
}

func TestShortClickTogglesActuatorAndBroadcastsState(t *testing.T) {
	h := newHarness(t)
	button := h.pins.pin(20)

	// Press, hold past debounce, release: classic short click.
	button.level = true
	h.tickAt(0)  // IDLE -> DEBOUNCING
	h.tickAt(20) // DEBOUNCING -> PRESSED (debounce 10ms elapsed)
	button.level = false
	h.tickAt(30) // PRESSED -> RELEASED -> IDLE, emits ShortClick
	h.tickAt(85) // past the post-receive quiet window, flushes the broadcast

	recs := h.stream.lastSentRecords(t)
	if len(recs) == 0 {
		t.Fatalf("expected at least one outbound record, got none")
	}
	last := recs[len(recs)-1]
	if last.P != wire.ActuatorsState {
		t.Fatalf("expected ACTUATORS_STATE as the last frame, got %+v", last)
	}
	if len(last.S) != 2 || last.S[0] != 1 {
		t.Fatalf("expected actuator 1 toggled on in state vector, got %v", last.S)
	}
}

func TestLongClickRunsLocallyWhenNotNetworkEnabled(t *testing.T) {
	h := newHarness(t)
	button := h.pins.pin(20)

	button.level = true
	h.tickAt(0)
	h.tickAt(20) // debounced into PRESSED
	h.tickAt(600) // held past long_ms=500

	// A local long click on clickable 100 switches actuator 1 on directly;
	// no NETWORK_CLICK frame should ever be sent since net_long_ok is
	// false for this clickable.
	for _, rec := range h.stream.lastSentRecords(t) {
		if rec.P == wire.NetworkClick {
			t.Fatalf("unexpected NETWORK_CLICK frame for a clickable with net_long_ok=false: %+v", rec)
		}
	}

	button.level = false
	h.tickAt(610)

	recs := h.stream.lastSentRecords(t)
	last := recs[len(recs)-1]
	if last.P != wire.ActuatorsState || len(last.S) != 2 || last.S[0] != 1 {
		t.Fatalf("expected actuator 1 on after local long click, got %+v", last)
	}
}

func TestNetworkClickRequestedWhenLinkConnected(t *testing.T) {
	h := newHarness(t)

	// Bring the link up: queue one inbound DEVICE_DETAILS-triggering
	// record isn't necessary; any valid record marks firstValidReceived.
	h.stream.queueRecord(t, wire.Record{P: wire.Ping})
	h.tickAt(0) // Poll() decodes the queued PING, link becomes connected

	button := h.pins.pin(21)
	button.level = true
	h.tickAt(20)  // IDLE -> DEBOUNCING (button was unpressed during the tick above)
	h.tickAt(40)  // DEBOUNCING -> PRESSED
	h.tickAt(640) // held past long_ms=500, net_long_ok=true and link is up

	var sawRequest bool
	for _, rec := range h.stream.lastSentRecords(t) {
		if rec.P == wire.NetworkClick && rec.I == 101 && rec.T == wire.Long && rec.C == 0 {
			sawRequest = true
		}
	}
	if !sawRequest {
		t.Fatalf("expected a NETWORK_CLICK request for clickable 101, got %+v", h.stream.lastSentRecords(t))
	}
}

func TestAutoOffSweepTurnsActuatorOff(t *testing.T) {
	h := newHarness(t)

	// Actuator 2 defaults on with auto_off_ms=500. The sweep only runs
	// every AutoOffCheckIntervalMs, so advance past both windows.
	h.tickAt(0)
	h.tickAt(AutoOffCheckIntervalMs + 600)

	recs := h.stream.lastSentRecords(t)
	if len(recs) == 0 {
		t.Fatalf("expected a broadcast after auto-off fired")
	}
	last := recs[len(recs)-1]
	if last.P != wire.ActuatorsState || len(last.S) != 2 || last.S[1] != 0 {
		t.Fatalf("expected actuator 2 auto-off to have fired, got %+v", last.S)
	}
}

func TestPingSentOncePerIntervalAndBootSendsBootFrame(t *testing.T) {
	h := newHarness(t)

	if err := h.sched.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if len(h.stream.out) != 1 || string(h.stream.out[0]) != string(wire.BootTextFrame) {
		t.Fatalf("expected exactly the byte-exact boot frame, got %q", h.stream.out)
	}

	h.tickAt(0) // lastSentAt is still 0 from Boot, so CanPing is false immediately after
	if len(h.stream.out) != 1 {
		t.Fatalf("did not expect a ping this soon after boot, got %d frames", len(h.stream.out))
	}

	h.tickAt(seriallink.PingIntervalMs + 1)
	// Ping is polled before the auto-off sweep within Tick, so it is
	// always frame index 1 regardless of any state broadcast the same
	// tick's auto-off sweep may also trigger.
	if len(h.stream.out) < 2 || string(h.stream.out[1]) != string(wire.PingTextFrame) {
		t.Fatalf("expected a byte-exact ping frame once the interval elapsed, got %q", h.stream.out)
	}
}
