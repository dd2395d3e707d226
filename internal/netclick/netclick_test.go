package netclick

import (
	"testing"

	"lsh-core/internal/clickable"
	"lsh-core/internal/wire"
)

type fakeEmitter struct {
	sent []sentClick
}

type sentClick struct {
	idx     uint8
	kind    wire.ClickKind
	confirm bool
}

func (f *fakeEmitter) SendNetworkClick(idx uint8, kind wire.ClickKind, confirm bool, now uint32) {
	f.sent = append(f.sent, sentClick{idx, kind, confirm})
}

type fakeFallback struct {
	fallback clickable.Fallback
}

func (f *fakeFallback) NetworkFallback(uint8, wire.ClickKind) clickable.Fallback {
	return f.fallback
}

type fakeExecutor struct {
	calls []uint8
	ret   bool
}

func (f *fakeExecutor) ExecuteClick(idx uint8, kind wire.ClickKind, now uint32) bool {
	f.calls = append(f.calls, idx)
	return f.ret
}

func TestRequestThenConfirmClearsPending(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.LocalFallback}
	exec := &fakeExecutor{}
	n := New(emit, fb, exec)

	n.Request(3, wire.Long, 100)
	if !n.ThereAreActiveNetworkClicks() {
		t.Fatal("expected pending entry after Request")
	}
	if len(emit.sent) != 1 || emit.sent[0].confirm {
		t.Fatalf("expected one unconfirmed send, got %v", emit.sent)
	}

	still := n.Confirm(3, wire.Long, 150)
	if still {
		t.Fatal("expected no remaining pending entries after sole Confirm")
	}
	if len(emit.sent) != 2 || !emit.sent[1].confirm {
		t.Fatalf("expected a confirmed send to follow, got %v", emit.sent)
	}
	if len(exec.calls) != 0 {
		t.Fatal("Confirm must never invoke the fallback executor")
	}
}

func TestCheckOneBeforeTimeoutDoesNothing(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.LocalFallback}
	exec := &fakeExecutor{}
	n := New(emit, fb, exec)

	n.Request(1, wire.Long, 1000)
	if n.CheckOne(1, wire.Long, false, 1500) {
		t.Fatal("expected no fallback before the timeout elapses")
	}
	if len(exec.calls) != 0 {
		t.Fatal("executor must not run before timeout")
	}
	if !n.ThereAreActiveNetworkClicks() {
		t.Fatal("entry must remain pending before timeout")
	}
}

func TestCheckOneAfterTimeoutFallsBackLocally(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.LocalFallback}
	exec := &fakeExecutor{ret: true}
	n := New(emit, fb, exec)

	n.Request(2, wire.SuperLong, 0)
	changed := n.CheckOne(2, wire.SuperLong, false, TimeoutMs+1)
	if !changed {
		t.Fatal("expected local fallback to report a state change")
	}
	if len(exec.calls) != 1 || exec.calls[0] != 2 {
		t.Fatalf("expected executor invoked for index 2, got %v", exec.calls)
	}
	if n.ThereAreActiveNetworkClicks() {
		t.Fatal("entry must be removed after fallback runs")
	}
}

func TestCheckOneDoNothingFallbackSkipsExecutor(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.DoNothing}
	exec := &fakeExecutor{ret: true}
	n := New(emit, fb, exec)

	n.Request(5, wire.Long, 0)
	changed := n.CheckOne(5, wire.Long, false, TimeoutMs+1)
	if changed {
		t.Fatal("DO_NOTHING fallback must never report a change")
	}
	if len(exec.calls) != 0 {
		t.Fatal("DO_NOTHING fallback must never invoke the executor")
	}
	if n.ThereAreActiveNetworkClicks() {
		t.Fatal("entry must still be cleared even when the fallback is a no-op")
	}
}

func TestForceFailoverActsBeforeTimeout(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.LocalFallback}
	exec := &fakeExecutor{ret: true}
	n := New(emit, fb, exec)

	n.Request(7, wire.Long, 1000)
	changed := n.CheckOne(7, wire.Long, true, 1050)
	if !changed {
		t.Fatal("forceFailover must trigger fallback regardless of elapsed time")
	}
	if len(exec.calls) != 1 {
		t.Fatal("expected executor invoked under forced failover")
	}
}

func TestCheckAllHandlesBothMaps(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{fallback: clickable.LocalFallback}
	exec := &fakeExecutor{ret: true}
	n := New(emit, fb, exec)

	n.Request(1, wire.Long, 0)
	n.Request(2, wire.SuperLong, 0)
	n.Request(3, wire.Long, 0)

	changed := n.CheckAll(true, 10)
	if !changed {
		t.Fatal("expected at least one fallback to run")
	}
	if len(exec.calls) != 3 {
		t.Fatalf("expected all three entries to fall back, got %v", exec.calls)
	}
	if n.ThereAreActiveNetworkClicks() {
		t.Fatal("expected both maps empty after CheckAll")
	}
}

func TestIsExpiredMissingEntry(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{}
	exec := &fakeExecutor{}
	n := New(emit, fb, exec)

	if !n.IsExpired(9, wire.Long, 100) {
		t.Fatal("a clickable with no pending request must read as expired")
	}
}

func TestIsExpiredRemovesStaleEntry(t *testing.T) {
	emit := &fakeEmitter{}
	fb := &fakeFallback{}
	exec := &fakeExecutor{}
	n := New(emit, fb, exec)

	n.Request(4, wire.Long, 0)
	if !n.IsExpired(4, wire.Long, TimeoutMs+1) {
		t.Fatal("expected expiry past the timeout")
	}
	if n.ThereAreActiveNetworkClicks() {
		t.Fatal("IsExpired must erase the stale entry as a side effect")
	}
}
