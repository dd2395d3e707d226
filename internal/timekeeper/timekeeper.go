// Package timekeeper caches a monotonic millisecond timestamp once per
// loop iteration so every timing decision within a tick observes the
// same "now". Grounded on the original firmware's timeKeeper::now /
// timeKeeper::update, reshaped from a package-level global into a
// struct field per the teacher's service-object idiom.
package timekeeper

// Clock is the millisecond time source. The engine's HAL backend
// supplies the real implementation; tests supply a fake.
type Clock interface {
	NowMillis() uint32
}

// TimeKeeper holds the tick-cached timestamp.
type TimeKeeper struct {
	clock Clock
	now   uint32
}

// New builds a TimeKeeper reading from clock.
func New(clock Clock) *TimeKeeper {
	return &TimeKeeper{clock: clock}
}

// Update caches the current time. Call once per loop iteration.
func (t *TimeKeeper) Update() {
	t.now = t.clock.NowMillis()
}

// Now returns the cached timestamp from the last Update call.
func (t *TimeKeeper) Now() uint32 { return t.now }

// RealNow bypasses the cache for the rare caller needing a fresh read.
func (t *TimeKeeper) RealNow() uint32 { return t.clock.NowMillis() }

// Elapsed returns now-since, wrap-safe for a 32-bit millisecond
// counter: the unsigned subtraction is correct as long as the true
// elapsed time is less than half the counter's range (~24.8 days),
// which always holds for the timeouts this engine uses.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// ElapsedSince is Elapsed(t.Now(), since) — the common case.
func (t *TimeKeeper) ElapsedSince(since uint32) uint32 {
	return Elapsed(t.now, since)
}
