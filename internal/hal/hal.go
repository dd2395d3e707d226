// Package hal declares the primitive hardware interfaces the engine is
// built against: digital pins, a millisecond clock, a byte-stream
// serial link, and an unconditional reset. Concrete implementations
// live in hal/mcu (TinyGo, build-tagged rp2040/rp2350) and hal/host
// (Linux/host, the default build), mirroring the teacher's
// services/hal/internal/platform factories_linux.go / factories_rp2xxx.go
// split. The core engine only ever imports this package, never a
// backend, so swapping platforms never touches engine code.
package hal

import "lsh-core/internal/timekeeper"

// Pin is a single digital I/O line.
type Pin interface {
	// Read returns the current logical level (true = high).
	Read() bool
	// Write sets the output level. No-op on input-only pins.
	Write(level bool)
}

// Clock supplies the millisecond time source consumed by timekeeper.TimeKeeper.
type Clock = timekeeper.Clock

// Stream is a non-blocking byte-stream serial link: Read returns only
// bytes already buffered (0, nil when none are available — never
// blocks), Write is synchronous and bounded by short frames.
type Stream interface {
	// Read copies already-buffered bytes into p, returning how many.
	// It never blocks; a return of (0, nil) means no bytes are ready.
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}

// Reset performs the platform's unconditional hardware reset. Fatal
// never returns; callers should treat any code path after it as dead.
type Reset interface {
	Fatal()
}
