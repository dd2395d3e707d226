// Package debug is the engine's trace sink, the Go analogue of the
// original firmware's Debug::DP/DPL macros. Go has no preprocessor, so
// instead of compiling away in release builds the gate is a runtime
// flag: callers pay one branch when disabled, nothing is ever
// allocated past it.
package debug

import (
	"io"
	"os"

	"lsh-core/x/fmtx"
)

// Enabled gates every Print/Printf call below. Off by default; the
// engine never sets it, so a caller that wants trace output sets it.
var Enabled = false

// Output is where enabled trace lines go. Defaults to stderr on host
// builds; MCU bootstraps should point this at the debug UART.
var Output io.Writer = os.Stderr

// Printf writes a formatted trace line followed by a newline, if
// Enabled. Mirrors the original's DPL(fmt, ...).
func Printf(format string, a ...any) {
	if !Enabled {
		return
	}
	fmtx.Fprintf(Output, format, a...)
	fmtx.Fprint(Output, "\n")
}

// Print writes its arguments space-separated, without a trailing
// newline, if Enabled. Mirrors the original's DP(...).
func Print(a ...any) {
	if !Enabled {
		return
	}
	fmtx.Fprint(Output, a...)
}

// Fatal logs a configuration-fatal message and returns; it does not
// reset anything itself, so the caller follows it with
// hal.Reset.Fatal(). Logging
// happens unconditionally here, regardless of Enabled, because a
// config-fatal error is the one trace line an operator must never
// lose.
func Fatal(format string, a ...any) {
	fmtx.Fprintf(Output, format, a...)
	fmtx.Fprint(Output, "\n")
}
