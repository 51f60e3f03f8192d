// Package mflog wraps zerolog the way a CLI-shaped tool in the pack would:
// a single package-level logger, a human console writer by default, and a
// Warn sink used for the "pedantic" diagnostic stream spec.md §7 describes
// (warnings are written but never abort processing).
package mflog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-wide sink. Replace it (e.g. in tests) with
// zerolog.Nop() to silence output.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

// SetOutput redirects the logger, e.g. to a buffer in tests or to stdout
// for JSON mode in production.
func SetOutput(w io.Writer, json bool) {
	if json {
		Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// Pedantic emits a non-fatal diagnostic the way §7 describes: written to
// the diagnostic stream, never aborting generation.
func Pedantic(handler, format string, a ...interface{}) {
	Logger.Warn().Str("handler", handler).Msgf(format, a...)
}
