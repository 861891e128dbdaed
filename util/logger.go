// Package util provides low-level helpers shared by all other packages.
package util

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog console logger that prints messages at
// or below the given verbosity (0 = warnings and errors, 1 = info,
// 2 = debug, 3 = trace).
func NewLogger(verbosity int) zerolog.Logger {
	return NewLoggerTo(os.Stderr, verbosity)
}

// NewLoggerTo is NewLogger with an explicit output writer, for tests.
func NewLoggerTo(w io.Writer, verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 3:
		level = zerolog.TraceLevel
	case verbosity == 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger for components that were handed no
// logger at all.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
