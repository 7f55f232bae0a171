// Package logging builds the process logger. All packages receive a
// zerolog.Logger from here instead of constructing their own.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr. With verbose set,
// debug-level messages are included.
func New(verbose bool) zerolog.Logger {
	return NewWithWriter(verbose, os.Stderr)
}

// NewWithWriter is New with an explicit destination, for tests.
func NewWithWriter(verbose bool, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
