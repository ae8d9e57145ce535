// Package logger builds component-scoped structured loggers for the engine
// and its services. All daemons log JSON lines; the CLI gets a console
// writer.
package logger

import (
	"io"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout tagged with the component name.
// Unknown level strings fall back to info.
func New(component, level string) log.Logger {
	return NewWithWriter(component, level, os.Stdout)
}

// NewWithWriter returns a JSON logger on w tagged with the component name.
func NewWithWriter(component, level string, w io.Writer) log.Logger {
	zerolog.DurationFieldUnit = time.Millisecond
	zl := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return log.NewCustomLogger(zl)
}

// NewConsole returns a human-readable logger for interactive use.
func NewConsole(component string) log.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	zl := zerolog.New(cw).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return log.NewCustomLogger(zl)
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() log.Logger {
	return log.NewNopLogger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
