// Package logging builds the zerolog logger shared by the CLI and the workflow.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when the configured level cannot be parsed.
const DefaultLevel = zerolog.InfoLevel

// New returns a console logger writing to w at the given level. Unknown or
// empty level names fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}

	return zerolog.New(writer).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return DefaultLevel
	}

	return lvl
}

// Nop discards everything; tests and library callers use it.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
