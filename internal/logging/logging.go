// Package logging builds the zerolog loggers used across the scraper.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Level is the scraper's log level. The zero value is WARN.
type Level int

const (
	LevelWarn Level = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelError
)

var levelNames = map[Level]string{
	LevelVerbose: "VERBOSE",
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "WARN"
}

// ParseLevel reads VERBOSE, DEBUG, INFO, WARN or ERROR, ignoring case.
// An empty string is WARN.
func ParseLevel(s string) (Level, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	if text == "" {
		return LevelWarn, nil
	}
	if text == "WARNING" {
		return LevelWarn, nil
	}
	for level, name := range levelNames {
		if name == text {
			return level, nil
		}
	}
	return LevelWarn, errors.Newf("unknown log level %q", s)
}

// Zerolog maps the level onto zerolog's levels.
func (l Level) Zerolog() zerolog.Level {
	switch l {
	case LevelVerbose:
		return zerolog.TraceLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// New returns a timestamped logger writing JSON lines to w.
func New(w io.Writer, level Level) zerolog.Logger {
	// zerolog's global floor defaults to debug and would swallow trace events.
	if level == LevelVerbose && zerolog.GlobalLevel() > zerolog.TraceLevel {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	return zerolog.New(w).Level(level.Zerolog()).With().Timestamp().Logger()
}

// Console returns a human-readable logger on stderr.
func Console(level Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

// Component derives a child logger tagged with the component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
