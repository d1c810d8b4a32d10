package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a timestamped JSON logger at the given level. Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// Setup replaces the global logger. Terminal UIs pass console=false and a file
// writer so log lines do not tear the screen.
func Setup(level string, console bool) zerolog.Logger {
	var w io.Writer = os.Stderr
	if console {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return SetupWriter(w, level)
}

// SetupWriter replaces the global logger with one writing JSON to w.
func SetupWriter(w io.Writer, level string) zerolog.Logger {
	l := New(w, level)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
