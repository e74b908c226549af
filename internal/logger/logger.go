// Package logger bridges zerolog to the presencewire Logger interface
// and provides the daemon's console logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/rs/zerolog"
)

// Sink adapts a zerolog.Logger to presencewire.Logger.
type Sink struct {
	l zerolog.Logger
}

// NewConsole returns a Sink writing colored console output to os.Stderr,
// tagged with the given role.
func NewConsole(role string) *Sink {
	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, role)
}

// New returns a Sink writing to out, tagged with the given role.
func New(out io.Writer, role string) *Sink {
	l := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Sink{l: l}
}

// Zerolog exposes the underlying zerolog.Logger for the glue packages
// that log directly.
func (s *Sink) Zerolog() zerolog.Logger {
	return s.l
}

// Print implements presencewire.Logger.
func (s *Sink) Print(level presencewire.LogLevel, v ...interface{}) {
	s.event(level).Msg(fmt.Sprint(v...))
}

// Printf implements presencewire.Logger.
func (s *Sink) Printf(level presencewire.LogLevel, format string, v ...interface{}) {
	s.event(level).Msgf(format, v...)
}

func (s *Sink) event(level presencewire.LogLevel) *zerolog.Event {
	switch level {
	case presencewire.LogError:
		return s.l.Error()
	case presencewire.LogWarning:
		return s.l.Warn()
	case presencewire.LogInfo:
		return s.l.Info()
	case presencewire.LogVerbose:
		return s.l.Debug()
	default:
		return s.l.Trace()
	}
}

// ParseLevel maps the daemon's --log-level flag to a presencewire level.
func ParseLevel(s string) (presencewire.LogLevel, error) {
	switch s {
	case "none":
		return presencewire.LogNone, nil
	case "error":
		return presencewire.LogError, nil
	case "warn", "warning":
		return presencewire.LogWarning, nil
	case "info":
		return presencewire.LogInfo, nil
	case "verbose":
		return presencewire.LogVerbose, nil
	case "debug":
		return presencewire.LogDebug, nil
	}
	return presencewire.LogNone, fmt.Errorf("unknown log level %q", s)
}
