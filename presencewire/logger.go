package presencewire

import (
	"fmt"
	"log"
	"os"
)

type LogLevel uint

const (
	LogNone LogLevel = iota
	LogError
	LogWarning
	LogInfo
	LogVerbose
	LogDebug
)

var logLevels = map[LogLevel]string{
	LogError:   "[ERROR] ",
	LogWarning: "[WARN] ",
	LogInfo:    "[INFO] ",
	LogVerbose: "[VERBOSE] ",
	LogDebug:   "[DEBUG] ",
}

// Logger is the sink the library writes to. Implementations decide the
// output format; the library only supplies the level and the message.
type Logger interface {
	Print(level LogLevel, v ...interface{})
	Printf(level LogLevel, format string, v ...interface{})
}

// LoggerOptions pairs a Logger with the maximum level that is emitted.
type LoggerOptions struct {
	Logger Logger
	Level  LogLevel
}

func (l LoggerOptions) Is(level LogLevel) bool {
	return l.Level != LogNone && l.Level >= level
}

func (l LoggerOptions) Print(level LogLevel, v ...interface{}) {
	if l.Is(level) {
		l.target().Print(level, v...)
	}
}

func (l LoggerOptions) Printf(level LogLevel, format string, v ...interface{}) {
	if l.Is(level) {
		l.target().Printf(level, format, v...)
	}
}

func (l LoggerOptions) target() Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return defaultLogger
}

func (l LoggerOptions) sugar() logger {
	return logger{l}
}

var defaultLogger Logger = &stdLogger{log.New(os.Stderr, "", log.LstdFlags)}

// stdLogger adapts log.Logger to the Logger interface.
type stdLogger struct {
	*log.Logger
}

func (s *stdLogger) Printf(level LogLevel, format string, v ...interface{}) {
	s.Logger.Printf(logLevels[level]+format, v...)
}

func (s *stdLogger) Print(level LogLevel, v ...interface{}) {
	if len(v) != 0 {
		v[0] = fmt.Sprintf(logLevels[level]+"%v", v[0])
		s.Logger.Print(v...)
	}
}

// logger wraps LoggerOptions with level-named helpers for internal use.
type logger struct {
	opts LoggerOptions
}

func (l logger) Error(v ...interface{}) {
	l.opts.Print(LogError, v...)
}

func (l logger) Errorf(fmt string, v ...interface{}) {
	l.opts.Printf(LogError, fmt, v...)
}

func (l logger) Warn(v ...interface{}) {
	l.opts.Print(LogWarning, v...)
}

func (l logger) Warnf(fmt string, v ...interface{}) {
	l.opts.Printf(LogWarning, fmt, v...)
}

func (l logger) Info(v ...interface{}) {
	l.opts.Print(LogInfo, v...)
}

func (l logger) Infof(fmt string, v ...interface{}) {
	l.opts.Printf(LogInfo, fmt, v...)
}

func (l logger) Verbosef(fmt string, v ...interface{}) {
	l.opts.Printf(LogVerbose, fmt, v...)
}

func (l logger) Debug(v ...interface{}) {
	l.opts.Print(LogDebug, v...)
}

func (l logger) Debugf(fmt string, v ...interface{}) {
	l.opts.Printf(LogDebug, fmt, v...)
}
