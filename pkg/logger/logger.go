package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is a leveled logger handed to each pipeline explicitly, so two
// runs in one process never share logging state.
type Logger struct {
	base *log.Logger
}

// New creates a logger writing to w at the named level
// (debug, info, warn or error).
func New(w io.Writer, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	return &Logger{base: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "revetl",
		Level:           lvl,
	})}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{base: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}

// ParseLevel validates a level name.
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{base: l.base.With(keyvals...)}
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.base.Debug(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...interface{})  { l.base.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...interface{})  { l.base.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.base.Error(msg, keyvals...) }

func (l *Logger) Infof(format string, v ...interface{}) { l.base.Infof(format, v...) }
func (l *Logger) Warnf(format string, v ...interface{}) { l.base.Warnf(format, v...) }
