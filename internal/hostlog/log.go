// Package hostlog provides leveled logging backed by pterm, as an
// owned value rather than a package-level singleton — the core keeps
// no global mutable state (see the HostAPI façade), and a logger is
// no exception.
package hostlog

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Logger wraps a pterm logger instance. The zero value is not usable;
// construct with New.
type Logger struct {
	pt *pterm.Logger
}

// New returns a Logger with time-prefixed output, matching the
// host's preferred log register. Each Logger owns its own copy of
// pterm's logger state rather than sharing pterm.DefaultLogger.
func New() *Logger {
	pt := pterm.DefaultLogger
	pt.ShowTime = true
	pt.TimeFormat = "02 Jan 15:04:05"
	pt.MaxWidth = 1000
	return &Logger{pt: &pt}
}

// EnableDebug raises the logger's level to show Debug messages.
func (l *Logger) EnableDebug() {
	l.pt.Level = pterm.LogLevelDebug
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.pt.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.pt.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.pt.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.pt.Error(fmt.Sprintf(format, args...))
}
