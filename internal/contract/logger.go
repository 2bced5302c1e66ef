package contract

import (
	"fmt"
	"io"
	"os"
)

// Logger writes leveled diagnostics to a sink, stderr by default, so
// stdout stays clean for piped table output. Components receive a
// *Logger explicitly instead of reaching for a global.
type Logger struct {
	Out     io.Writer
	Verbose bool
	Debug   bool
}

// NewLogger returns a stderr logger with the given levels.
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{Out: os.Stderr, Verbose: verbose, Debug: debug}
}

// Infof always writes.
func (l *Logger) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(l.Out, format+"\n", args...)
}

// Verbosef writes when verbose or debug is enabled.
func (l *Logger) Verbosef(format string, args ...any) {
	if l.Verbose || l.Debug {
		_, _ = fmt.Fprintf(l.Out, format+"\n", args...)
	}
}

// Debugf writes only when debug is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		_, _ = fmt.Fprintf(l.Out, "DEBUG: "+format+"\n", args...)
	}
}

// Warnf always writes, prefixed so warnings stand out in plain logs.
func (l *Logger) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(l.Out, "Warn: "+format+"\n", args...)
}
