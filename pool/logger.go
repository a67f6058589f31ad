package pool

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
)

const envDebug = "TURBIT_DEBUG"

// Logger receives the engine's diagnostics. Spawn shortfalls are warnings,
// failed runs are errors.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// consoleLogger writes prefixed lines to stderr, coloring the level tag.
type consoleLogger struct {
	out   *log.Logger
	debug bool

	debugTag, infoTag, warnTag, errorTag string
}

func newConsoleLogger(debug bool) *consoleLogger {
	return newConsoleLoggerTo(os.Stderr, debug)
}

func newConsoleLoggerTo(w io.Writer, debug bool) *consoleLogger {
	return &consoleLogger{
		out:      log.New(w, "", log.Ltime|log.Lmicroseconds),
		debug:    debug,
		debugTag: color.New(color.FgCyan).Sprint("[TURBIT DEBUG]"),
		infoTag:  color.New(color.FgGreen).Sprint("[TURBIT INFO]"),
		warnTag:  color.New(color.FgYellow).Sprint("[TURBIT WARN]"),
		errorTag: color.New(color.FgRed, color.Bold).Sprint("[TURBIT ERROR]"),
	}
}

func (l *consoleLogger) Debugf(format string, args ...any) {
	if l.debug {
		l.emit(l.debugTag, format, args)
	}
}

func (l *consoleLogger) Infof(format string, args ...any) {
	l.emit(l.infoTag, format, args)
}

func (l *consoleLogger) Warnf(format string, args ...any) {
	l.emit(l.warnTag, format, args)
}

func (l *consoleLogger) Errorf(format string, args ...any) {
	l.emit(l.errorTag, format, args)
}

func (l *consoleLogger) emit(tag, format string, args []any) {
	_ = l.out.Output(3, tag+" "+fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

func debugFromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv(envDebug))
	return err == nil && v
}
