// Package logger prints caribic progress to the terminal.
//
// Status lines (Log, Warn, Error) are colored with fatih/color the way the
// CLI reports stack state. Info and Verbose go through a zerolog console
// logger so command output and diagnostics can be filtered by level.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Level is the --verbose value.
type Level int

const (
	Quiet Level = iota
	Standard
	Warning
	Error
	Info
	Verbose
)

// MaxLevel is the highest accepted --verbose value.
const MaxLevel = Verbose

// ParseLevel validates a --verbose value.
func ParseLevel(v int) (Level, error) {
	if v < int(Quiet) || v > int(MaxLevel) {
		return Quiet, fmt.Errorf("invalid verbosity %d (must be 0-%d)", v, MaxLevel)
	}
	return Level(v), nil
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case Quiet:
		return zerolog.Disabled
	case Standard, Warning:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Logger writes status lines and diagnostics at a fixed verbosity.
type Logger struct {
	level Level
	out   io.Writer
	zl    zerolog.Logger
}

// New returns a Logger writing to out.
func New(level Level, out io.Writer) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
		Level(level.zerologLevel()).
		With().Timestamp().Logger()
	return &Logger{level: level, out: out, zl: zl}
}

// Default returns a Logger on stdout.
func Default(level Level) *Logger {
	return New(level, os.Stdout)
}

// Discard returns a Logger that prints nothing.
func Discard() *Logger {
	return New(Quiet, io.Discard)
}

// Log prints a standard progress line.
func (l *Logger) Log(msg string) {
	if l.level < Standard {
		return
	}
	fmt.Fprintln(l.out, msg)
}

// Success prints a progress line in green.
func (l *Logger) Success(msg string) {
	if l.level < Standard {
		return
	}
	fmt.Fprintln(l.out, color.GreenString(msg))
}

// Warn prints a warning line from the Warning level up.
func (l *Logger) Warn(msg string) {
	if l.level < Warning {
		return
	}
	fmt.Fprintln(l.out, color.YellowString(msg))
}

// Error prints an error line. Errors are shown at every level but Quiet.
func (l *Logger) Error(msg string) {
	if l.level < Standard {
		return
	}
	fmt.Fprintln(l.out, color.RedString(msg))
}

// Info logs a diagnostic line.
func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Verbose logs a detail line, only shown at the highest verbosity.
func (l *Logger) Verbose(msg string) {
	l.zl.Debug().Msg(msg)
}
