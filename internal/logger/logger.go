// Package logger provides structured-ish text logging shared across every
// maowbotd subsystem, in the style of the service loggers this project
// grew out of: one prefix per subsystem, info to stdout, errors to stderr.
package logger

import (
	"fmt"
	"log"
	"os"
)

// Logger writes prefixed info/error lines for a single subsystem.
type Logger struct {
	name   string
	info   *log.Logger
	errl   *log.Logger
}

// New creates a Logger for the named subsystem (e.g. "eventbus", "pipeline").
func New(name string) *Logger {
	return &Logger{
		name: name,
		info: log.New(os.Stdout, fmt.Sprintf("INFO: [%s] ", name), log.Ldate|log.Ltime),
		errl: log.New(os.Stderr, fmt.Sprintf("ERROR: [%s] ", name), log.Ldate|log.Ltime),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.errl.Printf(format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.errl.Fatalf(format, args...)
}

// With returns a child Logger scoped to "name:child", for narrowing a
// subsystem logger down to a specific connection or execution.
func (l *Logger) With(child string) *Logger {
	return New(l.name + ":" + child)
}
