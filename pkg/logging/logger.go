// Package logging provides a simple structured logging interface for
// recovery operations.
package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger provides logging functionality for recovery operations.
type Logger struct {
	logger *slog.Logger
	debug  bool
}

// NewLogger creates a new logger instance.
func NewLogger(debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
		debug:  debug,
	}
}

// Info logs an informational message with optional key/value attributes.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Debug logs a debug message with optional key/value attributes.
func (l *Logger) Debug(msg string, args ...any) {
	if l.debug {
		l.logger.Debug(msg, args...)
	}
}

// Warn logs a warning message with optional key/value attributes.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.logger.Error(err.Error())
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// DefaultLogger returns a logger instance with debug disabled.
func DefaultLogger() *Logger {
	return NewLogger(false)
}
