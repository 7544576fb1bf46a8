// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the configured root logger. Init replaces it; before Init it is
// a sensible text logger so early code can still log.
var L = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Init builds the root logger from a level name ("debug", "info",
// "warn", "error") and a format ("text" or "json"), installs it as L,
// and makes it the slog default.
func Init(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	L = slog.New(handler)
	slog.SetDefault(L)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs at debug level on the root logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level on the root logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level on the root logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
