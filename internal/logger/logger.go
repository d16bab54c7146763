package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a structured logger with level from string.
func New(level string) *slog.Logger {
	return newWithWriter(level, os.Stdout)
}

// NewWithFile returns a logger that writes to stdout and tees every line
// into the given file, creating it if needed. An empty path behaves like
// New.
func NewWithFile(level, path string) (*slog.Logger, error) {
	if path == "" {
		return New(level), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return newWithWriter(level, io.MultiWriter(os.Stdout, f)), nil
}

func newWithWriter(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
