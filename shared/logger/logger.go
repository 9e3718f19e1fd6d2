package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

func init() {
	// Auto-initialize with safe defaults for tests and development
	Initialize("info", false)
}

// Initialize sets up the global logger with the specified level and format
func Initialize(level string, useJSON bool) {
	Log = New(os.Stdout, level, useJSON)
	slog.SetDefault(Log)
}

// New builds a logger writing to w without touching the global one.
func New(w io.Writer, level string, useJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts string log level to slog.Level
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
