// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a text or JSON handler on stderr as the slog default.
func Init(level string, jsonFormat bool) {
	InitWriter(os.Stderr, level, jsonFormat)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, jsonFormat bool) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", level,
		"json_format", jsonFormat,
	)
}

// ParseLevel maps debug/info/warn/error to slog levels. Anything else is
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
