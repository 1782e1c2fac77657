// Package logger configures the process-wide slog logger from the log
// section of the application config.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/quarryhq/graphrag/pkg/config"
)

// New builds a slog.Logger from the log configuration. Format "json" selects
// the JSON handler; anything else falls back to text.
func New(cfg config.LogConfig) *slog.Logger {
	return slog.New(NewHandler(cfg))
}

// NewHandler builds the base slog.Handler for the configured format, for
// callers that want to wrap it before constructing the logger.
func NewHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// NewDefaultLogger returns a text logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
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
