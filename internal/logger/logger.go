package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/payments-engine/internal/config"
)

// NewLogger creates a JSON slog.Logger writing to stderr.
// Stdout is reserved for the CLI snapshot output.
func NewLogger(cfg *config.Config) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stderr)
}

// NewLoggerWithWriter creates the same logger over an arbitrary writer
func NewLoggerWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source code location to log output
		AddSource: level == slog.LevelDebug,
	}

	handler := slog.NewJSONHandler(w, opts)
	logger := slog.New(handler).With("app", cfg.Application.Name)

	logger.Debug("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
