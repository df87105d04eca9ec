// Package logging builds the process-wide slog handler from configuration.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/config"
)

// New creates a logger writing to stderr in the configured format and level.
// Every record carries the service name and build version.
func New(cfg config.LogConfig, version string) *slog.Logger {
	return NewWithWriter(cfg, version, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, version string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "authapi"),
		slog.String("version", version),
	})

	return slog.New(handler)
}

// Install makes logger the slog default. Output from the standard log
// package is routed through the same handler at info level.
func Install(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// StdLogger adapts logger for APIs that still take a *log.Logger.
func StdLogger(logger *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), level)
}

// ParseLevel converts a string log level to slog.Level.
// Unrecognised values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
