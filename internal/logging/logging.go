package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/inovacc/countrydesk/internal/config"
)

const (
	EnvLogLevel  = "COUNTRYDESK_LOG_LEVEL"
	EnvLogFormat = "COUNTRYDESK_LOG_FORMAT"
)

// New builds a logger writing to w from the log section of the config. Environment variables
// take precedence over the file.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	applyEnvOverrides(&cfg)

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs the config-driven logger as the slog default and returns it.
func Setup(cfg config.LogConfig) *slog.Logger {
	logger := New(os.Stderr, cfg)
	slog.SetDefault(logger)

	return logger
}

// SetupFile is Setup for the terminal UI, where stderr belongs to the renderer.
// The returned closer must be called on exit.
func SetupFile(path string, cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(f, cfg)
	slog.SetDefault(logger)

	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func applyEnvOverrides(cfg *config.LogConfig) {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.Level = lvl
	}

	if format := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))); format == "json" || format == "text" {
		cfg.Format = format
	}
}
