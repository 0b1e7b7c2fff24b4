// Package log provides JSON-lines structured logging for cmdpal.
//
// Every line is a JSON object with "ts", "level" and "msg" keys:
//
//	{"ts":"2026-10-19T10:30:00Z","level":"INFO","msg":"catalog loaded","path":"/home/u/.local/share/cmdpal/commands.yaml","commands":42}
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelWarn)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelWarn,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log: unknown level %q", name)
	}
}

// Open creates a logger at the named level writing to path, or to stderr
// when path is empty. The returned close function must be called when the
// logger is no longer needed.
func Open(level, path string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return New(&Config{Output: os.Stderr, Level: lvl}), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("log: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("log: open %s: %w", path, err)
	}
	return New(&Config{Output: f, Level: lvl}), f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(&Config{Output: io.Discard, Level: slog.LevelError + 1})
}

// StartupInfo holds information logged when a cmdpal command starts.
type StartupInfo struct {
	Version     string
	Command     string
	ConfigPath  string
	CatalogPath string
}

// LogStartup logs command startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Debug("cmdpal started",
		"version", info.Version,
		"command", info.Command,
		"config_path", info.ConfigPath,
		"catalog_path", info.CatalogPath,
		"pid", os.Getpid(),
	)
}

// LogCatalogLoaded logs a successfully loaded catalog.
func LogCatalogLoaded(logger *slog.Logger, path string, commands, recent int) {
	logger.Info("catalog loaded",
		"path", path,
		"commands", commands,
		"recent", recent,
	)
}

// LogCatalogError logs a catalog that could not be loaded.
func LogCatalogError(logger *slog.Logger, path string, err error) {
	logger.Error("catalog load failed", "path", path, "error", err)
}

// LogSearch logs one ranking pass. The query text itself is not logged, only
// its length.
func LogSearch(logger *slog.Logger, queryLen, candidates, results int, took time.Duration) {
	logger.Debug("search",
		"query_len", queryLen,
		"candidates", candidates,
		"results", results,
		"took_us", took.Microseconds(),
	)
}

// LogPickerExit logs how the picker ended.
func LogPickerExit(logger *slog.Logger, outcome string, exitCode int) {
	logger.Info("picker exited", "outcome", outcome, "exit_code", exitCode)
}
