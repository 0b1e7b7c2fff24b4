package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Page size bounds for the picker.
const (
	minPageSize = 5
	maxPageSize = 500
)

// Config represents the cmdpal configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Picker PickerConfig `yaml:"picker"`
	Log    LogConfig    `yaml:"log"`
}

// SearchConfig holds settings shared by every search entry point.
type SearchConfig struct {
	CatalogPath string `yaml:"catalog_path"` // Candidate catalog (empty = default data path)
	MaxResults  int    `yaml:"max_results"`  // Results printed by `cmdpal search`
	RecentLimit int    `yaml:"recent_limit"` // Recent IDs passed to the ranker (0 = all)
}

// TabDef defines a tab in the palette picker. A tab with an empty Category
// shows every command.
type TabDef struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Category string `yaml:"category"`
}

// PickerConfig holds palette picker settings.
type PickerConfig struct {
	PageSize int      `yaml:"page_size"` // Rows fetched per page
	Layout   string   `yaml:"layout"`    // top-down or bottom-up
	Tabs     []TabDef `yaml:"tabs"`      // Tab definitions
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = stderr)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			CatalogPath: "",
			MaxResults:  20,
			RecentLimit: 0,
		},
		Picker: PickerConfig{
			PageSize: 50,
			Layout:   "top-down",
			Tabs: []TabDef{
				{ID: "all", Label: "All"},
			},
		},
		Log: LogConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile loads configuration from the specified file without applying
// environment overrides. Use it when the result is written back to disk.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CatalogFile returns the configured catalog path, falling back to the
// default data path.
func (c *Config) CatalogFile() string {
	if c.Search.CatalogPath != "" {
		return c.Search.CatalogPath
	}
	return DefaultPaths().CatalogFile()
}

// Get retrieves a configuration value by dot-separated key.
// For example: "search.max_results" or "log.level".
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "search":
		return c.getSearchField(field)
	case "picker":
		return c.getPickerField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("%w: unknown section %s", ErrUnknownKey, section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "search":
		return c.setSearchField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("%w: unknown section %s", ErrUnknownKey, section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "catalog_path":
		return c.Search.CatalogPath, nil
	case "max_results":
		return strconv.Itoa(c.Search.MaxResults), nil
	case "recent_limit":
		return strconv.Itoa(c.Search.RecentLimit), nil
	default:
		return "", fmt.Errorf("%w: search.%s", ErrUnknownKey, field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	switch field {
	case "catalog_path":
		c.Search.CatalogPath = value
	case "max_results":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_results: %w", err)
		}
		if v < 1 {
			return errors.New("search.max_results must be >= 1")
		}
		c.Search.MaxResults = v
	case "recent_limit":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for recent_limit: %w", err)
		}
		if v < 0 {
			return errors.New("search.recent_limit must be >= 0")
		}
		c.Search.RecentLimit = v
	default:
		return fmt.Errorf("%w: search.%s", ErrUnknownKey, field)
	}
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "page_size":
		return strconv.Itoa(c.Picker.PageSize), nil
	case "layout":
		return c.Picker.Layout, nil
	default:
		return "", fmt.Errorf("%w: picker.%s", ErrUnknownKey, field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "page_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for page_size: %w", err)
		}
		c.Picker.PageSize = clampPageSize(v)
	case "layout":
		if !isValidLayout(value) {
			return fmt.Errorf("invalid layout: %s (must be top-down or bottom-up)", value)
		}
		c.Picker.Layout = value
	default:
		return fmt.Errorf("%w: picker.%s", ErrUnknownKey, field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("%w: log.%s", ErrUnknownKey, field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("%w: log.%s", ErrUnknownKey, field)
	}
	return nil
}

// Validate validates the configuration. Out-of-range page sizes are clamped
// rather than rejected.
func (c *Config) Validate() error {
	if c.Search.MaxResults < 1 {
		return errors.New("search.max_results must be >= 1")
	}

	if c.Search.RecentLimit < 0 {
		return errors.New("search.recent_limit must be >= 0")
	}

	c.Picker.PageSize = clampPageSize(c.Picker.PageSize)

	if !isValidLayout(c.Picker.Layout) {
		return fmt.Errorf("picker.layout must be top-down or bottom-up (got: %s)", c.Picker.Layout)
	}

	seen := make(map[string]bool, len(c.Picker.Tabs))
	for i, tab := range c.Picker.Tabs {
		if tab.ID == "" {
			return fmt.Errorf("picker.tabs[%d].id must not be empty", i)
		}
		if seen[tab.ID] {
			return fmt.Errorf("picker.tabs[%d].id %q is duplicated", i, tab.ID)
		}
		seen[tab.ID] = true
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func clampPageSize(v int) int {
	if v < minPageSize {
		return minPageSize
	}
	if v > maxPageSize {
		return maxPageSize
	}
	return v
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidLayout(layout string) bool {
	switch layout {
	case "top-down", "bottom-up":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CMDPAL_CATALOG"); v != "" {
		c.Search.CatalogPath = v
	}
	if v := os.Getenv("CMDPAL_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("CMDPAL_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"search.catalog_path",
		"search.max_results",
		"search.recent_limit",
		"picker.page_size",
		"picker.layout",
		"log.level",
		"log.file",
	}
}
