// Package config provides configuration management for cmdpal.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for cmdpal.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/cmdpal)
	ConfigDir string

	// DataDir is the directory for data files such as the default catalog (~/.local/share/cmdpal)
	DataDir string

	// CacheDir is the directory for cache files and the picker lock (~/.cache/cmdpal)
	CacheDir string
}

// DefaultPaths returns the default paths following the XDG Base Directory layout.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir: filepath.Join(appData, "cmdpal"),
			DataDir:   filepath.Join(localAppData, "cmdpal"),
			CacheDir:  filepath.Join(localAppData, "cmdpal", "cache"),
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "cmdpal"),
		DataDir:   filepath.Join(dataHome, "cmdpal"),
		CacheDir:  filepath.Join(cacheHome, "cmdpal"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// CatalogFile returns the path to the default command catalog.
func (p *Paths) CatalogFile() string {
	return filepath.Join(p.DataDir, "commands.yaml")
}

// LockFile returns the path to the picker's advisory lock.
func (p *Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "picker.lock")
}

// LogFile returns the default log file path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.CacheDir, "cmdpal.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
