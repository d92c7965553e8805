// Package config handles the settings document and the daemon
// configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the config and data directories.
const AppName = "wordbubble"

// ConfigDir returns the wordbubble config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// DataHome returns XDG_DATA_HOME, defaulting to ~/.local/share.
func DataHome() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return dataHome
}

// DataPath returns the wordbubble data directory.
func DataPath() string {
	home := DataHome()
	if home == "" {
		return ""
	}
	return filepath.Join(home, AppName)
}

// SettingsPath returns the path to settings.json.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// WordListDir returns the directory holding word lists.
func WordListDir() string {
	return filepath.Join(DataPath(), "word_lists")
}

// FontDir returns the user font directory fonts are imported into.
func FontDir() string {
	return filepath.Join(DataHome(), "fonts")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
