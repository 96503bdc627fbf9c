// Package fs provides filesystem-backed state for questlog: the persisted
// story slot, XDG paths and task-file watching.
package fs

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "questlog"

// DefaultDataDir returns the directory for persisted data such as the story slot.
// Uses XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/questlog,
// or system temp directory if home is unavailable.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultStateDir returns the directory for the diagnostic log.
// Uses XDG_STATE_HOME if set, otherwise falls back to ~/.local/state/questlog.
func DefaultStateDir() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// DefaultConfigDir returns the directory holding config.toml.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config/questlog.
func DefaultConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env string, homeRel ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), appName)
	}
	parts := append([]string{home}, homeRel...)
	return filepath.Join(append(parts, appName)...)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
// Paths without the prefix, or when home is unavailable, are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
