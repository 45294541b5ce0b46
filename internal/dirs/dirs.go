// Package dirs resolves the XDG base directories used by codeagent.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "codeagent"

// xdgDir resolves override > $xdgVar/codeagent > ~/<fallback>/codeagent.
func xdgDir(override, xdgVar string, fallback ...string) string {
	if override != "" {
		if dir := os.Getenv(override); dir != "" {
			return dir
		}
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...)
}

// ConfigDir holds config.yaml and prompt overrides.
func ConfigDir() string {
	return xdgDir("", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory.
// Resolution order: CODEAGENT_STATE_DIR > XDG_STATE_HOME/codeagent > ~/.local/state/codeagent.
func StateDir() string {
	return xdgDir("CODEAGENT_STATE_DIR", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir returns the directory of the model response cache.
// Resolution order: CODEAGENT_CACHE_DIR > XDG_CACHE_HOME/codeagent > ~/.cache/codeagent.
func CacheDir() string {
	return xdgDir("CODEAGENT_CACHE_DIR", "XDG_CACHE_HOME", ".cache")
}

// LogsDir is StateDir/logs.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}
