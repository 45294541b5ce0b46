package dirs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		env      map[string]string
		resolve  func() string
		expected string
	}{
		{
			name:     "config default",
			env:      map[string]string{"XDG_CONFIG_HOME": ""},
			resolve:  ConfigDir,
			expected: filepath.Join(home, ".config", "codeagent"),
		},
		{
			name:     "config respects XDG_CONFIG_HOME",
			env:      map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			resolve:  ConfigDir,
			expected: "/custom/config/codeagent",
		},
		{
			name:     "state default",
			env:      map[string]string{"CODEAGENT_STATE_DIR": "", "XDG_STATE_HOME": ""},
			resolve:  StateDir,
			expected: filepath.Join(home, ".local", "state", "codeagent"),
		},
		{
			name:     "state override beats XDG",
			env:      map[string]string{"CODEAGENT_STATE_DIR": "/override", "XDG_STATE_HOME": "/xdg"},
			resolve:  StateDir,
			expected: "/override",
		},
		{
			name:     "state respects XDG_STATE_HOME",
			env:      map[string]string{"CODEAGENT_STATE_DIR": "", "XDG_STATE_HOME": "/xdg"},
			resolve:  StateDir,
			expected: "/xdg/codeagent",
		},
		{
			name:     "cache default",
			env:      map[string]string{"CODEAGENT_CACHE_DIR": "", "XDG_CACHE_HOME": ""},
			resolve:  CacheDir,
			expected: filepath.Join(home, ".cache", "codeagent"),
		},
		{
			name:     "cache override",
			env:      map[string]string{"CODEAGENT_CACHE_DIR": "/c", "XDG_CACHE_HOME": "/xdg"},
			resolve:  CacheDir,
			expected: "/c",
		},
		{
			name:     "logs under state",
			env:      map[string]string{"CODEAGENT_STATE_DIR": "/s"},
			resolve:  LogsDir,
			expected: "/s/logs",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, tc.resolve())
		})
	}
}
