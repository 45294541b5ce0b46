package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkingDir(t *testing.T) {
	t.Run("empty dir returns cwd", func(t *testing.T) {
		dir, err := resolveWorkingDir("")
		require.NoError(t, err)
		wd, _ := os.Getwd()
		assert.Equal(t, wd, dir)
	})

	t.Run("existing dir is made absolute", func(t *testing.T) {
		base := t.TempDir()
		dir, err := resolveWorkingDir(base)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(dir))
	})

	t.Run("missing dir fails", func(t *testing.T) {
		_, err := resolveWorkingDir(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("file is not a working dir", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "f.txt")
		require.NoError(t, os.WriteFile(f, nil, 0o644))
		_, err := resolveWorkingDir(f)
		assert.ErrorContains(t, err, "not a directory")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadDotEnv(dir), "missing .env is not an error")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CODEAGENT_TEST_DOTENV=from-file\nCODEAGENT_TEST_PRESET=from-file\n"), 0o644))
	t.Setenv("CODEAGENT_TEST_PRESET", "from-env")
	t.Setenv("CODEAGENT_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CODEAGENT_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("CODEAGENT_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("CODEAGENT_TEST_PRESET"))
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"zero", 0, "0s"},
		{"seconds only", 45 * time.Second, "45s"},
		{"exactly one minute", 60 * time.Second, "1m 0s"},
		{"minutes and seconds", 76 * time.Second, "1m 16s"},
		{"exactly one hour", 60 * time.Minute, "1h 0m"},
		{"hours drop seconds", 2*time.Hour + 3*time.Minute + 45*time.Second, "2h 3m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatElapsed(tt.duration))
		})
	}
}
