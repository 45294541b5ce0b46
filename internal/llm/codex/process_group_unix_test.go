//go:build !windows

package codex

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

func TestInvoke_CancelKillsProcessGroup(t *testing.T) {
	script := filepath.Join(t.TempDir(), "codex")
	// The child sleep keeps stdout open; only a group kill ends it.
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 30 &\nsleep 30\n"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := New(Config{Binary: script}).Invoke(ctx, "x", llm.InvokeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInvoke_Timeout(t *testing.T) {
	script := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o755))

	_, err := New(Config{Binary: script}).Invoke(context.Background(), "x", llm.InvokeOptions{Timeout: 1})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestProcessGroupWaitIsIdempotent(t *testing.T) {
	r := &execRunner{}
	_, wait, err := r.Run(context.Background(), "true")
	require.NoError(t, err)
	assert.NoError(t, wait())
	assert.NoError(t, wait())
}
