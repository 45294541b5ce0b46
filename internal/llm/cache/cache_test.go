package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "nested", "llm_cache.json"))
}

func TestCache_PutGet(t *testing.T) {
	c := newCache(t)

	_, ok := c.Get("prompt")
	assert.False(t, ok)

	require.NoError(t, c.Put("prompt", "answer"))
	require.NoError(t, c.Put("other", "second"))

	got, ok := c.Get("prompt")
	require.True(t, ok)
	assert.Equal(t, "answer", got)
	assert.Equal(t, 2, c.Len())

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(data))
	assert.Equal(t, "second", gjson.GetBytes(data, Key("other")+".response").String())
}

func TestCache_CorruptFileReadsEmpty(t *testing.T) {
	c := newCache(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.Path()), 0o700))
	require.NoError(t, os.WriteFile(c.Path(), []byte("{not json"), 0o600))

	_, ok := c.Get("prompt")
	assert.False(t, ok)

	require.NoError(t, c.Put("prompt", "fresh"))
	got, ok := c.Get("prompt")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
}

func TestCache_Clear(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Clear(), "clearing a missing cache")

	require.NoError(t, c.Put("p", "r"))
	require.NoError(t, c.Clear())
	assert.NoFileExists(t, c.Path())
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	assert.Len(t, Key("x"), 64)
	assert.Equal(t, Key("x"), Key("x"))
	assert.NotEqual(t, Key("x"), Key("y"))
}

func TestInvoker(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		fake := llm.NewFake("live answer")
		inv := Wrap(fake, newCache(t))

		res, err := inv.Invoke(ctx, "p", llm.InvokeOptions{UseCache: true})
		require.NoError(t, err)
		assert.False(t, res.Cached)

		res, err = inv.Invoke(ctx, "p", llm.InvokeOptions{UseCache: true})
		require.NoError(t, err)
		assert.True(t, res.Cached)
		assert.Equal(t, "live answer", res.Text)
		assert.Equal(t, 1, fake.Calls())
	})

	t.Run("disabled bypasses cache", func(t *testing.T) {
		c := newCache(t)
		require.NoError(t, c.Put("p", "stale"))
		inv := Wrap(llm.NewFake("live"), c)

		res, err := inv.Invoke(ctx, "p", llm.InvokeOptions{})
		require.NoError(t, err)
		assert.Equal(t, "live", res.Text)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c := newCache(t)
		fake := llm.NewFake()
		inv := Wrap(fake, c)

		_, err := inv.Invoke(ctx, "p", llm.InvokeOptions{UseCache: true})
		require.Error(t, err)
		assert.Equal(t, 0, c.Len())
	})
}
