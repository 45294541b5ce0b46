// Package cache stores model responses in a JSON file keyed by a digest of
// the prompt, and wraps an llm.Invoker to consult it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

// Cache is a prompt → response store backed by one JSON file.
// A missing or corrupt file reads as empty.
type Cache struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Cache persisted at path. The file is created lazily.
func New(path string) *Cache {
	return &Cache{path: path, now: time.Now}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Key returns the lookup key for prompt.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) load() []byte {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debug.Logf("cache: read %s: %v", c.path, err)
		}
		return []byte("{}")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		debug.Logf("cache: %s is not a JSON object, starting empty", c.path)
		return []byte("{}")
	}
	return data
}

// Get returns the stored response for prompt.
func (c *Cache) Get(prompt string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := gjson.GetBytes(c.load(), Key(prompt)+".response")
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

// Put stores response for prompt and rewrites the file.
func (c *Cache) Put(prompt, response string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := sjson.SetBytes(c.load(), Key(prompt), map[string]any{
		"response":   response,
		"created_at": c.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Pretty(data), 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	gjson.ParseBytes(c.load()).ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}

// Clear removes the cache file. Clearing a missing cache is not an error.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Invoker answers from the cache when InvokeOptions.UseCache is set,
// and records fresh responses.
type Invoker struct {
	next  llm.Invoker
	cache *Cache
}

// Wrap returns next decorated with c.
func Wrap(next llm.Invoker, c *Cache) *Invoker {
	return &Invoker{next: next, cache: c}
}

// Invoke implements llm.Invoker.
func (i *Invoker) Invoke(ctx context.Context, prompt string, opts llm.InvokeOptions) (*llm.InvokeResult, error) {
	if !opts.UseCache {
		return i.next.Invoke(ctx, prompt, opts)
	}
	if text, ok := i.cache.Get(prompt); ok {
		debug.Logf("cache: hit %s", Key(prompt)[:12])
		if opts.OnOutput != nil {
			opts.OnOutput(text)
		}
		return &llm.InvokeResult{Text: text, Cached: true}, nil
	}

	res, err := i.next.Invoke(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	if err := i.cache.Put(prompt, res.Text); err != nil {
		// the answer is still good
		debug.Logf("cache: %v", err)
	}
	return res, nil
}
