// Package executor constructs llm invokers by name. It imports the concrete
// backends (claude, anthropic, codex) and optionally wraps them in the response cache.
package executor

import (
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/llm"
	"github.com/alexander-akhmetov/codeagent/internal/llm/anthropic"
	"github.com/alexander-akhmetov/codeagent/internal/llm/cache"
	"github.com/alexander-akhmetov/codeagent/internal/llm/claude"
	"github.com/alexander-akhmetov/codeagent/internal/llm/codex"
)

// Executor names.
const (
	NameClaude    = "claude"
	NameAnthropic = "anthropic"
	NameCodex     = "codex"
)

// Names lists the supported executors.
var Names = []string{NameClaude, NameAnthropic, NameCodex}

// Config selects and configures the LLM executor implementation.
type Config struct {
	Name      string           // one of Names, or "" (defaults to claude)
	Claude    claude.Config    // used when Name is claude
	Anthropic anthropic.Config // used when Name is anthropic
	Codex     codex.Config     // used when Name is codex

	// CachePath, when set, wraps the invoker in a response cache stored there.
	CachePath string
}

// New creates an Invoker based on the executor name in cfg.
func New(cfg Config) (llm.Invoker, error) {
	var inv llm.Invoker
	switch cfg.Name {
	case NameClaude, "":
		inv = claude.New(cfg.Claude)
	case NameAnthropic:
		a, err := anthropic.New(cfg.Anthropic)
		if err != nil {
			return nil, fmt.Errorf("anthropic executor: %w", err)
		}
		inv = a
	case NameCodex:
		inv = codex.New(cfg.Codex)
	default:
		return nil, fmt.Errorf("unknown executor: %q (supported: %s)", cfg.Name, strings.Join(Names, ", "))
	}

	if cfg.CachePath != "" {
		return cache.Wrap(inv, cache.New(cfg.CachePath)), nil
	}
	return inv, nil
}
