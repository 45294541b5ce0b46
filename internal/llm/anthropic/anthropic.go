// Package anthropic calls the Anthropic Messages API directly.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

// ErrMissingAPIKey is returned by New when no key is configured.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY is not set")

// DefaultMaxTokens is used when Config.MaxTokens is zero.
const DefaultMaxTokens = 20000

// Config configures the Messages API client.
type Config struct {
	APIKey    string // falls back to $ANTHROPIC_API_KEY
	Model     string
	MaxTokens int
	// BaseURL overrides the API endpoint.
	BaseURL string
}

type messagesClient interface {
	CreateMessages(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Invoker sends each prompt as a single user message.
type Invoker struct {
	client messagesClient
	model  string
	max    int
}

// New builds an Invoker from cfg.
func New(cfg Config) (*Invoker, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return newWithClient(anthropic.NewClient(key, opts...), cfg), nil
}

func newWithClient(client messagesClient, cfg Config) *Invoker {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Invoker{client: client, model: cfg.Model, max: maxTokens}
}

// Invoke implements llm.Invoker.
func (i *Invoker) Invoke(ctx context.Context, prompt string, opts llm.InvokeOptions) (*llm.InvokeResult, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(i.model),
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens: i.max,
	}

	start := time.Now()
	resp, err := i.client.CreateMessages(ctx, req)
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("anthropic api %s: %s", apiErr.Type, apiErr.Message)
		}
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	debug.Logf("anthropic: %s answered in %s (in=%d out=%d)", i.model, time.Since(start).Round(time.Millisecond),
		resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, llm.ErrEmptyResponse
	}
	if opts.OnOutput != nil {
		opts.OnOutput(text.String())
	}
	return &llm.InvokeResult{Text: text.String()}, nil
}
