// Package llm defines how codeagent talks to a language model: a single
// prompt in, the model's text out. Concrete backends live in subpackages.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a backend produced no text at all.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Invoker sends one prompt to a model and returns its text output.
type Invoker interface {
	// Invoke blocks until the model answers, ctx is done, or opts.Timeout elapses.
	Invoke(ctx context.Context, prompt string, opts InvokeOptions) (*InvokeResult, error)
}

// InvokeOptions configures a single model call.
type InvokeOptions struct {
	// WorkingDir for subprocess backends.
	WorkingDir string

	// Timeout in seconds. Zero means only ctx bounds the call.
	Timeout int

	// UseCache allows a caching wrapper to answer from a stored response.
	UseCache bool

	// OnOutput is called with text fragments as they arrive.
	OnOutput func(text string)
}

// InvokeResult holds the output of a completed invocation.
type InvokeResult struct {
	Text string

	// Cached is true when the text came from the response cache.
	Cached bool
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, prompt string, opts InvokeOptions) (*InvokeResult, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, prompt string, opts InvokeOptions) (*InvokeResult, error) {
	return f(ctx, prompt, opts)
}
