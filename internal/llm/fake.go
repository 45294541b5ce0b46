package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is a scripted Invoker for tests. Responses are returned in order;
// every prompt is recorded.
type Fake struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	// Err, when set, is returned by every call instead of a response.
	Err error
}

// NewFake returns a Fake answering with responses in order.
func NewFake(responses ...string) *Fake {
	return &Fake{responses: responses}
}

// Invoke pops the next scripted response.
func (f *Fake) Invoke(ctx context.Context, prompt string, opts InvokeOptions) (*InvokeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("fake llm: no scripted response for call %d", len(f.prompts))
	}
	text := f.responses[0]
	f.responses = f.responses[1:]
	if opts.OnOutput != nil {
		opts.OnOutput(text)
	}
	return &InvokeResult{Text: text}, nil
}

// Prompts returns the prompts received so far.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls returns how many times Invoke ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// PromptContaining returns the first recorded prompt that contains substr.
func (f *Fake) PromptContaining(substr string) (string, bool) {
	for _, p := range f.Prompts() {
		if strings.Contains(p, substr) {
			return p, true
		}
	}
	return "", false
}
