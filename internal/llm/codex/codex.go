// Package codex runs prompts through the codex CLI in exec mode. Progress
// from stderr is filtered and streamed to OnOutput; stdout is the answer.
package codex

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

const (
	defaultModel           = "gpt-5.2-codex"
	defaultReasoningEffort = "high"

	// maxOutputSize bounds both streams.
	maxOutputSize = 64 * 1024 * 1024
)

// ErrTimeout is returned when the subprocess outlives InvokeOptions.Timeout.
var ErrTimeout = errors.New("codex invocation timed out")

// validModelName rejects anything that could be read as a path or flag.
var validModelName = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// PatternMatchError is returned when a configured error pattern appears in
// the answer, e.g. a rate limit notice printed instead of a response.
type PatternMatchError struct {
	Pattern string
}

func (e *PatternMatchError) Error() string {
	return fmt.Sprintf("codex output matched error pattern %q", e.Pattern)
}

// Config holds configuration for codex subprocesses.
type Config struct {
	// Binary defaults to "codex" resolved through PATH.
	Binary          string
	Model           string
	ReasoningEffort string
	ErrorPatterns   []string
}

// Invoker invokes the codex CLI binary.
type Invoker struct {
	Env    Config
	runner Runner
}

// New returns an Invoker that shells out to the codex binary.
func New(env Config) *Invoker {
	return &Invoker{Env: env}
}

func (c *Invoker) args(prompt string) ([]string, error) {
	model := c.Env.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = defaultModel
	}
	if !validModelName.MatchString(model) {
		return nil, fmt.Errorf("invalid codex model name: %q", model)
	}
	effort := c.Env.ReasoningEffort
	if effort == "" {
		effort = defaultReasoningEffort
	}
	// The agent applies edits itself, so codex never writes.
	return []string{
		"exec",
		"--sandbox", "read-only",
		"-c", fmt.Sprintf("model=%q", model),
		"-c", "model_reasoning_effort=" + effort,
		prompt,
	}, nil
}

// Invoke runs codex exec with the prompt as the final argument.
func (c *Invoker) Invoke(ctx context.Context, prompt string, opts llm.InvokeOptions) (*llm.InvokeResult, error) {
	args, err := c.args(prompt)
	if err != nil {
		return nil, err
	}

	invokeCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	binary := c.Env.Binary
	if binary == "" {
		binary = "codex"
	}
	runner := c.runner
	if runner == nil {
		runner = &execRunner{dir: opts.WorkingDir}
	}

	streams, wait, err := runner.Run(invokeCtx, binary, args...)
	if err != nil {
		return nil, fmt.Errorf("start codex: %w", err)
	}
	debug.Logf("codex: started with %d byte prompt", len(prompt))

	stderrDone := make(chan error, 1)
	go func() {
		stderrDone <- streamProgress(streams.Stderr, opts.OnOutput)
	}()

	data, readErr := io.ReadAll(io.LimitReader(streams.Stdout, maxOutputSize+1))
	stderrErr := <-stderrDone
	waitErr := wait()

	switch {
	case errors.Is(invokeCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, ErrTimeout
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case readErr != nil:
		return nil, fmt.Errorf("read codex stdout: %w", readErr)
	case len(data) > maxOutputSize:
		return nil, fmt.Errorf("codex stdout exceeded %d bytes", maxOutputSize)
	case waitErr != nil:
		return nil, fmt.Errorf("codex exited: %w", waitErr)
	}
	if stderrErr != nil {
		debug.Logf("codex: %v", stderrErr)
	}

	output := string(data)
	if pattern := matchErrorPattern(output, c.Env.ErrorPatterns); pattern != "" {
		return nil, &PatternMatchError{Pattern: pattern}
	}
	if strings.TrimSpace(output) == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &llm.InvokeResult{Text: output}, nil
}

// progressFilter picks the stderr lines worth showing: the header block
// between the first two "--------" separators and bold summaries after it.
// Repeated lines are dropped.
type progressFilter struct {
	separators int
	seen       map[string]bool
}

func (f *progressFilter) filter(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "--------") {
		f.separators++
		return line, f.separators <= 2
	}

	var out string
	switch {
	case f.separators == 1:
		out = line
	case strings.HasPrefix(s, "**"):
		out = stripBold(s)
	default:
		return "", false
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[out] {
		return "", false
	}
	f.seen[out] = true
	return out, true
}

func streamProgress(r io.Reader, onOutput func(string)) error {
	f := &progressFilter{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputSize)
	for scanner.Scan() {
		if line, ok := f.filter(scanner.Text()); ok && onOutput != nil {
			onOutput(line + "\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stderr: %w", err)
	}
	return nil
}

// stripBold removes **markers** from s.
func stripBold(s string) string {
	for {
		start := strings.Index(s, "**")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start+2:], "**")
		if end == -1 {
			return s
		}
		s = s[:start] + s[start+2:start+2+end] + s[start+2+end+2:]
	}
}

// matchErrorPattern returns the first pattern found in output, compared
// case-insensitively.
func matchErrorPattern(output string, patterns []string) string {
	lower := strings.ToLower(output)
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}
