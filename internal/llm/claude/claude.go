// Package claude runs prompts through the claude CLI in --print mode.
package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
)

// ErrTimeout is returned when the subprocess outlives InvokeOptions.Timeout.
var ErrTimeout = errors.New("claude invocation timed out")

// Config holds configuration for Claude subprocesses.
type Config struct {
	// Binary defaults to "claude" resolved through PATH.
	Binary          string
	Model           string
	ExtraFlags      []string
	ClaudeConfigDir string
	AnthropicAPIKey string
}

// Invoker invokes the Claude CLI binary.
type Invoker struct {
	Env Config
}

// New returns an Invoker that shells out to the claude binary.
func New(env Config) *Invoker {
	return &Invoker{Env: env}
}

// BuildEnv constructs the environment for a Claude subprocess.
// ANTHROPIC_API_KEY and CLAUDE_CONFIG_DIR are only passed through when
// explicitly configured.
func BuildEnv(cfg Config) []string {
	env := llm.FilterEnv(os.Environ(), "ANTHROPIC_API_KEY=", "CLAUDE_CONFIG_DIR=")
	if cfg.ClaudeConfigDir != "" {
		env = append(env, "CLAUDE_CONFIG_DIR="+cfg.ClaudeConfigDir)
	}
	if cfg.AnthropicAPIKey != "" {
		env = append(env, "ANTHROPIC_API_KEY="+cfg.AnthropicAPIKey)
	}
	return env
}

func (c *Invoker) args() []string {
	args := []string{"--print"}
	if c.Env.Model != "" {
		args = append(args, "--model", c.Env.Model)
	}
	return append(args, c.Env.ExtraFlags...)
}

// Invoke runs claude --print with the prompt on stdin.
func (c *Invoker) Invoke(ctx context.Context, prompt string, opts llm.InvokeOptions) (*llm.InvokeResult, error) {
	invokeCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	binary := c.Env.Binary
	if binary == "" {
		binary = "claude"
	}
	cmd := exec.CommandContext(invokeCtx, binary, c.args()...)
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}
	cmd.Env = BuildEnv(c.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("claude stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("claude stdout: %w", err)
	}
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start claude: %w", err)
	}
	debug.Logf("claude: started pid %d with %d byte prompt", cmd.Process.Pid, len(prompt))

	go func() {
		defer stdin.Close()
		if _, err := io.WriteString(stdin, prompt); err != nil {
			debug.Logf("claude: failed to write prompt to stdin: %v", err)
		}
	}()

	output := llm.ProcessTextOutput(stdout, opts)

	if err := cmd.Wait(); err != nil {
		if errors.Is(invokeCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrTimeout
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderrStr := strings.TrimSpace(stderrBuf.String()); stderrStr != "" {
			return nil, fmt.Errorf("claude exited: %w\nstderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("claude exited: %w", err)
	}

	if strings.TrimSpace(output) == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &llm.InvokeResult{Text: output}, nil
}
