// Package agent runs the decision loop: ask the model for the next tool,
// execute it against the working directory, feed the result back, and
// summarize once the model chooses finish.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/engine"
	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
	"github.com/alexander-akhmetov/codeagent/internal/patch"
	"github.com/alexander-akhmetov/codeagent/internal/prompt"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

// Recorder receives the run log. *progress.Logger implements it.
type Recorder interface {
	Iteration(n, maxIter int)
	Action(tool, reason string, params map[string]any)
	Result(tool string, success bool, message string)
	Printf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) Iteration(int, int)                   {}
func (NopRecorder) Action(string, string, map[string]any) {}
func (NopRecorder) Result(string, bool, string)          {}
func (NopRecorder) Printf(string, ...any)                {}
func (NopRecorder) Errorf(string, ...any)                {}

// Options configures an Agent. Only Invoker is required.
type Options struct {
	Invoker llm.Invoker
	// Prompts defaults to the embedded templates.
	Prompts *prompt.Builder

	MaxIterations    int  // default safety.DefaultMaxIterations
	Timeout          int  // seconds per model call, 0 = none
	UseCache         bool // allow cached model answers
	RespectGitignore bool // grep_search skips .gitignore'd paths

	OnEvent  event.Handler
	Recorder Recorder
}

// Result describes a finished run.
type Result struct {
	ExitReason   safety.ExitReason
	ExitMessage  string
	Iterations   int
	Response     string
	History      []*history.Record
	FilesChanged []string
	Duration     time.Duration
}

type handler func(ctx context.Context, s *State, rec *history.Record) (touched string, err error)

// Agent executes runs. It holds no per-run state; each Run gets a fresh State.
type Agent struct {
	invoker  llm.Invoker
	prompts  *prompt.Builder
	applier  *patch.Applier
	engine   *engine.Engine
	handlers map[protocol.Tool]handler
	opts     Options
}

// New validates opts and builds the dispatch table.
func New(opts Options) (*Agent, error) {
	if opts.Invoker == nil {
		return nil, errors.New("agent: invoker is required")
	}
	if opts.Prompts == nil {
		b, err := prompt.Default()
		if err != nil {
			return nil, fmt.Errorf("load default prompts: %w", err)
		}
		opts.Prompts = b
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = safety.DefaultMaxIterations
	}
	if opts.Recorder == nil {
		opts.Recorder = NopRecorder{}
	}

	a := &Agent{
		invoker: opts.Invoker,
		prompts: opts.Prompts,
		applier: &patch.Applier{},
		engine:  &engine.Engine{SafetyConfig: safety.Config{MaxIterations: opts.MaxIterations}},
		opts:    opts,
	}
	a.handlers = map[protocol.Tool]handler{
		protocol.ToolReadFile:   a.readFile,
		protocol.ToolEditFile:   a.editFile,
		protocol.ToolDeleteFile: a.deleteFile,
		protocol.ToolGrepSearch: a.grepSearch,
		protocol.ToolListDir:    a.listDir,
	}
	if err := checkHandlers(a.handlers); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Agent) emit(e event.Event) {
	if a.opts.OnEvent != nil {
		a.opts.OnEvent(e)
	}
}

func (a *Agent) invokeOptions(s *State) llm.InvokeOptions {
	return llm.InvokeOptions{
		WorkingDir: s.WorkingDir,
		Timeout:    a.opts.Timeout,
		UseCache:   a.opts.UseCache,
	}
}

// Run executes query in workingDir until the model finishes, the iteration
// limit is hit, ctx is canceled, or an unrecoverable error occurs. The
// returned Result is always non-nil; the error is set only for
// ExitReasonError.
func (a *Agent) Run(ctx context.Context, query, workingDir string) (*Result, error) {
	start := time.Now()
	s := NewState(query, workingDir)
	counters := safety.NewState()
	result := &Result{}

	finish := func(action engine.Action) {
		result.ExitReason = action.ExitReason
		result.ExitMessage = action.ExitMessage
		result.Iterations = action.Iterations
		result.Response = s.Response
		result.History = s.History.Records()
		result.FilesChanged = counters.FilesTouched()
		result.Duration = time.Since(start)
	}
	fail := func(err error) (*Result, error) {
		if ctx.Err() != nil {
			a.emit(event.Prog("Interrupted"))
			finish(engine.Action{Kind: engine.ActionExit, ExitReason: safety.ExitReasonUserInterrupt, Iterations: counters.Iteration})
			return result, nil
		}
		a.opts.Recorder.Errorf("%v", err)
		a.emit(event.Error(err.Error()))
		finish(a.engine.Fail(err, counters))
		return result, err
	}

	a.opts.Recorder.Printf("query: %s", query)
	for {
		counters.Iteration++
		action := a.engine.DecideNext(ctx.Err() != nil, counters)
		if action.Kind == engine.ActionExit {
			if action.ExitMessage != "" {
				a.emit(event.Prog(action.ExitMessage))
			}
			finish(action)
			return result, nil
		}

		a.emit(event.IterationSeparator(fmt.Sprintf("Iteration %d/%d", counters.Iteration, a.opts.MaxIterations)))
		a.opts.Recorder.Iteration(counters.Iteration, a.opts.MaxIterations)

		rec, err := a.Decide(ctx, s)
		if err != nil {
			return fail(err)
		}

		action = a.engine.AfterDecision(rec.Tool, counters)
		switch action.Kind {
		case engine.ActionSummarize:
			if _, err := a.Summarize(ctx, s); err != nil {
				return fail(err)
			}
			finish(a.engine.AfterSummary(counters))
			return result, nil

		case engine.ActionExecute:
			touched, err := a.Execute(ctx, s, rec)
			if err != nil {
				return fail(err)
			}
			counters.RecordAction(rec.Result.Success, touched)
			if next := a.engine.AfterExecution(ctx.Err() != nil, counters); next.Kind == engine.ActionExit {
				a.emit(event.Prog("Interrupted"))
				finish(next)
				return result, nil
			}

		default:
			finish(action)
			return result, errors.New(action.ExitMessage)
		}
	}
}
