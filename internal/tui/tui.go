// Package tui implements the terminal user interface using bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/codeagent/internal/agent"
	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/git"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
	"github.com/alexander-akhmetov/codeagent/internal/timing"
)

// sendRecorder forwards to the run log and mirrors progress into the program.
type sendRecorder struct {
	agent.Recorder
	send func(tea.Msg)
}

func (r *sendRecorder) Iteration(n, maxIter int) {
	r.Recorder.Iteration(n, maxIter)
	r.send(IterationMsg{N: n, Max: maxIter})
}

func (r *sendRecorder) Result(tool string, success bool, message string) {
	r.Recorder.Result(tool, success, message)
	if success && (tool == protocol.ToolEditFile.String() || tool == protocol.ToolDeleteFile.String()) {
		r.send(EditMsg{})
	}
}

type runOutcome struct {
	result *agent.Result
	err    error
}

// Run executes one query inside the full-screen interface and returns once
// the user quits and the agent has stopped.
func Run(ctx context.Context, query, workingDir string, opts agent.Options) (*agent.Result, error) {
	timing.Log("TUI.Run: start")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = safety.DefaultMaxIterations
	}
	m := NewModel(query, workingDir, maxIter)
	m.cancel = cancel
	m.gitBranch = gitBranch(workingDir)

	p := tea.NewProgram(m, tea.WithAltScreen())
	timing.Log("TUI.Run: tea.Program created")

	if opts.Recorder == nil {
		opts.Recorder = agent.NopRecorder{}
	}
	opts.Recorder = &sendRecorder{Recorder: opts.Recorder, send: p.Send}
	opts.OnEvent = event.Multi(opts.OnEvent, func(e event.Event) { p.Send(EventMsg{Event: e}) })

	a, err := agent.New(opts)
	if err != nil {
		return nil, err
	}

	done := make(chan runOutcome, 1)
	go func() {
		timing.Log("TUI.Run: agent goroutine started")
		result, err := a.Run(ctx, query, workingDir)
		done <- runOutcome{result: result, err: err}
		p.Send(RunDoneMsg{Result: result, Err: err})
	}()

	_, progErr := p.Run()
	timing.Log("TUI.Run: tea.Program.Run returned")
	cancel()

	out := <-done
	if progErr != nil {
		return out.result, progErr
	}
	return out.result, out.err
}

func gitBranch(dir string) string {
	repo, err := git.Open(dir)
	if err != nil {
		return ""
	}
	branch, err := repo.Branch()
	if err != nil {
		debug.Logf("tui: git branch: %v", err)
		return ""
	}
	return branch
}
