package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexander-akhmetov/codeagent/internal/agent"
	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/git"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

// RunConfig holds everything needed for a plain-terminal run.
type RunConfig struct {
	Agent     agent.Options
	Out       io.Writer // default: os.Stdout
	IsTTY     bool
	TermWidth int
}

// footerRecorder forwards to the run log and keeps the Writer footer current.
type footerRecorder struct {
	agent.Recorder
	w       *Writer
	iter    int
	maxIter int
	edits   int
}

func (r *footerRecorder) Iteration(n, maxIter int) {
	r.Recorder.Iteration(n, maxIter)
	r.iter, r.maxIter = n, maxIter
	r.w.UpdateFooter(r.iter, r.maxIter, r.edits)
}

func (r *footerRecorder) Result(tool string, success bool, message string) {
	r.Recorder.Result(tool, success, message)
	if success && (tool == protocol.ToolEditFile.String() || tool == protocol.ToolDeleteFile.String()) {
		r.edits++
		r.w.UpdateFooter(r.iter, r.maxIter, r.edits)
	}
}

// Run executes one query, printing events through a Writer. SIGINT and
// SIGTERM end the run as interrupted. The summary is printed even when the
// run fails.
func Run(ctx context.Context, query, workingDir string, cfg RunConfig) (*agent.Result, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	w := NewWriter(out, cfg.IsTTY, cfg.TermWidth)

	opts := cfg.Agent
	if opts.Recorder == nil {
		opts.Recorder = agent.NopRecorder{}
	}
	opts.Recorder = &footerRecorder{Recorder: opts.Recorder, w: w}
	opts.OnEvent = event.Multi(opts.OnEvent, w.WriteEvent)

	a, err := agent.New(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, runErr := a.Run(ctx, query, workingDir)
	w.ClearFooter()

	changes, err := git.ChangedFiles(workingDir)
	if err != nil {
		debug.Logf("git changes for %s: %v", workingDir, err)
	}
	printRunSummary(w, result, changes)
	return result, runErr
}

// printRunSummary prints a compact summary after the run finishes.
func printRunSummary(w *Writer, result *agent.Result, changes []git.Change) {
	if result == nil {
		return
	}

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, w.style(colorDim, "────────────────────────────"))

	color := colorGreen
	switch result.ExitReason {
	case safety.ExitReasonError:
		color = colorRed
	case safety.ExitReasonMaxIterations, safety.ExitReasonUserInterrupt:
		color = colorYellow
	}
	fmt.Fprintf(w.out, "%s %s", w.style(colorDim, "Exit:"), w.styleBold(color, string(result.ExitReason)))
	if result.ExitMessage != "" {
		fmt.Fprintf(w.out, " %s", w.style(colorDim, "("+result.ExitMessage+")"))
	}
	fmt.Fprintln(w.out)

	fmt.Fprintf(w.out, "%s %s  %s %s  %s %s\n",
		w.style(colorDim, "Iterations:"), w.style(colorWhite, fmt.Sprintf("%d", result.Iterations)),
		w.style(colorDim, "Files:"), w.style(colorWhite, fmt.Sprintf("%d", len(result.FilesChanged))),
		w.style(colorDim, "Duration:"), w.style(colorWhite, formatElapsed(result.Duration)),
	)

	if len(changes) > 0 {
		fmt.Fprintln(w.out, w.style(colorDim, "Changed in worktree:"))
		for _, c := range changes {
			fmt.Fprintf(w.out, "  %-2s %s\n", c.Code(), w.style(colorCyan, c.Path))
		}
	}
}
