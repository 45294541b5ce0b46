package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/codeagent/internal/agent"
	"github.com/alexander-akhmetov/codeagent/internal/git"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

type countingRecorder struct {
	agent.NopRecorder
	iterations int
	results    int
}

func (r *countingRecorder) Iteration(int, int)          { r.iterations++ }
func (r *countingRecorder) Result(string, bool, string) { r.results++ }

func TestRun_PrintsEventsAndSummary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0o644))

	fake := llm.NewFake(
		"tool: read_file\nreason: look\nparams:\n  target_file: a.txt\n",
		"tool: finish\nreason: done\nparams: {}\n",
		"The file says hello.",
	)
	rec := &countingRecorder{}
	var buf bytes.Buffer

	result, err := Run(context.Background(), "what is in a.txt", dir, RunConfig{
		Agent: agent.Options{Invoker: fake, Recorder: rec},
		Out:   &buf,
	})
	require.NoError(t, err)
	assert.Equal(t, safety.ExitReasonComplete, result.ExitReason)

	out := buf.String()
	assert.Contains(t, out, "--- Iteration 1/50 ---")
	assert.Contains(t, out, "> read_file target_file=a.txt")
	assert.Contains(t, out, "  read 1 lines")
	assert.Contains(t, out, "The file says hello.")
	assert.Contains(t, out, "Exit: complete")
	assert.Contains(t, out, "Iterations: 2")

	assert.Equal(t, 2, rec.iterations, "recorder still receives iterations")
	assert.Equal(t, 1, rec.results)
}

func TestRun_ErrorStillSummarised(t *testing.T) {
	var buf bytes.Buffer
	result, err := Run(context.Background(), "q", t.TempDir(), RunConfig{
		Agent: agent.Options{Invoker: llm.NewFake("no yaml here")},
		Out:   &buf,
	})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Contains(t, buf.String(), "Exit: error")
}

func TestRun_RequiresInvoker(t *testing.T) {
	_, err := Run(context.Background(), "q", t.TempDir(), RunConfig{Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	w := plainWriter(&buf)

	printRunSummary(w, &agent.Result{
		ExitReason:   safety.ExitReasonMaxIterations,
		ExitMessage:  "Maximum iterations reached (2)",
		Iterations:   2,
		FilesChanged: []string{"a.go"},
		Duration:     75 * time.Second,
	}, []git.Change{{Path: "a.go", Worktree: 'M'}})

	out := buf.String()
	assert.Contains(t, out, "Exit: max_iterations (Maximum iterations reached (2))")
	assert.Contains(t, out, "Iterations: 2  Files: 1  Duration: 1m 15s")
	assert.Contains(t, out, "Changed in worktree:")
	assert.Contains(t, out, "  M  a.go")

	buf.Reset()
	printRunSummary(w, nil, nil)
	assert.Empty(t, buf.String())
}
