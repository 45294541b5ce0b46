package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/fileops"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/patch"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// editFile runs read -> plan -> apply against one file. A read or planning
// failure aborts the run before the file is touched; per-operation apply
// failures are recorded in the result.
func (a *Agent) editFile(ctx context.Context, s *State, rec *history.Record) (string, error) {
	target, err := requireString(rec, protocol.ParamTargetFile)
	if err != nil {
		return "", err
	}
	instructions, err := requireString(rec, protocol.ParamInstructions)
	if err != nil {
		return "", err
	}
	codeEdit, err := requireString(rec, protocol.ParamCodeEdit)
	if err != nil {
		return "", err
	}
	path := s.Resolve(target)

	if err := a.stageTarget(rec, path); err != nil {
		return "", err
	}
	before, beforeErr := os.ReadFile(path) //nolint:gosec // path under the working dir

	if err := a.planEdit(ctx, s, rec, path, instructions, codeEdit); err != nil {
		return "", err
	}
	a.applyEdit(s, rec)

	after, afterErr := os.ReadFile(path) //nolint:gosec // path under the working dir
	rel := target
	if r, err := filepath.Rel(s.WorkingDir, path); err == nil {
		rel = filepath.ToSlash(r)
	}
	for _, e := range editDiff(rel, before, beforeErr, after, afterErr) {
		a.emit(e)
	}

	if rec.Result.Operations == 0 {
		return "", nil
	}
	return target, nil
}

// editDiff returns the diff events of one edit. Without both snapshots the
// diff would misreport the change, so none is produced.
func editDiff(rel string, before []byte, beforeErr error, after []byte, afterErr error) []event.Event {
	if err := errors.Join(beforeErr, afterErr); err != nil {
		debug.Logf("agent: no diff for %s: %v", rel, err)
		return nil
	}
	return event.Diff(rel, string(before), string(after))
}

// stageTarget reads the numbered content into rec.FileContent.
func (a *Agent) stageTarget(rec *history.Record, path string) error {
	content, err := fileops.ReadFile(path)
	if err != nil {
		rec.Result = failed(err)
		return fmt.Errorf("read edit target: %w", err)
	}
	rec.FileContent = content
	return nil
}

func (a *Agent) planEdit(ctx context.Context, s *State, rec *history.Record, path, instructions, codeEdit string) error {
	a.emit(event.Prog("Planning edit..."))
	planner := &patch.Planner{
		Invoker: a.invoker,
		Prompts: a.prompts,
		Options: a.invokeOptions(s),
	}
	plan, err := planner.Plan(ctx, patch.Request{
		TargetFile:   path,
		FileContent:  rec.FileContent,
		Instructions: instructions,
		CodeEdit:     codeEdit,
	})
	if err != nil {
		rec.Result = failed(err)
		return fmt.Errorf("plan edit: %w", err)
	}
	s.pending = plan
	a.opts.Recorder.Printf("planned %d operations for %s", len(plan.Operations), path)
	return nil
}

func (a *Agent) applyEdit(s *State, rec *history.Record) {
	plan := s.pending
	s.pending = nil

	out := a.applier.Apply(plan.Operations)
	rec.Result = &history.Result{
		Success:    out.Success,
		Operations: len(plan.Operations),
		Details:    out.Details,
		Reasoning:  plan.Reasoning,
	}
}
