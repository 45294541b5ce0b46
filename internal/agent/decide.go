package agent

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/parser"
)

// Decide asks the model for the next action and appends it to the history.
// The returned record is the handle executors fill in.
func (a *Agent) Decide(ctx context.Context, s *State) (*history.Record, error) {
	text, err := a.prompts.BuildDecision(s.Query, history.Format(s.History.Records()))
	if err != nil {
		return nil, err
	}
	a.emit(event.Prog("Deciding next action..."))

	res, err := a.invoker.Invoke(ctx, text, a.invokeOptions(s))
	if err != nil {
		return nil, fmt.Errorf("invoke decision model: %w", err)
	}
	decision, err := parser.ParseDecision(res.Text)
	if err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}

	rec := s.History.Append(&history.Record{
		Tool:   decision.Tool,
		Reason: decision.Reason,
		Params: decision.Params,
	})
	a.opts.Recorder.Action(rec.Tool.String(), rec.Reason, rec.Params)
	a.emit(event.ToolUse(describe(rec)))
	return rec, nil
}
