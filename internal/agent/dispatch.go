package agent

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// checkHandlers ensures every non-terminal tool can be dispatched.
func checkHandlers(handlers map[protocol.Tool]handler) error {
	for _, tool := range protocol.Tools {
		_, ok := handlers[tool]
		if tool.IsTerminal() == ok {
			return fmt.Errorf("agent: dispatch table out of sync for %s", tool)
		}
	}
	return nil
}

// Execute dispatches rec to its executor. Primitive failures are stored in
// rec.Result and are not errors; missing parameters and failed edit
// planning are.
func (a *Agent) Execute(ctx context.Context, s *State, rec *history.Record) (string, error) {
	if rec == nil {
		return "", ErrNoAction
	}
	h, ok := a.handlers[rec.Tool]
	if !ok {
		return "", fmt.Errorf("no executor for tool %q", rec.Tool)
	}

	touched, err := h(ctx, s, rec)
	if err != nil {
		return "", fmt.Errorf("%s: %w", rec.Tool, err)
	}
	if rec.Result == nil {
		rec.Result = &history.Result{Success: true}
	}

	summary := summarizeResult(rec)
	a.opts.Recorder.Result(rec.Tool.String(), rec.Result.Success, summary)
	if rec.Result.Success {
		a.emit(event.ToolResult(summary))
	} else {
		a.emit(event.Error(summary))
	}
	return touched, nil
}
