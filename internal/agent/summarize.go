package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// Summarize writes the final response into s.Response. The terminal finish
// record is not part of the summarized history; with nothing else recorded
// the fixed fallback sentence is used and the model is not called.
func (a *Agent) Summarize(ctx context.Context, s *State) (string, error) {
	records := s.History.Records()
	if n := len(records); n > 0 && records[n-1].Tool.IsTerminal() {
		records = records[:n-1]
	}

	if len(records) == 0 {
		s.Response = protocol.NoActionsPerformed
		a.emit(event.Markdown(s.Response))
		return s.Response, nil
	}

	text, err := a.prompts.BuildSummary(history.Format(records))
	if err != nil {
		return "", err
	}
	a.emit(event.Prog("Writing summary..."))
	res, err := a.invoker.Invoke(ctx, text, a.invokeOptions(s))
	if err != nil {
		return "", fmt.Errorf("invoke summary model: %w", err)
	}

	s.Response = strings.TrimSpace(res.Text)
	a.emit(event.Markdown(s.Response))
	return s.Response, nil
}
