package engine

import (
	"fmt"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

// Engine maps loop events to the next Action.
//
//	decide ──tool──▶ execute ──▶ decide
//	decide ──finish─▶ summarize ──▶ exit(complete)
type Engine struct {
	SafetyConfig safety.Config
}

// DecideNext runs at the top of every iteration, after the counter was
// advanced. Cancellation wins over the iteration limit.
func (e *Engine) DecideNext(ctxDone bool, state *safety.State) Action {
	if ctxDone {
		return Action{
			Kind:       ActionExit,
			ExitReason: safety.ExitReasonUserInterrupt,
			Iterations: completed(state),
		}
	}
	if cr := safety.Check(e.SafetyConfig, state); cr.ShouldExit {
		return Action{
			Kind:        ActionExit,
			ExitReason:  cr.Reason,
			ExitMessage: cr.Message,
			Iterations:  completed(state),
		}
	}
	return Action{Kind: ActionDecide}
}

// AfterDecision routes the chosen tool. The terminal tool leads to the
// summary; an unknown tool ends the run with an error.
func (e *Engine) AfterDecision(tool protocol.Tool, state *safety.State) Action {
	switch {
	case tool.IsTerminal():
		return Action{Kind: ActionSummarize}
	case tool.IsValid():
		return Action{Kind: ActionExecute, Tool: tool}
	default:
		return Action{
			Kind:        ActionExit,
			ExitReason:  safety.ExitReasonError,
			ExitMessage: fmt.Sprintf("unknown tool %q", tool),
			Iterations:  state.Iteration,
		}
	}
}

// AfterExecution returns control to the decision step unless the run was
// canceled while the tool ran. The executed iteration counts as completed.
func (e *Engine) AfterExecution(ctxDone bool, state *safety.State) Action {
	if ctxDone {
		return Action{
			Kind:       ActionExit,
			ExitReason: safety.ExitReasonUserInterrupt,
			Iterations: state.Iteration,
		}
	}
	return Action{Kind: ActionDecide}
}

// AfterSummary ends a run that reached the terminal tool.
func (e *Engine) AfterSummary(state *safety.State) Action {
	return Action{
		Kind:       ActionExit,
		ExitReason: safety.ExitReasonComplete,
		Iterations: state.Iteration,
	}
}

// Fail ends the run after an unrecoverable error.
func (e *Engine) Fail(err error, state *safety.State) Action {
	return Action{
		Kind:        ActionExit,
		ExitReason:  safety.ExitReasonError,
		ExitMessage: err.Error(),
		Iterations:  state.Iteration,
	}
}

// completed is the number of iterations that actually ran; DecideNext sees
// the counter already advanced for the iteration it may refuse.
func completed(state *safety.State) int {
	return max(state.Iteration-1, 0)
}
