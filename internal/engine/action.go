// Package engine implements the pure state machine of the agent loop. The
// runner reports what just happened and receives an Action describing what
// to do next; the engine performs no I/O.
package engine

import (
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

// ActionKind identifies the step the runner should execute.
type ActionKind int

const (
	// ActionDecide asks the model for the next tool.
	ActionDecide ActionKind = iota
	// ActionExecute runs the executor of Action.Tool.
	ActionExecute
	// ActionSummarize produces the final response.
	ActionSummarize
	// ActionExit ends the run with Action.ExitReason.
	ActionExit
)

func (k ActionKind) String() string {
	switch k {
	case ActionDecide:
		return "decide"
	case ActionExecute:
		return "execute"
	case ActionSummarize:
		return "summarize"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Action is the instruction returned by the engine to the runner.
type Action struct {
	Kind ActionKind

	// Tool is set for ActionExecute.
	Tool protocol.Tool

	// Exit fields (ActionExit)
	ExitReason  safety.ExitReason
	ExitMessage string
	Iterations  int
}
