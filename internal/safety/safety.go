// Package safety implements the exit conditions of the agent loop.
package safety

import "fmt"

// DefaultMaxIterations bounds the number of decisions in one run.
const DefaultMaxIterations = 50

// ExitReason tells why a run ended.
type ExitReason string

const (
	ExitReasonComplete      ExitReason = "complete"
	ExitReasonMaxIterations ExitReason = "max_iterations"
	ExitReasonError         ExitReason = "error"
	ExitReasonUserInterrupt ExitReason = "user_interrupt"
)

// Config holds the loop limits.
type Config struct {
	MaxIterations int
}

// State tracks the counters the limits are checked against.
type State struct {
	Iteration      int
	FailedActions  int
	filesTouched   map[string]struct{}
	touchedInOrder []string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{filesTouched: make(map[string]struct{})}
}

// RecordAction counts one executed action. file is the path the action
// modified, or "" when it changed nothing.
func (s *State) RecordAction(success bool, file string) {
	if !success {
		s.FailedActions++
	}
	if file == "" {
		return
	}
	if _, ok := s.filesTouched[file]; !ok {
		s.filesTouched[file] = struct{}{}
		s.touchedInOrder = append(s.touchedInOrder, file)
	}
}

// FilesTouched returns modified files in first-touch order.
func (s *State) FilesTouched() []string {
	return append([]string(nil), s.touchedInOrder...)
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	ShouldExit bool
	Reason     ExitReason
	Message    string
}

// Check reports whether the loop must stop before deciding again.
func Check(cfg Config, state *State) CheckResult {
	limit := cfg.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}
	if state.Iteration > limit {
		return CheckResult{
			ShouldExit: true,
			Reason:     ExitReasonMaxIterations,
			Message:    fmt.Sprintf("Maximum iterations reached (%d)", limit),
		}
	}
	return CheckResult{}
}
