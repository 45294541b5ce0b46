package agent

import (
	"path/filepath"

	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/patch"
)

// State is threaded through every step of one run. Query and WorkingDir
// never change after NewState.
type State struct {
	Query      string
	WorkingDir string
	History    history.History

	// pending holds the plan between the planning and apply steps of an edit.
	pending *patch.Plan

	// Response is written once, by the summary step.
	Response string
}

// NewState returns the state for a run of query rooted at workingDir.
func NewState(query, workingDir string) *State {
	return &State{Query: query, WorkingDir: workingDir}
}

// Resolve joins a model-supplied path onto the working directory. Absolute
// paths are kept as given.
func (s *State) Resolve(path string) string {
	if filepath.IsAbs(path) || s.WorkingDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(s.WorkingDir, path)
}
