package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/codeagent/internal/agent"
	"github.com/alexander-akhmetov/codeagent/internal/event"
)

type runState int

const (
	stateRunning runState = iota
	stateStopping
	stateDone
)

// maxEvents bounds the log; older events are dropped.
const maxEvents = 10000

// Model is the bubbletea model for a single run.
type Model struct {
	query      string
	workingDir string
	gitBranch  string

	iteration int
	maxIter   int
	edits     int
	started   time.Time

	events      []event.Event
	logViewport viewport.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer
	width       int
	height      int
	ready       bool

	runState runState
	result   *agent.Result
	err      error

	// cancel stops the agent; nil in tests.
	cancel context.CancelFunc
}

// NewModel creates a Model for query running in workingDir.
func NewModel(query, workingDir string, maxIter int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		query:      query,
		workingDir: workingDir,
		maxIter:    maxIter,
		started:    time.Now(),
		spinner:    s,
		runState:   stateRunning,
	}
}

// EventMsg carries an agent event.
type EventMsg struct {
	Event event.Event
}

// IterationMsg marks the start of a decision iteration.
type IterationMsg struct {
	N   int
	Max int
}

// EditMsg reports a successful edit_file or delete_file.
type EditMsg struct{}

// RunDoneMsg signals the agent has returned.
type RunDoneMsg struct {
	Result *agent.Result
	Err    error
}

type rendererReadyMsg struct {
	renderer *glamour.TermRenderer
}
