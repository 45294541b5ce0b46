package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/event"
	"github.com/alexander-akhmetov/codeagent/internal/timing"
)

func createRendererCmd(width int) tea.Cmd {
	return func() tea.Msg {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err != nil {
			debug.Logf("tui: failed to create glamour renderer: %v", err)
		}
		return rendererReadyMsg{renderer: renderer}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// handleKeyMsg: the first q/ctrl+c stops a running agent, the next one quits.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.runState == stateRunning && m.cancel != nil {
			m.cancel()
			m.runState = stateStopping
			return m, nil
		}
		return m, tea.Quit

	case "up", "k", "down", "j", "pgup", "ctrl+u", "pgdown", "ctrl+d", "g", "G":
		var cmd tea.Cmd
		switch msg.String() {
		case "g":
			m.logViewport.GotoTop()
		case "G":
			m.logViewport.GotoBottom()
		default:
			m.logViewport, cmd = m.logViewport.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// appendEvent adds ev to the log, following the tail when already there.
func (m *Model) appendEvent(ev event.Event) {
	m.events = append(m.events, ev)
	if len(m.events) > maxEvents+maxEvents/5 {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.renderEvents())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		timing.Log("Update: WindowSizeMsg received")
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.logSize()

		if !m.ready {
			m.logViewport = viewport.New(w, h)
			m.ready = true
			cmds = append(cmds, createRendererCmd(w))
		} else {
			m.logViewport.Width = w
			m.logViewport.Height = h
		}
		m.logViewport.SetContent(m.renderEvents())

	case rendererReadyMsg:
		m.renderer = msg.renderer
		m.logViewport.SetContent(m.renderEvents())

	case EventMsg:
		m.appendEvent(msg.Event)

	case IterationMsg:
		m.iteration = msg.N
		m.maxIter = msg.Max

	case EditMsg:
		m.edits++

	case RunDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		m.runState = stateDone
		if msg.Result != nil {
			text := fmt.Sprintf("Run finished: %s", msg.Result.ExitReason)
			if msg.Result.ExitMessage != "" {
				text += fmt.Sprintf(" (%s)", msg.Result.ExitMessage)
			}
			m.appendEvent(event.Prog(text))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
