package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/codeagent/internal/safety"
)

func (m Model) sidebarWidth() int {
	return max(36, min(50, m.width*35/100))
}

// logSize returns the viewport size inside the log box.
func (m Model) logSize() (int, int) {
	mainWidth := m.width - m.sidebarWidth() - 4
	contentHeight := m.height - 3
	return max(mainWidth-4, 20), max(contentHeight-4, 3)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sidebarWidth := m.sidebarWidth()
	mainWidth := m.width - sidebarWidth - 4
	contentHeight := m.height - 3

	sidebar := m.renderSidebar(sidebarWidth - 4)
	sidebarBox := statusBoxStyle.Width(sidebarWidth).Height(contentHeight).Render(sidebar)

	logHeader := "Log"
	if n := m.logViewport.TotalLineCount(); n > 0 {
		logHeader = fmt.Sprintf("Log (%d lines, %d%%)", n, int(m.logViewport.ScrollPercent()*100))
	}
	logsContent := labelStyle.Render(logHeader) + "\n" + m.logViewport.View()
	logsBox := logBoxStyle.Width(mainWidth).Height(contentHeight).Render(logsContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarBox, logsBox) + "\n" + m.renderHelp()
}

func (m Model) renderSidebar(width int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("⚡ CODEAGENT"))
	b.WriteString("\n")

	state := m.stateIndicator()
	elapsed := formatDuration(m.elapsed())
	padding := max(width-lipgloss.Width(state)-len(elapsed), 2)
	b.WriteString(state + strings.Repeat(" ", padding) + valueStyle.Render(elapsed))
	b.WriteString("\n\n")

	b.WriteString(sectionHeader("Request", width))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(wrapText(m.query, width, "", 6)))
	b.WriteString("\n\n")

	b.WriteString(sectionHeader("Environment", width))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Dir: ") + valueStyle.Render(abbreviatePath(m.workingDir)))
	b.WriteString("\n")
	if m.gitBranch != "" {
		b.WriteString(labelStyle.Render("Git: ") + valueStyle.Render(m.gitBranch))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionHeader("Progress", width))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Iteration: ") + valueStyle.Render(fmt.Sprintf("%d/%d", m.iteration, m.maxIter)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Edits: ") + valueStyle.Render(fmt.Sprintf("%d", m.edits)))
	b.WriteString("\n")

	if m.result != nil && len(m.result.FilesChanged) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHeader("Files", width))
		b.WriteString("\n")
		for _, f := range m.result.FilesChanged {
			b.WriteString(valueStyle.Render(f))
			b.WriteString("\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(failedStyle.Render(wrapText(m.err.Error(), width, "", 4)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) elapsed() time.Duration {
	if m.result != nil {
		return m.result.Duration
	}
	return time.Since(m.started)
}

func (m Model) stateIndicator() string {
	switch m.runState {
	case stateRunning:
		return runningStyle.Render(m.spinner.View() + " Running")
	case stateStopping:
		return warnStyle.Render(m.spinner.View() + " Stopping")
	}
	if m.result == nil {
		return failedStyle.Render("✗ FAILED")
	}
	switch m.result.ExitReason {
	case safety.ExitReasonComplete:
		return runningStyle.Render("✓ COMPLETE")
	case safety.ExitReasonError:
		return failedStyle.Render("✗ FAILED")
	default:
		return warnStyle.Render("⏹ " + strings.ToUpper(string(m.result.ExitReason)))
	}
}

func (m Model) renderHelp() string {
	quit := "q: stop"
	if m.runState != stateRunning {
		quit = "q: quit"
	}
	return helpStyle.Render(quit + " • ↑/↓: scroll • g/G: top/bottom")
}
