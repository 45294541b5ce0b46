package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	statusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	toolStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	toolResStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffAddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	diffDelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffHunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	diffCtxStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	iterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)

	progPrefixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e67e22")).
			Bold(true)
)
