package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/codeagent/internal/event"
)

// renderEvents renders the viewport content. Markdown goes through glamour
// once the renderer is ready.
func (m Model) renderEvents() string {
	lines := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		switch ev.Kind {
		case event.KindProg:
			lines = append(lines, m.renderPrefixed(progPrefixStyle.Render("▶ codeagent:")+" ", ev.Text))
		case event.KindToolUse:
			lines = append(lines, m.renderPrefixed(toolStyle.Render("> "), ev.Text))
		case event.KindToolResult:
			lines = append(lines, toolResStyle.Render("  "+ev.Text))
		case event.KindError:
			lines = append(lines, errorStyle.Render("  ✗ "+ev.Text))
		case event.KindDiffAdd:
			lines = append(lines, diffAddStyle.Render(ev.Text))
		case event.KindDiffDel:
			lines = append(lines, diffDelStyle.Render(ev.Text))
		case event.KindDiffCtx:
			lines = append(lines, diffCtxStyle.Render(ev.Text))
		case event.KindDiffHunk:
			lines = append(lines, diffHunkStyle.Render(ev.Text))
		case event.KindIterationSeparator:
			lines = append(lines, "", iterStyle.Render("── "+ev.Text+" ──"))
		case event.KindMarkdown:
			lines = append(lines, m.renderMarkdown(ev.Text))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMarkdown(md string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return md
}

// renderPrefixed wraps msg to the viewport, indenting continuation lines
// under the prefix.
func (m Model) renderPrefixed(prefix, msg string) string {
	prefixLen := lipgloss.Width(prefix)
	if m.logViewport.Width-prefixLen <= 20 {
		return prefix + msg
	}
	return prefix + wrapText(msg, m.logViewport.Width-prefixLen, strings.Repeat(" ", prefixLen), 0)
}
