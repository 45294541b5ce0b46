package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// wrapText wraps text to width, prefixing continuation lines with indent.
// maxLines limits output; 0 means unlimited. Truncates with "..." if exceeded.
func wrapText(text string, width int, indent string, maxLines int) string {
	words := strings.Fields(text)
	if width <= 0 || len(words) == 0 {
		return strings.Join(words, " ")
	}

	var lines []string
	current := words[0]
	limit := width
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= limit {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = indent + word
		limit = width + len(indent)
	}
	lines = append(lines, current)

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		if last := lines[maxLines-1]; len(last) > 3 {
			lines[maxLines-1] = last[:len(last)-3] + "..."
		}
	}
	return strings.Join(lines, "\n")
}

func sectionHeader(title string, width int) string {
	padding := max(1, (width-len(title)-2)/2)
	line := strings.Repeat("─", padding)
	return labelStyle.Render(line+" ") + valueStyle.Render(title) + labelStyle.Render(" "+line)
}

// abbreviatePath replaces the home dir with ~ and keeps the last three
// path elements.
func abbreviatePath(path string) string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	parts := strings.Split(path, string(filepath.Separator))
	if len(parts) > 3 {
		return filepath.Join(parts[len(parts)-3:]...)
	}
	return path
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
