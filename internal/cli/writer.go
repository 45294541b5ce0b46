package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/codeagent/internal/event"
)

// 256-color palette.
const (
	colorOrange = 208 // prog prefix
	colorGreen  = 42  // diff add, completed run
	colorRed    = 196 // diff del, errors
	colorCyan   = 117 // diff hunk, file paths
	colorDim    = 241 // labels, tool use, diff context
	colorDimmer = 245 // tool result
	colorWhite  = 255 // values
	colorYellow = 214 // interrupted or capped run
)

// Writer prints agent events and, in TTY mode, keeps a one-line status footer
// below them. Without a TTY it prints plain text and no footer.
type Writer struct {
	out         io.Writer
	isTTY       bool
	width       int
	mu          sync.Mutex
	renderer    *glamour.TermRenderer
	footerLines int
	lastFooter  []string
	started     time.Time
}

// NewWriter creates a Writer. A width <= 0 means 80 columns.
func NewWriter(out io.Writer, isTTY bool, width int) *Writer {
	if width <= 0 {
		width = 80
	}
	w := &Writer{out: out, isTTY: isTTY, width: width, started: time.Now()}
	if isTTY {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err == nil {
			w.renderer = r
		}
	}
	return w
}

// WriteEvent prints one event above the footer.
func (w *Writer) WriteEvent(ev event.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.eraseFooter()
	fmt.Fprintln(w.out, w.format(ev))
	w.redrawFooter()
}

func (w *Writer) format(ev event.Event) string {
	switch ev.Kind {
	case event.KindProg:
		if w.isTTY {
			return fgBold(colorOrange, "▶ codeagent: ") + ev.Text
		}
		return "codeagent: " + ev.Text
	case event.KindToolUse:
		return w.style(colorDim, "> "+ev.Text)
	case event.KindToolResult:
		return w.style(colorDimmer, "  "+ev.Text)
	case event.KindError:
		return w.style(colorRed, "  ✗ "+ev.Text)
	case event.KindDiffAdd:
		return w.style(colorGreen, ev.Text)
	case event.KindDiffDel:
		return w.style(colorRed, ev.Text)
	case event.KindDiffCtx:
		return w.style(colorDim, ev.Text)
	case event.KindDiffHunk:
		return w.style(colorCyan, ev.Text)
	case event.KindMarkdown:
		if w.renderer != nil {
			if rendered, err := w.renderer.Render(ev.Text); err == nil {
				return strings.TrimRight(rendered, "\n")
			}
		}
		return ev.Text
	case event.KindIterationSeparator:
		if w.isTTY {
			return bold("── " + ev.Text + " ──")
		}
		return "--- " + ev.Text + " ---"
	default:
		return ev.Text
	}
}

// UpdateFooter redraws the status footer.
func (w *Writer) UpdateFooter(iteration, maxIter, edits int) {
	if !w.isTTY {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.eraseFooter()
	w.lastFooter = w.buildFooter(iteration, maxIter, edits)
	w.redrawFooter()
}

// ClearFooter erases the footer for good.
func (w *Writer) ClearFooter() {
	if !w.isTTY {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.eraseFooter()
	w.footerLines = 0
	w.lastFooter = nil
}

// eraseFooter moves the cursor up over the footer, clearing each line.
// Must be called with mu held.
func (w *Writer) eraseFooter() {
	if w.footerLines == 0 || !w.isTTY {
		return
	}
	for range w.footerLines {
		fmt.Fprint(w.out, "\033[A\033[2K")
	}
	w.footerLines = 0
}

// redrawFooter prints the last footer again. Must be called with mu held.
func (w *Writer) redrawFooter() {
	if len(w.lastFooter) == 0 || !w.isTTY {
		return
	}
	for _, line := range w.lastFooter {
		fmt.Fprintln(w.out, line)
	}
	w.footerLines = len(w.lastFooter)
}

func (w *Writer) buildFooter(iteration, maxIter, edits int) []string {
	sep := w.style(colorDim, strings.Repeat("─", min(w.width, 80)))
	parts := []string{
		"iter " + w.style(colorWhite, fmt.Sprintf("%d/%d", iteration, maxIter)),
		"edits " + w.style(colorWhite, fmt.Sprintf("%d", edits)),
		w.style(colorWhite, formatElapsed(time.Since(w.started))),
	}
	return []string{sep, strings.Join(parts, w.style(colorDim, " | "))}
}

// style colors text in TTY mode and leaves it plain otherwise.
func (w *Writer) style(color int, text string) string {
	if w.isTTY {
		return fg(color, text)
	}
	return text
}

func (w *Writer) styleBold(color int, text string) string {
	if w.isTTY {
		return fgBold(color, text)
	}
	return text
}

func bold(text string) string {
	return "\033[1m" + text + "\033[0m"
}

func fg(color int, text string) string {
	return fmt.Sprintf("\033[38;5;%dm%s\033[0m", color, text)
}

func fgBold(color int, text string) string {
	return fmt.Sprintf("\033[1;38;5;%dm%s\033[0m", color, text)
}
