// Package event defines typed events emitted by the agent loop and consumed
// by the TUI, the progress logger, and CLI output.
package event

// Kind identifies the type of event.
type Kind int

const (
	// KindProg is a progress message from the agent loop.
	KindProg Kind = iota
	// KindToolUse is the tool the model chose, with its parameters.
	KindToolUse
	// KindToolResult is a one-line summary of a tool result.
	KindToolResult
	// KindError is a failed tool result or a run-ending error.
	KindError
	// KindDiffAdd is an added line in a diff.
	KindDiffAdd
	// KindDiffDel is a deleted line in a diff.
	KindDiffDel
	// KindDiffCtx is a context line in a diff.
	KindDiffCtx
	// KindDiffHunk is a file or hunk header in a diff.
	KindDiffHunk
	// KindMarkdown is the final response (rendered via glamour).
	KindMarkdown
	// KindIterationSeparator is the header between loop iterations.
	KindIterationSeparator
)

var kindNames = [...]string{
	KindProg:               "prog",
	KindToolUse:            "tool_use",
	KindToolResult:         "tool_result",
	KindError:              "error",
	KindDiffAdd:            "diff_add",
	KindDiffDel:            "diff_del",
	KindDiffCtx:            "diff_ctx",
	KindDiffHunk:           "diff_hunk",
	KindMarkdown:           "markdown",
	KindIterationSeparator: "iteration",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is a single typed event.
type Event struct {
	Kind Kind
	Text string // the payload text (meaning depends on Kind)
}

// Handler is a callback that receives typed events.
type Handler func(Event)

// Multi returns a Handler forwarding to every non-nil handler in order.
func Multi(handlers ...Handler) Handler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}

// Prog creates a KindProg event.
func Prog(text string) Event { return Event{Kind: KindProg, Text: text} }

// ToolUse creates a KindToolUse event.
func ToolUse(text string) Event { return Event{Kind: KindToolUse, Text: text} }

// ToolResult creates a KindToolResult event.
func ToolResult(text string) Event { return Event{Kind: KindToolResult, Text: text} }

// Error creates a KindError event.
func Error(text string) Event { return Event{Kind: KindError, Text: text} }

// DiffAdd creates a KindDiffAdd event.
func DiffAdd(text string) Event { return Event{Kind: KindDiffAdd, Text: text} }

// DiffDel creates a KindDiffDel event.
func DiffDel(text string) Event { return Event{Kind: KindDiffDel, Text: text} }

// DiffCtx creates a KindDiffCtx event.
func DiffCtx(text string) Event { return Event{Kind: KindDiffCtx, Text: text} }

// DiffHunk creates a KindDiffHunk event.
func DiffHunk(text string) Event { return Event{Kind: KindDiffHunk, Text: text} }

// Markdown creates a KindMarkdown event.
func Markdown(text string) Event { return Event{Kind: KindMarkdown, Text: text} }

// IterationSeparator creates a KindIterationSeparator event.
func IterationSeparator(text string) Event { return Event{Kind: KindIterationSeparator, Text: text} }
