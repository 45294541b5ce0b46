package event

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Diff renders the change from before to after as unified-diff events.
// Identical inputs produce no events.
func Diff(path, before, after string) []Event {
	unified := udiff.Unified("a/"+path, "b/"+path, before, after)
	if unified == "" {
		return nil
	}

	var events []Event
	for line := range strings.SplitSeq(strings.TrimSuffix(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			events = append(events, DiffHunk(line))
		case strings.HasPrefix(line, "+"):
			events = append(events, DiffAdd(line))
		case strings.HasPrefix(line, "-"):
			events = append(events, DiffDel(line))
		default:
			// context lines and "\ No newline at end of file"
			events = append(events, DiffCtx(line))
		}
	}
	return events
}
