package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// Format renders records as the transcript included in prompts. It never
// fails on records with missing optional fields.
func Format(records []*Record) string {
	if len(records) == 0 {
		return protocol.NoPreviousActions
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, r := range records {
		if r == nil {
			r = &Record{}
		}
		fmt.Fprintf(&b, "Action %d:\n", i+1)
		fmt.Fprintf(&b, "- Tool: %s\n", r.Tool)
		fmt.Fprintf(&b, "- Reason: %s\n", r.Reason)

		if len(r.Params) > 0 {
			b.WriteString("- Parameters:\n")
			keys := make([]string, 0, len(r.Params))
			for k := range r.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "  - %s: %v\n", k, r.Params[k])
			}
		}

		if r.Result != nil {
			writeResult(&b, r.Tool, r.Result)
		}

		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeResult(b *strings.Builder, tool protocol.Tool, res *Result) {
	if !res.Success {
		b.WriteString("- Result: Failed\n")
		for _, msg := range failureMessages(res) {
			fmt.Fprintf(b, "- Error: %s\n", msg)
		}
		return
	}

	b.WriteString("- Result: Success\n")
	switch tool {
	case protocol.ToolReadFile:
		fmt.Fprintf(b, "- Content:\n%s\n", res.Content)
	case protocol.ToolGrepSearch:
		fmt.Fprintf(b, "- Matches: %d\n", len(res.Matches))
		for j, m := range res.Matches {
			fmt.Fprintf(b, "  %d. %s:%d: %s\n", j+1, m.File, m.LineNumber, m.Content)
		}
	case protocol.ToolEditFile:
		fmt.Fprintf(b, "- Operations: %d\n", res.Operations)
		if res.Reasoning != "" {
			fmt.Fprintf(b, "- Reasoning: %s\n", res.Reasoning)
		}
	case protocol.ToolListDir:
		b.WriteString("- Directory structure:\n")
		if res.TreeVisualization == "" {
			b.WriteString("  (Empty or inaccessible directory)\n")
			return
		}
		tree := strings.TrimSpace(strings.ReplaceAll(res.TreeVisualization, "\r\n", "\n"))
		if tree == "" {
			b.WriteString("  (No tree structure data)\n")
			return
		}
		for line := range strings.SplitSeq(tree, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(b, "  %s\n", line)
			}
		}
	case protocol.ToolDeleteFile:
		if res.Message != "" {
			fmt.Fprintf(b, "- Message: %s\n", res.Message)
		}
	}
}

func failureMessages(res *Result) []string {
	var out []string
	if res.Message != "" {
		out = append(out, res.Message)
	}
	for _, d := range res.Details {
		if !d.Success && d.Message != "" {
			out = append(out, d.Message)
		}
	}
	return out
}
