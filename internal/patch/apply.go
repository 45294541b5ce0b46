package patch

import (
	"github.com/alexander-akhmetov/codeagent/internal/fileops"
	"github.com/alexander-akhmetov/codeagent/internal/history"
)

// Replacer performs one line-range replacement and returns a status message.
type Replacer func(path string, start, end int, replacement string) (string, error)

// Outcome is the result of applying a batch.
type Outcome struct {
	// Success is true only if every operation succeeded.
	Success bool
	// Details holds one entry per operation, in application order.
	Details []history.OperationDetail
}

// Applier applies operations with Replace, defaulting to fileops.ReplaceLines.
type Applier struct {
	Replace Replacer
}

// Apply runs ops from the highest start line to the lowest. A failing
// operation does not stop the ones below it.
func (a *Applier) Apply(ops []Operation) Outcome {
	replace := a.Replace
	if replace == nil {
		replace = fileops.ReplaceLines
	}

	out := Outcome{Success: true, Details: make([]history.OperationDetail, 0, len(ops))}
	for _, op := range Descending(ops) {
		msg, err := replace(op.TargetFile, op.StartLine, op.EndLine, op.Replacement)
		detail := history.OperationDetail{Success: err == nil, Message: msg}
		if err != nil {
			detail.Message = err.Error()
			out.Success = false
		}
		out.Details = append(out.Details, detail)
	}
	return out
}
