// Package patch turns an abbreviated edit into validated line-range
// operations and applies them to a file bottom-up.
package patch

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/alexander-akhmetov/codeagent/internal/parser"
)

// ErrValidation marks a plan that must not be applied.
var ErrValidation = errors.New("invalid edit operation")

// Operation is one inclusive, 1-indexed line-range replacement against
// TargetFile.
type Operation struct {
	StartLine   int
	EndLine     int
	Replacement string
	TargetFile  string
}

// IsAppend reports whether op adds text after the last line of a file of
// totalLines lines.
func (op Operation) IsAppend(totalLines int) bool {
	return op.StartLine == totalLines+1 && op.EndLine == totalLines+1
}

// OverlapError reports two operations whose ranges intersect.
type OverlapError struct {
	First, Second Operation
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: lines %d-%d overlap lines %d-%d",
		ErrValidation, e.First.StartLine, e.First.EndLine, e.Second.StartLine, e.Second.EndLine)
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *OverlapError) Is(target error) bool { return target == ErrValidation }

// Validate checks every planned operation against a file of totalLines
// lines and resolves it to target. Each range must lie in [1, totalLines]
// with start <= end; the only exception is start == end == totalLines+1,
// which appends. Any failure rejects the whole plan.
func Validate(planned []parser.EditOperation, totalLines int, target string) ([]Operation, error) {
	ops := make([]Operation, 0, len(planned))
	for i, p := range planned {
		op := Operation{
			StartLine:   p.StartLine,
			EndLine:     p.EndLine,
			Replacement: p.Replacement,
			TargetFile:  target,
		}
		if err := checkBounds(op, totalLines); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}

	sorted := slices.Clone(ops)
	slices.SortStableFunc(sorted, func(a, b Operation) int { return cmp.Compare(a.StartLine, b.StartLine) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartLine <= sorted[i-1].EndLine {
			return nil, &OverlapError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return ops, nil
}

func checkBounds(op Operation, totalLines int) error {
	if op.IsAppend(totalLines) {
		return nil
	}
	switch {
	case op.StartLine < 1 || op.StartLine > totalLines:
		return fmt.Errorf("%w: start_line %d outside [1, %d]", ErrValidation, op.StartLine, totalLines)
	case op.EndLine < 1 || op.EndLine > totalLines:
		return fmt.Errorf("%w: end_line %d outside [1, %d]", ErrValidation, op.EndLine, totalLines)
	case op.StartLine > op.EndLine:
		return fmt.Errorf("%w: start_line %d is after end_line %d", ErrValidation, op.StartLine, op.EndLine)
	}
	return nil
}

// Descending returns ops sorted by StartLine, highest first, so applying
// them in order never shifts a range that is still pending.
func Descending(ops []Operation) []Operation {
	out := slices.Clone(ops)
	slices.SortStableFunc(out, func(a, b Operation) int { return cmp.Compare(b.StartLine, a.StartLine) })
	return out
}
