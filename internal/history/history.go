// Package history holds the per-run record of chosen actions and their
// results, and renders it as the transcript fed back to the model.
package history

import (
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/search"
)

// Record is one decided action. Executors fill Result in place through the
// handle returned by History.Append.
type Record struct {
	Tool   protocol.Tool
	Reason string
	Params map[string]any
	Result *Result

	// FileContent is the numbered content of the edit target, staged for
	// planning. Empty for every other tool.
	FileContent string
	Timestamp   time.Time
}

// OperationDetail is the outcome of one applied edit operation.
type OperationDetail struct {
	Success bool
	Message string
}

// Result is the outcome of executing a record. Fields beyond Success are
// populated according to the tool.
type Result struct {
	Success bool

	Content           string         // read_file
	Matches           []search.Match // grep_search
	TreeVisualization string         // list_dir
	Operations        int            // edit_file
	Details           []OperationDetail
	Reasoning         string

	// Message describes a failure, or the outcome of a delete.
	Message string
}

// History is the append-only sequence of records for one run.
type History struct {
	records []*Record
}

// Append adds r and returns it as the handle for the in-flight action.
func (h *History) Append(r *Record) *Record {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	h.records = append(h.records, r)
	return r
}

// Records returns the records in insertion order.
func (h *History) Records() []*Record {
	out := make([]*Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records.
func (h *History) Len() int { return len(h.records) }

// Last returns the most recent record, or nil.
func (h *History) Last() *Record {
	if len(h.records) == 0 {
		return nil
	}
	return h.records[len(h.records)-1]
}
