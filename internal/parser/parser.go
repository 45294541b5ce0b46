// Package parser extracts and decodes the structured YAML blocks the model
// answers with: the per-iteration decision and the edit plan.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// ErrMalformedResponse is matched (errors.Is) by every decoding failure.
var ErrMalformedResponse = errors.New("malformed model response")

// ErrNoBlock indicates no strategy yielded a YAML mapping.
var ErrNoBlock = fmt.Errorf("%w: no structured block found", ErrMalformedResponse)

// MissingKeyError reports a required key absent from a decoded block.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing required key %q", ErrMalformedResponse, e.Key)
}

// Is makes errors.Is(err, ErrMalformedResponse) true.
func (e *MissingKeyError) Is(target error) bool { return target == ErrMalformedResponse }

// TypeMismatchError reports a key whose value has the wrong shape.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: key %q must be %s", ErrMalformedResponse, e.Key, e.Want)
	}
	return fmt.Sprintf("%s: key %q must be %s, got %s", ErrMalformedResponse, e.Key, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrMalformedResponse) true.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrMalformedResponse }

var (
	labeledBlockRegex = regexp.MustCompile("(?s)```(?:yaml|yml)[ \\t]*\\r?\\n(.*?)(?:```|$)")
	genericBlockRegex = regexp.MustCompile("(?s)```[^\\n`]*\\r?\\n(.*?)(?:```|$)")
)

// Candidates returns the texts worth decoding, in priority order: a fenced
// block labelled yaml or yml, then the first fenced block of any kind, then the
// whole output. Candidates are returned untrimmed so that a trailing block
// scalar keeps its final newline.
func Candidates(output string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		key := strings.TrimSpace(s)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	if m := labeledBlockRegex.FindStringSubmatch(output); m != nil {
		add(m[1])
	}
	if m := genericBlockRegex.FindStringSubmatch(output); m != nil {
		add(m[1])
	}
	add(output)
	return out
}

// decodeMapping returns the first candidate that decodes into a YAML mapping.
func decodeMapping(output string) (map[string]any, error) {
	var lastErr error
	for _, c := range Candidates(output) {
		var doc any
		if err := yaml.Unmarshal([]byte(c), &doc); err != nil {
			lastErr = err
			continue
		}
		if m, ok := doc.(map[string]any); ok {
			return m, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w (last error: %v)", ErrNoBlock, lastErr)
	}
	return nil, ErrNoBlock
}

// Decision is the validated action chosen by the model.
type Decision struct {
	Tool   protocol.Tool
	Reason string
	Params map[string]any
}

// ParseDecision decodes a decision block. tool and reason are required, params
// is required for every tool except finish, whose params are always empty.
func ParseDecision(output string) (*Decision, error) {
	doc, err := decodeMapping(output)
	if err != nil {
		return nil, err
	}
	if err := validate(decisionSchema, doc); err != nil {
		return nil, err
	}

	tool := protocol.Tool(doc[protocol.KeyTool].(string))
	if !tool.IsValid() {
		return nil, &TypeMismatchError{
			Key:  protocol.KeyTool,
			Want: "one of " + toolList(),
			Got:  fmt.Sprintf("%q", tool),
		}
	}

	d := &Decision{
		Tool:   tool,
		Reason: scalarString(doc[protocol.KeyReason]),
		Params: map[string]any{},
	}
	if tool.IsTerminal() {
		return d, nil
	}

	raw, ok := doc[protocol.KeyParams]
	if !ok {
		return nil, &MissingKeyError{Key: protocol.KeyParams}
	}
	if params, ok := raw.(map[string]any); ok {
		d.Params = params
	}
	return d, nil
}

// EditOperation is one line-range replacement proposed by the model.
type EditOperation struct {
	StartLine   int
	EndLine     int
	Replacement string
}

// EditPlan is the decoded answer to an edit planning prompt.
type EditPlan struct {
	Reasoning  string
	Operations []EditOperation
}

// ParsePlan decodes an edit plan block. Structural checks run here; line
// bounds are checked by the caller, which knows the file length.
func ParsePlan(output string) (*EditPlan, error) {
	doc, err := decodeMapping(output)
	if err != nil {
		return nil, err
	}
	if err := validate(planSchema, doc); err != nil {
		return nil, err
	}

	plan := &EditPlan{Reasoning: scalarString(doc[protocol.KeyReasoning])}
	items, _ := doc[protocol.KeyOperations].([]any)
	for i, item := range items {
		op, _ := item.(map[string]any)
		start, err := intValue(op[protocol.KeyStartLine], i, protocol.KeyStartLine)
		if err != nil {
			return nil, err
		}
		end, err := intValue(op[protocol.KeyEndLine], i, protocol.KeyEndLine)
		if err != nil {
			return nil, err
		}
		repl, _ := op[protocol.KeyReplacement].(string)
		plan.Operations = append(plan.Operations, EditOperation{
			StartLine:   start,
			EndLine:     end,
			Replacement: repl,
		})
	}
	return plan, nil
}

func intValue(v any, idx int, key string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, &TypeMismatchError{
		Key:  fmt.Sprintf("%s.%d.%s", protocol.KeyOperations, idx, key),
		Want: "integer",
		Got:  fmt.Sprintf("%T", v),
	}
}

// scalarString renders a YAML scalar as text; nil becomes "".
func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func toolList() string {
	names := make([]string, len(protocol.Tools))
	for i, t := range protocol.Tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
