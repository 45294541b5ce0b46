package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

const fence = "```"

func TestCandidates(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "labeled yaml block first",
			output: "text\n" + fence + "yaml\ntool: finish\n" + fence + "\nmore",
			want:   []string{"tool: finish\n", "text\n" + fence + "yaml\ntool: finish\n" + fence + "\nmore"},
		},
		{
			name:   "yml label",
			output: fence + "yml\na: 1\n" + fence,
			want:   []string{"a: 1\n", fence + "yml\na: 1\n" + fence},
		},
		{
			name:   "labeled block preferred over earlier generic block",
			output: fence + "\nfirst: 1\n" + fence + "\n" + fence + "yaml\nsecond: 2\n" + fence,
			want: []string{
				"second: 2\n",
				"first: 1\n",
				fence + "\nfirst: 1\n" + fence + "\n" + fence + "yaml\nsecond: 2\n" + fence,
			},
		},
		{
			name:   "unclosed labeled block",
			output: fence + "yaml\ntool: finish\nreason: done",
			want:   []string{"tool: finish\nreason: done", fence + "yaml\ntool: finish\nreason: done"},
		},
		{
			name:   "bare output",
			output: "  tool: finish\n",
			want:   []string{"  tool: finish\n"},
		},
		{
			name:   "empty output",
			output: "   ",
			want:   nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Candidates(tc.output))
		})
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantTool   protocol.Tool
		wantReason string
		wantParams map[string]any
	}{
		{
			name: "labeled block",
			output: "I will read it.\n" + fence + "yaml\ntool: read_file\nreason: |\n  need the file\nparams:\n  target_file: a.txt\n" + fence,
			wantTool:   protocol.ToolReadFile,
			wantReason: "need the file\n",
			wantParams: map[string]any{"target_file": "a.txt"},
		},
		{
			name:       "generic block",
			output:     fence + "\ntool: list_dir\nreason: look around\nparams:\n  relative_workspace_path: .\n" + fence,
			wantTool:   protocol.ToolListDir,
			wantReason: "look around",
			wantParams: map[string]any{"relative_workspace_path": "."},
		},
		{
			name:       "bare yaml",
			output:     "tool: grep_search\nreason: find uses\nparams:\n  query: logger\n  case_sensitive: false\n",
			wantTool:   protocol.ToolGrepSearch,
			wantReason: "find uses",
			wantParams: map[string]any{"query": "logger", "case_sensitive": false},
		},
		{
			name:       "finish without params",
			output:     fence + "yaml\ntool: finish\nreason: Completed task\n" + fence,
			wantTool:   protocol.ToolFinish,
			wantReason: "Completed task",
			wantParams: map[string]any{},
		},
		{
			name:       "finish params are dropped",
			output:     fence + "yaml\ntool: finish\nreason: done\nparams:\n  x: 1\n" + fence,
			wantTool:   protocol.ToolFinish,
			wantReason: "done",
			wantParams: map[string]any{},
		},
		{
			name:       "null params become empty",
			output:     "tool: delete_file\nreason: cleanup\nparams:\n",
			wantTool:   protocol.ToolDeleteFile,
			wantReason: "cleanup",
			wantParams: map[string]any{},
		},
		{
			name:       "non-string reason is rendered",
			output:     "tool: finish\nreason: 42\n",
			wantTool:   protocol.ToolFinish,
			wantReason: "42",
			wantParams: map[string]any{},
		},
		{
			name:       "unparseable labeled block",
			output:     fence + "yaml\n: : :\n" + fence + "\n",
			wantTool:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDecision(tc.output)
			if tc.wantTool == "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTool, d.Tool)
			assert.Equal(t, tc.wantReason, d.Reason)
			assert.Equal(t, tc.wantParams, d.Params)
		})
	}
}

func TestParseDecisionErrors(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		wantNoBlock bool
		wantMissing string
		wantType    string
	}{
		{name: "prose only", output: "I think we are done here.", wantNoBlock: true},
		{name: "empty", output: "", wantNoBlock: true},
		{name: "list instead of mapping", output: fence + "yaml\n- a\n- b\n" + fence, wantNoBlock: true},
		{name: "missing tool", output: "reason: x\nparams: {}\n", wantMissing: "tool"},
		{name: "missing reason", output: "tool: read_file\nparams:\n  target_file: a\n", wantMissing: "reason"},
		{name: "missing params", output: "tool: read_file\nreason: x\n", wantMissing: "params"},
		{name: "tool not a string", output: "tool: 5\nreason: x\n", wantType: "tool"},
		{name: "unknown tool", output: "tool: run_shell\nreason: x\nparams: {}\n", wantType: "tool"},
		{name: "params not a mapping", output: "tool: read_file\nreason: x\nparams: [a]\n", wantType: "params"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDecision(tc.output)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)

			switch {
			case tc.wantNoBlock:
				assert.ErrorIs(t, err, ErrNoBlock)
			case tc.wantMissing != "":
				var missing *MissingKeyError
				require.True(t, errors.As(err, &missing), "want MissingKeyError, got %v", err)
				assert.Equal(t, tc.wantMissing, missing.Key)
			case tc.wantType != "":
				var mismatch *TypeMismatchError
				require.True(t, errors.As(err, &mismatch), "want TypeMismatchError, got %v", err)
				assert.Equal(t, tc.wantType, mismatch.Key)
			}
		})
	}
}

func TestParsePlan(t *testing.T) {
	output := "Here is the plan.\n" + fence + `yaml
reasoning: |
  Replace line 2.
operations:
  - start_line: 2
    end_line: 2
    replacement: |
      X
  - start_line: 4
    end_line: 5
    replacement: ""
  - start_line: 7
    end_line: 7
    replacement:
` + fence

	plan, err := ParsePlan(output)
	require.NoError(t, err)
	assert.Equal(t, "Replace line 2.\n", plan.Reasoning)
	assert.Equal(t, []EditOperation{
		{StartLine: 2, EndLine: 2, Replacement: "X\n"},
		{StartLine: 4, EndLine: 5, Replacement: ""},
		{StartLine: 7, EndLine: 7, Replacement: ""},
	}, plan.Operations)
}

func TestParsePlanKeepsTrailingNewline(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "fenced", output: fence + "yaml\nreasoning: append\noperations:\n  - start_line: 3\n    end_line: 3\n    replacement: |\n      c\n" + fence},
		{name: "unclosed fence", output: fence + "yaml\nreasoning: append\noperations:\n  - start_line: 3\n    end_line: 3\n    replacement: |\n      c\n"},
		{name: "bare", output: "reasoning: append\noperations:\n  - start_line: 3\n    end_line: 3\n    replacement: |\n      c\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ParsePlan(tc.output)
			require.NoError(t, err)
			require.Len(t, plan.Operations, 1)
			assert.Equal(t, "c\n", plan.Operations[0].Replacement)
		})
	}
}

func TestParsePlanEmptyOperations(t *testing.T) {
	plan, err := ParsePlan("reasoning: nothing to do\noperations: []\n")
	require.NoError(t, err)
	assert.Empty(t, plan.Operations)
}

func TestParsePlanErrors(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		wantMissing string
		wantType    string
	}{
		{name: "missing reasoning", output: "operations: []\n", wantMissing: "reasoning"},
		{name: "missing operations", output: "reasoning: x\n", wantMissing: "operations"},
		{name: "operations not a list", output: "reasoning: x\noperations: {a: 1}\n", wantType: "operations"},
		{
			name:        "operation missing start_line",
			output:      "reasoning: x\noperations:\n  - end_line: 1\n    replacement: a\n",
			wantMissing: "operations.0.start_line",
		},
		{
			name:        "operation missing replacement",
			output:      "reasoning: x\noperations:\n  - start_line: 1\n    end_line: 1\n",
			wantMissing: "operations.0.replacement",
		},
		{
			name:     "line not an integer",
			output:   "reasoning: x\noperations:\n  - start_line: two\n    end_line: 2\n    replacement: a\n",
			wantType: "operations.0.start_line",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlan(tc.output)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			if tc.wantMissing != "" {
				var missing *MissingKeyError
				require.True(t, errors.As(err, &missing), "want MissingKeyError, got %v", err)
				assert.Equal(t, tc.wantMissing, missing.Key)
			}
			if tc.wantType != "" {
				var mismatch *TypeMismatchError
				require.True(t, errors.As(err, &mismatch), "want TypeMismatchError, got %v", err)
				assert.Equal(t, tc.wantType, mismatch.Key)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `malformed model response: missing required key "tool"`, (&MissingKeyError{Key: "tool"}).Error())
	assert.Equal(t,
		`malformed model response: key "tool" must be string, got integer`,
		(&TypeMismatchError{Key: "tool", Want: "string", Got: "integer"}).Error())
}
