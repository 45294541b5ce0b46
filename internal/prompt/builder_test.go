package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/codeagent/internal/config"
)

func TestBuildDecision(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		history  string
		wantSubs []string
	}{
		{
			name:  "first iteration",
			query: "add logging to main.go",
			wantSubs: []string{
				"User request: add logging to main.go",
				"No previous actions.",
				"tool: one of: read_file, edit_file, delete_file, grep_search, list_dir, finish",
			},
		},
		{
			name:     "with history",
			query:    "q",
			history:  "Action 1:\n- Tool: read_file",
			wantSubs: []string{"Action 1:\n- Tool: read_file"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.BuildDecision(tc.query, tc.history)
			require.NoError(t, err)
			for _, sub := range tc.wantSubs {
				assert.Contains(t, got, sub)
			}
		})
	}
}

func TestBuildPlan(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	got, err := b.BuildPlan("1: package main\n", "add func", "func x() {}", 1)
	require.NoError(t, err)

	assert.Contains(t, got, "1: package main")
	assert.Contains(t, got, "add func")
	assert.Contains(t, got, "func x() {}")
	assert.Contains(t, got, "The file has 1 lines")
	assert.Contains(t, got, "set both start_line and end_line to 2")
}

func TestBuildSummary(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	got, err := b.BuildSummary("Action 1:\n- Tool: list_dir")
	require.NoError(t, err)
	assert.Contains(t, got, "Action 1:\n- Tool: list_dir")
}

func TestNewBuilder_Errors(t *testing.T) {
	_, err := NewBuilder(nil)
	require.Error(t, err)

	_, err = NewBuilder(&config.Prompts{Decision: "{{.Query", Plan: "p", Summary: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse decision template")

	b, err := NewBuilder(&config.Prompts{Decision: "{{.Missing}}", Plan: "p", Summary: "s"})
	require.NoError(t, err)
	_, err = b.BuildDecision("q", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render decision prompt")
}
