// Package prompt renders the decision, edit-planning and summary prompts
// from the configured templates.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/alexander-akhmetov/codeagent/internal/config"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// DecisionData is the input of the decision template.
type DecisionData struct {
	Query   string
	History string
	Tools   string
}

// PlanData is the input of the edit-planning template.
type PlanData struct {
	FileContent  string
	Instructions string
	CodeEdit     string
	TotalLines   int
	AppendLine   int
}

// SummaryData is the input of the summary template.
type SummaryData struct {
	History string
}

// Builder holds the parsed templates.
type Builder struct {
	decision *template.Template
	plan     *template.Template
	summary  *template.Template
}

// NewBuilder parses every template in p.
func NewBuilder(p *config.Prompts) (*Builder, error) {
	if p == nil {
		return nil, fmt.Errorf("prompts not loaded")
	}
	var b Builder
	for _, t := range []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"decision", p.Decision, &b.decision},
		{"plan", p.Plan, &b.plan},
		{"summary", p.Summary, &b.summary},
	} {
		tmpl, err := template.New(t.name).Option("missingkey=error").Parse(t.src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", t.name, err)
		}
		*t.dst = tmpl
	}
	return &b, nil
}

// Default returns a Builder over the embedded templates.
func Default() (*Builder, error) {
	p, err := config.LoadPrompts("", "")
	if err != nil {
		return nil, err
	}
	return NewBuilder(p)
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// ToolList renders the tool names the decision prompt offers.
func ToolList() string {
	names := make([]string, len(protocol.Tools))
	for i, t := range protocol.Tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// BuildDecision renders the prompt asking for the next tool.
// An empty history is shown as "No previous actions."
func (b *Builder) BuildDecision(query, history string) (string, error) {
	if strings.TrimSpace(history) == "" {
		history = protocol.NoPreviousActions
	}
	return render(b.decision, DecisionData{Query: query, History: history, Tools: ToolList()})
}

// BuildPlan renders the prompt converting an abbreviated edit into
// line-range operations over a file of totalLines lines.
func (b *Builder) BuildPlan(fileContent, instructions, codeEdit string, totalLines int) (string, error) {
	return render(b.plan, PlanData{
		FileContent:  fileContent,
		Instructions: instructions,
		CodeEdit:     codeEdit,
		TotalLines:   totalLines,
		AppendLine:   totalLines + 1,
	})
}

// BuildSummary renders the prompt for the final response.
func (b *Builder) BuildSummary(history string) (string, error) {
	return render(b.summary, SummaryData{History: history})
}
