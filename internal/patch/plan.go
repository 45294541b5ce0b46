package patch

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/codeagent/internal/fileops"
	"github.com/alexander-akhmetov/codeagent/internal/llm"
	"github.com/alexander-akhmetov/codeagent/internal/parser"
	"github.com/alexander-akhmetov/codeagent/internal/prompt"
)

// Request is the input of one planning call.
type Request struct {
	TargetFile   string
	FileContent  string // numbered content as produced by fileops.ReadFile
	Instructions string
	CodeEdit     string
}

// Plan is a validated set of operations plus the model's reasoning.
type Plan struct {
	Reasoning  string
	Operations []Operation
}

// Planner asks the model to map an abbreviated edit onto line ranges.
type Planner struct {
	Invoker llm.Invoker
	Prompts *prompt.Builder
	Options llm.InvokeOptions
}

// Plan renders the planning prompt, invokes the model once and validates
// the answer. Malformed answers and out-of-range operations are errors;
// nothing is retried.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	total := fileops.CountLines(req.FileContent)
	text, err := p.Prompts.BuildPlan(req.FileContent, req.Instructions, req.CodeEdit, total)
	if err != nil {
		return nil, err
	}

	res, err := p.Invoker.Invoke(ctx, text, p.Options)
	if err != nil {
		return nil, fmt.Errorf("invoke planner: %w", err)
	}

	decoded, err := parser.ParsePlan(res.Text)
	if err != nil {
		return nil, fmt.Errorf("parse edit plan: %w", err)
	}
	ops, err := Validate(decoded.Operations, total, req.TargetFile)
	if err != nil {
		return nil, err
	}
	return &Plan{Reasoning: decoded.Reasoning, Operations: ops}, nil
}
