package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
)

//go:embed defaults/prompts/*.md
var promptsFS embed.FS

// Prompts holds the text/template sources used to talk to the model.
type Prompts struct {
	Decision string // next-action choice, rendered every iteration
	Plan     string // edit_file: abbreviated edit -> line-range operations
	Summary  string // final response after finish
}

var promptFiles = []struct {
	name  string
	field func(*Prompts) *string
}{
	{"decision.md", func(p *Prompts) *string { return &p.Decision }},
	{"plan.md", func(p *Prompts) *string { return &p.Plan }},
	{"summary.md", func(p *Prompts) *string { return &p.Summary }},
}

// LoadPrompts resolves every prompt through local → global → embedded.
// The first non-empty source wins. localDir can be empty.
func LoadPrompts(globalDir, localDir string) (*Prompts, error) {
	var prompts Prompts
	for _, f := range promptFiles {
		content, err := resolvePrompt(globalDir, localDir, f.name)
		if err != nil {
			return nil, fmt.Errorf("load %s prompt: %w", strings.TrimSuffix(f.name, ".md"), err)
		}
		if content == "" {
			return nil, fmt.Errorf("prompt %s is empty", f.name)
		}
		*f.field(&prompts) = content
	}
	return &prompts, nil
}

func resolvePrompt(globalDir, localDir, name string) (string, error) {
	if localDir != "" {
		content, err := readPrompt(os.ReadFile, filepath.Join(localDir, "prompts", name))
		switch {
		case err != nil:
			// a broken local override should not block the run
			debug.Logf("local prompt %s unreadable, using global: %v", name, err)
		case content != "":
			return content, nil
		}
	}

	if globalDir != "" {
		content, err := readPrompt(os.ReadFile, filepath.Join(globalDir, "prompts", name))
		if err != nil {
			return "", err
		}
		if content != "" {
			return content, nil
		}
	}

	return readPrompt(promptsFS.ReadFile, "defaults/prompts/"+name)
}

// readPrompt returns "" for a missing file.
func readPrompt(read func(string) ([]byte, error), path string) (string, error) {
	data, err := read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	return strings.TrimSpace(stripComments(string(data))), nil
}

// stripComments drops lines whose first non-blank character is '#'.
// CRLF input is normalized to LF.
func stripComments(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var b strings.Builder
	first := true
	for line := range strings.SplitSeq(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		first = false
	}
	return b.String()
}
