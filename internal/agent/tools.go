package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/dirtree"
	"github.com/alexander-akhmetov/codeagent/internal/fileops"
	"github.com/alexander-akhmetov/codeagent/internal/history"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
	"github.com/alexander-akhmetov/codeagent/internal/search"
)

func failed(err error) *history.Result {
	return &history.Result{Success: false, Message: err.Error()}
}

func (a *Agent) readFile(_ context.Context, s *State, rec *history.Record) (string, error) {
	target, err := requireString(rec, protocol.ParamTargetFile)
	if err != nil {
		return "", err
	}
	content, err := readRange(s.Resolve(target), rec)
	if err != nil {
		rec.Result = failed(err)
		return "", nil
	}
	rec.Result = &history.Result{Success: true, Content: content}
	return "", nil
}

// readRange reads the whole file unless start_line is given. A missing
// end_line reads the largest window allowed from start_line.
func readRange(path string, rec *history.Record) (string, error) {
	start, hasStart, err := optionalInt(rec, protocol.ParamStartLine)
	if err != nil {
		return "", err
	}
	end, hasEnd, err := optionalInt(rec, protocol.ParamEndLine)
	if err != nil {
		return "", err
	}
	if !hasStart {
		return fileops.ReadFile(path)
	}
	if !hasEnd {
		end = start + protocol.MaxReadLines - 1
	}
	return fileops.ReadLines(path, start, end)
}

func (a *Agent) deleteFile(_ context.Context, s *State, rec *history.Record) (string, error) {
	target, err := requireString(rec, protocol.ParamTargetFile)
	if err != nil {
		return "", err
	}
	msg, err := fileops.DeleteFile(s.Resolve(target))
	if err != nil {
		rec.Result = failed(err)
		return "", nil
	}
	rec.Result = &history.Result{Success: true, Message: msg}
	return target, nil
}

func (a *Agent) grepSearch(ctx context.Context, s *State, rec *history.Record) (string, error) {
	query, err := requireString(rec, protocol.ParamQuery)
	if err != nil {
		return "", err
	}
	include, _ := optionalString(rec, protocol.ParamIncludePattern)
	exclude, _ := optionalString(rec, protocol.ParamExcludePattern)

	matches, err := search.Search(ctx, search.Options{
		Query:            query,
		CaseSensitive:    optionalBool(rec, protocol.ParamCaseSensitive),
		Include:          include,
		Exclude:          exclude,
		Root:             s.WorkingDir,
		RespectGitignore: a.opts.RespectGitignore,
	})
	switch {
	case err == nil:
		rec.Result = &history.Result{Success: true, Matches: matches}
	case errors.Is(err, search.ErrInvalidQuery):
		rec.Result = &history.Result{Success: false, Matches: []search.Match{}, Message: err.Error()}
	case ctx.Err() != nil:
		return "", ctx.Err()
	default:
		rec.Result = failed(err)
	}
	return "", nil
}

func (a *Agent) listDir(_ context.Context, s *State, rec *history.Record) (string, error) {
	rel, ok := optionalString(rec, protocol.ParamWorkspacePath)
	if !ok || strings.TrimSpace(rel) == "" {
		rel = "."
	}
	tree, err := dirtree.List(s.Resolve(rel))
	if err != nil {
		rec.Result = &history.Result{Success: false, Message: err.Error()}
		return "", nil
	}
	rec.Result = &history.Result{Success: true, TreeVisualization: tree}
	return "", nil
}

// describe renders a decided record as "tool key=value ...", with long
// values cut.
func describe(rec *history.Record) string {
	keys := make([]string, 0, len(rec.Params))
	for k := range rec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(rec.Tool.String())
	for _, k := range keys {
		v := []rune(strings.ReplaceAll(fmt.Sprint(rec.Params[k]), "\n", " "))
		if len(v) > 60 {
			v = append(v[:57], []rune("...")...)
		}
		fmt.Fprintf(&b, " %s=%s", k, string(v))
	}
	return b.String()
}

// summarizeResult is the one-line outcome shown to the user.
func summarizeResult(rec *history.Record) string {
	res := rec.Result
	if !res.Success {
		if res.Message != "" {
			return fmt.Sprintf("%s failed: %s", rec.Tool, res.Message)
		}
		return fmt.Sprintf("%s failed", rec.Tool)
	}
	switch rec.Tool {
	case protocol.ToolReadFile:
		return fmt.Sprintf("read %d lines", fileops.CountLines(res.Content))
	case protocol.ToolGrepSearch:
		return fmt.Sprintf("%d matches", len(res.Matches))
	case protocol.ToolListDir:
		return fmt.Sprintf("listed %d entries", strings.Count(res.TreeVisualization, "── "))
	case protocol.ToolEditFile:
		return fmt.Sprintf("applied %d operations", res.Operations)
	case protocol.ToolDeleteFile:
		return res.Message
	default:
		return "done"
	}
}
