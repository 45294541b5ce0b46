// Package search implements regex text search over a working directory with
// comma-separated include/exclude globs.
package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

// ErrInvalidQuery wraps a query that is not a valid regular expression.
var ErrInvalidQuery = errors.New("invalid search query")

// binarySniffLen is how many leading bytes are checked for NUL bytes.
const binarySniffLen = 8000

// Match is a single matching line.
type Match struct {
	File       string // path relative to the search root
	LineNumber int
	Content    string
}

// Options configures a search.
type Options struct {
	Query         string
	CaseSensitive bool
	// Include and Exclude are comma-separated glob lists ("*.py, *.js").
	// A pattern without a slash matches the base name; otherwise it is
	// matched against the slash-separated relative path.
	Include string
	Exclude string
	// Root is the directory to search; empty means the current directory.
	Root string
	// RespectGitignore skips paths matched by Root/.gitignore.
	RespectGitignore bool
	// MaxMatches caps the result; zero means protocol.MaxSearchMatches.
	MaxMatches int
}

// Search walks opts.Root and returns matching lines in walk order. Binary
// and unreadable files are skipped. A missing root yields no matches.
func Search(ctx context.Context, opts Options) ([]Match, error) {
	expr := opts.Query
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	limit := opts.MaxMatches
	if limit <= 0 {
		limit = protocol.MaxSearchMatches
	}
	include := SplitPatterns(opts.Include)
	exclude := SplitPatterns(opts.Exclude)

	var ignore *gitignore.GitIgnore
	if opts.RespectGitignore {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			ignore = gi
		}
	}

	var matches []Match
	errLimit := errors.New("limit reached")

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Logf("search: skip %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (ignore != nil && ignore.MatchesPath(rel+"/")) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}
		if len(include) > 0 && !matchAny(include, rel) {
			return nil
		}
		if matchAny(exclude, rel) {
			return nil
		}

		found, err := searchFile(path, rel, re, limit-len(matches))
		if err != nil {
			debug.Logf("search: %s: %v (kept %d matches)", rel, err, len(found))
		}
		matches = append(matches, found...)
		if len(matches) >= limit {
			return errLimit
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errLimit) {
		return matches, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return matches, nil
}

// SplitPatterns splits a comma-separated glob list, dropping blanks.
func SplitPatterns(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAny(patterns []string, rel string) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range patterns {
		target := base
		if strings.Contains(p, "/") {
			target = rel
		}
		if ok, err := doublestar.Match(p, target); err == nil && ok {
			return true
		}
	}
	return false
}

func searchFile(path, rel string, re *regexp.Regexp, limit int) ([]Match, error) {
	data, err := os.ReadFile(path) //nolint:gosec // walking the search root
	if err != nil {
		return nil, err
	}
	if isBinary(data) {
		return nil, nil
	}

	var out []Match
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if !re.MatchString(line) {
			continue
		}
		out = append(out, Match{File: rel, LineNumber: n, Content: strings.TrimRight(line, "\r")})
		if len(out) >= limit {
			break
		}
	}
	// Matches before an over-long line are still returned with the error.
	return out, scanner.Err()
}

// isBinary reports a NUL byte in the leading bytes. Text in encodings other
// than UTF-8 is still searched.
func isBinary(data []byte) bool {
	sniff := data[:min(len(data), binarySniffLen)]
	return bytes.IndexByte(sniff, 0) >= 0
}
