package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Change is one path that differs from HEAD.
type Change struct {
	// Path is relative to the repository root, slash separated.
	Path     string
	Staging  gogit.StatusCode
	Worktree gogit.StatusCode
}

// Code is the short status shown to the user: "M", "A", "D", "??" and so on.
// Worktree state wins over staged state.
func (c Change) Code() string {
	if c.Worktree == gogit.Untracked {
		return "??"
	}
	if c.Worktree != gogit.Unmodified {
		return string(c.Worktree)
	}
	return string(c.Staging)
}

// Changes lists staged, unstaged and untracked paths, sorted by path.
// Untracked paths matched by .gitignore are left out.
func (r *Repo) Changes() ([]Change, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("get worktree status: %w", err)
	}

	var changes []Change
	for path, s := range status {
		if s.Staging == gogit.Unmodified && s.Worktree == gogit.Unmodified {
			continue
		}
		changes = append(changes, Change{Path: path, Staging: s.Staging, Worktree: s.Worktree})
	}
	slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	return changes, nil
}

// ChangedFiles returns the changes of the repository enclosing dir, limited
// to paths under dir and made relative to it. Outside a repository it
// returns nil without error.
func ChangedFiles(dir string) ([]Change, error) {
	r, err := Open(dir)
	if errors.Is(err, ErrNotRepository) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	all, err := r.Changes()
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	prefix, err := filepath.Rel(root, absDir)
	if err != nil {
		return nil, fmt.Errorf("relate %s to repo root: %w", dir, err)
	}
	prefix = filepath.ToSlash(prefix)
	if prefix == "." {
		return all, nil
	}

	var out []Change
	for _, c := range all {
		if rel, ok := strings.CutPrefix(c.Path, prefix+"/"); ok {
			c.Path = rel
			out = append(out, c)
		}
	}
	return out, nil
}
