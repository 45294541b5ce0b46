// Package dirtree renders a one-level directory listing as a tree with
// per-entry annotations.
package dirtree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

var (
	ErrNotFound     = errors.New("directory does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)

const (
	branch = "├── "
	corner = "└── "
)

// Entry is one visible item of a listing.
type Entry struct {
	Name  string
	IsDir bool
	Size  int64 // files only
	Dirs  int   // directories only: child directory count
	Files int   // directories only: child file count
}

// List returns the tree for path: subdirectories first, then files, each
// group sorted by name. An empty directory yields "".
func List(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	entries, err := Scan(path)
	if err != nil {
		return "", err
	}
	return Render(entries), nil
}

// Scan reads the immediate children of dir. Child counts of an unreadable
// subdirectory are left at zero.
func Scan(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range des {
		e := Entry{Name: de.Name(), IsDir: de.IsDir()}
		if e.IsDir {
			e.Dirs, e.Files = countChildren(filepath.Join(dir, e.Name))
		} else if fi, err := de.Info(); err == nil {
			e.Size = fi.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Render draws entries as tree lines. At most protocol.MaxListedFiles files
// are shown; the rest collapse into a "... (N more files)" line.
func Render(entries []Entry) string {
	var dirs, files []Entry
	for _, e := range entries {
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var labels []string
	for _, d := range dirs {
		labels = append(labels, dirLabel(d))
	}
	shown := files[:min(len(files), protocol.MaxListedFiles)]
	for _, f := range shown {
		labels = append(labels, fileLabel(f))
	}
	if hidden := len(files) - len(shown); hidden > 0 {
		labels = append(labels, fmt.Sprintf("... (%d more files)", hidden))
	}

	lines := make([]string, len(labels))
	for i, label := range labels {
		connector := branch
		if i == len(labels)-1 {
			connector = corner
		}
		lines[i] = connector + label
	}
	return strings.Join(lines, "\n")
}

func dirLabel(e Entry) string {
	var parts []string
	if e.Dirs > 0 {
		parts = append(parts, pluralize(e.Dirs, "directory", "directories"))
	}
	if e.Files > 0 {
		parts = append(parts, pluralize(e.Files, "file", "files"))
	}
	if len(parts) == 0 {
		return e.Name + "/"
	}
	return fmt.Sprintf("%s/ (%s)", e.Name, strings.Join(parts, ", "))
}

func fileLabel(e Entry) string {
	if e.Size <= 0 {
		return e.Name
	}
	return fmt.Sprintf("%s (%.1f KB)", e.Name, float64(e.Size)/1024)
}

func countChildren(dir string) (dirs, files int) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	for _, de := range des {
		if de.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
