// Package fileops implements the line-oriented file primitives the agent
// acts through: numbered reads, deletion, and inclusive line-range removal,
// insertion and replacement. Line numbers are 1-indexed throughout.
package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

var (
	ErrNotFound      = errors.New("file does not exist")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrInvalidRange  = errors.New("invalid line range")
	ErrRangeTooLarge = errors.New("line range too large")
	ErrOutOfBounds   = errors.New("start line exceeds file length")
)

// ReadFile returns the whole file with "N: " prefixes on every line.
func ReadFile(path string) (string, error) {
	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	return number(lines, 1), nil
}

// ReadLines returns lines start..end (inclusive) with "N: " prefixes. An end
// past the last line is clamped. At most protocol.MaxReadLines lines may be
// requested at once.
func ReadLines(path string, start, end int) (string, error) {
	if start < 1 {
		return "", fmt.Errorf("%w: start line must be at least 1, got %d", ErrInvalidRange, start)
	}
	if end < start {
		return "", fmt.Errorf("%w: end line %d is before start line %d", ErrInvalidRange, end, start)
	}
	if span := end - start + 1; span > protocol.MaxReadLines {
		return "", fmt.Errorf("%w: cannot read more than %d lines at once, requested %d",
			ErrRangeTooLarge, protocol.MaxReadLines, span)
	}

	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	if start > len(lines) {
		return "", fmt.Errorf("%w: start line %d, file has %d lines", ErrOutOfBounds, start, len(lines))
	}
	end = min(end, len(lines))
	return number(lines[start-1:end], start), nil
}

// DeleteFile removes a regular file.
func DeleteFile(path string) (string, error) {
	if _, err := statFile(path); err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("delete file: %w", err)
	}
	return "Successfully deleted file: " + path, nil
}

// RemoveLines deletes lines start..end (inclusive). A start past the end of
// the file removes nothing and is not an error; end is clamped.
func RemoveLines(path string, start, end int) (string, error) {
	if err := checkRange(start, end); err != nil {
		return "", err
	}
	info, err := statFile(path)
	if err != nil {
		return "", err
	}
	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	if start > len(lines) {
		return fmt.Sprintf("No lines removed: start line %d exceeds file length (%d lines)", start, len(lines)), nil
	}

	end = min(end, len(lines))
	lines = append(lines[:start-1:start-1], lines[end:]...)
	if err := writeLines(path, lines, info.Mode().Perm()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully removed lines %d to %d from %s", start, end, path), nil
}

// InsertLines writes content into path. With line <= 0 the whole file is
// replaced (or created). Otherwise content is inserted so that it begins at
// that line, padding with blank lines when the file is shorter. Missing
// parent directories are created.
func InsertLines(path, content string, line int) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs: %w", err)
	}

	info, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if exists && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	perm := fs.FileMode(0o644)
	if exists {
		perm = info.Mode().Perm()
	}

	if line <= 0 {
		if err := os.WriteFile(path, []byte(content), perm); err != nil {
			return "", fmt.Errorf("write file: %w", err)
		}
		if exists {
			return "Successfully replaced file: " + path, nil
		}
		return "Successfully created file: " + path, nil
	}

	var lines []string
	if exists {
		if lines, err = readLines(path); err != nil {
			return "", err
		}
	}
	if err := writeLines(path, insertAt(lines, line-1, content), perm); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully inserted content at line %d in %s", line, path), nil
}

// ReplaceLines swaps lines start..end (inclusive) for replacement. It behaves
// as RemoveLines followed by InsertLines at start, so a range beginning at
// the line after the last one appends.
func ReplaceLines(path string, start, end int, replacement string) (string, error) {
	if err := checkRange(start, end); err != nil {
		return "", err
	}
	if _, err := statFile(path); err != nil {
		return "", err
	}
	if _, err := RemoveLines(path, start, end); err != nil {
		return "", err
	}
	if _, err := InsertLines(path, replacement, start); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully replaced lines %d to %d in %s", start, end, path), nil
}

// CountLines returns the number of lines in content; a trailing newline does
// not start a new line.
func CountLines(content string) int {
	return len(SplitLines(content))
}

// SplitLines splits content into lines that keep their "\n" terminator. The
// last line has none when content does not end with a newline.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// insertAt places content at index idx of lines. Blank lines pad the gap when
// idx is past the end, and a newline is added to content when lines follow it.
func insertAt(lines []string, idx int, content string) []string {
	added := SplitLines(content)
	if len(added) == 0 && idx >= len(lines) {
		return lines
	}

	if idx >= len(lines) && len(lines) > 0 {
		last := len(lines) - 1
		if !strings.HasSuffix(lines[last], "\n") {
			lines[last] += "\n"
		}
	}
	for len(lines) < idx {
		lines = append(lines, "\n")
	}
	if len(added) > 0 && idx < len(lines) {
		last := len(added) - 1
		if !strings.HasSuffix(added[last], "\n") {
			added[last] += "\n"
		}
	}

	out := make([]string, 0, len(lines)+len(added))
	out = append(out, lines[:idx]...)
	out = append(out, added...)
	return append(out, lines[idx:]...)
}

func checkRange(start, end int) error {
	if start < 1 {
		return fmt.Errorf("%w: start line must be at least 1, got %d", ErrInvalidRange, start)
	}
	if end < start {
		return fmt.Errorf("%w: end line %d is before start line %d", ErrInvalidRange, end, start)
	}
	return nil
}

func statFile(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return info, nil
}

func readLines(path string) ([]string, error) {
	if _, err := statFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the working dir join
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return SplitLines(string(data)), nil
}

func writeLines(path string, lines []string, perm fs.FileMode) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func number(lines []string, first int) string {
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%d: %s", first+i, line)
	}
	return b.String()
}
