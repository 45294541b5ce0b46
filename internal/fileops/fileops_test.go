package fileops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("numbers every line", func(t *testing.T) {
		path := writeFile(t, dir, "a.txt", "alpha\nbeta\ngamma\n")
		out, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "1: alpha\n2: beta\n3: gamma\n", out)
	})

	t.Run("no trailing newline", func(t *testing.T) {
		path := writeFile(t, dir, "b.txt", "x\ny")
		out, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "1: x\n2: y", out)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.txt", "")
		out, err := ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("whole file is not capped", func(t *testing.T) {
		path := writeFile(t, dir, "big.txt", strings.Repeat("line\n", 300))
		out, err := ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, out, "300: line\n")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "nope.txt"))
		require.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadFile(dir)
		require.ErrorIs(t, err, ErrIsDirectory)
	})
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "five.txt", "1\n2\n3\n4\n5\n")
	big := writeFile(t, dir, "big.txt", strings.Repeat("x\n", 400))

	tests := []struct {
		name    string
		path    string
		start   int
		end     int
		want    string
		wantErr error
	}{
		{name: "middle range", path: path, start: 2, end: 3, want: "2: 2\n3: 3\n"},
		{name: "single line", path: path, start: 5, end: 5, want: "5: 5\n"},
		{name: "end clamped", path: path, start: 4, end: 40, want: "4: 4\n5: 5\n"},
		{name: "start below one", path: path, start: 0, end: 2, wantErr: ErrInvalidRange},
		{name: "end before start", path: path, start: 3, end: 2, wantErr: ErrInvalidRange},
		{name: "start past end", path: path, start: 6, end: 7, wantErr: ErrOutOfBounds},
		{name: "exactly the cap", path: big, start: 1, end: 250},
		{name: "over the cap", path: big, start: 1, end: 251, wantErr: ErrRangeTooLarge},
		{name: "missing file", path: filepath.Join(dir, "missing"), start: 1, end: 1, wantErr: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ReadLines(tc.path, tc.start, tc.end)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.want != "" {
				assert.Equal(t, tc.want, out)
			} else {
				assert.Equal(t, 250, CountLines(out))
			}
		})
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "gone.txt", "bye\n")
	msg, err := DeleteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Successfully deleted file: "+path, msg)
	assert.NoFileExists(t, path)

	_, err = DeleteFile(path)
	require.ErrorIs(t, err, ErrNotFound)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	_, err = DeleteFile(sub)
	require.ErrorIs(t, err, ErrIsDirectory)
	assert.DirExists(t, sub)
}

func TestRemoveLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   int
		end     int
		want    string
		wantMsg string
		wantErr error
	}{
		{name: "middle", content: "a\nb\nc\nd\n", start: 2, end: 3, want: "a\nd\n"},
		{name: "first", content: "a\nb\n", start: 1, end: 1, want: "b\n"},
		{name: "end clamped", content: "a\nb\nc\n", start: 2, end: 10, want: "a\n"},
		{name: "past end is a no-op", content: "a\n", start: 5, end: 6, want: "a\n", wantMsg: "No lines removed"},
		{name: "invalid start", content: "a\n", start: 0, end: 1, wantErr: ErrInvalidRange},
		{name: "reversed", content: "a\nb\n", start: 2, end: 1, wantErr: ErrInvalidRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "f.txt", tc.content)
			msg, err := RemoveLines(path, tc.start, tc.end)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.content, readFile(t, path))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, readFile(t, path))
			if tc.wantMsg != "" {
				assert.Contains(t, msg, tc.wantMsg)
			}
		})
	}

	_, err := RemoveLines(filepath.Join(t.TempDir(), "missing"), 1, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsertLines(t *testing.T) {
	t.Run("whole file create", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deep", "nested", "new.txt")
		msg, err := InsertLines(path, "hello\n", 0)
		require.NoError(t, err)
		assert.Contains(t, msg, "Successfully created")
		assert.Equal(t, "hello\n", readFile(t, path))
	})

	t.Run("whole file replace", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "f.txt", "old\n")
		msg, err := InsertLines(path, "new\n", 0)
		require.NoError(t, err)
		assert.Contains(t, msg, "Successfully replaced")
		assert.Equal(t, "new\n", readFile(t, path))
	})

	tests := []struct {
		name    string
		content string
		insert  string
		line    int
		want    string
	}{
		{name: "at start", content: "a\nb\n", insert: "X\n", line: 1, want: "X\na\nb\n"},
		{name: "in middle", content: "a\nb\n", insert: "X\n", line: 2, want: "a\nX\nb\n"},
		{name: "newline added before following lines", content: "a\nb\n", insert: "X", line: 2, want: "a\nX\nb\n"},
		{name: "append", content: "a\nb\n", insert: "X\n", line: 3, want: "a\nb\nX\n"},
		{name: "append after unterminated line", content: "a\nb", insert: "X\n", line: 3, want: "a\nb\nX\n"},
		{name: "pads with blank lines", content: "a\nb\nc\n", insert: "X\n", line: 6, want: "a\nb\nc\n\n\nX\n"},
		{name: "multi-line content", content: "a\n", insert: "X\nY\n", line: 1, want: "X\nY\na\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "f.txt", tc.content)
			_, err := InsertLines(path, tc.insert, tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, readFile(t, path))
		})
	}

	t.Run("missing file with line number", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "new.txt")
		_, err := InsertLines(path, "third\n", 3)
		require.NoError(t, err)
		assert.Equal(t, "\n\nthird\n", readFile(t, path))
	})
}

func TestReplaceLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   int
		end     int
		repl    string
		want    string
	}{
		{name: "single line", content: "a\nb\nc\n", start: 2, end: 2, repl: "X\n", want: "a\nX\nc\n"},
		{name: "grow", content: "a\nb\nc\n", start: 2, end: 2, repl: "X\nY\nZ\n", want: "a\nX\nY\nZ\nc\n"},
		{name: "shrink", content: "a\nb\nc\nd\n", start: 2, end: 3, repl: "X\n", want: "a\nX\nd\n"},
		{name: "delete range", content: "a\nb\nc\n", start: 1, end: 2, repl: "", want: "c\n"},
		{name: "append at total plus one", content: "a\nb\nc\n", start: 4, end: 4, repl: "d\n", want: "a\nb\nc\nd\n"},
		{name: "append to unterminated file", content: "a\nb", start: 3, end: 3, repl: "c\n", want: "a\nb\nc\n"},
		{name: "replacement without newline mid-file", content: "a\nb\nc\n", start: 1, end: 1, repl: "X", want: "X\nb\nc\n"},
		{name: "replacement without newline at end", content: "a\nb\nc", start: 3, end: 3, repl: "Z", want: "a\nb\nZ"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "f.txt", tc.content)
			msg, err := ReplaceLines(path, tc.start, tc.end, tc.repl)
			require.NoError(t, err)
			assert.Contains(t, msg, "Successfully replaced lines")
			assert.Equal(t, tc.want, readFile(t, path))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReplaceLines(filepath.Join(t.TempDir(), "nope"), 1, 1, "x")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("keeps file mode", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "run.sh", "#!/bin/sh\necho a\n")
		require.NoError(t, os.Chmod(path, 0o750))
		_, err := ReplaceLines(path, 2, 2, "echo b\n")
		require.NoError(t, err)
		assert.Equal(t, "#!/bin/sh\necho b\n", readFile(t, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	})

	t.Run("invalid range leaves file untouched", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "f.txt", "a\nb\n")
		_, err := ReplaceLines(path, 2, 1, "x")
		require.ErrorIs(t, err, ErrInvalidRange)
		assert.Equal(t, "a\nb\n", readFile(t, path))
	})
}

func TestReplaceLinesRoundTrip(t *testing.T) {
	contents := []string{
		"a\nb\nc\n",
		"a\nb\nc",
		"only\n",
		"\n\n\n",
		"x\r\ny\r\n",
	}
	for _, content := range contents {
		lines := SplitLines(content)
		for n := 1; n <= len(lines); n++ {
			path := writeFile(t, t.TempDir(), "f.txt", content)
			_, err := ReplaceLines(path, n, n, lines[n-1])
			require.NoError(t, err)
			assert.Equal(t, content, readFile(t, path), "content %q line %d", content, n)
		}
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "b\n"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"\n"}, SplitLines("\n"))
	assert.Equal(t, 3, CountLines("1\n2\n3\n"))
	assert.Equal(t, 0, CountLines(""))
}
