package progress

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alexander-akhmetov/codeagent/internal/dirs"
)

// LogFile is one run log found on disk.
type LogFile struct {
	Path      string
	RunID     string // short id from the file name
	Timestamp time.Time
}

// FindLogs lists run logs in logsDir, newest first. A missing directory
// yields no logs.
func FindLogs(logsDir string) ([]LogFile, error) {
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var logs []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		if lf, ok := parseLogFilename(logsDir, entry.Name()); ok {
			logs = append(logs, lf)
		}
	}
	slices.SortFunc(logs, func(a, b LogFile) int { return b.Timestamp.Compare(a.Timestamp) })
	return logs, nil
}

// FindLatestLog returns the newest log, or nil when there is none.
func FindLatestLog(logsDir string) (*LogFile, error) {
	logs, err := FindLogs(logsDir)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// parseLogFilename accepts YYYYMMDD-HHMMSS-<run>.log.
func parseLogFilename(dir, name string) (LogFile, bool) {
	base := strings.TrimSuffix(name, ".log")
	if len(base) < len(fileTimestamp)+2 || base[len(fileTimestamp)] != '-' {
		return LogFile{}, false
	}
	ts, err := time.ParseInLocation(fileTimestamp, base[:len(fileTimestamp)], time.Local)
	if err != nil {
		return LogFile{}, false
	}
	return LogFile{
		Path:      filepath.Join(dir, name),
		RunID:     base[len(fileTimestamp)+1:],
		Timestamp: ts,
	}, true
}
