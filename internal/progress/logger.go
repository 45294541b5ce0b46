// Package progress writes one structured log file per codeagent run.
// Records are slog text lines; extra handlers (stderr in debug mode) receive
// the same records through a fan-out.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"

	"github.com/alexander-akhmetov/codeagent/internal/dirs"
)

const fileTimestamp = "20060102-150405"

// Logger records the progress of a single run.
type Logger struct {
	file      *os.File
	log       *slog.Logger
	runID     string
	startTime time.Time
	logPath   string
}

// Config holds logger configuration.
type Config struct {
	LogsDir string // default: dirs.LogsDir()
	RunID   string // default: a new uuid
	Query   string
	WorkDir string

	// Extra handlers receive every record written to the file.
	Extra []slog.Handler
	// Level of the file handler. Zero is Info.
	Level slog.Level
}

// NewLogger creates <LogsDir>/<timestamp>-<run-id>.log and writes the run header.
func NewLogger(cfg Config) (*Logger, error) {
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	start := time.Now()
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", start.Format(fileTimestamp), shortID(runID)))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	handlers := append([]slog.Handler{
		slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level}),
	}, cfg.Extra...)

	l := &Logger{
		file:      f,
		log:       slog.New(slogmulti.Fanout(handlers...)).With("run", shortID(runID)),
		runID:     runID,
		startTime: start,
		logPath:   logPath,
	}
	l.log.Info("run started", "query", cfg.Query, "dir", cfg.WorkDir, "run_id", runID)
	return l, nil
}

// StderrHandler returns a text handler suitable for Config.Extra.
func StderrHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.logPath }

// RunID returns the full run identifier.
func (l *Logger) RunID() string { return l.runID }

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger { return l.log }

// Printf writes an informational message.
func (l *Logger) Printf(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

// Errorf writes an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}

// Iteration marks the start of a decision iteration.
func (l *Logger) Iteration(n, maxIter int) {
	l.log.Info("iteration", "n", n, "max", maxIter)
}

// Action records a decided tool and its parameters.
func (l *Logger) Action(tool, reason string, params map[string]any) {
	attrs := []any{"tool", tool, "reason", strings.TrimSpace(reason)}
	for k, v := range params {
		attrs = append(attrs, slog.Any("param."+k, v))
	}
	l.log.Info("action", attrs...)
}

// Result records the outcome of a tool.
func (l *Logger) Result(tool string, success bool, message string) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}
	l.log.Log(context.Background(), level, "result", "tool", tool, "success", success, "message", message)
}

// Exit writes the final record of the run.
func (l *Logger) Exit(reason, message string, iterations int, filesChanged []string) {
	l.log.Info("run finished",
		"reason", reason,
		"message", message,
		"iterations", iterations,
		"files_changed", strings.Join(filesChanged, ","),
		"duration", time.Since(l.startTime).Round(time.Millisecond).String(),
	)
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}
