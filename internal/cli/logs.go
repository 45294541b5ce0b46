package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/codeagent/internal/config"
	"github.com/alexander-akhmetov/codeagent/internal/progress"
)

var (
	logsFollow bool
	logsList   bool
	logsRecent int
)

var logsCmd = &cobra.Command{
	Use:   "logs [run-id]",
	Short: "Show run logs",
	Long: `Show the log of the latest run, or of the run whose id starts with run-id.

Options:
  --list, -l       List recent log files
  --follow, -f     Tail the log file
  --recent N       Number of logs listed (default: 10)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output in real-time")
	logsCmd.Flags().BoolVarP(&logsList, "list", "l", false, "List recent log files")
	logsCmd.Flags().IntVar(&logsRecent, "recent", 10, "Number of recent logs to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	wd, err := resolveWorkingDir("")
	if err != nil {
		return err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logsDir := cfg.ResolvedLogsDir()
	out := cmd.OutOrStdout()

	if logsList {
		return listLogs(out, logsDir, logsRecent)
	}

	runID := ""
	if len(args) == 1 {
		runID = args[0]
	}
	lf, err := findLog(logsDir, runID)
	if err != nil {
		return err
	}
	if lf == nil {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Tip: Use 'codeagent logs -l' to list all logs")
		return nil
	}

	fmt.Fprintf(out, "Log for run %s (%s):\n", lf.RunID, lf.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	if logsFollow {
		tail := exec.CommandContext(cmd.Context(), "tail", "-f", lf.Path)
		tail.Stdout = out
		tail.Stderr = os.Stderr
		return tail.Run()
	}
	data, err := os.ReadFile(lf.Path)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// findLog returns the newest log, or the newest whose run id has the given
// prefix.
func findLog(logsDir, runID string) (*progress.LogFile, error) {
	if runID == "" {
		return progress.FindLatestLog(logsDir)
	}
	logs, err := progress.FindLogs(logsDir)
	if err != nil {
		return nil, fmt.Errorf("find logs: %w", err)
	}
	for i := range logs {
		if strings.HasPrefix(logs[i].RunID, runID) {
			return &logs[i], nil
		}
	}
	return nil, nil
}

func listLogs(out io.Writer, logsDir string, limit int) error {
	logs, err := progress.FindLogs(logsDir)
	if err != nil {
		return fmt.Errorf("find logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, "No log files found.")
		fmt.Fprintf(out, "Log directory: %s\n", logsDir)
		return nil
	}

	fmt.Fprintf(out, "Recent log files (showing %d):\n", min(limit, len(logs)))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for i, lf := range logs {
		if i >= limit {
			break
		}
		fmt.Fprintf(out, "  %s  %s\n", lf.Timestamp.Format("2006-01-02 15:04:05"), lf.RunID)
		fmt.Fprintf(out, "    %s\n", lf.Path)
	}
	return nil
}
