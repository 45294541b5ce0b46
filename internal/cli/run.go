package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/codeagent/internal/agent"
	"github.com/alexander-akhmetov/codeagent/internal/config"
	"github.com/alexander-akhmetov/codeagent/internal/debug"
	"github.com/alexander-akhmetov/codeagent/internal/llm/executor"
	"github.com/alexander-akhmetov/codeagent/internal/progress"
	"github.com/alexander-akhmetov/codeagent/internal/prompt"
	"github.com/alexander-akhmetov/codeagent/internal/tui"
)

var (
	runWorkingDir    string
	runExecutor      string
	runModel         string
	runNoCache       bool
	runMaxIterations int
	runTUI           bool
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Carry out a request against the working directory",
	Long: `Carry out a natural-language request against the working directory.

The query can be given as arguments, piped via stdin, or typed at the prompt.

Examples:
  codeagent run "add a --verbose flag to cmd/server"
  codeagent run -d ./service "where is the retry policy configured?"
  echo "delete the unused helpers in util.go" | codeagent run
  codeagent run --executor anthropic --no-cache "rename Foo to Bar"`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runWorkingDir, "dir", "d", "", "Working directory (default: current directory)")
	runCmd.Flags().StringVar(&runExecutor, "executor", "", "Model backend: claude, anthropic or codex (default from config)")
	runCmd.Flags().StringVar(&runModel, "model", "", "Model name (default from config)")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Do not reuse cached model responses")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Maximum decision iterations (default from config)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show the run in a full-screen terminal UI")
}

func runRun(cmd *cobra.Command, args []string) error {
	wd, err := resolveWorkingDir(runWorkingDir)
	if err != nil {
		return err
	}
	if err := loadDotEnv(wd); err != nil {
		return err
	}

	query, err := buildQuery(args, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyCLIFlags(config.CLIFlags{
		Executor:      runExecutor,
		Model:         runModel,
		MaxIterations: runMaxIterations,
		NoCache:       runNoCache,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	builder, err := prompt.NewBuilder(cfg.Prompts)
	if err != nil {
		return fmt.Errorf("parse prompts: %w", err)
	}
	inv, err := executor.New(cfg.ToExecutorConfig())
	if err != nil {
		return fmt.Errorf("create invoker: %w", err)
	}

	var extra []slog.Handler
	if debug.Enabled() {
		extra = append(extra, progress.StderrHandler(os.Stderr))
	}
	logger, err := progress.NewLogger(progress.Config{
		LogsDir: cfg.ResolvedLogsDir(),
		Query:   query,
		WorkDir: wd,
		Extra:   extra,
	})
	if err != nil {
		return fmt.Errorf("create run log: %w", err)
	}
	defer logger.Close()
	logger.Printf("config sources: %v", cfg.Sources())

	opts := agent.Options{
		Invoker:          inv,
		Prompts:          builder,
		MaxIterations:    cfg.MaxIterations,
		Timeout:          cfg.Timeout,
		UseCache:         cfg.Cache.Enabled,
		RespectGitignore: cfg.Search.RespectGitignore,
		Recorder:         logger,
	}

	var result *agent.Result
	if runTUI {
		result, err = tui.Run(cmd.Context(), query, wd, opts)
	} else {
		isTTY, width := terminalInfo(os.Stdout)
		result, err = Run(cmd.Context(), query, wd, RunConfig{
			Agent:     opts,
			Out:       cmd.OutOrStdout(),
			IsTTY:     isTTY,
			TermWidth: width,
		})
	}
	if result != nil {
		logger.Exit(string(result.ExitReason), result.ExitMessage, result.Iterations, result.FilesChanged)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Log: %s\n", logger.Path())
	return err
}
