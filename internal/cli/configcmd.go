package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/codeagent/internal/config"
	"github.com/alexander-akhmetov/codeagent/internal/llm/executor"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage codeagent configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration and the sources it came from.

Sources, lowest precedence first:
  1. Embedded defaults (built into binary)
  2. Global config ($XDG_CONFIG_HOME/codeagent/config.yaml)
  3. CODEAGENT_* environment variables
  4. Local config (.codeagent/config.yaml in the working directory)
  5. CLI flags`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	wd, err := resolveWorkingDir("")
	if err != nil {
		return err
	}
	if err := loadDotEnv(wd); err != nil {
		return err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	printConfig(cmd.OutOrStdout(), cfg)
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "# codeagent configuration")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(out, "  - %s\n", src)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Directories")
	fmt.Fprintf(out, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(out, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintln(out, "  Local config:  (none detected)")
	}
	fmt.Fprintf(out, "  Logs:          %s\n", cfg.ResolvedLogsDir())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Model")
	fmt.Fprintf(out, "  executor:     %s\n", cfg.Executor)
	fmt.Fprintf(out, "  model:        %s\n", cfg.Model)
	fmt.Fprintf(out, "  max_tokens:   %d\n", cfg.MaxTokens)
	fmt.Fprintf(out, "  timeout:      %ds\n", cfg.Timeout)
	if cfg.ClaudeFlags != "" {
		fmt.Fprintf(out, "  claude_flags: %s\n", cfg.ClaudeFlags)
	} else {
		fmt.Fprintln(out, "  claude_flags: (none)")
	}
	if cfg.Executor == executor.NameCodex && cfg.CodexReasoningEffort != "" {
		fmt.Fprintf(out, "  codex_effort: %s\n", cfg.CodexReasoningEffort)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Loop")
	fmt.Fprintf(out, "  max_iterations:    %d\n", cfg.MaxIterations)
	fmt.Fprintf(out, "  respect_gitignore: %t\n", cfg.Search.RespectGitignore)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Cache")
	fmt.Fprintf(out, "  enabled: %t\n", cfg.Cache.Enabled)
	fmt.Fprintf(out, "  path:    %s\n", cfg.CachePath())
}
