package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/codeagent/internal/config"
	"github.com/alexander-akhmetov/codeagent/internal/llm/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the model response cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file location and entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d entries)\n", c.Path(), c.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		n := c.Len()
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from %s\n", n, c.Path())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCache() (*cache.Cache, error) {
	wd, err := resolveWorkingDir("")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cache.New(cfg.CachePath()), nil
}
