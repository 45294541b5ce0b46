// Package config provides unified configuration management for codeagent.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/codeagent/internal/dirs"
	"github.com/alexander-akhmetov/codeagent/internal/llm/anthropic"
	"github.com/alexander-akhmetov/codeagent/internal/llm/claude"
	"github.com/alexander-akhmetov/codeagent/internal/llm/codex"
	"github.com/alexander-akhmetov/codeagent/internal/llm/executor"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// LocalDirName is the per-project override directory inside the working dir.
const LocalDirName = ".codeagent"

// CacheConfig controls the model response cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`

	EnabledSet bool `yaml:"-"`
}

// SearchConfig controls grep_search.
type SearchConfig struct {
	RespectGitignore bool `yaml:"respect_gitignore"`

	RespectGitignoreSet bool `yaml:"-"`
}

// Config holds all configuration settings for codeagent.
// Fields ending in *Set track whether that field was explicitly set in config,
// so a local file can override a global one with a zero value.
type Config struct {
	Executor    string `yaml:"executor"`
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	ClaudeFlags string `yaml:"claude_flags"`

	CodexReasoningEffort string   `yaml:"codex_reasoning_effort"`
	CodexErrorPatterns   []string `yaml:"codex_error_patterns"`

	MaxIterations int `yaml:"max_iterations"`
	Timeout       int `yaml:"timeout"` // seconds per model call

	LogsDir string `yaml:"logs_dir"`

	Cache  CacheConfig  `yaml:"cache"`
	Search SearchConfig `yaml:"search"`

	// Prompts (loaded separately, not from YAML)
	Prompts *Prompts `yaml:"-"`

	MaxTokensSet     bool `yaml:"-"`
	MaxIterationsSet bool `yaml:"-"`
	TimeoutSet       bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Load loads configuration for a run in workingDir, picking up
// workingDir/.codeagent/ as the local override directory when it exists.
func Load(workingDir string) (*Config, error) {
	var localDir string
	candidate := filepath.Join(workingDir, LocalDirName)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		localDir = candidate
	}
	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// If localDir is empty, only the global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	cfg.applyEnv()

	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	prompts, err := LoadPrompts(globalDir, localDir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	cfg.Prompts = prompts

	return cfg, nil
}

// InstallDefaults creates the config directory and writes the default
// config file if none exists yet.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(filepath.Join(configDir, "prompts"), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}
	return nil
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and records which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	_, cfg.MaxTokensSet = raw["max_tokens"]
	_, cfg.MaxIterationsSet = raw["max_iterations"]
	_, cfg.TimeoutSet = raw["timeout"]
	if cache, ok := raw["cache"].(map[string]any); ok {
		_, cfg.Cache.EnabledSet = cache["enabled"]
	}
	if search, ok := raw["search"].(map[string]any); ok {
		_, cfg.Search.RespectGitignoreSet = search["respect_gitignore"]
	}
	return cfg, nil
}

// applyEnv applies CODEAGENT_* environment variables.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
			c.sources = append(c.sources, "env:"+name)
		}
	}
	setInt := func(name string, dst *int, set *bool) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				*set = true
				c.sources = append(c.sources, "env:"+name)
			}
		}
	}

	setString("CODEAGENT_EXECUTOR", &c.Executor)
	setString("CODEAGENT_MODEL", &c.Model)
	setString("CODEAGENT_CLAUDE_FLAGS", &c.ClaudeFlags)
	setString("CODEAGENT_CODEX_REASONING_EFFORT", &c.CodexReasoningEffort)
	setString("CODEAGENT_CACHE_PATH", &c.Cache.Path)
	setInt("CODEAGENT_MAX_TOKENS", &c.MaxTokens, &c.MaxTokensSet)
	setInt("CODEAGENT_MAX_ITERATIONS", &c.MaxIterations, &c.MaxIterationsSet)
	setInt("CODEAGENT_TIMEOUT", &c.Timeout, &c.TimeoutSet)

	if v := os.Getenv("CODEAGENT_CACHE"); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
		c.Cache.EnabledSet = true
		c.sources = append(c.sources, "env:CODEAGENT_CACHE")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.Executor != "" {
		c.Executor = src.Executor
	}
	if src.Model != "" {
		c.Model = src.Model
	}
	if src.ClaudeFlags != "" {
		c.ClaudeFlags = src.ClaudeFlags
	}
	if src.CodexReasoningEffort != "" {
		c.CodexReasoningEffort = src.CodexReasoningEffort
	}
	if len(src.CodexErrorPatterns) > 0 {
		c.CodexErrorPatterns = src.CodexErrorPatterns
	}
	if src.LogsDir != "" {
		c.LogsDir = src.LogsDir
	}
	if src.MaxTokensSet {
		c.MaxTokens = src.MaxTokens
		c.MaxTokensSet = true
	}
	if src.MaxIterationsSet {
		c.MaxIterations = src.MaxIterations
		c.MaxIterationsSet = true
	}
	if src.TimeoutSet {
		c.Timeout = src.Timeout
		c.TimeoutSet = true
	}

	if src.Cache.EnabledSet {
		c.Cache.Enabled = src.Cache.Enabled
		c.Cache.EnabledSet = true
	}
	if src.Cache.Path != "" {
		c.Cache.Path = src.Cache.Path
	}
	if src.Search.RespectGitignoreSet {
		c.Search.RespectGitignore = src.Search.RespectGitignore
		c.Search.RespectGitignoreSet = true
	}
}

// CLIFlags carries the command-line overrides. Zero values mean "not given".
type CLIFlags struct {
	Executor      string
	Model         string
	MaxIterations int
	NoCache       bool
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(f CLIFlags) {
	if f.Executor != "" {
		c.Executor = f.Executor
		c.sources = append(c.sources, "cli:executor")
	}
	if f.Model != "" {
		c.Model = f.Model
		c.sources = append(c.sources, "cli:model")
	}
	if f.MaxIterations > 0 {
		c.MaxIterations = f.MaxIterations
		c.MaxIterationsSet = true
		c.sources = append(c.sources, "cli:max-iterations")
	}
	if f.NoCache {
		c.Cache.Enabled = false
		c.Cache.EnabledSet = true
		c.sources = append(c.sources, "cli:no-cache")
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if !slices.Contains(executor.Names, c.Executor) {
		return fmt.Errorf("unknown executor %q (supported: %s)", c.Executor, strings.Join(executor.Names, ", "))
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	return nil
}

// CachePath returns the configured cache file or the default location.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(dirs.CacheDir(), "llm_cache.json")
}

// ResolvedLogsDir returns the configured logs dir or the default location.
func (c *Config) ResolvedLogsDir() string {
	if c.LogsDir != "" {
		return c.LogsDir
	}
	return dirs.LogsDir()
}

// ToExecutorConfig builds the executor configuration. The response cache
// is only wired in when enabled.
func (c *Config) ToExecutorConfig() executor.Config {
	cfg := executor.Config{
		Name: c.Executor,
		Claude: claude.Config{
			Model:      c.Model,
			ExtraFlags: strings.Fields(c.ClaudeFlags),
		},
		Anthropic: anthropic.Config{
			Model:     c.Model,
			MaxTokens: c.MaxTokens,
		},
		Codex: codex.Config{
			Model:           c.Model,
			ReasoningEffort: c.CodexReasoningEffort,
			ErrorPatterns:   c.CodexErrorPatterns,
		},
	}
	if c.Cache.Enabled {
		cfg.CachePath = c.CachePath()
	}
	return cfg
}
