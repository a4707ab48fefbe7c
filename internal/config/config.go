package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the type of project detected.
type ProjectType string

const (
	ProjectTypeGo      ProjectType = "go"
	ProjectTypeNode    ProjectType = "node"
	ProjectTypePython  ProjectType = "python"
	ProjectTypeUnknown ProjectType = "unknown"
)

// Config represents the complete codecat configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Ignore  IgnoreConfig  `yaml:"ignore" json:"ignore"`
	Limits  LimitsConfig  `yaml:"limits" json:"limits"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// OutputConfig configures where the combined document is written.
type OutputConfig struct {
	// Path is the output file path. Empty means
	// "<root-basename>_codebase.md" in the working directory.
	Path string `yaml:"path" json:"path"`
}

// IgnoreConfig configures which paths are excluded from the combine run.
type IgnoreConfig struct {
	// Patterns are extra gitignore-syntax rules, appended after the
	// built-in defaults and evaluated before any .gitignore files.
	Patterns []string `yaml:"patterns" json:"patterns"`

	// Files are extra ignore files loaded at the root level, in order.
	Files []string `yaml:"files" json:"files"`

	// DisableGitignore skips loading .gitignore files entirely.
	// Built-in defaults and explicit patterns still apply.
	DisableGitignore bool `yaml:"disable_gitignore" json:"disable_gitignore"`
}

// LimitsConfig configures per-file limits.
type LimitsConfig struct {
	// MaxFileSize is the largest file included, in bytes (0 = 10MB default).
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"`
}

// UIConfig configures the progress renderer.
type UIConfig struct {
	// NoTUI forces the plain line-based renderer even on a terminal.
	NoTUI bool `yaml:"no_tui" json:"no_tui"`
	// NoColor disables ANSI styling in the plain renderer.
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// LoggingConfig configures the diagnostic log file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// File is the log path. Empty means ~/.codecat/logs/codecat.log.
	File string `yaml:"file" json:"file"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Output: OutputConfig{
			Path: "", // derived from the root basename at run time
		},
		Ignore: IgnoreConfig{
			Patterns:         []string{},
			Files:            []string{},
			DisableGitignore: false,
		},
		Limits: LimitsConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
		UI: UIConfig{
			NoTUI:   false,
			NoColor: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "", // resolved by the logging package
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/codecat/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/codecat/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codecat", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback - should rarely happen
		return filepath.Join(os.TempDir(), ".config", "codecat", "config.yaml")
	}
	return filepath.Join(home, ".config", "codecat", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// ProjectConfigPath returns the path where a project config would be
// written in dir. When a .codecat.yml already exists it wins, otherwise
// the .yaml spelling is used.
func ProjectConfigPath(dir string) string {
	ymlPath := filepath.Join(dir, ".codecat.yml")
	if fileExists(ymlPath) {
		return ymlPath
	}
	return filepath.Join(dir, ".codecat.yaml")
}

// ProjectConfigExists returns true if dir contains a project config file.
func ProjectConfigExists(dir string) bool {
	return fileExists(filepath.Join(dir, ".codecat.yaml")) ||
		fileExists(filepath.Join(dir, ".codecat.yml"))
}

// loadUserConfig loads the user/global configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist (that's OK).
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()

	if !fileExists(configPath) {
		return nil, nil // No user config is fine
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}

	return cfg, nil
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	return loadUserConfig()
}

// Load loads configuration for a combine run rooted at dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/codecat/config.yaml)
//  3. Project config (.codecat.yaml in the scan root)
//  4. Environment variables (CODECAT_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	// Step 1: Load user/global config (if exists)
	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	// Step 2: Load project config (overrides user config)
	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	// Step 3: Apply environment variable overrides (highest precedence)
	cfg.applyEnvOverrides()

	// Step 4: Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load configuration from .codecat.yaml or .codecat.yml.
func (c *Config) loadFromFile(dir string) error {
	// Try .yaml first (takes precedence)
	yamlPath := filepath.Join(dir, ".codecat.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	// Try .yml as fallback
	ymlPath := filepath.Join(dir, ".codecat.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	// No config file is fine - use defaults
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Use a temporary struct for parsing to detect type errors
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Merge parsed values with defaults (only non-zero values)
	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c. The boolean knobs
// are named so that false is the default, which keeps merging simple.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	// Output
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}

	// Ignore: patterns and files accumulate across layers rather than
	// replace, so a project config adds to the user config's rules.
	if len(other.Ignore.Patterns) > 0 {
		c.Ignore.Patterns = append(c.Ignore.Patterns, other.Ignore.Patterns...)
	}
	if len(other.Ignore.Files) > 0 {
		c.Ignore.Files = append(c.Ignore.Files, other.Ignore.Files...)
	}
	if other.Ignore.DisableGitignore {
		c.Ignore.DisableGitignore = true
	}

	// Limits
	if other.Limits.MaxFileSize != 0 {
		c.Limits.MaxFileSize = other.Limits.MaxFileSize
	}

	// UI
	if other.UI.NoTUI {
		c.UI.NoTUI = true
	}
	if other.UI.NoColor {
		c.UI.NoColor = true
	}

	// Logging
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
}

// applyEnvOverrides applies CODECAT_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CODECAT_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("CODECAT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CODECAT_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			c.Limits.MaxFileSize = n
		}
	}
	if v := os.Getenv("CODECAT_NO_TUI"); v != "" {
		c.UI.NoTUI = parseBool(v)
	}
	if v := os.Getenv("CODECAT_DISABLE_GITIGNORE"); v != "" {
		c.Ignore.DisableGitignore = parseBool(v)
	}
}

// parseBool interprets the usual truthy spellings for env overrides.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}

	if c.Limits.MaxFileSize < 0 {
		return fmt.Errorf("limits.max_file_size must be non-negative, got %d", c.Limits.MaxFileSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DetectProjectType detects the project type based on marker files.
// Priority: go.mod > package.json > pyproject.toml/requirements.txt
func DetectProjectType(dir string) ProjectType {
	// Check for Go project
	if fileExists(filepath.Join(dir, "go.mod")) {
		return ProjectTypeGo
	}

	// Check for Node.js project
	if fileExists(filepath.Join(dir, "package.json")) {
		return ProjectTypeNode
	}

	// Check for Python project
	if fileExists(filepath.Join(dir, "pyproject.toml")) ||
		fileExists(filepath.Join(dir, "requirements.txt")) {
		return ProjectTypePython
	}

	return ProjectTypeUnknown
}

// FindProjectRoot finds the project root directory.
// It looks for a .git directory or a .codecat.yaml/.yml file by walking
// up the directory tree, so `codecat config show` works from a subdir.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		// Check for .git directory
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}

		// Check for .codecat.yaml or .codecat.yml
		if ProjectConfigExists(currentDir) {
			return currentDir, nil
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, return original directory
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// SuggestedIgnorePatterns returns extra ignore patterns worth seeding a
// new project config with, beyond the built-in defaults.
func (p ProjectType) SuggestedIgnorePatterns() []string {
	switch p {
	case ProjectTypeGo:
		return []string{"vendor/", "bin/", "*.test", "*.out", "go.sum"}
	case ProjectTypeNode:
		return []string{
			"dist/", "build/", "coverage/",
			"*.min.js", "*.min.css",
			"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		}
	case ProjectTypePython:
		return []string{
			".venv/", "venv/", ".tox/",
			".pytest_cache/", ".mypy_cache/", "*.egg-info/",
		}
	default:
		return nil
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// String returns a string representation of ProjectType.
func (p ProjectType) String() string {
	return string(p)
}

// IsKnown returns true if the project type is known (not unknown).
func (p ProjectType) IsKnown() bool {
	return p != ProjectTypeUnknown
}
