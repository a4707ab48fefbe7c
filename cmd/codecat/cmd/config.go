package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codecat-dev/codecat/configs"
	"github.com/codecat-dev/codecat/internal/config"
	"github.com/codecat-dev/codecat/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage codecat configuration files.

Project configuration (.codecat.yaml) is version-controlled with the
project and holds the output path, extra ignore rules, and size limits.
User configuration holds machine-level preferences like the progress
renderer and log level.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/codecat/config.yaml)
  3. Project config (.codecat.yaml)
  4. Environment variables (CODECAT_*)`,
		Example: `  # Create a project config in the current directory
  codecat config init

  # Create the user config from its template
  codecat config init --user

  # Show effective configuration (merged from all sources)
  codecat config show

  # Print user config file path
  codecat config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		user  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from its template",
		Long: `Create a configuration file from the embedded template.

By default this writes .codecat.yaml in the current directory, the
project-level file meant to be committed alongside the code. With
--user it writes the machine-level file at ~/.config/codecat/config.yaml
(or under $XDG_CONFIG_HOME).

An existing file is left alone unless --force is given; --force backs
the old file up before overwriting.`,
		Example: `  # Create a project config
  codecat config init

  # Create the user config
  codecat config init --user

  # Replace an existing config (a backup is kept)
  codecat config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user {
				return runConfigInitUser(cmd, force)
			}
			return runConfigInitProject(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of a project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (keeps a backup)")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging all sources.

By default, shows the merged configuration from:
  1. Hardcoded defaults
  2. User config (~/.config/codecat/config.yaml)
  3. Project config (.codecat.yaml)
  4. Environment variables`,
		Example: `  # Show merged configuration
  codecat config show

  # Show as JSON
  codecat config show --json

  # Show only the hardcoded defaults
  codecat config show --source defaults`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Long:  `Print the path to the user configuration file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return nil
		},
	}
}

func runConfigInitProject(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	configPath := config.ProjectConfigPath(cwd)

	if config.ProjectConfigExists(cwd) && !force {
		out.Warning("Project configuration already exists")
		out.Statusf("📁", "Location: %s", configPath)
		out.Status("💡", "Use --force to replace it (a backup is kept)")
		return nil
	}

	if config.ProjectConfigExists(cwd) {
		backupPath, err := config.BackupConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
		out.Statusf("💾", "Backup: %s", backupPath)
	}

	if err := os.WriteFile(configPath, []byte(configs.ProjectConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created project configuration")
	out.Statusf("📁", "Location: %s", configPath)

	// Nudge toward patterns the project's toolchain usually wants
	// excluded beyond the built-in defaults.
	if ptype := config.DetectProjectType(cwd); ptype.IsKnown() {
		if suggested := ptype.SuggestedIgnorePatterns(); len(suggested) > 0 {
			out.Newline()
			out.Statusf("💡", "Detected a %s project; consider adding under ignore.patterns:", ptype)
			for _, p := range suggested {
				out.Statusf("", "  - %q", p)
			}
		}
	}

	return nil
}

func runConfigInitUser(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	configPath := config.GetUserConfigPath()
	configDir := config.GetUserConfigDir()

	if config.UserConfigExists() && !force {
		out.Warning("User configuration already exists")
		out.Statusf("📁", "Location: %s", configPath)
		out.Status("💡", "Use --force to replace it (a backup is kept)")
		return nil
	}

	if config.UserConfigExists() {
		backupPath, err := config.BackupUserConfig()
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
		out.Statusf("💾", "Backup: %s", backupPath)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Status("💡", "Run 'codecat config show' to see the effective configuration")

	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var cfg *config.Config
	var sourceDesc string

	switch source {
	case "merged":
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root, err := config.FindProjectRoot(cwd)
		if err != nil {
			root = cwd
		}

		cfg, err = config.Load(root)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		sourceDesc = "merged (defaults + user + project + env)"

	case "user":
		configPath := config.GetUserConfigPath()
		if !config.UserConfigExists() {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", configPath)
			out.Status("💡", "Run 'codecat config init --user' to create one")
			return nil
		}

		var err error
		cfg, err = config.LoadUserConfig()
		if err != nil {
			return fmt.Errorf("failed to read user config: %w", err)
		}
		sourceDesc = fmt.Sprintf("user (%s)", configPath)

	case "project":
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root, err := config.FindProjectRoot(cwd)
		if err != nil {
			root = cwd
		}

		if !config.ProjectConfigExists(root) {
			out.Warning("No project configuration file found")
			out.Statusf("📁", "Expected at: %s", config.ProjectConfigPath(root))
			out.Status("💡", "Run 'codecat config init' to create one")
			return nil
		}

		cfg = config.NewConfig()
		data, err := os.ReadFile(config.ProjectConfigPath(root))
		if err != nil {
			return fmt.Errorf("failed to read project config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse project config: %w", err)
		}
		sourceDesc = fmt.Sprintf("project (%s)", config.ProjectConfigPath(root))

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return fmt.Errorf("invalid source: %s (use: merged, user, project, defaults)", source)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		out.Statusf("📋", "Configuration source: %s", sourceDesc)
		out.Newline()

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	return nil
}
