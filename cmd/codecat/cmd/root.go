// Package cmd provides the CLI commands for codecat.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codecat-dev/codecat/internal/combine"
	"github.com/codecat-dev/codecat/internal/config"
	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/logging"
	"github.com/codecat-dev/codecat/internal/profiling"
	"github.com/codecat-dev/codecat/internal/scanner"
	"github.com/codecat-dev/codecat/internal/ui"
	"github.com/codecat-dev/codecat/pkg/version"
)

// Profiling flags
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// combineOptions holds the root command's flag values for one run.
type combineOptions struct {
	output         string
	excludes       []string
	ignoreFiles    []string
	noGitignore    bool
	followSymlinks bool
	maxFileSize    int64
	noTUI          bool
	noColor        bool
}

// NewRootCmd creates the root command for the codecat CLI. The root
// command itself is the combine run; subcommands cover diagnostics and
// configuration.
func NewRootCmd() *cobra.Command {
	var opts combineOptions

	cmd := &cobra.Command{
		Use:   "codecat [path]",
		Short: "Combine a project tree into one LLM-ready Markdown document",
		Long: `codecat walks a project directory, filters files with gitignore-style
rules (built-in defaults, your .gitignore files, and any extra patterns),
and concatenates the survivors into a single Markdown document with
per-file headers, ready to paste into an LLM chat.

Just run 'codecat' in your project directory to get started.`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runCombine(cmd, path, opts)
		},
	}

	// Set version template
	cmd.SetVersionTemplate("codecat version {{.Version}}\n")

	// Root flags
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output document path (default: <root>_codebase.md)")
	cmd.Flags().StringArrayVar(&opts.excludes, "exclude", nil, "Extra gitignore-syntax exclusion pattern (repeatable)")
	cmd.Flags().StringArrayVar(&opts.ignoreFiles, "ignore-file", nil, "Extra gitignore-format file loaded at the root (repeatable)")
	cmd.Flags().BoolVar(&opts.noGitignore, "no-gitignore", false, "Skip .gitignore files (built-in defaults still apply)")
	cmd.Flags().BoolVar(&opts.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories (cycles are pruned)")
	cmd.Flags().Int64Var(&opts.maxFileSize, "max-file-size", 0, "Per-file size limit in bytes (default: 10 MiB)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "Disable TUI mode, use plain text progress")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable ANSI styling in plain output")

	// Profiling flags
	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")

	// Debug logging flag
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.codecat/logs/")

	// Setup profiling and logging hooks
	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	// Add subcommands
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts CPU/trace profiling and debug logging if flags are set.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error

	// Start debug logging if enabled
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("Debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}

	// Start CPU profiling
	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	// Start trace profiling
	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}

	return nil
}

// stopProfilingAndLogging stops profiling and logging, writes memory profile if requested.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	// Stop CPU profiling
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}

	// Stop tracing
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}

	// Write memory profile if requested
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	// Stop debug logging
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runCombine wires the scanner, renderer, and runner together and
// executes one combine run against path.
func runCombine(cmd *cobra.Command, path string, opts combineOptions) error {
	// Set up signal handling for Ctrl+C. A terminated run leaves a
	// partial output document behind; the caller discards it.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// File-only logging so slog output never competes with the
	// renderer for the terminal. --debug already installed a logger.
	if !debugMode {
		if logger, cleanup, err := logging.Setup(logging.DefaultConfig()); err == nil {
			slog.SetDefault(logger)
			defer cleanup()
		}
		// Continue even if logging setup fails - not critical for CLI
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot resolve path %s", path), err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot access %s", absPath), err).
			WithSuggestion("Check that the directory exists and is readable.")
	}
	if !info.IsDir() {
		return cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("%s is not a directory", absPath), nil)
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeConfigInvalid,
			"configuration is invalid", err).
			WithSuggestion("Fix or remove the offending config file.")
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(opts.noTUI || cfg.UI.NoTUI),
		ui.WithNoColor(opts.noColor || cfg.UI.NoColor || ui.DetectNoColor()),
		ui.WithRootDir(absPath))
	renderer := ui.NewRenderer(uiCfg)
	if err := renderer.Start(ctx); err != nil {
		// Fall back to whatever the renderer can still print
		slog.Warn("failed to start progress renderer", slog.String("error", err.Error()))
	}
	defer func() { _ = renderer.Stop() }()

	runner, err := combine.NewRunner(combine.RunnerDependencies{
		Scanner:  scanner.New(),
		Renderer: renderer,
		Config:   cfg,
	})
	if err != nil {
		return cerrors.New(cerrors.ErrCodeInternal, "failed to initialize runner", err)
	}

	_, err = runner.Run(ctx, combine.RunConfig{
		RootDir:          absPath,
		OutputPath:       opts.output,
		ExtraPatterns:    opts.excludes,
		IgnoreFiles:      opts.ignoreFiles,
		DisableGitignore: opts.noGitignore,
		FollowSymlinks:   opts.followSymlinks,
		MaxFileSize:      opts.maxFileSize,
	})
	return err
}
