package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codecat-dev/codecat/internal/combine"
	"github.com/codecat-dev/codecat/internal/config"
	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/gitignore"
	"github.com/codecat-dev/codecat/internal/output"
	"github.com/codecat-dev/codecat/internal/scanner"
	"github.com/codecat-dev/codecat/internal/ui"
)

func newCheckCmd() *cobra.Command {
	var (
		dir         string
		jsonOutput  bool
		noGitignore bool
		excludes    []string
		ignoreFiles []string
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "check path...",
		Short: "Explain whether paths would be included in the document",
		Long: `Evaluate paths against the same rule chain a combine run would use
(built-in defaults, configured patterns, extra ignore files, and the
.gitignore files on the path's directory chain) and report the verdict
together with the rule that decided it.

A path beneath an excluded directory inherits that exclusion: rules
below a pruned directory are never consulted, so not even a negation
pattern can re-include it.`,
		Example: `  # Why is this file missing from the document?
  codecat check src/generated/api.go

  # Check against a different scan root
  codecat check --dir ~/work/project build/main.js

  # Machine-readable verdicts
  codecat check --json vendor/ internal/app.go`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, dir, args, checkOptions{
				json:        jsonOutput,
				noGitignore: noGitignore,
				excludes:    excludes,
				ignoreFiles: ignoreFiles,
				noColor:     noColor,
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Scan root the paths are evaluated against")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output verdicts as JSON")
	cmd.Flags().BoolVar(&noGitignore, "no-gitignore", false, "Skip .gitignore files (built-in defaults still apply)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Extra gitignore-syntax exclusion pattern (repeatable)")
	cmd.Flags().StringArrayVar(&ignoreFiles, "ignore-file", nil, "Extra gitignore-format file loaded at the root (repeatable)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI styling")

	return cmd
}

type checkOptions struct {
	json        bool
	noGitignore bool
	excludes    []string
	ignoreFiles []string
	noColor     bool
}

// runCheck builds the same ruleset a combine run would use and explains
// each path's decision. It returns a non-nil error (exit 1) when any
// path is excluded, so scripts can probe rules cheaply.
func runCheck(cmd *cobra.Command, dir string, paths []string, opts checkOptions) error {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot resolve directory %s", dir), err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("%s is not a directory", absRoot), err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeConfigInvalid,
			"configuration is invalid", err)
	}

	// Mirror a real run: the output document's name rule participates,
	// so "codecat check myproject_codebase.md" explains itself.
	outPath := cfg.Output.Path
	if outPath == "" {
		outPath = combine.DefaultOutputName(absRoot)
	}
	absOut, err := filepath.Abs(outPath)
	if err != nil {
		absOut = outPath
	}

	ruleset, err := scanner.NewRuleset(absRoot, &scanner.ScanOptions{
		RootDir:          absRoot,
		OutputPath:       absOut,
		ExtraPatterns:    append(append([]string{}, cfg.Ignore.Patterns...), opts.excludes...),
		IgnoreFiles:      append(append([]string{}, cfg.Ignore.Files...), opts.ignoreFiles...),
		DisableGitignore: opts.noGitignore || cfg.Ignore.DisableGitignore,
	})
	if err != nil {
		return cerrors.New(cerrors.ErrCodeInternal, "failed to build ruleset", err)
	}

	noColor := opts.noColor || ui.DetectNoColor() || !ui.IsTTY(cmd.OutOrStdout())
	renderer := ui.NewCheckRenderer(cmd.OutOrStdout(), noColor)

	results := make([]ui.CheckResult, 0, len(paths))
	excluded := 0
	for _, p := range paths {
		rel, isDir, err := resolveCheckPath(absRoot, p)
		if err != nil {
			return err
		}

		decision, hit := ruleset.Explain(rel, isDir)
		res := ui.CheckResult{
			Path:     rel,
			Included: decision != gitignore.DecisionExclude,
		}
		if hit != nil {
			res.Pattern = hit.Pattern
			res.Source = hit.Source
			res.Parent = hit.Parent
		}
		if !res.Included {
			excluded++
		}
		results = append(results, res)
	}

	// Rule problems discovered while loading (malformed patterns,
	// unreadable ignore files) go to stderr so --json stays parseable.
	warn := output.New(cmd.ErrOrStderr())
	for _, w := range ruleset.TakeWarnings() {
		warn.Warning(w.Error())
	}

	if opts.json {
		if err := renderer.RenderJSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if err := renderer.Render(res); err != nil {
				return err
			}
		}
	}

	if excluded > 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput,
			fmt.Sprintf("%d of %d paths are excluded", excluded, len(paths)), nil)
	}
	return nil
}

// resolveCheckPath normalizes one argument into a slash-relative path
// under the scan root and decides how to evaluate it: a path that
// exists uses its real file type, a missing one falls back to the
// trailing-slash convention.
func resolveCheckPath(absRoot, arg string) (rel string, isDir bool, err error) {
	abs := arg
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(absRoot, arg)
	}

	rel, rerr := filepath.Rel(absRoot, abs)
	if rerr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, cerrors.New(cerrors.ErrCodePathOutsideRoot,
			fmt.Sprintf("%s is outside the scan root %s", arg, absRoot), rerr).
			WithDetail("path", arg).
			WithSuggestion("Pass --dir to point at the root the path lives under.")
	}

	if info, serr := os.Stat(abs); serr == nil {
		isDir = info.IsDir()
	} else {
		isDir = strings.HasSuffix(arg, "/")
	}
	return filepath.ToSlash(rel), isDir, nil
}
