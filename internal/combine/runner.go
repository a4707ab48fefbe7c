// Package combine orchestrates a full run: scan the project tree, then
// write every surviving file into one consolidated Markdown document.
package combine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codecat-dev/codecat/internal/config"
	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/lockfile"
	"github.com/codecat-dev/codecat/internal/scanner"
	"github.com/codecat-dev/codecat/internal/ui"
)

// RunConfig holds per-run settings, already merged from flags by the
// caller. Zero values defer to the loaded configuration.
type RunConfig struct {
	// RootDir is the directory to combine. Empty means the working
	// directory.
	RootDir string

	// OutputPath is the document destination. Empty falls back to the
	// configured path, then to DefaultOutputName in the working
	// directory.
	OutputPath string

	// ExtraPatterns are gitignore-syntax rules appended after the
	// configured patterns.
	ExtraPatterns []string

	// IgnoreFiles are extra ignore files loaded at the root level.
	IgnoreFiles []string

	// DisableGitignore skips .gitignore discovery for this run.
	DisableGitignore bool

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	// MaxFileSize overrides the configured per-file size limit in bytes.
	MaxFileSize int64
}

// Summary describes what a combine run produced.
type Summary struct {
	FilesWritten int
	FilesSkipped int
	Warnings     int
	BytesWritten int64
	Duration     time.Duration
	OutputPath   string

	// Created reports whether an output document was written. A run
	// that matches no files succeeds without creating one.
	Created bool
}

// RunnerDependencies contains the dependencies needed by the runner.
type RunnerDependencies struct {
	Scanner  *scanner.Scanner
	Renderer ui.Renderer
	Config   *config.Config
}

// Runner executes the combine pipeline.
type Runner struct {
	deps RunnerDependencies
}

// NewRunner creates a runner with the given dependencies.
func NewRunner(deps RunnerDependencies) (*Runner, error) {
	if deps.Scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return &Runner{deps: deps}, nil
}

// Run executes the pipeline: discover files, then stream them into the
// output document. Per-entry problems become warnings and skips; only
// configuration and write failures abort the run.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Summary, error) {
	startTime := time.Now()

	// Cancelling on every return path stops the scan producer even when
	// the run aborts before the channel is drained.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootDir := cfg.RootDir
	if rootDir == "" {
		rootDir = "."
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot resolve root directory %s", rootDir), err)
	}

	outputPath, err := r.resolveOutput(absRoot, cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	lock := lockfile.New(outputPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeOutputUnwritable,
			fmt.Sprintf("cannot lock output location %s", outputPath), err).
			WithDetail("output", outputPath).
			WithSuggestion("Check permissions on the output directory.")
	}
	if !acquired {
		return nil, cerrors.New(cerrors.ErrCodeOutputLocked,
			fmt.Sprintf("another run is already writing %s", outputPath), nil).
			WithDetail("lock", lock.Path()).
			WithSuggestion("Wait for the other run to finish or pick a different --output.")
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			slog.Warn("failed to release output lock", "lock", lock.Path(), "error", uerr)
		}
	}()

	summary := &Summary{OutputPath: outputPath}

	scanStart := time.Now()
	files, err := r.scanFiles(ctx, absRoot, outputPath, cfg, summary)
	if err != nil {
		return nil, err
	}
	scanTime := time.Since(scanStart)

	if len(files) == 0 {
		summary.Duration = time.Since(startTime)
		r.deps.Renderer.Complete(ui.CompletionStats{
			Skipped:  summary.FilesSkipped,
			Warnings: summary.Warnings,
			Duration: summary.Duration,
			Stages:   ui.StageTimings{Scan: scanTime},
		})
		slog.Info("combine_empty",
			slog.String("root", absRoot),
			slog.Int("skipped", summary.FilesSkipped),
			slog.Int("warnings", summary.Warnings))
		return summary, nil
	}

	combineStart := time.Now()
	if err := r.combineFiles(ctx, absRoot, outputPath, files, summary); err != nil {
		return nil, err
	}
	combineTime := time.Since(combineStart)

	summary.Created = true
	summary.Duration = time.Since(startTime)

	r.deps.Renderer.Complete(ui.CompletionStats{
		Files:    summary.FilesWritten,
		Skipped:  summary.FilesSkipped,
		Warnings: summary.Warnings,
		Bytes:    summary.BytesWritten,
		Duration: summary.Duration,
		Stages:   ui.StageTimings{Scan: scanTime, Combine: combineTime},
		Output:   outputPath,
	})

	slog.Info("combine_complete",
		slog.Int("files", summary.FilesWritten),
		slog.Int("skipped", summary.FilesSkipped),
		slog.Int("warnings", summary.Warnings),
		slog.Int64("bytes", summary.BytesWritten),
		slog.String("output", outputPath),
		slog.Int64("duration_ms", summary.Duration.Milliseconds()))

	return summary, nil
}

// resolveOutput picks the document path: explicit value, then the
// configured path, then the default name in the working directory.
func (r *Runner) resolveOutput(absRoot, flagPath string) (string, error) {
	path := flagPath
	if path == "" {
		path = r.deps.Config.Output.Path
	}
	if path == "" {
		path = DefaultOutputName(absRoot)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", cerrors.New(cerrors.ErrCodeOutputUnwritable,
			fmt.Sprintf("cannot resolve output path %s", path), err)
	}
	return abs, nil
}

// DefaultOutputName returns the document name derived from the root
// directory's base name.
func DefaultOutputName(rootDir string) string {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		abs = rootDir
	}
	return filepath.Base(abs) + "_codebase.md"
}

// scanFiles drains the scanner into an ordered file list. Warnings are
// forwarded to the renderer and counted; they never stop the scan.
func (r *Runner) scanFiles(ctx context.Context, absRoot, outputPath string, cfg RunConfig, sum *Summary) ([]*scanner.FileInfo, error) {
	r.deps.Renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageScanning,
		Message: fmt.Sprintf("Scanning %s...", absRoot),
	})

	conf := r.deps.Config
	opts := &scanner.ScanOptions{
		RootDir:          absRoot,
		OutputPath:       outputPath,
		ExtraPatterns:    append(append([]string{}, conf.Ignore.Patterns...), cfg.ExtraPatterns...),
		IgnoreFiles:      append(append([]string{}, conf.Ignore.Files...), cfg.IgnoreFiles...),
		DisableGitignore: cfg.DisableGitignore || conf.Ignore.DisableGitignore,
		FollowSymlinks:   cfg.FollowSymlinks,
		MaxFileSize:      cfg.MaxFileSize,
	}
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = conf.Limits.MaxFileSize
	}

	results, err := r.deps.Scanner.Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	var files []*scanner.FileInfo
	for res := range results {
		if res.Warning != nil {
			r.recordWarning(sum, res.Warning)
			continue
		}
		files = append(files, res.File)
		r.deps.Renderer.UpdateProgress(ui.ProgressEvent{
			Stage:       ui.StageScanning,
			Current:     len(files),
			CurrentFile: res.File.Path,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("scan finished", "root", absRoot, "files", len(files), "warnings", sum.Warnings)
	return files, nil
}

// combineFiles writes the document header and one record per readable
// text file. Unreadable and binary files are skipped with a warning;
// write failures abort the run.
func (r *Runner) combineFiles(ctx context.Context, absRoot, outputPath string, files []*scanner.FileInfo, sum *Summary) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeOutputUnwritable,
			fmt.Sprintf("cannot create output document %s", outputPath), err).
			WithDetail("output", outputPath).
			WithSuggestion("Check permissions on the output directory.")
	}
	defer func() { _ = out.Close() }()

	doc := newDocumentWriter(out)
	if err := doc.WriteHeader(filepath.Base(absRoot), len(files), time.Now()); err != nil {
		return writeFailed(outputPath, err)
	}

	total := len(files)
	for i, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.deps.Renderer.UpdateProgress(ui.ProgressEvent{
			Stage:       ui.StageCombining,
			Current:     i + 1,
			Total:       total,
			CurrentFile: f.Path,
		})

		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			r.recordWarning(sum, cerrors.New(cerrors.ErrCodeFileUnreadable,
				fmt.Sprintf("cannot read %s", f.Path), err).
				WithDetail("path", f.Path))
			continue
		}
		if isBinary(f.Path, content) {
			r.recordWarning(sum, cerrors.New(cerrors.ErrCodeFileBinary,
				fmt.Sprintf("%s looks like a binary file", f.Path), nil).
				WithDetail("path", f.Path))
			continue
		}

		if err := doc.WriteRecord(f.Path, f.Language, content); err != nil {
			return writeFailed(outputPath, err)
		}
		sum.FilesWritten++
	}

	if err := doc.Flush(); err != nil {
		return writeFailed(outputPath, err)
	}
	if err := out.Close(); err != nil {
		return writeFailed(outputPath, err)
	}
	sum.BytesWritten = doc.BytesWritten()
	return nil
}

// recordWarning counts a warning, forwards it to the renderer, and logs
// it. Warnings that represent dropped tree entries also bump the skip
// counter.
func (r *Runner) recordWarning(sum *Summary, err error) {
	sum.Warnings++
	if countsAsSkip(err) {
		sum.FilesSkipped++
	}
	r.deps.Renderer.AddError(ui.ErrorEvent{File: warningFile(err), Err: err, IsWarn: true})
	slog.Warn("combine warning", slog.Any("error", cerrors.FormatForLog(err)))
}

// countsAsSkip reports whether a warning stands for a tree entry that
// was dropped from the document, as opposed to a rule problem.
func countsAsSkip(err error) bool {
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeDirUnreadable, cerrors.ErrCodeFileUnreadable,
		cerrors.ErrCodeFileBinary, cerrors.ErrCodeFileTooLarge:
		return true
	}
	return false
}

// warningFile extracts the offending path from a coded warning so the
// renderer can show it next to the message.
func warningFile(err error) string {
	var ce *cerrors.CodecatError
	if !errors.As(err, &ce) {
		return ""
	}
	if p, ok := ce.Details["path"]; ok {
		return p
	}
	if f, ok := ce.Details["file"]; ok {
		return f
	}
	return ""
}

func writeFailed(outputPath string, err error) error {
	return cerrors.New(cerrors.ErrCodeWriteFailed,
		fmt.Sprintf("failed writing output document %s", outputPath), err).
		WithDetail("output", outputPath)
}
