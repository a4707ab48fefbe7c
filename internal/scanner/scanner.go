package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/gitignore"
)

// scanBuffer is the result channel capacity. Large enough that the
// producer stays ahead of a consumer doing file I/O, small enough that
// cancellation does not strand a tree's worth of results.
const scanBuffer = 64

// Scanner discovers the files to include in a consolidation run.
type Scanner struct{}

// New creates a new Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan walks the tree under opts.RootDir depth-first and returns a
// channel of results in lexical order. Files and warnings stream as
// the walk reaches them; the walk runs in a single producer goroutine
// and the channel is closed when it finishes. Only errors that make
// the whole run impossible (an invalid root) are returned directly.
// Everything that affects a single entry is delivered as a warning
// result and the walk continues.
func (s *Scanner) Scan(ctx context.Context, opts *ScanOptions) (<-chan ScanResult, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}

	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot resolve root directory %s", rootDir), err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("cannot access root directory %s", rootDir), err).
			WithSuggestion("Check that the path exists and is readable.")
	}
	if !info.IsDir() {
		return nil, cerrors.New(cerrors.ErrCodeRootInvalid,
			fmt.Sprintf("%s is not a directory", rootDir), nil)
	}

	maxFileSize := opts.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	rules, err := NewRuleset(absRoot, opts)
	if err != nil {
		return nil, err
	}

	w := &walker{
		rules:       rules,
		maxFileSize: maxFileSize,
		results:     make(chan ScanResult, scanBuffer),
	}
	if opts.OutputPath != "" {
		w.output = filepath.Clean(opts.OutputPath)
	}
	if opts.FollowSymlinks {
		w.visited = make(map[string]bool)
		if real, err := filepath.EvalSymlinks(absRoot); err == nil {
			w.visited[real] = true
		}
	}

	slog.Debug("scan started", "root", absRoot, "max_file_size", maxFileSize)

	go func() {
		defer close(w.results)
		if !w.emitWarnings(ctx) {
			return
		}
		w.walk(ctx, absRoot, "")
	}()

	return w.results, nil
}

// walker holds the state of one traversal.
type walker struct {
	rules       *Ruleset
	maxFileSize int64
	output      string
	results     chan ScanResult

	// visited tracks resolved directory paths when symlinked
	// directories are followed, so link cycles terminate.
	visited map[string]bool
}

// walk traverses one directory. Entries come back from ReadDir in
// lexical order and are handled depth-first, so results arrive in the
// same order a recursive directory listing would print them. Excluded
// directories are pruned before descent, which is what keeps a later
// negation from re-including anything beneath them. Returns false when
// the context was cancelled and the walk should unwind.
func (w *walker) walk(ctx context.Context, absDir, relDir string) bool {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return w.send(ctx, ScanResult{Warning: cerrors.New(cerrors.ErrCodeDirUnreadable,
			fmt.Sprintf("cannot read directory %s", displayPath(relDir)), err).
			WithDetail("path", displayPath(relDir))})
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		name := entry.Name()
		absPath := filepath.Join(absDir, name)
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}

		if entry.IsDir() {
			if !w.enterDir(ctx, absPath, relPath) {
				return false
			}
			continue
		}

		var info fs.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(absPath)
			if err != nil {
				// Broken link. Nothing to read, nothing to include.
				continue
			}
			if target.IsDir() {
				if w.visited == nil {
					continue
				}
				if !w.enterDir(ctx, absPath, relPath) {
					return false
				}
				continue
			}
			if !target.Mode().IsRegular() {
				continue
			}
			info = target
		} else {
			if !entry.Type().IsRegular() {
				// Sockets, devices, pipes.
				continue
			}
			var err error
			info, err = entry.Info()
			if err != nil {
				if !w.send(ctx, ScanResult{Warning: cerrors.New(cerrors.ErrCodeFileUnreadable,
					fmt.Sprintf("cannot stat %s", relPath), err).
					WithDetail("path", relPath)}) {
					return false
				}
				continue
			}
		}

		// A rerun must never consume its own output, even when the
		// document name defeats pattern matching.
		if w.output != "" && absPath == w.output {
			continue
		}

		if d, _ := w.rules.decideEntry(relPath, false); d == gitignore.DecisionExclude {
			continue
		}

		if info.Size() > w.maxFileSize {
			if !w.send(ctx, ScanResult{Warning: cerrors.New(cerrors.ErrCodeFileTooLarge,
				fmt.Sprintf("%s is %d bytes, over the %d byte limit", relPath, info.Size(), w.maxFileSize), nil).
				WithDetail("path", relPath).
				WithDetail("size", strconv.FormatInt(info.Size(), 10)).
				WithDetail("limit", strconv.FormatInt(w.maxFileSize, 10))}) {
				return false
			}
			continue
		}

		if !w.send(ctx, ScanResult{File: &FileInfo{
			Path:     relPath,
			AbsPath:  absPath,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Language: DetectLanguage(relPath),
		}}) {
			return false
		}
	}

	return w.emitWarnings(ctx)
}

// enterDir descends into a directory unless the rules prune it or, in
// follow mode, it resolves to a directory already walked.
func (w *walker) enterDir(ctx context.Context, absPath, relPath string) bool {
	if d, _ := w.rules.decideEntry(relPath, true); d == gitignore.DecisionExclude {
		return true
	}

	if w.visited != nil {
		real, err := filepath.EvalSymlinks(absPath)
		if err == nil {
			if w.visited[real] {
				return true
			}
			w.visited[real] = true
		}
	}

	return w.walk(ctx, absPath, relPath)
}

// emitWarnings forwards accumulated rule loading warnings.
func (w *walker) emitWarnings(ctx context.Context) bool {
	for _, err := range w.rules.TakeWarnings() {
		if !w.send(ctx, ScanResult{Warning: err}) {
			return false
		}
	}
	return true
}

// send delivers one result unless the context is done first.
func (w *walker) send(ctx context.Context, r ScanResult) bool {
	select {
	case w.results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

func displayPath(relPath string) string {
	if relPath == "" {
		return "."
	}
	return relPath
}
