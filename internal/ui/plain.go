package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// printEvery is how often per-file progress lines appear in plain mode.
// Stage transitions, the first file, and the last file always print.
const printEvery = 10

// PlainRenderer outputs plain text progress (for CI/pipes).
type PlainRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool
	stage   Stage
	started bool
	errors  []ErrorEvent
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{
		out:     cfg.Output,
		noColor: cfg.NoColor,
	}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stageChanged := !r.started || event.Stage != r.stage
	r.stage = event.Stage
	r.started = true

	if event.Message != "" {
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Stage.Icon(), event.Message)
		return
	}

	// Known-total stages print a sampled current/total line. Discovery
	// ticks without a total stay quiet; the TUI is the live view.
	if event.Total > 0 {
		if stageChanged || event.Current == event.Total || event.Current%printEvery == 0 {
			_, _ = fmt.Fprintf(r.out, "[%s] %d/%d - %s\n",
				event.Stage.Icon(), event.Current, event.Total, event.CurrentFile)
		}
	}
}

// AddError implements Renderer.
func (r *PlainRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, event)

	prefix := "ERROR"
	if event.IsWarn {
		prefix = "WARN"
	}

	if event.File != "" {
		_, _ = fmt.Fprintf(r.out, "%s: %s: %v\n", prefix, event.File, event.Err)
	} else {
		_, _ = fmt.Fprintf(r.out, "%s: %v\n", prefix, event.Err)
	}
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats.Output == "" {
		_, _ = fmt.Fprint(r.out, "No files to combine")
		if stats.Skipped > 0 || stats.Warnings > 0 {
			_, _ = fmt.Fprintf(r.out, " (%d skipped, %d warnings)", stats.Skipped, stats.Warnings)
		}
		_, _ = fmt.Fprintln(r.out)
		return
	}

	_, _ = fmt.Fprintf(r.out, "Complete: %d files combined in %s",
		stats.Files, stats.Duration.Round(100*millisecond))

	if stats.Skipped > 0 || stats.Warnings > 0 {
		_, _ = fmt.Fprintf(r.out, " (%d skipped, %d warnings)", stats.Skipped, stats.Warnings)
	}

	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "Output: %s (%s)\n", stats.Output, FormatBytes(stats.Bytes))

	// Show detailed stage breakdown if available
	if stats.Stages.Scan > 0 || stats.Stages.Combine > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, "Stage Breakdown:")
		_, _ = fmt.Fprintf(r.out, "  Scan:    %s (files discovered)\n", stats.Stages.Scan.Round(100*millisecond))
		if stats.Stages.Combine > 0 && stats.Files > 0 {
			filesPerSec := float64(stats.Files) / stats.Stages.Combine.Seconds()
			_, _ = fmt.Fprintf(r.out, "  Combine: %s (%d records @ %.1f/sec)\n",
				stats.Stages.Combine.Round(100*millisecond), stats.Files, filesPerSec)
		} else {
			_, _ = fmt.Fprintf(r.out, "  Combine: %s\n", stats.Stages.Combine.Round(100*millisecond))
		}
	}
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

const millisecond = 1000000 // nanoseconds
