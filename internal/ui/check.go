package ui

import (
	"encoding/json"
	"fmt"
	"io"
)

// CheckResult describes one path's ignore decision.
type CheckResult struct {
	Path     string `json:"path"`
	Included bool   `json:"included"`
	Pattern  string `json:"pattern,omitempty"` // deciding rule, original text
	Source   string `json:"source,omitempty"`  // rule origin: defaults, patterns, or an ignore file
	Parent   string `json:"parent,omitempty"`  // excluded ancestor directory, when pruned
}

// CheckRenderer displays ignore decisions for the check command.
type CheckRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool
}

// NewCheckRenderer creates a check renderer.
func NewCheckRenderer(out io.Writer, noColor bool) *CheckRenderer {
	return &CheckRenderer{
		out:     out,
		styles:  GetStyles(noColor),
		noColor: noColor,
	}
}

// Render writes one decision line.
func (r *CheckRenderer) Render(res CheckResult) error {
	verdict := r.styles.Success.Render("included")
	if !res.Included {
		verdict = r.styles.Warning.Render("excluded")
	}

	var detail string
	switch {
	case res.Parent != "":
		detail = fmt.Sprintf("  (under excluded directory %q, rule %q from %s)", res.Parent, res.Pattern, res.Source)
	case res.Pattern != "" && res.Included:
		detail = fmt.Sprintf("  (re-included by %q from %s)", res.Pattern, res.Source)
	case res.Pattern != "":
		detail = fmt.Sprintf("  (matched %q from %s)", res.Pattern, res.Source)
	}

	_, err := fmt.Fprintf(r.out, "%s  %s%s\n", verdict, res.Path, r.styles.Dim.Render(detail))
	return err
}

// RenderJSON outputs all decisions as JSON.
func (r *CheckRenderer) RenderJSON(results []CheckResult) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
