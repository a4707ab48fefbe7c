package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/gitignore"
)

func newTestRuleset(t *testing.T, root string, opts *ScanOptions) *Ruleset {
	t.Helper()
	rs, err := NewRuleset(root, opts)
	require.NoError(t, err)
	return rs
}

// =============================================================================
// Explain
// =============================================================================

func TestRuleset_Explain_DefaultRules(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), nil)

	d, hit := rs.Explain("node_modules/react/index.js", false)

	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, "node_modules/", hit.Pattern)
	assert.Equal(t, SourceDefaults, hit.Source)
	assert.Equal(t, "node_modules", hit.Parent, "decision is inherited from the pruned directory")
}

func TestRuleset_Explain_PatternSource(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), &ScanOptions{
		ExtraPatterns: []string{"*.log"},
	})

	d, hit := rs.Explain("debug.log", false)

	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, "*.log", hit.Pattern)
	assert.Equal(t, SourcePatterns, hit.Source)
	assert.Empty(t, hit.Parent)
}

func TestRuleset_Explain_GitignoreSource(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".gitignore": "*.tmp\n"})

	rs := newTestRuleset(t, root, nil)

	d, hit := rs.Explain("scratch.tmp", false)

	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, ".gitignore", hit.Source)
}

func TestRuleset_Explain_NestedGitignoreOverrides(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":     "*.log\n",
		"src/.gitignore": "!important.log\n",
	})

	rs := newTestRuleset(t, root, nil)

	d, hit := rs.Explain("src/important.log", false)

	assert.Equal(t, gitignore.DecisionInclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, "!important.log", hit.Pattern)
	assert.Equal(t, "src/.gitignore", hit.Source)
	assert.True(t, hit.Negated)
}

func TestRuleset_Explain_GitignoreOverridesPatterns(t *testing.T) {
	// Discovered .gitignore files evaluate after configured patterns,
	// so a committed re-include beats a blunt configured exclude.
	root := t.TempDir()
	writeTree(t, root, map[string]string{".gitignore": "!schema.sql\n"})

	rs := newTestRuleset(t, root, &ScanOptions{
		ExtraPatterns: []string{"*.sql"},
	})

	d, hit := rs.Explain("schema.sql", false)

	assert.Equal(t, gitignore.DecisionInclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, ".gitignore", hit.Source)
}

func TestRuleset_Explain_AncestorBlocksNegation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "logs/\n!logs/keep.txt\n",
	})

	rs := newTestRuleset(t, root, nil)

	d, hit := rs.Explain("logs/keep.txt", false)

	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, "logs/", hit.Pattern)
	assert.Equal(t, "logs", hit.Parent)
}

func TestRuleset_Explain_NoneForUnmatched(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), nil)

	d, hit := rs.Explain("main.go", false)

	assert.Equal(t, gitignore.DecisionNone, d)
	assert.Nil(t, hit)
}

func TestRuleset_Explain_RootNeverExcluded(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), &ScanOptions{
		ExtraPatterns: []string{"*"},
	})

	d, hit := rs.Explain(".", true)

	assert.Equal(t, gitignore.DecisionNone, d)
	assert.Nil(t, hit)
}

func TestRuleset_Explain_OutputNameExcludedEverywhere(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), &ScanOptions{
		OutputPath: "/anywhere/proj_codebase.md",
	})

	d, hit := rs.Explain("proj_codebase.md", false)
	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, SourceDefaults, hit.Source)

	d, _ = rs.Explain("docs/proj_codebase.md", false)
	assert.Equal(t, gitignore.DecisionExclude, d)
}

func TestRuleset_DisableGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".gitignore": "*.log\n"})

	rs := newTestRuleset(t, root, &ScanOptions{DisableGitignore: true})

	d, _ := rs.Explain("a.log", false)
	assert.Equal(t, gitignore.DecisionNone, d)
}

// =============================================================================
// Ignore Files
// =============================================================================

func TestRuleset_IgnoreFileRelativeToRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"rules.ignore": "*.dat\n"})

	rs := newTestRuleset(t, root, &ScanOptions{
		IgnoreFiles: []string{"rules.ignore"},
	})

	d, hit := rs.Explain("blob.dat", false)

	assert.Equal(t, gitignore.DecisionExclude, d)
	require.NotNil(t, hit)
	assert.Equal(t, "rules.ignore", hit.Source)
	assert.Empty(t, rs.TakeWarnings())
}

func TestRuleset_IgnoreFileAbsolutePath(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	rulePath := filepath.Join(other, "shared.ignore")
	require.NoError(t, os.WriteFile(rulePath, []byte("*.bak\n"), 0o644))

	rs := newTestRuleset(t, root, &ScanOptions{
		IgnoreFiles: []string{rulePath},
	})

	d, _ := rs.Explain("old.bak", false)
	assert.Equal(t, gitignore.DecisionExclude, d)
}

func TestRuleset_MissingIgnoreFileWarnsOnce(t *testing.T) {
	rs := newTestRuleset(t, t.TempDir(), &ScanOptions{
		IgnoreFiles: []string{"missing.ignore"},
	})

	warnings := rs.TakeWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, cerrors.ErrCodeIgnoreUnreadable, cerrors.GetCode(warnings[0]))

	assert.Empty(t, rs.TakeWarnings(), "warnings drain exactly once")
}

func TestRuleset_MalformedIgnoreFileLineWarnsWithLocation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"rules.ignore": "*.dat\nbad[9-0]pattern\n*.bak\n",
	})

	rs := newTestRuleset(t, root, &ScanOptions{
		IgnoreFiles: []string{"rules.ignore"},
	})

	warnings := rs.TakeWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, cerrors.ErrCodePatternInvalid, cerrors.GetCode(warnings[0]))
	assert.Contains(t, warnings[0].Error(), "rules.ignore:2")

	// The surrounding rules still apply.
	d, _ := rs.Explain("blob.dat", false)
	assert.Equal(t, gitignore.DecisionExclude, d)
	d, _ = rs.Explain("old.bak", false)
	assert.Equal(t, gitignore.DecisionExclude, d)
}

func TestRuleset_UnreadableGitignoreWarnsOnce(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	root := t.TempDir()
	gi := filepath.Join(root, ".gitignore")
	require.NoError(t, os.WriteFile(gi, []byte("*.log\n"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(gi, 0o644) })

	rs := newTestRuleset(t, root, nil)

	// Two evaluations, both hitting the same unreadable file.
	rs.Explain("a.log", false)
	rs.Explain("b.log", false)

	warnings := rs.TakeWarnings()
	require.Len(t, warnings, 1, "the failed load is cached, so the warning fires once")
	assert.Equal(t, cerrors.ErrCodeIgnoreUnreadable, cerrors.GetCode(warnings[0]))
}

// =============================================================================
// Helpers
// =============================================================================

func TestContainingDirs(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "a.txt", want: []string{""}},
		{path: "src/main.go", want: []string{"", "src"}},
		{path: "src/app/main.go", want: []string{"", "src", "src/app"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, containingDirs(tt.path))
		})
	}
}
