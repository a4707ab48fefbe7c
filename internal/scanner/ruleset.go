package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	cerrors "github.com/codecat-dev/codecat/internal/errors"
	"github.com/codecat-dev/codecat/internal/gitignore"
)

// gitignoreCacheSize bounds the per-directory matcher cache.
const gitignoreCacheSize = 1000

// Rule source names reported in Hit.Source for rules that do not come
// from a file on disk.
const (
	// SourceDefaults marks built-in patterns and the output document.
	SourceDefaults = "defaults"
	// SourcePatterns marks patterns from configuration or flags.
	SourcePatterns = "patterns"
)

// Hit identifies the rule that decided a path.
type Hit struct {
	Pattern string // Original pattern text, including any "!" prefix
	Source  string // SourceDefaults, SourcePatterns, or an ignore file path
	Negated bool   // True when the rule re-includes
	Parent  string // Excluded ancestor directory that decided this path, if any
}

// Ruleset combines every exclusion source for one scan: built-in
// defaults, configured patterns, extra ignore files, and the .gitignore
// files discovered in the tree. Sources are evaluated in that order and
// the last matching rule wins, so a negation in a nested .gitignore can
// re-include a file that an earlier source excluded. Matchers for
// discovered .gitignore files are loaded lazily and cached.
type Ruleset struct {
	root             string
	disableGitignore bool

	sources []ruleSource

	cache   *lru.Cache[string, *gitignore.Matcher]
	cacheMu sync.RWMutex

	warnMu   sync.Mutex
	warnings []error
}

type ruleSource struct {
	name    string
	matcher *gitignore.Matcher
}

// NewRuleset builds the rule sources for a scan rooted at root, which
// must be an absolute path. Malformed patterns and unreadable ignore
// files are recorded as warnings rather than errors: the affected rule
// matches nothing and every other rule stays in force.
func NewRuleset(root string, opts *ScanOptions) (*Ruleset, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}

	cache, err := lru.New[string, *gitignore.Matcher](gitignoreCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitignore cache: %w", err)
	}

	rs := &Ruleset{
		root:             root,
		disableGitignore: opts.DisableGitignore,
		cache:            cache,
	}

	defaults := gitignore.New()
	for _, p := range DefaultIgnorePatterns {
		_ = defaults.AddPattern(p)
	}
	if opts.OutputPath != "" {
		// The document's name is excluded everywhere so a rerun never
		// ingests a previous run's output, wherever it ended up. The
		// walker additionally compares absolute paths, which covers
		// names the pattern syntax cannot express. The companion lock
		// file is excluded too in case a crashed run left one behind.
		base := filepath.Base(opts.OutputPath)
		_ = defaults.AddPattern(base)
		_ = defaults.AddPattern(base + ".lock")
	}
	rs.sources = append(rs.sources, ruleSource{name: SourceDefaults, matcher: defaults})

	if len(opts.ExtraPatterns) > 0 {
		extras := gitignore.New()
		for _, p := range opts.ExtraPatterns {
			if err := extras.AddPattern(p); err != nil {
				rs.warn(cerrors.New(cerrors.ErrCodePatternInvalid,
					fmt.Sprintf("invalid exclusion pattern %q", p), err).
					WithDetail("pattern", p).
					WithSuggestion("Fix or remove the pattern; it currently matches nothing."))
			}
		}
		rs.sources = append(rs.sources, ruleSource{name: SourcePatterns, matcher: extras})
	}

	for _, file := range opts.IgnoreFiles {
		p := file
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		if m := rs.loadIgnoreFile(p, "", file, false); m != nil {
			rs.sources = append(rs.sources, ruleSource{name: file, matcher: m})
		}
	}

	return rs, nil
}

// Explain evaluates relPath against every source and reports the
// winning rule. relPath is slash-separated and relative to the scan
// root. When an ancestor directory is excluded, the path inherits that
// decision and the returned hit carries the ancestor in Parent: rules
// below an excluded directory are never consulted, so a negation
// cannot re-include anything beneath it.
func (rs *Ruleset) Explain(relPath string, isDir bool) (gitignore.Decision, *Hit) {
	relPath = strings.Trim(filepath.ToSlash(relPath), "/")
	if relPath == "" || relPath == "." {
		return gitignore.DecisionNone, nil
	}

	dirs := containingDirs(relPath)
	for _, dir := range dirs[1:] {
		if d, hit := rs.decideEntry(dir, true); d == gitignore.DecisionExclude {
			hit.Parent = dir
			return d, hit
		}
	}

	return rs.decideEntry(relPath, isDir)
}

// decideEntry evaluates a single path without ancestor checks. The
// walker relies on this directly: it prunes excluded directories, so
// entries beneath them are never evaluated at all.
func (rs *Ruleset) decideEntry(relPath string, isDir bool) (gitignore.Decision, *Hit) {
	decision := gitignore.DecisionNone
	var hit *Hit

	for _, src := range rs.sources {
		if d, h := src.matcher.Explain(relPath, isDir); d != gitignore.DecisionNone {
			decision = d
			hit = &Hit{Pattern: h.Pattern, Source: src.name, Negated: h.Negated}
		}
	}

	if rs.disableGitignore {
		return decision, hit
	}

	for _, dir := range containingDirs(relPath) {
		m := rs.matcherFor(dir)
		if m == nil {
			continue
		}
		if d, h := m.Explain(relPath, isDir); d != gitignore.DecisionNone {
			decision = d
			hit = &Hit{Pattern: h.Pattern, Source: path.Join(dir, ".gitignore"), Negated: h.Negated}
		}
	}

	return decision, hit
}

// matcherFor returns the matcher for the .gitignore in dir, which is
// relative to the scan root ("" for the root itself). Directories
// without a readable .gitignore cache a nil matcher so repeated
// lookups stay cheap and warnings fire once.
func (rs *Ruleset) matcherFor(dir string) *gitignore.Matcher {
	abs := rs.root
	if dir != "" {
		abs = filepath.Join(rs.root, filepath.FromSlash(dir))
	}

	rs.cacheMu.RLock()
	if m, ok := rs.cache.Get(abs); ok {
		rs.cacheMu.RUnlock()
		return m
	}
	rs.cacheMu.RUnlock()

	name := path.Join(dir, ".gitignore")
	m := rs.loadIgnoreFile(filepath.Join(abs, ".gitignore"), dir, name, true)

	rs.cacheMu.Lock()
	rs.cache.Add(abs, m)
	rs.cacheMu.Unlock()

	return m
}

// loadIgnoreFile parses one gitignore-format file. Lines are added
// individually so a malformed pattern produces a warning naming its
// line while the remaining lines still load. Returns nil when the file
// cannot be read; when optional is true a missing file is normal and
// produces no warning.
func (rs *Ruleset) loadIgnoreFile(absPath, base, name string, optional bool) *gitignore.Matcher {
	data, err := os.ReadFile(absPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		rs.warn(cerrors.New(cerrors.ErrCodeIgnoreUnreadable,
			fmt.Sprintf("cannot read ignore file %s", name), err).
			WithDetail("file", name))
		return nil
	}

	m := gitignore.New()
	for i, line := range strings.Split(string(data), "\n") {
		if err := m.AddPatternWithBase(line, base); err != nil {
			rs.warn(cerrors.New(cerrors.ErrCodePatternInvalid,
				fmt.Sprintf("%s:%d: invalid pattern %q", name, i+1, strings.TrimSpace(line)), err).
				WithDetail("file", name).
				WithDetail("line", strconv.Itoa(i+1)))
		}
	}
	return m
}

func (rs *Ruleset) warn(err error) {
	rs.warnMu.Lock()
	rs.warnings = append(rs.warnings, err)
	rs.warnMu.Unlock()
}

// TakeWarnings returns the warnings accumulated since the last call
// and clears them. The scanner drains these into its result channel so
// each warning surfaces exactly once.
func (rs *Ruleset) TakeWarnings() []error {
	rs.warnMu.Lock()
	defer rs.warnMu.Unlock()
	w := rs.warnings
	rs.warnings = nil
	return w
}

// containingDirs lists the directories whose rules can affect relPath,
// shallowest first. The scan root is represented as "".
func containingDirs(relPath string) []string {
	dirs := []string{""}
	for i := 0; i < len(relPath); i++ {
		if relPath[i] == '/' {
			dirs = append(dirs, relPath[:i])
		}
	}
	return dirs
}

