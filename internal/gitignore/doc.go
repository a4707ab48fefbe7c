// Package gitignore provides gitignore pattern matching functionality.
//
// It implements the gitignore pattern syntax as documented at:
// https://git-scm.com/docs/gitignore
//
// Features:
//   - Basic pattern matching (*.log, temp/)
//   - Wildcard patterns (*, ?, **)
//   - Rooted patterns (/build)
//   - Negation patterns (!important.log)
//   - Directory-only patterns (build/)
//   - Nested gitignore file support
//   - Three-valued decisions (exclude / re-include / no rule matched)
//   - Thread-safe matching
//
// Matching is case-sensitive on every platform.
//
// Usage:
//
//	m := gitignore.New()
//	_ = m.AddPattern("*.log")
//	_ = m.AddPattern("!important.log")
//	_ = m.AddPattern("/build/")
//
//	if m.Match("error.log", false) {
//	    // File is ignored
//	}
//
// For nested gitignore files:
//
//	_ = m.AddFromFile("/path/to/project/.gitignore", "")
//	_ = m.AddFromFile("/path/to/project/src/.gitignore", "src")
package gitignore
