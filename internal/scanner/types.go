// Package scanner walks a project tree and discovers the files that
// survive ignore filtering. It emits results lazily over a channel so
// consumers can start combining before the walk completes, and reports
// unreadable entries as warnings instead of aborting the walk.
package scanner

import (
	"strings"
	"time"
)

// FileInfo contains metadata about a discovered file.
type FileInfo struct {
	Path     string    // Relative path from the scan root, slash-separated
	AbsPath  string    // Absolute path
	Size     int64     // File size in bytes
	ModTime  time.Time // Last modification time
	Language string    // Fence hint for the output document (go, python, ...)
}

// ScanOptions configures the scanner behavior.
type ScanOptions struct {
	// RootDir is the project root directory to scan.
	RootDir string

	// OutputPath is the absolute path of the document being generated.
	// The scanner excludes it so a rerun never consumes its own output.
	OutputPath string

	// ExtraPatterns specifies additional exclusion patterns, applied
	// after the built-in defaults (config file, then command line).
	ExtraPatterns []string

	// IgnoreFiles lists additional gitignore-format files to load,
	// applied after ExtraPatterns in the order given.
	IgnoreFiles []string

	// DisableGitignore skips loading .gitignore files from the tree.
	// Built-in defaults and ExtraPatterns still apply.
	DisableGitignore bool

	// MaxFileSize is the maximum file size to include in bytes (0 = 10MB default).
	MaxFileSize int64

	// FollowSymlinks enables following symlinked directories (default: false).
	// Symlink cycles are detected and pruned.
	FollowSymlinks bool
}

// ScanResult is returned from the scanner channel. Exactly one of File
// and Warning is set: a Warning marks an entry that was skipped (an
// unreadable directory, an oversized file) without stopping the walk.
type ScanResult struct {
	File    *FileInfo
	Warning error
}

// DefaultMaxFileSize is the default maximum file size (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// DefaultIgnorePatterns are always active, before any configured or
// discovered rules. They cover VCS internals and artifacts that no
// consolidated document should ever contain.
var DefaultIgnorePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"__pycache__/",
	"*.pyc",
	"node_modules/",
	".DS_Store",
	"Thumbs.db",
}

// languageMap maps file extensions to fence hints.
var languageMap = map[string]string{
	// Go
	".go": "go",

	// JavaScript/TypeScript
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",

	// Python
	".py":  "python",
	".pyw": "python",
	".pyi": "python",

	// Web
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".scss": "scss",
	".sass": "sass",
	".less": "less",

	// Data/Config
	".json":       "json",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".xml":        "xml",
	".ini":        "ini",
	".conf":       "config",
	".properties": "properties",

	// Documentation
	".md":       "markdown",
	".mdx":      "markdown",
	".markdown": "markdown",
	".rst":      "rst",
	".txt":      "text",

	// Shell
	".sh":   "shell",
	".bash": "shell",
	".zsh":  "shell",
	".fish": "fish",

	// Ruby
	".rb":   "ruby",
	".rake": "ruby",
	".erb":  "erb",

	// Rust
	".rs": "rust",

	// Java/Kotlin
	".java": "java",
	".kt":   "kotlin",
	".kts":  "kotlin",

	// C/C++
	".c":   "c",
	".h":   "c",
	".cpp": "cpp",
	".hpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",

	// C#
	".cs": "csharp",

	// Swift
	".swift": "swift",

	// PHP
	".php": "php",

	// Scala
	".scala": "scala",

	// Elixir/Erlang
	".ex":  "elixir",
	".exs": "elixir",
	".erl": "erlang",

	// Haskell
	".hs": "haskell",

	// Lua
	".lua": "lua",

	// R
	".r": "r",
	".R": "r",

	// SQL
	".sql": "sql",

	// Docker
	"Dockerfile": "dockerfile",

	// Makefile
	"Makefile":    "makefile",
	"makefile":    "makefile",
	"GNUmakefile": "makefile",

	// Other
	".vue":     "vue",
	".svelte":  "svelte",
	".graphql": "graphql",
	".gql":     "graphql",
	".proto":   "protobuf",
}

// DetectLanguage returns the fence hint for a file path. Unknown
// extensions fall back to the bare extension so the fence still carries
// a usable hint; extensionless files get none.
func DetectLanguage(path string) string {
	// Check exact filename matches first (Dockerfile, Makefile, etc.)
	base := baseName(path)
	if lang, ok := languageMap[base]; ok {
		return lang
	}

	ext := extension(path)
	if lang, ok := languageMap[ext]; ok {
		return lang
	}

	return strings.TrimPrefix(ext, ".")
}

// baseName returns the file name from a path.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// extension returns the file extension from a path (including the dot).
func extension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}
