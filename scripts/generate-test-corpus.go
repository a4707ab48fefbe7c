//go:build ignore

// Package main generates a synthetic project tree for benchmarking and
// manually exercising codecat: source files in several languages, nested
// .gitignore files, ignored build/vendor directories full of junk, and a
// few binary blobs. Running codecat over the result should combine the
// source files and skip everything else.
//
// Usage: go run scripts/generate-test-corpus.go -files 1000 -output testdata/bench
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	numFiles  = flag.Int("files", 1000, "Number of source files to generate")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var goTemplate = `package %s

import (
	"fmt"
	"time"
)

// %s tracks %s state for one run.
type %s struct {
	name    string
	started time.Time
	entries []string
}

// New%s creates an empty %s.
func New%s(name string) *%s {
	return &%s{name: name, started: time.Now()}
}

// Add records one entry.
func (c *%s) Add(entry string) {
	c.entries = append(c.entries, entry)
}

// Summary describes what was recorded.
func (c *%s) Summary() string {
	return fmt.Sprintf("%%s: %%d entries since %%s", c.name, len(c.entries), c.started.Format(time.RFC3339))
}
`

var pyTemplate = `"""%s helpers for %s."""

from dataclasses import dataclass, field
from typing import List


@dataclass
class %s:
    """Accumulates %s entries."""

    name: str
    entries: List[str] = field(default_factory=list)

    def add(self, entry: str) -> None:
        self.entries.append(entry)

    def summary(self) -> str:
        return f"{self.name}: {len(self.entries)} entries"
`

var mdTemplate = `# %s

Notes on the %s layer.

## Usage

` + "```go" + `
c := New%s("example")
c.Add("entry")
fmt.Println(c.Summary())
` + "```" + `

## Caveats

- Entries are kept in memory; very large runs should batch.
- Names are not deduplicated.
`

var logTemplate = `2026-01-02T15:04:05Z INFO %s started
2026-01-02T15:04:06Z DEBUG %s processed 128 entries
2026-01-02T15:04:07Z INFO %s finished
`

// rootGitignore is written at the corpus root; the nested one inside
// src/ re-includes one log file so negation paths get exercised too.
const rootGitignore = `*.log
build/
vendor/
*.tmp
`

const nestedGitignore = `!keep.log
`

var (
	nouns = []string{
		"collector", "tracker", "recorder", "register", "journal",
		"ledger", "catalog", "index", "roster", "manifest",
	}
	domains = []string{
		"ingest", "billing", "audit", "session", "inventory",
		"telemetry", "routing", "quota", "archive", "search",
	}
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	for _, dir := range []string{"src", "src/deep", "docs", "build", "vendor/junk", "assets"} {
		if err := os.MkdirAll(filepath.Join(*outputDir, dir), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generating %d files in %s...\n", *numFiles, *outputDir)

	goFiles := *numFiles * 50 / 100
	pyFiles := *numFiles * 25 / 100
	mdFiles := *numFiles - goFiles - pyFiles

	for i := 0; i < goFiles; i++ {
		writeGoFile(rng, i)
	}
	for i := 0; i < pyFiles; i++ {
		writePyFile(rng, i)
	}
	for i := 0; i < mdFiles; i++ {
		writeMdFile(rng, i)
	}

	writeIgnoredNoise(rng)
	writeIgnoreFiles()
	writeBinaries(rng)

	fmt.Printf("Done. Expect roughly %d combined files; build/, vendor/, *.log and binaries should be skipped.\n", *numFiles)
}

func writeGoFile(rng *rand.Rand, index int) {
	noun := nouns[rng.Intn(len(nouns))]
	domain := domains[rng.Intn(len(domains))]
	typeName := capitalize(noun)

	content := fmt.Sprintf(goTemplate,
		fmt.Sprintf("pkg%d", index),
		typeName, domain, typeName,
		typeName, typeName, typeName, typeName, typeName,
		typeName,
		typeName,
	)

	dir := "src"
	if index%7 == 0 {
		dir = "src/deep"
	}
	name := filepath.Join(*outputDir, dir, fmt.Sprintf("%s_%d.go", noun, index))
	mustWrite(name, content)
}

func writePyFile(rng *rand.Rand, index int) {
	noun := nouns[rng.Intn(len(nouns))]
	domain := domains[rng.Intn(len(domains))]

	content := fmt.Sprintf(pyTemplate, capitalize(noun), domain, capitalize(noun), domain)
	name := filepath.Join(*outputDir, "src", fmt.Sprintf("%s_%d.py", noun, index))
	mustWrite(name, content)
}

func writeMdFile(rng *rand.Rand, index int) {
	noun := nouns[rng.Intn(len(nouns))]
	domain := domains[rng.Intn(len(domains))]

	content := fmt.Sprintf(mdTemplate, capitalize(noun), domain, capitalize(noun))
	name := filepath.Join(*outputDir, "docs", fmt.Sprintf("%s_%d.md", noun, index))
	mustWrite(name, content)
}

// writeIgnoredNoise fills the directories the rules should prune.
func writeIgnoredNoise(rng *rand.Rand) {
	for i := 0; i < 50; i++ {
		noun := nouns[rng.Intn(len(nouns))]
		mustWrite(filepath.Join(*outputDir, "build", fmt.Sprintf("out_%d.tmp", i)), "scratch\n")
		mustWrite(filepath.Join(*outputDir, "vendor", "junk", fmt.Sprintf("dep_%d.go", i)), "package junk\n")
		mustWrite(filepath.Join(*outputDir, fmt.Sprintf("run_%d.log", i)), fmt.Sprintf(logTemplate, noun, noun, noun))
	}
	// The nested negation target: excluded by the root *.log rule,
	// re-included by src/deep/.gitignore.
	mustWrite(filepath.Join(*outputDir, "src", "deep", "keep.log"), "kept by negation\n")
}

func writeIgnoreFiles() {
	mustWrite(filepath.Join(*outputDir, ".gitignore"), rootGitignore)
	mustWrite(filepath.Join(*outputDir, "src", "deep", ".gitignore"), nestedGitignore)
}

// writeBinaries drops undecodable files that the combiner must skip.
func writeBinaries(rng *rand.Rand) {
	for i := 0; i < 5; i++ {
		blob := make([]byte, 4096)
		rng.Read(blob)
		blob[0] = 0x00
		name := filepath.Join(*outputDir, "assets", fmt.Sprintf("blob_%d.dat", i))
		if err := os.WriteFile(name, blob, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func mustWrite(name, content string) {
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
		os.Exit(1)
	}
}
