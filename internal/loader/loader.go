// Package loader resolves Sflyn import paths to source text: relative
// paths resolve against the importing file's directory, absolute paths
// are used as written, and bare names are searched across a configurable
// list of library directories.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader resolves an import path (as written in an `import`
// statement, relative to fromDir) to its source text and a canonical,
// stable path used as the file's cache key in the semantic checker and
// evaluator's file registries.
type FileLoader interface {
	Load(importPath, fromDir string) (source, resolvedPath string, err error)
}

// SourceExt is the extension Sflyn source files carry.
const SourceExt = ".sf"

// OSLoader reads files from disk. Bare import names (no leading "." or
// "/") are searched across SearchPaths, ordinarily seeded from the
// SFLYN_PATH environment variable (the std directory under each
// os.PathListSeparator entry), followed by ./std relative to the
// working directory.
type OSLoader struct {
	SearchPaths []string
}

// NewOSLoader builds an OSLoader whose search path is the std directory
// under each SFLYN_PATH entry, with "std" always appended as the last
// entry.
func NewOSLoader() *OSLoader {
	l := &OSLoader{}
	if raw := os.Getenv("SFLYN_PATH"); raw != "" {
		for _, dir := range filepath.SplitList(raw) {
			l.SearchPaths = append(l.SearchPaths, filepath.Join(dir, "std"))
		}
	}
	l.SearchPaths = append(l.SearchPaths, "std")
	return l
}

func ensureExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + SourceExt
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load resolves importPath: paths starting with "." or ".." resolve
// relative to fromDir; absolute paths pass through unchanged; anything
// else is a bare library name searched across SearchPaths in order.
func (l *OSLoader) Load(importPath, fromDir string) (string, string, error) {
	var candidate string

	switch {
	case filepath.IsAbs(importPath):
		candidate = ensureExt(importPath)
	case strings.HasPrefix(importPath, "."):
		candidate = ensureExt(filepath.Join(fromDir, importPath))
	default:
		resolved, err := l.searchBareName(importPath)
		if err != nil {
			return "", "", err
		}
		candidate = resolved
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %q: %w", candidate, err)
	}

	resolved, err := filepath.Abs(candidate)
	if err != nil {
		resolved = candidate
	}
	return string(data), resolved, nil
}

func (l *OSLoader) searchBareName(name string) (string, error) {
	want := ensureExt(name)
	for _, dir := range l.SearchPaths {
		candidate := filepath.Join(dir, want)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no source file found for %q (searched %v)", name, l.SearchPaths)
}
