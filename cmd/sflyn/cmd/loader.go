package cmd

import "github.com/sflynlang/sflyn/internal/loader"

// literalLoader serves one fixed path's source from memory (for -e
// inline snippets) and delegates everything else, including imports the
// snippet itself pulls in, to an underlying OSLoader.
type literalLoader struct {
	path   string
	source string
	fall   loader.FileLoader
}

func newLiteralLoader(path, source string) *literalLoader {
	return &literalLoader{path: path, source: source, fall: loader.NewOSLoader()}
}

func (l *literalLoader) Load(importPath, fromDir string) (string, string, error) {
	if importPath == l.path {
		return l.source, l.path, nil
	}
	return l.fall.Load(importPath, fromDir)
}
