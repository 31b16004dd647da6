package env

import (
	"fmt"

	"github.com/sflynlang/sflyn/internal/ast"
)

// FileRegistry caches parsed files by absolute path so re-imports do not
// re-parse, and detects import cycles: a path encountered while it is
// still being loaded is an error.
type FileRegistry struct {
	files   map[string]*ast.File
	loading map[string]bool
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{files: map[string]*ast.File{}, loading: map[string]bool{}}
}

// Get returns the cached File for path, if any.
func (r *FileRegistry) Get(path string) (*ast.File, bool) {
	f, ok := r.files[path]
	return f, ok
}

// BeginLoad marks path as currently loading. It returns an error if path
// is already being loaded (an import cycle).
func (r *FileRegistry) BeginLoad(path string) error {
	if r.loading[path] {
		return fmt.Errorf("import cycle detected at %q", path)
	}
	r.loading[path] = true
	return nil
}

// FinishLoad records the parsed file and clears its loading flag.
func (r *FileRegistry) FinishLoad(path string, file *ast.File) {
	r.files[path] = file
	delete(r.loading, path)
}
