// Package semantic implements Sflyn's type checker: a single static pass
// over a parsed File (and, transitively, everything it imports) that
// assigns every expression a types.Type and reports diagnostics for
// mismatches, arity violations, const rebinding, and unresolved names.
//
// One Store[types.Type] is walked outer-to-inner on lookup and written
// only at the current frame, alongside a program-wide table of declared
// interface types consulted across file boundaries.
package semantic

import (
	"path/filepath"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/diag"
	"github.com/sflynlang/sflyn/internal/env"
	"github.com/sflynlang/sflyn/internal/loader"
	"github.com/sflynlang/sflyn/internal/parser"
	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

// Checker type-checks a program: an entry file and every file it
// transitively imports, each parsed and checked at most once.
type Checker struct {
	reg        *env.FileRegistry
	ld         loader.FileLoader
	bags       map[string]*diag.Bag             // resolved path -> diagnostics
	exports    map[string]map[string]types.Type // resolved path -> export name -> type
	interfaces map[string]*types.Interface       // interface name -> declared type, program-wide
	retStack   []types.Type                      // innermost enclosing function's declared return type
}

// NewChecker creates a Checker that loads source files through ld.
func NewChecker(ld loader.FileLoader) *Checker {
	return &Checker{
		reg:        env.NewFileRegistry(),
		ld:         ld,
		bags:       map[string]*diag.Bag{},
		exports:    map[string]map[string]types.Type{},
		interfaces: map[string]*types.Interface{},
	}
}

// CheckEntry parses and checks path and everything it imports. The
// returned Bag holds every diagnostic from every file visited; a
// non-empty bag is cause to halt before evaluation.
func (c *Checker) CheckEntry(path string) (*ast.File, *diag.Bag, error) {
	file, _, err := c.checkPath(path, ".")
	if err != nil {
		return nil, nil, err
	}
	merged := diag.NewBag(path)
	for _, b := range c.bags {
		for _, d := range b.Items() {
			merged.Add(d)
		}
	}
	return file, merged, nil
}

// checkPath loads, parses, and checks one file, returning its exported
// types. Files already visited are served from cache; a file still being
// loaded when re-encountered is an import cycle.
func (c *Checker) checkPath(importPath, fromDir string) (*ast.File, map[string]types.Type, error) {
	source, resolved, err := c.ld.Load(importPath, fromDir)
	if err != nil {
		return nil, nil, err
	}

	if file, ok := c.reg.Get(resolved); ok {
		return file, c.exports[resolved], nil
	}

	if err := c.reg.BeginLoad(resolved); err != nil {
		return nil, nil, err
	}

	bag := diag.NewBag(resolved)
	file, parseBag := parser.ParseFile(source, resolved)
	for _, d := range parseBag.Items() {
		bag.Add(d)
	}

	dir := filepath.Dir(resolved)
	store := env.New[types.Type]()
	store.Set("print", &types.Function{Args: []types.Arg{{Name: "value", Type: types.Any}}, Ret: types.Void})
	cx := &ctx{c: c, bag: bag, dir: dir}
	if bag.Empty() {
		for _, stmt := range file.Statements {
			cx.checkStmt(store, stmt)
		}
	}
	c.reg.FinishLoad(resolved, file)

	exported := map[string]types.Type{}
	for _, name := range file.Exports {
		if t, ok := store.GetLocal(name); ok {
			exported[name] = t
		}
	}

	c.bags[resolved] = bag
	c.exports[resolved] = exported
	return file, exported, nil
}

// ctx carries the per-file state checkStmt/inferExpr thread through a
// recursive-descent walk: where diagnostics land and which directory
// relative imports resolve against.
type ctx struct {
	c   *Checker
	bag *diag.Bag
	dir string
}

func (cx *ctx) errorf(n ast.Node, format string, args ...any) {
	width := len(n.TokenLiteral())
	cx.bag.Addf(n.Pos(), width, format, args...)
}

// resolveType replaces every unresolved *types.Interface{Name, Fields:
// nil} placeholder the parser produced (internal/parser/types.go) with
// the program's registered interface type, recursing through arrays,
// function signatures, hashmaps, and unions.
func (cx *ctx) resolveType(t types.Type) types.Type {
	switch tt := t.(type) {
	case nil:
		return nil
	case *types.Interface:
		if tt.Fields != nil {
			return tt
		}
		if real, ok := cx.c.interfaces[tt.Name]; ok {
			return real
		}
		cx.bag.Addf(token.Position{Line: 1, Column: 1}, 1, "undefined interface %q", tt.Name)
		return types.Any
	case *types.Array:
		return &types.Array{Elem: cx.resolveType(tt.Elem)}
	case *types.Function:
		args := make([]types.Arg, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = types.Arg{Name: a.Name, Type: cx.resolveType(a.Type), HasDefault: a.HasDefault}
		}
		return &types.Function{Args: args, Ret: cx.resolveType(tt.Ret)}
	case *types.HashMap:
		hm := types.NewHashMap()
		for _, k := range tt.FieldOrder {
			hm.Set(k, cx.resolveType(tt.Fields[k]))
		}
		return hm
	case *types.Group:
		alts := make([]types.Type, len(tt.Alts))
		for i, a := range tt.Alts {
			alts[i] = cx.resolveType(a)
		}
		return types.NewGroup(alts...)
	default:
		return t
	}
}
