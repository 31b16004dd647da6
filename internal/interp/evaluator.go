package interp

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/env"
	"github.com/sflynlang/sflyn/internal/loader"
	"github.com/sflynlang/sflyn/internal/parser"
)

// Evaluator executes an already type-checked program against
// Store[Value]: each file gets one store rooted at a file-local scope
// pre-seeded with the builtins, imports recursively evaluate and cache
// their target file, and cycles are rejected by the shared FileRegistry.
type Evaluator struct {
	reg     *env.FileRegistry
	ld      loader.FileLoader
	exports map[string]map[string]Value // resolved path -> export name -> value
	Out     io.Writer                   // destination for print
}

// NewEvaluator creates an Evaluator that loads source through ld. print
// writes to os.Stdout until SetOutput redirects it.
func NewEvaluator(ld loader.FileLoader) *Evaluator {
	return &Evaluator{
		reg:     env.NewFileRegistry(),
		ld:      ld,
		exports: map[string]map[string]Value{},
		Out:     os.Stdout,
	}
}

// SetOutput redirects where the print builtin writes, so tests can
// capture evaluator output without touching the real stdout.
func (e *Evaluator) SetOutput(w io.Writer) {
	e.Out = w
}

// EvalEntry evaluates path and everything it imports, for side effects.
func (e *Evaluator) EvalEntry(path string) error {
	_, _, err := e.evalPath(path, ".")
	return err
}

// rctx carries the per-file state execStmt/evalExpr thread through the
// walk: which directory relative imports resolve against.
type rctx struct {
	e   *Evaluator
	dir string
}

func (e *Evaluator) evalPath(importPath, fromDir string) (*ast.File, map[string]Value, error) {
	source, resolved, err := e.ld.Load(importPath, fromDir)
	if err != nil {
		return nil, nil, err
	}

	if file, ok := e.reg.Get(resolved); ok {
		return file, e.exports[resolved], nil
	}
	if err := e.reg.BeginLoad(resolved); err != nil {
		return nil, nil, err
	}

	file, parseBag := parser.ParseFile(source, resolved)
	if !parseBag.Empty() {
		return nil, nil, &RuntimeError{Node: file, Message: "cannot evaluate a file with parse errors: " + resolved}
	}

	dir := filepath.Dir(resolved)
	store := env.New[Value]()
	seedBuiltins(store, e.Out)
	rx := &rctx{e: e, dir: dir}

	for _, stmt := range file.Statements {
		if _, _, err := rx.execStmt(store, stmt); err != nil {
			return nil, nil, err
		}
	}
	e.reg.FinishLoad(resolved, file)

	exported := map[string]Value{}
	for _, name := range file.Exports {
		if v, ok := store.GetLocal(name); ok {
			exported[name] = v
		}
	}
	e.exports[resolved] = exported
	return file, exported, nil
}

// signal discriminates a block's early-exit outcome from falling off
// its end: Return / Continue / Break propagate as sentinel values
// through block evaluation.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
	sigContinue
)

func (rx *rctx) execBlock(store *env.Store[Value], block *ast.Block) (Value, signal, error) {
	for _, stmt := range block.Statements {
		v, sig, err := rx.execStmt(store, stmt)
		if err != nil {
			return nil, sigNone, err
		}
		if sig != sigNone {
			return v, sig, nil
		}
	}
	return Null, sigNone, nil
}

func (rx *rctx) execStmt(store *env.Store[Value], stmt ast.Statement) (Value, signal, error) {
	switch s := stmt.(type) {
	case *ast.Variable:
		return nil, sigNone, rx.execVariable(store, s)
	case *ast.Function:
		store.Set(s.Name.Value, &FunctionValue{Name: s.Name.Value, Args: s.Args, Body: s.Body, Closure: store})
		return nil, sigNone, nil
	case *ast.Return:
		var v Value = Null
		if s.ReturnValue != nil {
			var err error
			v, err = rx.evalExpr(store, s.ReturnValue)
			if err != nil {
				return nil, sigNone, err
			}
		}
		return v, sigReturn, nil
	case *ast.IfElse:
		return rx.execIf(store, s)
	case *ast.For:
		return rx.execFor(store, s)
	case *ast.Import:
		return nil, sigNone, rx.execImport(store, s)
	case *ast.Export:
		return rx.execStmt(store, s.Inner)
	case *ast.Interface:
		return nil, sigNone, nil // purely a compile-time record shape, no runtime effect
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			if _, err := rx.evalExpr(store, s.Expression); err != nil {
				return nil, sigNone, err
			}
		}
		return nil, sigNone, nil
	case *ast.Block:
		return rx.execBlock(env.Child(store), s)
	}
	return nil, sigNone, nil
}

func (rx *rctx) execVariable(store *env.Store[Value], v *ast.Variable) error {
	var value Value = Null
	if v.Value != nil {
		var err error
		value, err = rx.evalExpr(store, v.Value)
		if err != nil {
			return err
		}
	}
	if v.Const {
		store.SetConst(v.Name.Value, value)
	} else {
		store.Set(v.Name.Value, value)
	}
	return nil
}

func (rx *rctx) execIf(store *env.Store[Value], ie *ast.IfElse) (Value, signal, error) {
	for _, branch := range ie.Branches {
		cond, err := rx.evalExpr(store, branch.Condition)
		if err != nil {
			return nil, sigNone, err
		}
		if Truthy(cond) {
			return rx.execBlock(env.Child(store), branch.Consequence)
		}
	}
	if ie.Alternative != nil {
		return rx.execBlock(env.Child(store), ie.Alternative)
	}
	return Null, sigNone, nil
}

// execFor implements both for-shapes: the C-style three-slot header as
// an ordinary imperative loop, and `in`/`of` as iteration over an
// already-evaluated sequence.
func (rx *rctx) execFor(store *env.Store[Value], f *ast.For) (Value, signal, error) {
	loopStore := env.Child(store)

	switch cond := f.Condition.(type) {
	case *ast.ForCondition:
		if cond.Init != nil {
			if _, _, err := rx.execStmt(loopStore, cond.Init); err != nil {
				return nil, sigNone, err
			}
		}
		for {
			if cond.Cond != nil {
				cv, err := rx.evalExpr(loopStore, cond.Cond)
				if err != nil {
					return nil, sigNone, err
				}
				if !Truthy(cv) {
					break
				}
			}
			v, sig, err := rx.execBlock(env.Child(loopStore), f.Body)
			if err != nil {
				return nil, sigNone, err
			}
			if sig == sigReturn {
				return v, sig, nil
			}
			if sig == sigBreak {
				break
			}
			if cond.Step != nil {
				if _, _, err := rx.execStmt(loopStore, cond.Step); err != nil {
					return nil, sigNone, err
				}
			}
		}
		return Null, sigNone, nil
	case *ast.Infix:
		return rx.execForInOf(loopStore, cond, f.Body)
	}
	return Null, sigNone, nil
}

// execForInOf runs the two non-overlapping for-loop iteration forms:
// `in` iterates an Array's indices under a single bound name, `of`
// iterates a HashMap's key/value pairs under a [key, value]
// destructuring header.
func (rx *rctx) execForInOf(loopStore *env.Store[Value], cond *ast.Infix, body *ast.Block) (Value, signal, error) {
	subject, err := rx.evalExpr(loopStore, cond.Right)
	if err != nil {
		return nil, sigNone, err
	}

	switch cond.Operator {
	case "in":
		ident, ok := cond.Left.(*ast.Identifier)
		if !ok {
			return nil, sigNone, errorf(cond, "for-in requires a single bound identifier")
		}
		arr, ok := subject.(*ArrayValue)
		if !ok {
			return nil, sigNone, errorf(cond, "expect an array expression")
		}
		for i := range arr.Elements {
			loopStore.Set(ident.Value, NewNumber(float64(i)))
			v, sig, err := rx.execBlock(env.Child(loopStore), body)
			if err != nil {
				return nil, sigNone, err
			}
			if sig == sigReturn {
				return v, sig, nil
			}
			if sig == sigBreak {
				break
			}
		}
		return Null, sigNone, nil
	case "of":
		pair, ok := cond.Left.(*ast.Array)
		if !ok || len(pair.Elements) != 2 {
			return nil, sigNone, errorf(cond, "for-of requires a [key, value] binding")
		}
		hm, ok := subject.(*HashMapValue)
		if !ok {
			return nil, sigNone, errorf(cond, "expect an hashmap expression")
		}
		keyName, ok1 := pair.Elements[0].(*ast.Identifier)
		valName, ok2 := pair.Elements[1].(*ast.Identifier)
		if !ok1 || !ok2 {
			return nil, sigNone, errorf(cond, "is not a valid identifier")
		}
		for _, k := range hm.Order {
			loopStore.Set(keyName.Value, NewString(k))
			loopStore.Set(valName.Value, hm.Fields[k])
			v, sig, err := rx.execBlock(env.Child(loopStore), body)
			if err != nil {
				return nil, sigNone, err
			}
			if sig == sigReturn {
				return v, sig, nil
			}
			if sig == sigBreak {
				break
			}
		}
		return Null, sigNone, nil
	}
	return nil, sigNone, errorf(cond, "unknown for-loop operator %q", cond.Operator)
}

// execImport resolves an import's target file and binds names into
// store for each of the four import forms.
func (rx *rctx) execImport(store *env.Store[Value], im *ast.Import) error {
	_, exported, err := rx.e.evalPath(im.Path, rx.dir)
	if err != nil {
		return errorf(im, "cannot import %q: %s", im.Path, err)
	}

	switch im.Mode {
	case ast.ImportSideEffect:
		return nil
	case ast.ImportNamespace:
		hm := NewHashMapValue()
		for name, v := range exported {
			hm.Set(name, v)
		}
		store.Set(im.Namespace, hm)
	case ast.ImportNamed:
		for _, spec := range im.Specifiers {
			v, ok := exported[spec.Name]
			if !ok {
				return errorf(im, "%q has no export named %q", im.Path, spec.Name)
			}
			store.Set(spec.Alias, v)
		}
	}
	return nil
}
