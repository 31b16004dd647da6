package semantic

import (
	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/env"
	"github.com/sflynlang/sflyn/internal/types"
)

func (cx *ctx) checkBlock(store *env.Store[types.Type], block *ast.Block) {
	for _, stmt := range block.Statements {
		cx.checkStmt(store, stmt)
	}
}

func (cx *ctx) checkStmt(store *env.Store[types.Type], stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Variable:
		cx.checkVariable(store, s)
	case *ast.Function:
		cx.checkFunctionDecl(store, s)
	case *ast.Return:
		cx.checkReturn(store, s)
	case *ast.IfElse:
		cx.checkIf(store, s)
	case *ast.For:
		cx.checkFor(store, s)
	case *ast.Import:
		cx.checkImport(store, s)
	case *ast.Export:
		cx.checkStmt(store, s.Inner)
	case *ast.Interface:
		cx.checkInterfaceDecl(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			cx.inferExpr(store, s.Expression)
		}
	case *ast.Block:
		cx.checkBlock(env.Child(store), s)
	}
}

// checkVariable checks a let/const declaration: either the annotation
// and the inferred value type must agree (Any acting as top), or
// whichever is present alone becomes the binding's type.
func (cx *ctx) checkVariable(store *env.Store[types.Type], v *ast.Variable) {
	var declared types.Type
	if v.Annotation != nil {
		declared = cx.resolveType(v.Annotation)
	}

	var actual types.Type
	if v.Value != nil {
		actual = cx.inferExpr(store, v.Value)
	}

	var bound types.Type
	switch {
	case declared != nil && actual != nil:
		if !types.Equal(declared, actual) {
			cx.errorf(v, "cannot assign %s to %s (declared as %s)", actual, v.Name.Value, declared)
		}
		bound = declared
	case declared != nil:
		bound = declared
	case actual != nil:
		bound = actual
	default:
		bound = types.Any
	}

	if v.Const {
		store.SetConst(v.Name.Value, bound)
	} else {
		store.Set(v.Name.Value, bound)
	}
}

// buildFunctionType resolves a function's declared signature into a
// types.Function, without touching its body.
func (cx *ctx) buildFunctionType(args []*ast.Argument, retType types.Type) *types.Function {
	fargs := make([]types.Arg, len(args))
	for i, a := range args {
		fargs[i] = types.Arg{Name: a.Name.Value, Type: cx.resolveType(a.Type), HasDefault: a.Default != nil}
	}
	ret := types.Type(types.Void)
	if retType != nil {
		ret = cx.resolveType(retType)
	}
	return &types.Function{Args: fargs, Ret: ret}
}

// checkFunctionBody checks a function's body in a fresh scope with its
// arguments bound, enforcing that every `return` statement's value
// matches the declared return type (void when none was written).
func (cx *ctx) checkFunctionBody(outer *env.Store[types.Type], ft *types.Function, args []*ast.Argument, body *ast.Block) {
	inner := env.Child(outer)
	for i, a := range args {
		inner.Set(a.Name.Value, ft.Args[i].Type)
		if a.Default != nil {
			dt := cx.inferExpr(inner, a.Default)
			if !types.Equal(ft.Args[i].Type, dt) {
				cx.errorf(a, "default value for %s does not match its declared type %s", a.Name.Value, ft.Args[i].Type)
			}
		}
	}

	cx.c.retStack = append(cx.c.retStack, ft.Ret)
	cx.checkBlock(inner, body)
	cx.c.retStack = cx.c.retStack[:len(cx.c.retStack)-1]
}

func (cx *ctx) checkFunctionDecl(store *env.Store[types.Type], f *ast.Function) {
	ft := cx.buildFunctionType(f.Args, f.RetType)
	store.Set(f.Name.Value, ft) // bound before the body is checked: recursion is legal
	cx.checkFunctionBody(store, ft, f.Args, f.Body)
}

// inferAnonymousFunction mirrors checkFunctionDecl for the AnonymousFunction
// expression form (lambdas and `function (...) {...}` expressions).
func (cx *ctx) inferAnonymousFunction(store *env.Store[types.Type], f *ast.AnonymousFunction) types.Type {
	ft := cx.buildFunctionType(f.Args, f.RetType)
	cx.checkFunctionBody(store, ft, f.Args, f.Body)
	return ft
}

func (cx *ctx) checkReturn(store *env.Store[types.Type], r *ast.Return) {
	var actual types.Type = types.Void
	if r.ReturnValue != nil {
		actual = cx.inferExpr(store, r.ReturnValue)
	}
	if len(cx.c.retStack) == 0 {
		cx.errorf(r, "return outside of a function")
		return
	}
	want := cx.c.retStack[len(cx.c.retStack)-1]
	if want != nil && !types.Equal(want, actual) {
		cx.errorf(r, "return type %s does not match declared return type %s", actual, want)
	}
}

func (cx *ctx) checkIf(store *env.Store[types.Type], ie *ast.IfElse) {
	for _, branch := range ie.Branches {
		cx.inferExpr(store, branch.Condition)
		cx.checkBlock(env.Child(store), branch.Consequence)
	}
	if ie.Alternative != nil {
		cx.checkBlock(env.Child(store), ie.Alternative)
	}
}

func (cx *ctx) checkFor(store *env.Store[types.Type], f *ast.For) {
	loopStore := env.Child(store)

	switch cond := f.Condition.(type) {
	case *ast.ForCondition:
		if cond.Init != nil {
			cx.checkStmt(loopStore, cond.Init)
		}
		if cond.Cond != nil {
			cx.inferExpr(loopStore, cond.Cond)
		}
		if cond.Step != nil {
			cx.checkStmt(loopStore, cond.Step)
		}
	case *ast.Infix:
		cx.checkForInOf(loopStore, cond)
	}

	cx.checkBlock(env.Child(loopStore), f.Body)
}

// checkForInOf binds the loop variable(s): `in` requires an Array on the
// right and binds one identifier to the element index (number); `of`
// requires a HashMap on the right and destructures a two-element
// identifier array into a key (string) and a value (the hashmap's
// field-type union). The two forms do not overlap: `in` never accepts a
// hashmap and `of` never accepts an array.
func (cx *ctx) checkForInOf(loopStore *env.Store[types.Type], cond *ast.Infix) {
	switch cond.Operator {
	case "in":
		ident, ok := cond.Left.(*ast.Identifier)
		if !ok {
			cx.errorf(cond, "for-in requires a single bound identifier")
			return
		}
		right := cx.inferExpr(loopStore, cond.Right)
		if _, ok := right.(*types.Array); !ok {
			cx.errorf(cond, "expect an array expression")
			return
		}
		loopStore.Set(ident.Value, types.Number)
	case "of":
		pair, ok := cond.Left.(*ast.Array)
		if !ok {
			cx.errorf(cond, "for-of requires a [key, value] binding")
			return
		}
		right := cx.inferExpr(loopStore, cond.Right)
		hm, ok := right.(*types.HashMap)
		if !ok {
			cx.errorf(cond, "expect an hashmap expression")
			return
		}
		if len(pair.Elements) != 2 {
			cx.errorf(cond, "expect 2 elements, got %d instead", len(pair.Elements))
			return
		}
		names := make([]string, 2)
		for i, el := range pair.Elements {
			id, ok := el.(*ast.Identifier)
			if !ok {
				cx.errorf(cond, "is not a valid identifier")
				return
			}
			names[i] = id.Value
		}
		loopStore.Set(names[0], types.String)
		loopStore.Set(names[1], valueUnion(hm))
	}
}

func valueUnion(hm *types.HashMap) types.Type {
	if len(hm.Fields) == 0 {
		return types.Any
	}
	alts := make([]types.Type, 0, len(hm.Fields))
	for _, t := range hm.Fields {
		alts = append(alts, t)
	}
	return types.NewGroup(alts...)
}

// checkImport resolves an import's target file (recursively checking it
// if this is its first visit) and binds names into store per the four
// import forms.
func (cx *ctx) checkImport(store *env.Store[types.Type], im *ast.Import) {
	_, exported, err := cx.c.checkPath(im.Path, cx.dir)
	if err != nil {
		cx.errorf(im, "cannot import %q: %s", im.Path, err)
		return
	}

	switch im.Mode {
	case ast.ImportSideEffect:
		return
	case ast.ImportNamespace:
		hm := types.NewHashMap()
		for name, t := range exported {
			hm.Set(name, t)
		}
		store.Set(im.Namespace, hm)
	case ast.ImportNamed:
		for _, spec := range im.Specifiers {
			t, ok := exported[spec.Name]
			if !ok {
				cx.errorf(im, "%q has no export named %q", im.Path, spec.Name)
				continue
			}
			store.Set(spec.Alias, t)
		}
	}
}

func (cx *ctx) checkInterfaceDecl(i *ast.Interface) {
	if _, exists := cx.c.interfaces[i.Name.Value]; exists {
		cx.errorf(i, "interface %q is already declared", i.Name.Value)
		return
	}
	hm := types.NewHashMap()
	for _, f := range i.Fields {
		hm.Set(f.Name, cx.resolveType(f.Type))
	}
	cx.c.interfaces[i.Name.Value] = &types.Interface{Name: i.Name.Value, Fields: hm}
}
