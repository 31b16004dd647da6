package semantic

import (
	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/env"
	"github.com/sflynlang/sflyn/internal/types"
)

// inferExpr assigns every expression node a types.Type, with a diagnostic
// and types.Any as the recovery value wherever the rule is violated (so
// later siblings still get checked instead of aborting the file).
func (cx *ctx) inferExpr(store *env.Store[types.Type], expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case *ast.Identifier:
		return cx.inferIdentifier(store, e)
	case *ast.Number:
		return types.Number
	case *ast.String:
		return types.String
	case *ast.Boolean:
		return types.Boolean
	case *ast.Null:
		return types.Null
	case *ast.Array:
		return cx.inferArray(store, e)
	case *ast.HashMap:
		return cx.inferHashMap(store, e)
	case *ast.ArrayIndex:
		return cx.inferIndex(store, e)
	case *ast.Call:
		return cx.inferCall(store, e)
	case *ast.Prefix:
		return cx.inferPrefix(store, e)
	case *ast.Suffix:
		return cx.inferSuffix(store, e)
	case *ast.Infix:
		return cx.inferInfix(store, e)
	case *ast.AnonymousFunction:
		return cx.inferAnonymousFunction(store, e)
	case *ast.TypeExpr:
		return cx.resolveType(e.Type)
	}
	return types.Any
}

func (cx *ctx) inferIdentifier(store *env.Store[types.Type], id *ast.Identifier) types.Type {
	if t, ok := store.Get(id.Value); ok {
		return t
	}
	cx.errorf(id, "undefined name %q", id.Value)
	return types.Any
}

func (cx *ctx) inferArray(store *env.Store[types.Type], a *ast.Array) types.Type {
	if len(a.Elements) == 0 {
		return &types.Array{Elem: types.Any}
	}
	elemTypes := make([]types.Type, len(a.Elements))
	for i, el := range a.Elements {
		elemTypes[i] = cx.inferExpr(store, el)
	}
	return &types.Array{Elem: types.NewGroup(elemTypes...)}
}

func (cx *ctx) inferHashMap(store *env.Store[types.Type], h *ast.HashMap) types.Type {
	hm := types.NewHashMap()
	for _, pair := range h.Pairs {
		hm.Set(pair.Key, cx.inferExpr(store, pair.Value))
	}
	return hm
}

// inferIndex implements array indexing, including the -1-is-last-element
// literal: the -1 special case is purely a runtime convenience, so the
// checker only needs the element type, not the index's concrete value.
func (cx *ctx) inferIndex(store *env.Store[types.Type], ix *ast.ArrayIndex) types.Type {
	left := cx.inferExpr(store, ix.Left)
	idxType := cx.inferExpr(store, ix.Index)

	switch l := left.(type) {
	case *types.Array:
		if !types.IsNumeric(idxType) {
			cx.errorf(ix, "array index must be a number, got %s", idxType)
		}
		return l.Elem
	case *types.HashMap:
		if s, ok := ix.Index.(*ast.String); ok {
			if t, ok := l.Fields[s.Value]; ok {
				return t
			}
			cx.errorf(ix, "no field %q on %s", s.Value, left)
			return types.Any
		}
		return valueUnion(l)
	}
	cx.errorf(ix, "cannot index into %s", left)
	return types.Any
}

func (cx *ctx) inferCall(store *env.Store[types.Type], c *ast.Call) types.Type {
	fnType := cx.inferExpr(store, c.Function)
	ft, ok := fnType.(*types.Function)
	if !ok {
		cx.errorf(c, "%s is not callable", fnType)
		for _, a := range c.Args {
			cx.inferExpr(store, a)
		}
		return types.Any
	}

	n := len(c.Args)
	if n < ft.MinArgs() || n > ft.MaxArgs() {
		cx.errorf(c, "expected between %d and %d arguments, got %d", ft.MinArgs(), ft.MaxArgs(), n)
	}
	for i, a := range c.Args {
		at := cx.inferExpr(store, a)
		if i < len(ft.Args) && !types.Equal(ft.Args[i].Type, at) {
			cx.errorf(a, "argument %d: cannot use %s as %s", i+1, at, ft.Args[i].Type)
		}
	}
	return ft.Ret
}

func (cx *ctx) inferPrefix(store *env.Store[types.Type], p *ast.Prefix) types.Type {
	right := cx.inferExpr(store, p.Right)
	switch p.Operator {
	case "!":
		return types.Boolean
	case "-":
		if !types.IsNumeric(right) {
			cx.errorf(p, "unary - requires a number, got %s", right)
		}
		return types.Number
	}
	return types.Any
}

func (cx *ctx) inferSuffix(store *env.Store[types.Type], s *ast.Suffix) types.Type {
	left := cx.inferExpr(store, s.Left)
	if !types.IsNumeric(left) {
		cx.errorf(s, "%s requires a number, got %s", s.Operator, left)
	}
	return types.Number
}

func (cx *ctx) inferInfix(store *env.Store[types.Type], in *ast.Infix) types.Type {
	switch in.Kind {
	case ast.InfixAssign:
		return cx.inferAssign(store, in)
	case ast.InfixMethod:
		return cx.inferMethod(store, in)
	case ast.InfixAs:
		left := cx.inferExpr(store, in.Left)
		_ = left
		return cx.inferExpr(store, in.Right)
	case ast.InfixInOf:
		// Only reachable if `in`/`of` is misused outside a for-condition;
		// checkFor handles the legitimate case directly.
		cx.errorf(in, "'%s' is only valid in a for-loop condition", in.Operator)
		return types.Any
	}
	return cx.inferBinary(store, in)
}

func (cx *ctx) inferBinary(store *env.Store[types.Type], in *ast.Infix) types.Type {
	left := cx.inferExpr(store, in.Left)
	right := cx.inferExpr(store, in.Right)

	switch in.Operator {
	case "+":
		if types.IsString(left) && types.IsString(right) {
			return types.String
		}
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return types.Number
		}
		cx.errorf(in, "operator + requires two numbers or two strings, got %s and %s", left, right)
		return types.Any
	case "-", "*", "/", "%", "**", "^":
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			cx.errorf(in, "operator %s requires two numbers, got %s and %s", in.Operator, left, right)
		}
		return types.Number
	case "<", "<=", ">", ">=":
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			cx.errorf(in, "operator %s requires two numbers, got %s and %s", in.Operator, left, right)
		}
		return types.Boolean
	case "==", "!=", "===", "!==":
		return types.Boolean
	case "&&":
		if !types.IsBoolean(left) || !types.IsBoolean(right) {
			cx.errorf(in, "operator && requires two booleans, got %s and %s", left, right)
		}
		return types.Boolean
	case "||":
		if types.Equal(left, types.Null) {
			return right
		}
		if !types.Equal(left, right) {
			cx.errorf(in, "operator || requires matching operand types, got %s and %s", left, right)
		}
		return left
	}
	return types.Any
}

// inferAssign checks an assignment: assigning to a name that is const in
// its declaring scope is a diagnostic, not a panic.
func (cx *ctx) inferAssign(store *env.Store[types.Type], in *ast.Infix) types.Type {
	right := cx.inferExpr(store, in.Right)

	id, ok := in.Left.(*ast.Identifier)
	if !ok {
		// Index-target assignment, e.g. arr[0] = 1.
		left := cx.inferExpr(store, in.Left)
		if in.Operator != "=" && !types.IsNumeric(left) {
			cx.errorf(in, "operator %s requires a number target", in.Operator)
		} else if !types.Equal(left, right) {
			cx.errorf(in, "cannot assign %s to %s", right, left)
		}
		return left
	}

	declared, ok := store.Get(id.Value)
	if !ok {
		cx.errorf(id, "undefined name %q", id.Value)
		return right
	}
	if store.ConstOwner(id.Value) {
		cx.errorf(in, "%s is a const", id.Value)
	}
	if in.Operator != "=" && !types.IsNumeric(declared) {
		cx.errorf(in, "operator %s requires a number, got %s", in.Operator, declared)
	} else if !types.Equal(declared, right) {
		cx.errorf(in, "cannot assign %s to %s (declared as %s)", right, id.Value, declared)
	}
	return declared
}

// inferMethod implements `a->b`: field access on a hashmap or interface
// value, or one of a small set of builtin methods lifted onto arrays and
// strings.
func (cx *ctx) inferMethod(store *env.Store[types.Type], in *ast.Infix) types.Type {
	left := cx.inferExpr(store, in.Left)

	switch r := in.Right.(type) {
	case *ast.Identifier:
		if hm, ok := hashMapOf(left); ok {
			if t, ok := hm.Fields[r.Value]; ok {
				return t
			}
		}
		if ft, ok := builtinMethod(left, r.Value); ok {
			return ft
		}
		cx.errorf(in, "%s has no field or method %q", left, r.Value)
		return types.Any
	case *ast.Call:
		name, ok := r.Function.(*ast.Identifier)
		if !ok {
			cx.errorf(in, "method call must name a method")
			return types.Any
		}
		var ft *types.Function
		if hm, ok := hashMapOf(left); ok {
			if t, ok := hm.Fields[name.Value]; ok {
				ft, _ = t.(*types.Function)
			}
		}
		if ft == nil {
			if bt, ok := builtinMethod(left, name.Value); ok {
				ft, _ = bt.(*types.Function)
			}
		}
		if ft == nil {
			cx.errorf(in, "%s has no method %q", left, name.Value)
			for _, a := range r.Args {
				cx.inferExpr(store, a)
			}
			return types.Any
		}
		for _, a := range r.Args {
			cx.inferExpr(store, a)
		}
		return ft.Ret
	}
	cx.errorf(in, "invalid method access")
	return types.Any
}

func hashMapOf(t types.Type) (*types.HashMap, bool) {
	switch tt := t.(type) {
	case *types.HashMap:
		return tt, true
	case *types.Interface:
		return tt.Fields, true
	}
	return nil, false
}

// builtinMethod implements the handful of stdlib-type methods lifted onto
// arrays and strings.
func builtinMethod(receiver types.Type, name string) (types.Type, bool) {
	switch r := receiver.(type) {
	case *types.Array:
		switch name {
		case "push":
			return &types.Function{Args: []types.Arg{{Name: "value", Type: r.Elem}}, Ret: types.Void}, true
		case "pop":
			return &types.Function{Ret: r.Elem}, true
		case "length":
			return &types.Function{Ret: types.Number}, true
		}
	case types.Primitive:
		if r == types.String && name == "length" {
			return &types.Function{Ret: types.Number}, true
		}
	}
	return nil, false
}
