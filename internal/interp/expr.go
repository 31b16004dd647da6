package interp

import (
	"math"
	"strings"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/env"
)

// evalExpr implements Sflyn's expression rules: every expression node
// produces a Value or a RuntimeError, mirroring semantic.inferExpr's
// switch one-for-one but over values instead of types.
func (rx *rctx) evalExpr(store *env.Store[Value], expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if v, ok := store.Get(e.Value); ok {
			return v, nil
		}
		return nil, errorf(e, "identifier not found: %s", e.Value)
	case *ast.Number:
		return NewNumber(e.Value), nil
	case *ast.String:
		return NewString(e.Value), nil
	case *ast.Boolean:
		return NewBoolean(e.Value), nil
	case *ast.Null:
		return Null, nil
	case *ast.Array:
		return rx.evalArray(store, e)
	case *ast.HashMap:
		return rx.evalHashMap(store, e)
	case *ast.ArrayIndex:
		return rx.evalIndex(store, e)
	case *ast.Call:
		return rx.evalCall(store, e)
	case *ast.Prefix:
		return rx.evalPrefix(store, e)
	case *ast.Suffix:
		return rx.evalSuffix(store, e)
	case *ast.Infix:
		return rx.evalInfix(store, e)
	case *ast.AnonymousFunction:
		return &FunctionValue{Args: e.Args, Body: e.Body, Closure: store}, nil
	case *ast.TypeExpr:
		// Only ever appears as the Right operand of an `as`-alias Infix;
		// evalAs evaluates the Left side and never recurses into this node.
		return Null, nil
	}
	return nil, errorf(expr, "cannot evaluate %T", expr)
}

func (rx *rctx) evalArray(store *env.Store[Value], a *ast.Array) (Value, error) {
	elems := make([]Value, len(a.Elements))
	for i, el := range a.Elements {
		v, err := rx.evalExpr(store, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &ArrayValue{Elements: elems}, nil
}

func (rx *rctx) evalHashMap(store *env.Store[Value], h *ast.HashMap) (Value, error) {
	hm := NewHashMapValue()
	for _, pair := range h.Pairs {
		v, err := rx.evalExpr(store, pair.Value)
		if err != nil {
			return nil, err
		}
		hm.Set(pair.Key, v)
	}
	return hm, nil
}

// evalIndex implements a[i]: array indexing with the -1-means-last
// convention and hashmap field access by string key.
func (rx *rctx) evalIndex(store *env.Store[Value], ix *ast.ArrayIndex) (Value, error) {
	left, err := rx.evalExpr(store, ix.Left)
	if err != nil {
		return nil, err
	}
	idx, err := rx.evalExpr(store, ix.Index)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case *ArrayValue:
		n, ok := idx.(*NumberValue)
		if !ok {
			return nil, errorf(ix, "array index must be a number, got %s", idx.Type())
		}
		if n.Value != math.Trunc(n.Value) {
			return nil, errorf(ix, "array index must be a whole number, got %s", n.String())
		}
		i := int(n.Value)
		if i == -1 {
			i = len(l.Elements) - 1
		} else if i < 0 {
			return nil, errorf(ix, "negative array index %d not allowed (only -1 means last element)", i)
		}
		if i < 0 || i >= len(l.Elements) {
			return nil, errorf(ix, "array index %d out of range (length %d)", i, len(l.Elements))
		}
		return l.Elements[i], nil
	case *HashMapValue:
		s, ok := idx.(*StringValue)
		if !ok {
			return nil, errorf(ix, "hashmap index must be a string, got %s", idx.Type())
		}
		v, ok := l.Fields[s.Value]
		if !ok {
			return nil, errorf(ix, "no field %q on hashmap", s.Value)
		}
		return v, nil
	}
	return nil, errorf(ix, "cannot index into %s", left.Type())
}

func (rx *rctx) evalCall(store *env.Store[Value], c *ast.Call) (Value, error) {
	fnVal, err := rx.evalExpr(store, c.Function)
	if err != nil {
		return nil, err
	}
	args, err := rx.evalArgs(store, c.Args)
	if err != nil {
		return nil, err
	}
	return rx.invoke(c, fnVal, args)
}

// evalArgs evaluates a call's arguments left-to-right, short-circuiting
// on the first error.
func (rx *rctx) evalArgs(store *env.Store[Value], exprs []ast.Expression) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, a := range exprs {
		v, err := rx.evalExpr(store, a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// invoke calls fnVal, a user FunctionValue or a BuiltinValue, with
// already-evaluated args. A user function's new frame is a child of its
// captured closure, not of the caller's frame.
func (rx *rctx) invoke(node ast.Node, fnVal Value, args []Value) (Value, error) {
	switch fn := fnVal.(type) {
	case *FunctionValue:
		frame := env.Child(fn.Closure)
		for i, a := range fn.Args {
			if i < len(args) {
				frame.Set(a.Name.Value, args[i])
				continue
			}
			if a.Default != nil {
				dv, err := rx.evalExpr(frame, a.Default)
				if err != nil {
					return nil, err
				}
				frame.Set(a.Name.Value, dv)
				continue
			}
			frame.Set(a.Name.Value, Null)
		}
		v, sig, err := rx.execBlock(frame, fn.Body)
		if err != nil {
			return nil, err
		}
		if sig == sigReturn {
			return v, nil
		}
		return Null, nil
	case *BuiltinValue:
		v, err := fn.Fn(args)
		if err != nil {
			return nil, errorf(node, "%s", err)
		}
		return v, nil
	default:
		return nil, errorf(node, "%s is not callable", fnVal.Type())
	}
}

func (rx *rctx) evalPrefix(store *env.Store[Value], p *ast.Prefix) (Value, error) {
	right, err := rx.evalExpr(store, p.Right)
	if err != nil {
		return nil, err
	}
	switch p.Operator {
	case "!":
		return NewBoolean(!Truthy(right)), nil
	case "-":
		n, ok := right.(*NumberValue)
		if !ok {
			return nil, errorf(p, "unary - requires a number, got %s", right.Type())
		}
		return NewNumber(-n.Value), nil
	}
	return nil, errorf(p, "unknown prefix operator %q", p.Operator)
}

// evalSuffix implements x++/x--: read, add/subtract one, write back to
// the frame that declared x.
func (rx *rctx) evalSuffix(store *env.Store[Value], s *ast.Suffix) (Value, error) {
	id, ok := s.Left.(*ast.Identifier)
	if !ok {
		return nil, errorf(s, "%s requires an identifier operand", s.Operator)
	}
	cur, ok := store.Get(id.Value)
	if !ok {
		return nil, errorf(id, "identifier not found: %s", id.Value)
	}
	if store.ConstOwner(id.Value) {
		return nil, errorf(s, "%s is a const", id.Value)
	}
	n, ok := cur.(*NumberValue)
	if !ok {
		return nil, errorf(s, "%s requires a number, got %s", s.Operator, cur.Type())
	}
	delta := 1.0
	if s.Operator == "--" {
		delta = -1.0
	}
	updated := NewNumber(n.Value + delta)
	store.Update(id.Value, updated)
	return updated, nil
}

func (rx *rctx) evalInfix(store *env.Store[Value], in *ast.Infix) (Value, error) {
	switch in.Kind {
	case ast.InfixAssign:
		return rx.evalAssign(store, in)
	case ast.InfixMethod:
		return rx.evalMethod(store, in)
	case ast.InfixAs:
		// `a as T` is a compile-time-only annotation; at runtime it
		// evaluates to its left operand unchanged.
		return rx.evalExpr(store, in.Left)
	case ast.InfixInOf:
		return nil, errorf(in, "'%s' is only valid in a for-loop condition", in.Operator)
	}
	return rx.evalBinary(store, in)
}

// evalBinary implements Sflyn's operator table, including &&/||
// short-circuiting: the right operand is only evaluated when the left
// doesn't already determine the result.
func (rx *rctx) evalBinary(store *env.Store[Value], in *ast.Infix) (Value, error) {
	switch in.Operator {
	case "&&":
		left, err := rx.evalExpr(store, in.Left)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(*BooleanValue)
		if !ok {
			return nil, errorf(in, "&& requires a boolean, got %s", left.Type())
		}
		if !lb.Value {
			return NewBoolean(false), nil
		}
		right, err := rx.evalExpr(store, in.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(*BooleanValue)
		if !ok {
			return nil, errorf(in, "&& requires a boolean, got %s", right.Type())
		}
		return NewBoolean(rb.Value), nil
	case "||":
		left, err := rx.evalExpr(store, in.Left)
		if err != nil {
			return nil, err
		}
		if !isOrFallthrough(left) {
			return left, nil
		}
		return rx.evalExpr(store, in.Right)
	}

	left, err := rx.evalExpr(store, in.Left)
	if err != nil {
		return nil, err
	}
	right, err := rx.evalExpr(store, in.Right)
	if err != nil {
		return nil, err
	}
	return evalBinaryOp(in, in.Operator, left, right)
}

// isOrFallthrough implements Sflyn's `||` rule precisely: it returns the
// right operand when the left is null, the empty string, or false, a
// narrower set than the if/else truthiness test in Truthy.
func isOrFallthrough(v Value) bool {
	switch vv := v.(type) {
	case *NullValue:
		return true
	case *BooleanValue:
		return !vv.Value
	case *StringValue:
		return vv.Value == ""
	}
	return false
}

// evalBinaryOp implements every non-short-circuiting binary operator
// once both operands are already evaluated.
func evalBinaryOp(node ast.Node, op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		if isStringValue(left) || isStringValue(right) {
			return NewString(left.String() + right.String()), nil
		}
		ln, lok := left.(*NumberValue)
		rn, rok := right.(*NumberValue)
		if lok && rok {
			return NewNumber(ln.Value + rn.Value), nil
		}
		return nil, errorf(node, "operator + requires two numbers or two strings, got %s and %s", left.Type(), right.Type())
	case "-", "*", "/", "%", "**", "^":
		ln, lok := left.(*NumberValue)
		rn, rok := right.(*NumberValue)
		if !lok || !rok {
			return nil, errorf(node, "operator %s requires two numbers, got %s and %s", op, left.Type(), right.Type())
		}
		switch op {
		case "-":
			return NewNumber(ln.Value - rn.Value), nil
		case "*":
			return NewNumber(ln.Value * rn.Value), nil
		case "/":
			// Division by zero is not special-cased: it yields IEEE
			// Inf/NaN per the host float model.
			return NewNumber(ln.Value / rn.Value), nil
		case "%":
			return NewNumber(math.Mod(ln.Value, rn.Value)), nil
		default: // "**", "^"
			return NewNumber(math.Pow(ln.Value, rn.Value)), nil
		}
	case "<", "<=", ">", ">=":
		return evalComparison(node, op, left, right)
	case "==":
		return NewBoolean(HashEqual(left, right)), nil
	case "!=":
		return NewBoolean(!HashEqual(left, right)), nil
	case "===":
		return NewBoolean(StructuralEqual(left, right)), nil
	case "!==":
		return NewBoolean(!StructuralEqual(left, right)), nil
	}
	return nil, errorf(node, "unknown operator %q", op)
}

func evalComparison(node ast.Node, op string, left, right Value) (Value, error) {
	ln, lok := left.(*NumberValue)
	rn, rok := right.(*NumberValue)
	if !lok || !rok {
		return nil, errorf(node, "operator %s requires two numbers, got %s and %s", op, left.Type(), right.Type())
	}
	return NewBoolean(compareNumbers(op, ln.Value, rn.Value)), nil
}

func compareNumbers(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default: // ">="
		return a >= b
	}
}

func isStringValue(v Value) bool {
	_, ok := v.(*StringValue)
	return ok
}

// evalAssign implements `=`, `+=`, `-=`, `*=`, `/=` against either a bare
// identifier or an array/hashmap index target, including the
// const-reassignment failure.
func (rx *rctx) evalAssign(store *env.Store[Value], in *ast.Infix) (Value, error) {
	rightVal, err := rx.evalExpr(store, in.Right)
	if err != nil {
		return nil, err
	}

	if id, ok := in.Left.(*ast.Identifier); ok {
		cur, ok := store.Get(id.Value)
		if !ok {
			return nil, errorf(id, "identifier not found: %s", id.Value)
		}
		if store.ConstOwner(id.Value) {
			return nil, errorf(in, "%s is a const", id.Value)
		}
		newVal, err := applyAssignOp(in, in.Operator, cur, rightVal)
		if err != nil {
			return nil, err
		}
		store.Update(id.Value, newVal)
		return newVal, nil
	}

	ix, ok := in.Left.(*ast.ArrayIndex)
	if !ok {
		return nil, errorf(in, "invalid assignment target")
	}
	return rx.evalIndexAssign(store, ix, in.Operator, rightVal)
}

func applyAssignOp(node ast.Node, op string, cur, rhs Value) (Value, error) {
	if op == "=" {
		return rhs, nil
	}
	return evalBinaryOp(node, strings.TrimSuffix(op, "="), cur, rhs)
}

func (rx *rctx) evalIndexAssign(store *env.Store[Value], ix *ast.ArrayIndex, op string, rhs Value) (Value, error) {
	left, err := rx.evalExpr(store, ix.Left)
	if err != nil {
		return nil, err
	}
	idx, err := rx.evalExpr(store, ix.Index)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case *ArrayValue:
		n, ok := idx.(*NumberValue)
		if !ok || n.Value != math.Trunc(n.Value) {
			return nil, errorf(ix, "array index must be a whole number")
		}
		i := int(n.Value)
		if i == -1 {
			i = len(l.Elements) - 1
		}
		if i < 0 || i >= len(l.Elements) {
			return nil, errorf(ix, "array index %d out of range (length %d)", i, len(l.Elements))
		}
		newVal, err := applyAssignOp(ix, op, l.Elements[i], rhs)
		if err != nil {
			return nil, err
		}
		l.Elements[i] = newVal
		return newVal, nil
	case *HashMapValue:
		s, ok := idx.(*StringValue)
		if !ok {
			return nil, errorf(ix, "hashmap index must be a string, got %s", idx.Type())
		}
		cur := l.Fields[s.Value]
		if cur == nil {
			cur = Null
		}
		newVal, err := applyAssignOp(ix, op, cur, rhs)
		if err != nil {
			return nil, err
		}
		l.Set(s.Value, newVal)
		return newVal, nil
	}
	return nil, errorf(ix, "cannot index into %s", left.Type())
}

// evalMethod implements `a->b`: field access on a hashmap value, or one
// of the builtin methods lifted onto arrays and strings.
func (rx *rctx) evalMethod(store *env.Store[Value], in *ast.Infix) (Value, error) {
	left, err := rx.evalExpr(store, in.Left)
	if err != nil {
		return nil, err
	}

	switch r := in.Right.(type) {
	case *ast.Identifier:
		if hm, ok := left.(*HashMapValue); ok {
			if v, ok := hm.Fields[r.Value]; ok {
				return v, nil
			}
		}
		if v, ok := builtinMethodValue(left, r.Value); ok {
			return v, nil
		}
		return nil, errorf(in, "%s has no field or method %q", left.Type(), r.Value)
	case *ast.Call:
		name, ok := r.Function.(*ast.Identifier)
		if !ok {
			return nil, errorf(in, "method call must name a method")
		}
		args, err := rx.evalArgs(store, r.Args)
		if err != nil {
			return nil, err
		}
		if hm, ok := left.(*HashMapValue); ok {
			if v, ok := hm.Fields[name.Value]; ok {
				return rx.invoke(r, v, args)
			}
		}
		if v, ok := builtinMethodValue(left, name.Value); ok {
			return rx.invoke(r, v, args)
		}
		return nil, errorf(in, "%s has no method %q", left.Type(), name.Value)
	}
	return nil, errorf(in, "invalid method access")
}
