// Package interp implements Sflyn's tree-walking evaluator: it mirrors
// internal/semantic's structure closely, but produces a Value per
// expression against a Store[Value] instead of a Type against a
// Store[types.Type].
//
// Value is a closed interface with Type()/String(), one concrete struct
// per runtime kind, and New*Value constructors; closures capture their
// defining scope by reference rather than by snapshot.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/env"
)

// Value is the runtime value union.
type Value interface {
	Type() string
	String() string
}

// NullValue is the sole null value.
type NullValue struct{}

func (n *NullValue) Type() string   { return "null" }
func (n *NullValue) String() string { return "null" }

var Null = &NullValue{}

type BooleanValue struct{ Value bool }

func (b *BooleanValue) Type() string { return "boolean" }
func (b *BooleanValue) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func NewBoolean(v bool) *BooleanValue { return &BooleanValue{Value: v} }

// NumberValue is Sflyn's sole numeric kind: an IEEE-754 double.
type NumberValue struct{ Value float64 }

func (n *NumberValue) Type() string { return "number" }
func (n *NumberValue) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func NewNumber(v float64) *NumberValue { return &NumberValue{Value: v} }

type StringValue struct{ Value string }

func (s *StringValue) Type() string   { return "string" }
func (s *StringValue) String() string { return s.Value }

func NewString(v string) *StringValue { return &StringValue{Value: v} }

// ArrayValue is a mutable, ordered sequence; its builtins mutate in
// place (push/pop).
type ArrayValue struct{ Elements []Value }

func (a *ArrayValue) Type() string { return "array" }
func (a *ArrayValue) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// HashMapValue is a structural record: field order is kept so String()
// is stable and so iteration order for `for ([k, v] of h)` is
// deterministic.
type HashMapValue struct {
	Fields map[string]Value
	Order  []string
}

func NewHashMapValue() *HashMapValue {
	return &HashMapValue{Fields: map[string]Value{}}
}

func (h *HashMapValue) Set(name string, v Value) {
	if _, exists := h.Fields[name]; !exists {
		h.Order = append(h.Order, name)
	}
	h.Fields[name] = v
}

func (h *HashMapValue) Type() string { return "hashmap" }
func (h *HashMapValue) String() string {
	parts := make([]string, 0, len(h.Fields))
	order := h.Order
	if len(order) != len(h.Fields) {
		order = make([]string, 0, len(h.Fields))
		for k := range h.Fields {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", k, h.Fields[k].String()))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// FunctionValue is a user-defined function or lambda. Closure is a
// *reference* to the store frame active where the function was defined,
// not a snapshot, so later mutations to captured variables are visible
// inside the closure.
type FunctionValue struct {
	Name    string // empty for anonymous functions
	Args    []*ast.Argument
	Body    *ast.Block
	Closure *env.Store[Value]
}

func (f *FunctionValue) Type() string { return "function" }
func (f *FunctionValue) String() string {
	if f.Name != "" {
		return "<function " + f.Name + ">"
	}
	return "<function>"
}

// BuiltinFunc is the Go implementation behind a BuiltinValue.
type BuiltinFunc func(args []Value) (Value, error)

// BuiltinValue wraps a host function exposed to Sflyn. The only true
// builtin is print; std/log.sf and friends wrap it, rather than the
// interpreter growing more builtins.
type BuiltinValue struct {
	Name string
	Fn   BuiltinFunc
}

func (b *BuiltinValue) Type() string   { return "builtin" }
func (b *BuiltinValue) String() string { return "<builtin " + b.Name + ">" }

// Truthy implements Sflyn's if/for truthiness rule: everything is
// truthy except null and boolean false.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case *NullValue:
		return false
	case *BooleanValue:
		return vv.Value
	}
	return true
}

// hashKey implements Sflyn's intentionally lossy `==` fast-path digest:
// string/number/boolean values hash to a float64, with cross-type
// collisions preserved rather than guarded against. This is documented
// behavior, not a bug to fix.
func hashKey(v Value) (float64, bool) {
	switch vv := v.(type) {
	case *NumberValue:
		return vv.Value, true
	case *BooleanValue:
		if vv.Value {
			return 1.0, true
		}
		return 0.0, true
	case *StringValue:
		var sum float64
		for _, b := range []byte(vv.Value) {
			sum += float64(b)
		}
		return sum, true
	}
	return 0, false
}

// HashEqual implements `==`: hash-key equality where both sides hash,
// else structural equality as a fallback for non-scalar values.
func HashEqual(a, b Value) bool {
	ak, aok := hashKey(a)
	bk, bok := hashKey(b)
	if aok && bok {
		return ak == bk
	}
	return StructuralEqual(a, b)
}

// StructuralEqual implements `===`: full deep comparison, distinct from
// HashEqual's lossy digest.
func StructuralEqual(a, b Value) bool {
	switch av := a.(type) {
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *BooleanValue:
		bv, ok := b.(*BooleanValue)
		return ok && av.Value == bv.Value
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !StructuralEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *HashMapValue:
		bv, ok := b.(*HashMapValue)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			bval, ok := bv.Fields[k]
			if !ok || !StructuralEqual(v, bval) {
				return false
			}
		}
		return true
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		return ok && av == bv
	case *BuiltinValue:
		bv, ok := b.(*BuiltinValue)
		return ok && av == bv
	}
	return false
}
