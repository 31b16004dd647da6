// Package types defines Sflyn's Type tagged union: primitives, arrays,
// function signatures, hashmap records, interface references, and union
// groups.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is implemented by every member of the Type tagged union. The
// interface is intentionally small: Equal and String are the only
// operations the rest of the pipeline needs, favoring a single
// exhaustive match per phase over an open dispatch hierarchy.
type Type interface {
	// String renders the type the way Sflyn's surface grammar writes it
	// back: "number", "T[]", "(n: T, ...) => T", "{ k: T, ... }", "A | B".
	String() string
	typeNode()
}

// Primitive is one of Sflyn's scalar kinds.
type Primitive string

const (
	Null      Primitive = "null"
	Undefined Primitive = "undefined"
	String    Primitive = "string"
	Number    Primitive = "number"
	Boolean   Primitive = "boolean"
	Void      Primitive = "void"
	Any       Primitive = "any"
)

func (p Primitive) typeNode()      {}
func (p Primitive) String() string { return string(p) }

// Array is written "T[]".
type Array struct {
	Elem Type
}

func (a *Array) typeNode()      {}
func (a *Array) String() string { return a.Elem.String() + "[]" }

// Arg is one named, typed function argument.
type Arg struct {
	Name string
	Type Type
	// HasDefault marks an argument with a default value, which makes it
	// optional for arity purposes.
	HasDefault bool
}

// Function is written "(n: T, ...) => T".
type Function struct {
	Args []Arg
	Ret  Type
}

func (f *Function) typeNode() {}
func (f *Function) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.Name + ": " + a.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + f.Ret.String()
}

// MinArgs is the count of arguments without defaults; MaxArgs is the
// total argument count. Calls must supply an argument count in
// [MinArgs, MaxArgs].
func (f *Function) MinArgs() int {
	n := 0
	for _, a := range f.Args {
		if !a.HasDefault {
			n++
		}
	}
	return n
}

func (f *Function) MaxArgs() int { return len(f.Args) }

// HashMap is a structural record: "{ k: T, ... }". Field order is
// preserved for stable String() output; equality ignores order.
type HashMap struct {
	Fields     map[string]Type
	FieldOrder []string
}

func NewHashMap() *HashMap {
	return &HashMap{Fields: map[string]Type{}}
}

func (h *HashMap) Set(name string, t Type) {
	if _, exists := h.Fields[name]; !exists {
		h.FieldOrder = append(h.FieldOrder, name)
	}
	h.Fields[name] = t
}

func (h *HashMap) typeNode() {}
func (h *HashMap) String() string {
	order := h.FieldOrder
	if len(order) != len(h.Fields) {
		order = make([]string, 0, len(h.Fields))
		for k := range h.Fields {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", k, h.Fields[k].String()))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Interface is a nominal record type stored by identifier. Its
// structural shape (Fields) is used wherever the structural shape is
// expected.
type Interface struct {
	Name   string
	Fields *HashMap
}

func (i *Interface) typeNode()      {}
func (i *Interface) String() string { return i.Name }

// Group is written "A | B | ...": the Sflyn union type.
type Group struct {
	Alts []Type
}

func (g *Group) typeNode() {}
func (g *Group) String() string {
	parts := make([]string, len(g.Alts))
	for i, a := range g.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// NewGroup builds a Group, flattening nested groups and deduplicating
// alternatives by their String() form.
func NewGroup(alts ...Type) Type {
	seen := map[string]bool{}
	var flat []Type
	var walk func(Type)
	walk = func(t Type) {
		if g, ok := t.(*Group); ok {
			for _, a := range g.Alts {
				walk(a)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		flat = append(flat, t)
	}
	for _, a := range alts {
		walk(a)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Group{Alts: flat}
}

// Equal reports whether two types are interchangeable: re-checking a
// well-typed expression must yield an Equal Type on every run. Any acts
// as top on both sides.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == Any || b == Any {
		return true
	}
	switch at := a.(type) {
	case Primitive:
		bt, ok := b.(Primitive)
		return ok && at == bt
	case *Array:
		bt, ok := b.(*Array)
		return ok && Equal(at.Elem, bt.Elem)
	case *Function:
		bt, ok := b.(*Function)
		if !ok || len(at.Args) != len(bt.Args) || !Equal(at.Ret, bt.Ret) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i].Type, bt.Args[i].Type) {
				return false
			}
		}
		return true
	case *HashMap:
		return equalStructural(at, b)
	case *Interface:
		switch bt := b.(type) {
		case *Interface:
			return at.Name == bt.Name
		case *HashMap:
			return equalStructural(at.Fields, bt)
		}
		return false
	case *Group:
		bt, ok := b.(*Group)
		if !ok || len(at.Alts) != len(bt.Alts) {
			return false
		}
		for _, aa := range at.Alts {
			found := false
			for _, ba := range bt.Alts {
				if Equal(aa, ba) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

// equalStructural compares a HashMap field-set against any type whose
// structural shape is a HashMap (HashMap or Interface).
func equalStructural(hm *HashMap, b Type) bool {
	var other *HashMap
	switch bt := b.(type) {
	case *HashMap:
		other = bt
	case *Interface:
		other = bt.Fields
	default:
		return false
	}
	if len(hm.Fields) != len(other.Fields) {
		return false
	}
	for k, t := range hm.Fields {
		ot, ok := other.Fields[k]
		if !ok || !Equal(t, ot) {
			return false
		}
	}
	return true
}

// IsNumeric, IsString, IsBoolean are convenience predicates used
// throughout the type checker.
func IsNumeric(t Type) bool { p, ok := t.(Primitive); return ok && p == Number }
func IsString(t Type) bool  { p, ok := t.(Primitive); return ok && p == String }
func IsBoolean(t Type) bool { p, ok := t.(Primitive); return ok && p == Boolean }
