package interp

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sflynlang/sflyn/internal/env"
)

// seedBuiltins binds the handful of values every file's root scope
// starts with: Sflyn has exactly one true language builtin, print;
// std/log.sf and friends are ordinary hashmap values built from it, not
// additional builtins.
func seedBuiltins(store *env.Store[Value], out io.Writer) {
	store.Set("print", &BuiltinValue{Name: "print", Fn: builtinPrint(out)})
}

// builtinPrint writes its arguments space-separated, the way fmt.Println
// joins them, followed by a newline.
func builtinPrint(out io.Writer) BuiltinFunc {
	return func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return Null, nil
	}
}

// builtinMethodValue implements the small set of standard-library
// methods lifted onto arrays and strings via `a->b`, mirroring
// semantic.builtinMethod's type rules. Each method closes over its
// receiver so `arr->push` can be called later, exactly like a
// user-defined method value.
func builtinMethodValue(receiver Value, name string) (Value, bool) {
	switch r := receiver.(type) {
	case *ArrayValue:
		switch name {
		case "push":
			return &BuiltinValue{Name: "push", Fn: func(args []Value) (Value, error) {
				r.Elements = append(r.Elements, args...)
				return Null, nil
			}}, true
		case "pop":
			return &BuiltinValue{Name: "pop", Fn: func(args []Value) (Value, error) {
				if len(r.Elements) == 0 {
					return nil, fmt.Errorf("pop from an empty array")
				}
				last := r.Elements[len(r.Elements)-1]
				r.Elements = r.Elements[:len(r.Elements)-1]
				return last, nil
			}}, true
		case "length":
			return &BuiltinValue{Name: "length", Fn: func(args []Value) (Value, error) {
				return NewNumber(float64(len(r.Elements))), nil
			}}, true
		}
	case *StringValue:
		if name == "length" {
			return &BuiltinValue{Name: "length", Fn: func(args []Value) (Value, error) {
				return NewNumber(float64(utf8.RuneCountInString(r.Value))), nil
			}}, true
		}
	}
	return nil, false
}
