package interp

import (
	"fmt"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/diag"
)

// RuntimeError is a failure raised while evaluating an already
// well-typed program: rare for a checked program, but possible from a
// missing import, an arity mismatch the checker somehow missed, or a
// builtin reporting misuse. It carries the offending node so the caller
// can render a Diagnostic the same way parse/check errors are rendered.
type RuntimeError struct {
	Node    ast.Node
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func errorf(n ast.Node, format string, args ...any) *RuntimeError {
	return &RuntimeError{Node: n, Message: fmt.Sprintf(format, args...)}
}

// ToDiagnostic converts a RuntimeError into a diag.Diagnostic, matching
// how parser/semantic errors are reported.
func (e *RuntimeError) ToDiagnostic() diag.Diagnostic {
	width := 1
	if e.Node != nil {
		width = len(e.Node.TokenLiteral())
	}
	return diag.New(e.Node.Pos(), width, e.Message)
}
