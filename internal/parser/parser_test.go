package parser

import (
	"testing"

	"github.com/sflynlang/sflyn/internal/ast"
)

func parseOK(t *testing.T, source string) *ast.File {
	t.Helper()
	file, bag := ParseFile(source, "<test>")
	if !bag.Empty() {
		t.Fatalf("unexpected parse errors: %s", bag.Format(source))
	}
	return file
}

func TestParseLetDeclaration(t *testing.T) {
	file := parseOK(t, `let x = 1 + 2;`)
	if len(file.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Statements))
	}
	v, ok := file.Statements[0].(*ast.Variable)
	if !ok {
		t.Fatalf("expected *ast.Variable, got %T", file.Statements[0])
	}
	if v.Const {
		t.Error("let should not be const")
	}
	if v.Name.Value != "x" {
		t.Errorf("Name = %q, want x", v.Name.Value)
	}
}

func TestParseConstDeclaration(t *testing.T) {
	file := parseOK(t, `const pi = 3;`)
	v := file.Statements[0].(*ast.Variable)
	if !v.Const {
		t.Error("const declaration should set Const = true")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"2 ** 3 ** 2;", "(2 ** (3 ** 2))"},
		{"!true == false;", "((!true) == false)"},
		{"-1 + 2;", "((-1) + 2)"},
		{"a || b && c;", "(a || (b && c))"},
	}

	for _, tt := range tests {
		file := parseOK(t, tt.input)
		stmt, ok := file.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("%s: expected ExpressionStatement, got %T", tt.input, file.Statements[0])
		}
		if got := stmt.Expression.String(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseFunctionCall(t *testing.T) {
	file := parseOK(t, `print(1, "two", three);`)
	stmt := file.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", stmt.Expression)
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(call.Args))
	}
}

func TestParseArrayIndexAndMethodAccess(t *testing.T) {
	file := parseOK(t, `arr[0]->push(1);`)
	stmt := file.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", stmt.Expression)
	}
	method, ok := call.Function.(*ast.Infix)
	if !ok || method.Kind != ast.InfixMethod {
		t.Fatalf("expected method-access Infix, got %T", call.Function)
	}
	if _, ok := method.Left.(*ast.ArrayIndex); !ok {
		t.Fatalf("expected receiver to be an ArrayIndex, got %T", method.Left)
	}
}

func TestParseAssignment(t *testing.T) {
	file := parseOK(t, `x = x + 1;`)
	expr, ok := file.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", file.Statements[0])
	}
	in, ok := expr.Expression.(*ast.Infix)
	if !ok || in.Kind != ast.InfixAssign {
		t.Fatalf("expected assignment Infix, got %T", expr.Expression)
	}
}

func TestParseIfElse(t *testing.T) {
	file := parseOK(t, `if (x > 0) { print(x); } else { print(0); }`)
	ie, ok := file.Statements[0].(*ast.IfElse)
	if !ok {
		t.Fatalf("expected *ast.IfElse, got %T", file.Statements[0])
	}
	if len(ie.Branches) != 1 {
		t.Fatalf("expected 1 branch, got %d", len(ie.Branches))
	}
	if ie.Alternative == nil {
		t.Fatal("expected an else block")
	}
}

func TestParseForCStyle(t *testing.T) {
	file := parseOK(t, `for (let i = 0; i < 10; i++) { print(i); }`)
	f, ok := file.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", file.Statements[0])
	}
	if _, ok := f.Condition.(*ast.ForCondition); !ok {
		t.Fatalf("expected ForCondition, got %T", f.Condition)
	}
}

func TestParseForIn(t *testing.T) {
	file := parseOK(t, `for (i in items) { print(i); }`)
	f := file.Statements[0].(*ast.For)
	cond, ok := f.Condition.(*ast.Infix)
	if !ok || cond.Kind != ast.InfixInOf || cond.Operator != "in" {
		t.Fatalf("expected an 'in' InfixInOf condition, got %#v", f.Condition)
	}
	if _, ok := cond.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected a single bound identifier, got %T", cond.Left)
	}
}

func TestParseForOfDestructuring(t *testing.T) {
	file := parseOK(t, `for ([k, v] of items) { print(k); }`)
	f := file.Statements[0].(*ast.For)
	cond, ok := f.Condition.(*ast.Infix)
	if !ok || cond.Kind != ast.InfixInOf || cond.Operator != "of" {
		t.Fatalf("expected an 'of' InfixInOf condition, got %#v", f.Condition)
	}
	pair, ok := cond.Left.(*ast.Array)
	if !ok || len(pair.Elements) != 2 {
		t.Fatalf("expected a two-element [k, v] destructuring header, got %#v", cond.Left)
	}
	k, ok := pair.Elements[0].(*ast.Identifier)
	if !ok || k.Value != "k" {
		t.Fatalf("expected key identifier 'k', got %#v", pair.Elements[0])
	}
	v, ok := pair.Elements[1].(*ast.Identifier)
	if !ok || v.Value != "v" {
		t.Fatalf("expected value identifier 'v', got %#v", pair.Elements[1])
	}
}

func TestParseForOfDestructuringWithLet(t *testing.T) {
	file := parseOK(t, `for (let [k, v] of items) { print(k); }`)
	f := file.Statements[0].(*ast.For)
	cond, ok := f.Condition.(*ast.Infix)
	if !ok || cond.Kind != ast.InfixInOf || cond.Operator != "of" {
		t.Fatalf("expected an 'of' InfixInOf condition, got %#v", f.Condition)
	}
	if _, ok := cond.Left.(*ast.Array); !ok {
		t.Fatalf("expected a two-element [k, v] destructuring header, got %#v", cond.Left)
	}
}

func TestParseAnonymousFunction(t *testing.T) {
	file := parseOK(t, `let add = (a: number, b: number) => a + b;`)
	v := file.Statements[0].(*ast.Variable)
	fn, ok := v.Value.(*ast.AnonymousFunction)
	if !ok {
		t.Fatalf("expected *ast.AnonymousFunction, got %T", v.Value)
	}
	if len(fn.Args) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Args))
	}
}

func TestParseExportedFunctionIsRecordedInExports(t *testing.T) {
	file := parseOK(t, `export function greet() { return "hi"; }`)
	if len(file.Exports) != 1 || file.Exports[0] != "greet" {
		t.Fatalf("expected export [greet], got %v", file.Exports)
	}
}

func TestParseErrorRecoversAndContinues(t *testing.T) {
	_, bag := ParseFile(`let = ;
let y = 1;`, "<test>")
	if bag.Empty() {
		t.Fatal("expected at least one diagnostic for the malformed declaration")
	}
}
