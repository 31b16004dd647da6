package interp

import (
	"bytes"
	"strings"
	"testing"
)

// memLoader serves a fixed set of in-memory sources, keyed by path,
// stripping the "./" a relative import writes (mirrors
// internal/semantic/checker_test.go's loader double).
type memLoader struct {
	files map[string]string
}

func (m *memLoader) Load(importPath, fromDir string) (string, string, error) {
	key := strings.TrimPrefix(importPath, "./")
	src, ok := m.files[key]
	if !ok {
		return "", "", errNotFound(importPath)
	}
	return src, key, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "no such file: " + string(e) }

func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	ld := &memLoader{files: map[string]string{"main.sf": source}}
	e := NewEvaluator(ld)
	var out bytes.Buffer
	e.SetOutput(&out)
	err := e.EvalEntry("main.sf")
	return out.String(), err
}

func TestEvalArithmetic(t *testing.T) {
	out, err := runSource(t, `print(1 + 2 * 3);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("got %q, want 7", out)
	}
}

func TestEvalStringConcat(t *testing.T) {
	out, err := runSource(t, `print("foo" + "bar");`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Fatalf("got %q, want foobar", out)
	}
}

func TestEvalVariableAssignment(t *testing.T) {
	out, err := runSource(t, `
let x = 1;
x = x + 10;
print(x);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "11" {
		t.Fatalf("got %q, want 11", out)
	}
}

func TestEvalConstReassignmentIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `
const pi = 3;
pi = 4;
`)
	if err == nil {
		t.Fatal("expected a runtime error reassigning a const")
	}
}

func TestEvalClosureCapturesFrameByReference(t *testing.T) {
	out, err := runSource(t, `
function makeCounter() {
	let count = 0;
	function increment() {
		count = count + 1;
		return count;
	}
	return increment;
}

let counter = makeCounter();
print(counter());
print(counter());
print(counter());
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Fields(out)
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEvalAndShortCircuitsWithoutEvaluatingRight(t *testing.T) {
	out, err := runSource(t, `
function explode() {
	print("boom");
	return true;
}
print(false && explode());
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "boom") {
		t.Fatalf("right-hand side of && should not evaluate when left is false, got %q", out)
	}
	if !strings.Contains(out, "false") {
		t.Fatalf("expected false printed, got %q", out)
	}
}

func TestEvalOrFallsThroughOnEmptyStringAndNull(t *testing.T) {
	out, err := runSource(t, `
print("" || "fallback");
print(null || "fallback2");
print(false || "fallback3");
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"fallback", "fallback2", "fallback3"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEvalHashEqualityIsLossyAcrossTypes(t *testing.T) {
	// hashKey(true) == 1.0 == hashKey(1): spec.md's documented collision.
	out, err := runSource(t, `print(true == 1);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("got %q, want true (documented hash collision)", out)
	}
}

func TestEvalStructuralEqualityRejectsCrossTypeCollision(t *testing.T) {
	out, err := runSource(t, `print(true === 1);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "false" {
		t.Fatalf("got %q, want false", out)
	}
}

func TestEvalArrayNegativeOneIsLastElement(t *testing.T) {
	out, err := runSource(t, `
let xs = [1, 2, 3];
print(xs[-1]);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("got %q, want 3", out)
	}
}

func TestEvalArrayOtherNegativeIndexIsError(t *testing.T) {
	_, err := runSource(t, `
let xs = [1, 2, 3];
print(xs[-2]);
`)
	if err == nil {
		t.Fatal("expected an error indexing with a negative value other than -1")
	}
}

func TestEvalArrayPushPopLength(t *testing.T) {
	out, err := runSource(t, `
let xs = [1, 2];
xs->push(3);
print(xs->length());
print(xs->pop());
print(xs->length());
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"3", "3", "2"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEvalForCStyleLoop(t *testing.T) {
	out, err := runSource(t, `
for (let i = 0; i < 3; i++) {
	print(i);
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"0", "1", "2"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
}

func TestEvalForInIndexesArray(t *testing.T) {
	out, err := runSource(t, `
let xs = [10, 20];
for (i in xs) {
	print(i);
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"0", "1"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEvalForOfDestructuresHashMapKeyAndValue(t *testing.T) {
	out, err := runSource(t, `
let h = { a: 1, b: 2 };
for ([k, v] of h) {
	print(k);
	print(v);
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"a", "1", "b", "2"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEvalForOfOverArrayIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `
let xs = [10, 20];
for ([k, v] of xs) {
	print(k);
}
`)
	if err == nil {
		t.Fatal("expected an error: for-of requires a hashmap, not an array")
	}
}

func TestEvalHashMapFieldAccessAndMutation(t *testing.T) {
	out, err := runSource(t, `
let h = { x: 1 };
h["x"] = 2;
print(h["x"]);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("got %q, want 2", out)
	}
}

func TestEvalNamedImportBindsExportedFunction(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"main.sf": `
import { add } from "./lib.sf";
print(add(2, 3));
`,
		"lib.sf": `export function add(a: number, b: number): number { return a + b; }`,
	}}
	e := NewEvaluator(ld)
	var out bytes.Buffer
	e.SetOutput(&out)
	if err := e.EvalEntry("main.sf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "5" {
		t.Fatalf("got %q, want 5", out.String())
	}
}

func TestEvalNamespaceImportBindsHashMap(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"main.sf": `
import * as lib from "./lib.sf";
print(lib["add"](1, 1));
`,
		"lib.sf": `export function add(a: number, b: number): number { return a + b; }`,
	}}
	e := NewEvaluator(ld)
	var out bytes.Buffer
	e.SetOutput(&out)
	if err := e.EvalEntry("main.sf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Fatalf("got %q, want 2", out.String())
	}
}

func TestEvalImportCycleIsError(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"a.sf": `import "./b.sf";`,
		"b.sf": `import "./a.sf";`,
	}}
	e := NewEvaluator(ld)
	if err := e.EvalEntry("a.sf"); err == nil {
		t.Fatal("expected an error for the import cycle")
	}
}

func TestEvalFunctionDefaultArgument(t *testing.T) {
	out, err := runSource(t, `
function greet(name: string = "world") {
	print(name);
}
greet();
greet("sflyn");
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"world", "sflyn"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEvalLambdaExpression(t *testing.T) {
	out, err := runSource(t, `
let add = (a: number, b: number) => a + b;
print(add(4, 5));
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "9" {
		t.Fatalf("got %q, want 9", out)
	}
}
