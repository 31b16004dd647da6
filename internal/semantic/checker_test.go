package semantic

import (
	"strings"
	"testing"
)

// memLoader serves a fixed set of in-memory sources, keyed by path, the
// way loader.OSLoader serves files from disk (internal/loader/loader.go).
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

func checkSource(t *testing.T, source string) (*Checker, string) {
	t.Helper()
	ld := &memLoader{files: map[string]string{"main.sf": source}}
	c := NewChecker(ld)
	_, bag, err := c.CheckEntry("main.sf")
	if err != nil {
		t.Fatalf("CheckEntry: %v", err)
	}
	return c, bag.Format(source)
}

func TestCheckValidProgramHasNoDiagnostics(t *testing.T) {
	_, out := checkSource(t, `
let x = 1;
let y = x + 2;
function add(a: number, b: number): number {
	return a + b;
}
add(1, 2);
`)
	if out != "" {
		t.Fatalf("expected no diagnostics, got: %s", out)
	}
}

func TestCheckTypeMismatchOnVariable(t *testing.T) {
	_, out := checkSource(t, `let x: string = 1;`)
	if out == "" {
		t.Fatal("expected a diagnostic for declared/actual type mismatch")
	}
}

func TestCheckUndefinedName(t *testing.T) {
	_, out := checkSource(t, `print(missing);`)
	if out == "" {
		t.Fatal("expected a diagnostic for an undefined name")
	}
}

func TestCheckConstReassignmentIsDiagnosed(t *testing.T) {
	_, out := checkSource(t, `
const pi = 3;
pi = 4;
`)
	if out == "" {
		t.Fatal("expected a diagnostic for reassigning a const")
	}
}

func TestCheckArityMismatch(t *testing.T) {
	_, out := checkSource(t, `
function add(a: number, b: number): number {
	return a + b;
}
add(1);
`)
	if out == "" {
		t.Fatal("expected a diagnostic for too few arguments")
	}
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	_, out := checkSource(t, `
function greet(): number {
	return "hi";
}
`)
	if out == "" {
		t.Fatal("expected a diagnostic for a return type mismatch")
	}
}

func TestCheckRecursionIsAllowed(t *testing.T) {
	_, out := checkSource(t, `
function fact(n: number): number {
	if (n <= 1) {
		return 1;
	} else {
		return n * fact(n - 1);
	}
}
`)
	if out != "" {
		t.Fatalf("recursive calls should type-check, got: %s", out)
	}
}

func TestCheckForInBindsIndexOverArray(t *testing.T) {
	_, out := checkSource(t, `
let xs = [1, 2, 3];
for (i in xs) {
	let y: number = i;
}
`)
	if out != "" {
		t.Fatalf("for-in over an array should bind a number index, got: %s", out)
	}
}

func TestCheckForOfBindsKeyAndValueOverHashMap(t *testing.T) {
	_, out := checkSource(t, `
let h = { a: 1, b: 2 };
for ([k, v] of h) {
	let key: string = k;
	let value: number = v;
}
`)
	if out != "" {
		t.Fatalf("for-of over a hashmap should bind a string key and field-typed value, got: %s", out)
	}
}

func TestCheckForOfOverArrayIsRejected(t *testing.T) {
	_, out := checkSource(t, `
let xs = [1, 2, 3];
for ([k, v] of xs) {
	print(k);
}
`)
	if out == "" {
		t.Fatal("expected a diagnostic: for-of requires a hashmap, not an array")
	}
}

func TestCheckForInOverHashMapIsRejected(t *testing.T) {
	_, out := checkSource(t, `
let h = { a: 1 };
for (k in h) {
	print(k);
}
`)
	if out == "" {
		t.Fatal("expected a diagnostic: for-in requires an array, not a hashmap")
	}
}

func TestCheckImportCycleIsDiagnosed(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"a.sf": `import "./b.sf";`,
		"b.sf": `import "./a.sf";`,
	}}
	c := NewChecker(ld)
	_, bag, err := c.CheckEntry("a.sf")
	if err != nil {
		t.Fatalf("CheckEntry: %v", err)
	}
	if bag.Empty() {
		t.Fatal("expected a diagnostic for the import cycle")
	}
}

func TestCheckNamedImportMissingExport(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"main.sf": `import { missing } from "./lib.sf";`,
		"lib.sf":  `export function present() { return 1; }`,
	}}
	c := NewChecker(ld)
	_, bag, err := c.CheckEntry("main.sf")
	if err != nil {
		t.Fatalf("CheckEntry: %v", err)
	}
	if bag.Empty() {
		t.Fatal("expected a diagnostic for an import naming a nonexistent export")
	}
}

func TestCheckNamedImportBindsExportedType(t *testing.T) {
	ld := &memLoader{files: map[string]string{
		"main.sf": `
import { add } from "./lib.sf";
let x: number = add(1, 2);
`,
		"lib.sf": `export function add(a: number, b: number): number { return a + b; }`,
	}}
	c := NewChecker(ld)
	_, bag, err := c.CheckEntry("main.sf")
	if err != nil {
		t.Fatalf("CheckEntry: %v", err)
	}
	if !bag.Empty() {
		t.Fatalf("expected no diagnostics, got: %s", bag.Format(""))
	}
}

func TestCheckLoaderErrorIsReported(t *testing.T) {
	ld := &memLoader{files: map[string]string{}}
	c := NewChecker(ld)
	_, _, err := c.CheckEntry("missing.sf")
	if err == nil {
		t.Fatal("expected an error resolving a missing entry file")
	}
}
