package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// TestRunScriptReportsTypeErrors mirrors the teacher's
// cmd/dwscript/cmd/run_semantic_test.go: set the package-level flags
// runScript reads, pipe os.Stderr through an os.Pipe, and assert on the
// rendered diagnostic.
func TestRunScriptReportsTypeErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectError   bool
		errorContains string
	}{
		{
			name:          "type mismatch",
			input:         `let x: string = 1;`,
			expectError:   true,
			errorContains: "cannot assign",
		},
		{
			name:          "undefined name",
			input:         `print(missing);`,
			expectError:   true,
			errorContains: "undefined name",
		},
		{
			name:        "valid program",
			input:       `let x = 1; print(x + 1);`,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalExpr = tt.input
			dumpAST = false
			typeCheck = true

			oldStderr := os.Stderr
			r, w, _ := os.Pipe()
			os.Stderr = w

			err := runScript(nil, []string{})

			w.Close()
			os.Stderr = oldStderr

			var buf bytes.Buffer
			buf.ReadFrom(r)
			stderr := buf.String()

			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !strings.Contains(stderr, tt.errorContains) {
					t.Fatalf("expected stderr to contain %q, got: %s", tt.errorContains, stderr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v, stderr: %s", err, stderr)
			}
		})
	}
}

// TestRunScriptTypeCheckFlagDisablesChecking confirms --type-check=false
// skips the semantic pass entirely (the type error then only ever
// surfaces, if at all, once evaluation runs).
func TestRunScriptTypeCheckFlagDisablesChecking(t *testing.T) {
	evalExpr = `let x: string = 1; print("ok");`
	dumpAST = false
	typeCheck = false

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	err := runScript(nil, []string{})

	w.Close()
	os.Stderr = oldStderr
	var buf bytes.Buffer
	buf.ReadFrom(r)

	if err != nil {
		t.Fatalf("expected the mismatched annotation to be ignored with type-check disabled, got: %v (%s)", err, buf.String())
	}
}

func TestResolveEntryRequiresFileOrEvalFlag(t *testing.T) {
	evalExpr = ""
	if _, _, _, err := resolveEntry(nil); err == nil {
		t.Fatal("expected an error when neither a file path nor -e is given")
	}
}
