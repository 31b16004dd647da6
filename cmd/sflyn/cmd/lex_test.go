package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

func TestLexScriptPrintsTokens(t *testing.T) {
	lexEval = `let x = 1;`
	showPos = false
	onlyErrors = false
	verbose = false

	out, err := captureStdout(t, func() error { return lexScript(nil, nil) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"let", "IDENT", "=", "NUMBER", ";", "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to mention %s, got: %s", want, out)
		}
	}
}

func TestLexScriptOnlyErrorsReportsIllegalTokens(t *testing.T) {
	lexEval = `let x = @;`
	showPos = false
	onlyErrors = true
	verbose = false

	_, err := captureStdout(t, func() error { return lexScript(nil, nil) })
	if err == nil {
		t.Fatal("expected an error reporting the illegal token")
	}
}

func TestLexScriptRequiresFileOrEvalFlag(t *testing.T) {
	lexEval = ""
	onlyErrors = false
	if _, err := captureStdout(t, func() error { return lexScript(nil, nil) }); err == nil {
		t.Fatal("expected an error when neither a file path nor -e is given")
	}
}
