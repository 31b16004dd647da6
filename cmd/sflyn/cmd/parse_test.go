package cmd

import (
	"strings"
	"testing"
)

func TestRunParsePrintsStatements(t *testing.T) {
	parseEval = `let x = 1 + 2;`

	out, err := captureStdout(t, func() error { return runParse(nil, nil) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "x") {
		t.Fatalf("expected output to mention the declared name, got: %s", out)
	}
}

func TestRunParseReportsSyntaxErrors(t *testing.T) {
	parseEval = `let = ;`

	_, err := captureStdout(t, func() error { return runParse(nil, nil) })
	if err == nil {
		t.Fatal("expected an error for malformed source")
	}
}
