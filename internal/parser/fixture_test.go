package parser

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestParseFixturesSnapshot exercises ParseFile end to end over a handful
// of representative Sflyn snippets and snapshots their re-serialized AST,
// the way the teacher's internal/interp/fixture_test.go snapshots whole
// fixture runs with go-snaps instead of hand-writing expected strings.
func TestParseFixturesSnapshot(t *testing.T) {
	fixtures := map[string]string{
		"arithmetic": `let x = (1 + 2) * 3 - 4 / 2;`,
		"function": `
export function fib(n: number): number {
	if (n < 2) {
		return n;
	} else {
		return fib(n - 1) + fib(n - 2);
	}
}
`,
		"control_flow": `
for (let i = 0; i < 10; i++) {
	if (i % 2 == 0) {
		print(i);
	}
}
for (i in items) {
	print(i);
}
for ([k, v] of record) {
	print(k);
	print(v);
}
`,
		"lambda_and_method": `
let double = (a: number) => a * 2;
arr[-1]->push(double(21));
`,
	}

	for name, src := range fixtures {
		t.Run(name, func(t *testing.T) {
			file, bag := ParseFile(src, name+".sf")
			if !bag.Empty() {
				t.Fatalf("unexpected parse errors: %s", bag.Format(src))
			}
			var out strings.Builder
			for _, stmt := range file.Statements {
				out.WriteString(stmt.String())
				out.WriteString("\n")
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}
