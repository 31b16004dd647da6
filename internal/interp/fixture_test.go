package interp

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEvalFixturesSnapshot runs a handful of representative Sflyn
// programs end to end and snapshots their print trace with go-snaps,
// the way the teacher's internal/interp/fixture_test.go snapshots whole
// fixture-run output instead of hand-writing each expected string.
func TestEvalFixturesSnapshot(t *testing.T) {
	fixtures := map[string]string{
		"fibonacci": `
function fib(n: number): number {
	if (n < 2) {
		return n;
	} else {
		return fib(n - 1) + fib(n - 2);
	}
}
for (let i = 0; i < 8; i++) {
	print(fib(i));
}
`,
		"closures": `
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
`,
		"arrays_and_hashmaps": `
let xs = [1, 2, 3];
xs->push(4);
print(xs);
print(xs->pop());
let h = { name: "sflyn", stable: false };
print(h);
`,
	}

	for name, src := range fixtures {
		t.Run(name, func(t *testing.T) {
			ld := &memLoader{files: map[string]string{"main.sf": src}}
			e := NewEvaluator(ld)
			var out bytes.Buffer
			e.SetOutput(&out)
			if err := e.EvalEntry("main.sf"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}
