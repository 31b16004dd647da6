package diag

import (
	"strings"
	"testing"

	"github.com/sflynlang/sflyn/internal/token"
)

func TestNewClampsWidth(t *testing.T) {
	d := New(token.Position{Line: 1, Column: 5}, 0, "oops")
	if d.StartCol != 5 || d.EndCol != 5 {
		t.Fatalf("zero width should clamp to a single column, got %d-%d", d.StartCol, d.EndCol)
	}
}

func TestRenderShowsCaretUnderSpan(t *testing.T) {
	source := "let x = 1 +;"
	d := New(token.Position{Line: 1, Column: 11}, 1, "unexpected token")

	out := d.Render(source)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], source) {
		t.Errorf("first line should echo the source line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "^") {
		t.Errorf("second line should carry a caret, got %q", lines[1])
	}
	if lines[2] != "unexpected token" {
		t.Errorf("third line should be the message, got %q", lines[2])
	}
}

func TestBagAccumulatesAndFormats(t *testing.T) {
	b := NewBag("script.sf")
	if !b.Empty() {
		t.Fatal("a fresh bag should be empty")
	}

	b.Addf(token.Position{Line: 1, Column: 1}, 1, "first error")
	b.Addf(token.Position{Line: 2, Column: 1}, 1, "second error")

	if b.Empty() {
		t.Fatal("a bag with items should not be empty")
	}
	if len(b.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(b.Items()))
	}

	out := b.Format("first error\nsecond error\n")
	if !strings.Contains(out, "2 error(s) in script.sf") {
		t.Errorf("multi-error format should summarize the count, got %q", out)
	}
}

func TestBagFormatEmptyIsEmptyString(t *testing.T) {
	b := NewBag("script.sf")
	if got := b.Format(""); got != "" {
		t.Fatalf("Format on an empty bag should return \"\", got %q", got)
	}
}
