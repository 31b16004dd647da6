// Package diag implements Sflyn's diagnostic type: a structured error
// with a precise source span, accumulation, and caret-line rendering.
//
// Each diagnostic prints as a "<file>:<line>:<col>" header, the offending
// source line prefixed with its line number, and a caret span beneath it.
package diag

import (
	"fmt"
	"strings"

	"github.com/sflynlang/sflyn/internal/token"
)

// Diagnostic is one reported problem: a message and the source span it
// applies to.
type Diagnostic struct {
	Message  string
	Line     int
	StartCol int
	EndCol   int
}

// New builds a Diagnostic spanning a single token.
func New(pos token.Position, width int, message string) Diagnostic {
	if width < 1 {
		width = 1
	}
	return Diagnostic{
		Message:  message,
		Line:     pos.Line,
		StartCol: pos.Column,
		EndCol:   pos.Column + width - 1,
	}
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.StartCol, d.Message)
}

// Render produces the multi-line "<line> | <source line>" plus
// caret-span presentation, given the file's full source text.
func (d Diagnostic) Render(source string) string {
	var sb strings.Builder

	lines := strings.Split(source, "\n")
	var sourceLine string
	if d.Line >= 1 && d.Line <= len(lines) {
		sourceLine = lines[d.Line-1]
	}

	prefix := fmt.Sprintf("%d | ", d.Line)
	sb.WriteString(prefix)
	sb.WriteString(sourceLine)
	sb.WriteString("\n")

	span := d.EndCol - d.StartCol + 1
	if span < 1 {
		span = 1
	}
	sb.WriteString(strings.Repeat(" ", len(prefix)+d.StartCol-1))
	sb.WriteString(strings.Repeat("^", span))
	sb.WriteString("\n")
	sb.WriteString(d.Message)

	return sb.String()
}

// Bag accumulates diagnostics for one file. A non-empty Bag halts further
// phases for that file, but within a phase an error in one expression
// does not stop the rest of the statement list from being attempted.
type Bag struct {
	File  string
	items []Diagnostic
}

func NewBag(file string) *Bag {
	return &Bag{File: file}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Addf(pos token.Position, width int, format string, args ...any) {
	b.Add(New(pos, width, fmt.Sprintf(format, args...)))
}

func (b *Bag) Empty() bool {
	return len(b.items) == 0
}

func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Format renders every accumulated diagnostic against source, one error
// header per diagnostic, as a multi-error summary.
func (b *Bag) Format(source string) string {
	if len(b.items) == 0 {
		return ""
	}
	var sb strings.Builder
	if len(b.items) > 1 {
		sb.WriteString(fmt.Sprintf("%d error(s) in %s:\n\n", len(b.items), b.File))
	}
	for i, d := range b.items {
		if b.File != "" {
			sb.WriteString(fmt.Sprintf("%s:%d:%d\n", b.File, d.Line, d.StartCol))
		}
		sb.WriteString(d.Render(source))
		if i < len(b.items)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
