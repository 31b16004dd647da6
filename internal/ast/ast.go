// Package ast defines Sflyn's Abstract Syntax Tree: a flat tagged-variant
// tree of Expression and Statement nodes, each retaining its originating
// token for diagnostics.
package ast

import (
	"bytes"
	"strings"

	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a
// value that the enclosing expression grammar can use.
type Statement interface {
	Node
	statementNode()
}

// File is the root node of one parsed source file: its statements and
// the names it exports.
type File struct {
	Name       string
	Source     string
	Statements []Statement
	Exports    []string
}

func (f *File) TokenLiteral() string {
	if len(f.Statements) > 0 {
		return f.Statements[0].TokenLiteral()
	}
	return ""
}

func (f *File) String() string {
	var out bytes.Buffer
	for _, s := range f.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (f *File) Pos() token.Position {
	if len(f.Statements) > 0 {
		return f.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Identifier is a bare name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()        {}
func (i *Identifier) TokenLiteral() string   { return i.Token.Lexeme }
func (i *Identifier) String() string         { return i.Value }
func (i *Identifier) Pos() token.Position    { return i.Token.Pos }

// Number is a numeric literal (IEEE-754 double).
type Number struct {
	Token token.Token
	Value float64
}

func (n *Number) expressionNode()      {}
func (n *Number) TokenLiteral() string { return n.Token.Lexeme }
func (n *Number) String() string       { return n.Token.Lexeme }
func (n *Number) Pos() token.Position  { return n.Token.Pos }

// String is a string literal. Value has quotes already stripped;
// Token.Lexeme keeps them.
type String struct {
	Token token.Token
	Value string
}

func (s *String) expressionNode()      {}
func (s *String) TokenLiteral() string { return s.Token.Lexeme }
func (s *String) String() string       { return s.Token.Lexeme }
func (s *String) Pos() token.Position  { return s.Token.Pos }

// Boolean is a true/false literal.
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Lexeme }
func (b *Boolean) String() string       { return b.Token.Lexeme }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos }

// Null is the null literal.
type Null struct {
	Token token.Token
}

func (n *Null) expressionNode()      {}
func (n *Null) TokenLiteral() string { return n.Token.Lexeme }
func (n *Null) String() string       { return "null" }
func (n *Null) Pos() token.Position  { return n.Token.Pos }

// Argument is one formal parameter of a function or anonymous function:
// a name, a declared type, and an optional default-value expression.
type Argument struct {
	Token      token.Token
	Name       *Identifier
	Type       types.Type
	Default    Expression
}

func (a *Argument) expressionNode()      {}
func (a *Argument) TokenLiteral() string { return a.Token.Lexeme }
func (a *Argument) Pos() token.Position  { return a.Token.Pos }
func (a *Argument) String() string {
	var out bytes.Buffer
	out.WriteString(a.Name.Value)
	if a.Type != nil {
		out.WriteString(": ")
		out.WriteString(a.Type.String())
	}
	if a.Default != nil {
		out.WriteString(" = ")
		out.WriteString(a.Default.String())
	}
	return out.String()
}

// AnonymousFunction is a lambda / unnamed function expression:
// (a: T): T => expr or function (a: T): T { ... }.
type AnonymousFunction struct {
	Token   token.Token
	Args    []*Argument
	RetType types.Type
	Body    *Block
}

func (f *AnonymousFunction) expressionNode()      {}
func (f *AnonymousFunction) TokenLiteral() string { return f.Token.Lexeme }
func (f *AnonymousFunction) Pos() token.Position  { return f.Token.Pos }
func (f *AnonymousFunction) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if f.RetType != nil {
		out.WriteString(": ")
		out.WriteString(f.RetType.String())
	}
	out.WriteString(" => ")
	out.WriteString(f.Body.String())
	return out.String()
}
