package ast

import (
	"bytes"
	"strings"

	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

// Array is an array literal: [e, ...].
type Array struct {
	Token    token.Token // '['
	Elements []Expression
}

func (a *Array) expressionNode()      {}
func (a *Array) TokenLiteral() string { return a.Token.Lexeme }
func (a *Array) Pos() token.Position  { return a.Token.Pos }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArrayIndex is a[i]. -1 means "last element"; Index carries the raw
// index expression so evaluator/checker can special-case the -1 literal.
type ArrayIndex struct {
	Token token.Token // '['
	Left  Expression
	Index Expression
}

func (a *ArrayIndex) expressionNode()      {}
func (a *ArrayIndex) TokenLiteral() string { return a.Token.Lexeme }
func (a *ArrayIndex) Pos() token.Position  { return a.Token.Pos }
func (a *ArrayIndex) String() string {
	return a.Left.String() + "[" + a.Index.String() + "]"
}

// Call is f(args).
type Call struct {
	Token    token.Token // '('
	Function Expression
	Args     []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) Pos() token.Position  { return c.Token.Pos }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Function.String() + "(" + strings.Join(parts, ", ") + ")"
}

// ForCondition is the C-style three-slot for-loop condition:
// init; cond; step.
type ForCondition struct {
	Token token.Token // first token of init (or ';' if init omitted)
	Init  Statement
	Cond  Expression
	Step  Statement
}

func (f *ForCondition) expressionNode()      {}
func (f *ForCondition) TokenLiteral() string { return f.Token.Lexeme }
func (f *ForCondition) Pos() token.Position  { return f.Token.Pos }
func (f *ForCondition) String() string {
	var out bytes.Buffer
	if f.Init != nil {
		out.WriteString(f.Init.String())
	}
	out.WriteString("; ")
	if f.Cond != nil {
		out.WriteString(f.Cond.String())
	}
	out.WriteString("; ")
	if f.Step != nil {
		out.WriteString(f.Step.String())
	}
	return out.String()
}

// HashMapPair is one key/value entry in a hashmap literal.
type HashMapPair struct {
	Key   string
	Value Expression
}

// HashMap is a hashmap literal: { k: v, ... }. Duplicate keys at the
// same level are rejected by the parser.
type HashMap struct {
	Token token.Token // '{'
	Pairs []HashMapPair
}

func (h *HashMap) expressionNode()      {}
func (h *HashMap) TokenLiteral() string { return h.Token.Lexeme }
func (h *HashMap) Pos() token.Position  { return h.Token.Pos }
func (h *HashMap) String() string {
	parts := make([]string, len(h.Pairs))
	for i, p := range h.Pairs {
		parts[i] = p.Key + ": " + p.Value.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// InfixKind discriminates the shapes grouped under Infix: ordinary
// binary operators, method access, `as`-alias, and the assignment
// family.
type InfixKind int

const (
	InfixBinary InfixKind = iota
	InfixMethod           // a->b
	InfixAs               // a as T   (type-annotation parser reads T separately)
	InfixAssign           // a = b, a += b, a -= b, a *= b, a /= b
	InfixInOf             // `in`/`of` inside a for-condition
)

// Infix covers every two-operand construct in Sflyn's Expression union:
// binary ops, `a->b` method access, `as`-alias, and assignment variants.
// One struct with a Kind discriminant keeps the tagged-variant match in
// the checker/evaluator a single switch.
type Infix struct {
	Token    token.Token
	Kind     InfixKind
	Left     Expression
	Operator string // "+", "->", "as", "=", "+=", "in", "of", ...
	Right    Expression
}

func (in *Infix) expressionNode()      {}
func (in *Infix) TokenLiteral() string { return in.Token.Lexeme }
func (in *Infix) Pos() token.Position  { return in.Token.Pos }
func (in *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(in.Left.String())
	out.WriteString(" " + in.Operator + " ")
	out.WriteString(in.Right.String())
	out.WriteString(")")
	return out.String()
}

// Prefix is a unary operator: !x or -x.
type Prefix struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (p *Prefix) expressionNode()      {}
func (p *Prefix) TokenLiteral() string { return p.Token.Lexeme }
func (p *Prefix) Pos() token.Position  { return p.Token.Pos }
func (p *Prefix) String() string {
	return "(" + p.Operator + p.Right.String() + ")"
}

// TypeExpr wraps a parsed type so it can stand in as the Right operand of
// an InfixAs expression (`a as T`). It appears nowhere else in the tree.
type TypeExpr struct {
	Token token.Token
	Type  types.Type
}

func (t *TypeExpr) expressionNode()      {}
func (t *TypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypeExpr) Pos() token.Position  { return t.Token.Pos }
func (t *TypeExpr) String() string       { return t.Type.String() }

// Suffix is a postfix operator: x++ or x--.
type Suffix struct {
	Token    token.Token
	Operator string
	Left     Expression
}

func (s *Suffix) expressionNode()      {}
func (s *Suffix) TokenLiteral() string { return s.Token.Lexeme }
func (s *Suffix) Pos() token.Position  { return s.Token.Pos }
func (s *Suffix) String() string {
	return "(" + s.Left.String() + s.Operator + ")"
}
