package ast

import (
	"bytes"
	"strings"

	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

// Block is a brace-delimited statement list: { ... }.
type Block struct {
	Token      token.Token // '{'
	Statements []Statement
}

func (b *Block) statementNode()      {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }
func (b *Block) Pos() token.Position  { return b.Token.Pos }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Lexeme }
func (e *ExpressionStatement) Pos() token.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String() + ";"
	}
	return ";"
}

// Variable is a let/const declaration.
type Variable struct {
	Token       token.Token // 'let' or 'const'
	Const       bool
	Name        *Identifier
	Annotation  types.Type // nil if inferred from Value
	Value       Expression // nil if declared without initializer
}

func (v *Variable) statementNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Lexeme }
func (v *Variable) Pos() token.Position  { return v.Token.Pos }
func (v *Variable) String() string {
	var out bytes.Buffer
	if v.Const {
		out.WriteString("const ")
	} else {
		out.WriteString("let ")
	}
	out.WriteString(v.Name.Value)
	if v.Annotation != nil {
		out.WriteString(": ")
		out.WriteString(v.Annotation.String())
	}
	if v.Value != nil {
		out.WriteString(" = ")
		out.WriteString(v.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// Function is a named function declaration: function name(args): T { ... }.
type Function struct {
	Token   token.Token
	Name    *Identifier
	Args    []*Argument
	RetType types.Type
	Body    *Block
}

func (f *Function) statementNode()      {}
func (f *Function) TokenLiteral() string { return f.Token.Lexeme }
func (f *Function) Pos() token.Position  { return f.Token.Pos }
func (f *Function) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	var out bytes.Buffer
	out.WriteString("function ")
	out.WriteString(f.Name.Value)
	out.WriteString("(")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if f.RetType != nil {
		out.WriteString(": ")
		out.WriteString(f.RetType.String())
	}
	out.WriteString(" ")
	out.WriteString(f.Body.String())
	return out.String()
}

// Return is `return expr;` (expr optional).
type Return struct {
	Token       token.Token
	ReturnValue Expression
}

func (r *Return) statementNode()      {}
func (r *Return) TokenLiteral() string { return r.Token.Lexeme }
func (r *Return) Pos() token.Position  { return r.Token.Pos }
func (r *Return) String() string {
	if r.ReturnValue != nil {
		return "return " + r.ReturnValue.String() + ";"
	}
	return "return;"
}

// IfBranch is one `if (cond) { ... }` or `else if (cond) { ... }` arm.
type IfBranch struct {
	Condition   Expression
	Consequence *Block
}

// IfElse is the full if/else-if/else chain.
type IfElse struct {
	Token      token.Token // 'if'
	Branches   []IfBranch
	Alternative *Block // else block, nil if absent
}

func (i *IfElse) statementNode()      {}
func (i *IfElse) TokenLiteral() string { return i.Token.Lexeme }
func (i *IfElse) Pos() token.Position  { return i.Token.Pos }
func (i *IfElse) String() string {
	var out bytes.Buffer
	for idx, b := range i.Branches {
		if idx == 0 {
			out.WriteString("if (")
		} else {
			out.WriteString(" else if (")
		}
		out.WriteString(b.Condition.String())
		out.WriteString(") ")
		out.WriteString(b.Consequence.String())
	}
	if i.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternative.String())
	}
	return out.String()
}

// For is a for-statement over one of three condition forms carried in
// Condition: *ast.ForCondition (C-style), or an *ast.Infix with operator
// "in"/"of".
type For struct {
	Token     token.Token // 'for'
	Condition Expression
	Body      *Block
}

func (f *For) statementNode()      {}
func (f *For) TokenLiteral() string { return f.Token.Lexeme }
func (f *For) Pos() token.Position  { return f.Token.Pos }
func (f *For) String() string {
	return "for (" + f.Condition.String() + ") " + f.Body.String()
}

// ImportMode discriminates the three binding modes that must be mutually
// exclusive per import statement.
type ImportMode int

const (
	// ImportSideEffect is `import "path";`, no bindings introduced.
	ImportSideEffect ImportMode = iota
	// ImportNamespace is `import name from "path";` or
	// `import * as name from "path";`, binds the whole export set as a
	// hashmap under one name.
	ImportNamespace
	// ImportNamed is `import { a, b as c } from "path";`, binds
	// specific, optionally aliased, names.
	ImportNamed
)

// ImportSpecifier is one entry of a named import list: `a` or `a as c`.
type ImportSpecifier struct {
	Name  string
	Alias string // equals Name when no `as` clause is present
}

// Import is an import statement in any of its four literal forms.
type Import struct {
	Token       token.Token
	Mode        ImportMode
	Namespace   string // for ImportNamespace
	Specifiers  []ImportSpecifier
	Path        string
}

func (im *Import) statementNode()      {}
func (im *Import) TokenLiteral() string { return im.Token.Lexeme }
func (im *Import) Pos() token.Position  { return im.Token.Pos }
func (im *Import) String() string {
	switch im.Mode {
	case ImportSideEffect:
		return "import \"" + im.Path + "\";"
	case ImportNamespace:
		return "import * as " + im.Namespace + " from \"" + im.Path + "\";"
	default:
		parts := make([]string, len(im.Specifiers))
		for i, s := range im.Specifiers {
			if s.Alias != "" && s.Alias != s.Name {
				parts[i] = s.Name + " as " + s.Alias
			} else {
				parts[i] = s.Name
			}
		}
		return "import { " + strings.Join(parts, ", ") + " } from \"" + im.Path + "\";"
	}
}

// Export wraps an inner statement exported from the current file.
type Export struct {
	Token token.Token // 'export'
	Inner Statement
}

func (e *Export) statementNode()      {}
func (e *Export) TokenLiteral() string { return e.Token.Lexeme }
func (e *Export) Pos() token.Position  { return e.Token.Pos }
func (e *Export) String() string {
	return "export " + e.Inner.String()
}

// InterfaceField is one `name: Type;` entry in an interface body.
type InterfaceField struct {
	Name string
	Type types.Type
}

// Interface declares a nominal record type.
type Interface struct {
	Token  token.Token
	Name   *Identifier
	Fields []InterfaceField
}

func (i *Interface) statementNode()      {}
func (i *Interface) TokenLiteral() string { return i.Token.Lexeme }
func (i *Interface) Pos() token.Position  { return i.Token.Pos }
func (i *Interface) String() string {
	var out bytes.Buffer
	out.WriteString("interface ")
	out.WriteString(i.Name.Value)
	out.WriteString(" {\n")
	for _, f := range i.Fields {
		out.WriteString("  " + f.Name + ": " + f.Type.String() + ";\n")
	}
	out.WriteString("}")
	return out.String()
}
