// Package parser implements Sflyn's statement dispatcher and Pratt
// expression parser, producing an ast.File with precise source locations.
//
// A precedence table drives parseExpression's climbing loop; prefix and
// infix function tables are keyed by token kind, and error accumulation
// lets parsing continue after a malformed statement instead of aborting
// the file.
package parser

import (
	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/diag"
	"github.com/sflynlang/sflyn/internal/lexer"
	"github.com/sflynlang/sflyn/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == != === !==
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	EMPOWERMENT // ** ^
	PREFIX      // !x -x
	CALL        // f(...)
	METHOD      // a->b
	INDEX       // a[i]
	ALIAS       // `as`
)

// Assignment (=, +=, -=, *=, /=) and the for-condition's `in`/`of` are
// deliberately absent here: they are dispatched at the statement level
// ("identifier followed by =/+=/-=/*=//=/++/--/[ -> VariableSet") rather
// than through the generic expression grammar. Only one assignment is
// folded per statement, so `a = b = c` is a parse error, and `in`/`of`
// are recognized only inside a for-loop header, so a bare `x in y`
// elsewhere is a parse error too.
var precedences = map[token.Kind]int{
	token.OR_OR:        OR,
	token.AND_AND:      AND,
	token.EQ:           EQUALS,
	token.NOT_EQ:       EQUALS,
	token.EQ_EQ_EQ:     EQUALS,
	token.NOT_EQ_EQ:    EQUALS,
	token.LT:           LESSGREATER,
	token.LT_EQ:        LESSGREATER,
	token.GT:           LESSGREATER,
	token.GT_EQ:        LESSGREATER,
	token.PLUS:         SUM,
	token.MINUS:        SUM,
	token.ASTERISK:     PRODUCT,
	token.SLASH:        PRODUCT,
	token.PERCENT:      PRODUCT,
	token.POWER:        EMPOWERMENT,
	token.CARET:        EMPOWERMENT,
	token.PLUS_PLUS:    CALL,
	token.MINUS_MINUS:  CALL,
	token.LPAREN:       CALL,
	token.METHOD_ARROW:  METHOD,
	token.LBRACKET:      INDEX,
	token.AS:            ALIAS,
}

// rightAssociative operators bind right-to-left: `**`/`^`. The assignment
// entries are never consulted, since assignment never reaches the infix
// loop (see precedences).
var rightAssociative = map[token.Kind]bool{
	token.POWER:         true,
	token.CARET:         true,
	token.ASSIGN:        true,
	token.PLUS_ASSIGN:   true,
	token.MINUS_ASSIGN:  true,
	token.TIMES_ASSIGN:  true,
	token.DIVIDE_ASSIGN: true,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser is Sflyn's recursive-descent-with-Pratt-expressions parser.
type Parser struct {
	l   *lexer.Lexer
	cur token.Token
	pk  token.Token

	errors *diag.Bag

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn

	// constScope is the parser's own lightweight, scoped record of const
	// declarations. The type checker is the sole source of the "x is a
	// const" diagnostic, enforced against real scope/type information;
	// this table exists only so the parser's own notion of scope mirrors
	// the runtime's, e.g. for tooling that wants parse-only const info
	// without a full check.
	constScope *parseScope
}

// parseScope is a simple chain of name sets, one per lexical block,
// tracking which names were declared const in that block.
type parseScope struct {
	consts map[string]bool
	outer  *parseScope
}

func newParseScope(outer *parseScope) *parseScope {
	return &parseScope{consts: map[string]bool{}, outer: outer}
}

func (s *parseScope) declareConst(name string) {
	s.consts[name] = true
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer, fileName string) *Parser {
	p := &Parser{
		l:          l,
		errors:     diag.NewBag(fileName),
		constScope: newParseScope(nil),
	}

	p.prefixFns = map[token.Kind]prefixParseFn{
		token.IDENT:     p.parseIdentifierOrCall,
		token.NUMBER:    p.parseNumber,
		token.STRING:    p.parseString,
		token.TRUE:      p.parseBoolean,
		token.FALSE:     p.parseBoolean,
		token.NULL:      p.parseNull,
		token.BANG:      p.parsePrefix,
		token.MINUS:     p.parsePrefix,
		token.LPAREN:    p.parseGroupedOrLambda,
		token.FUNCTION:  p.parseAnonymousFunctionKeyword,
		token.LBRACE:    p.parseHashMapLiteral,
		token.LBRACKET:  p.parseArrayLiteral,
	}

	p.infixFns = map[token.Kind]infixParseFn{
		token.PLUS:         p.parseInfixBinary,
		token.MINUS:        p.parseInfixBinary,
		token.ASTERISK:     p.parseInfixBinary,
		token.SLASH:        p.parseInfixBinary,
		token.PERCENT:      p.parseInfixBinary,
		token.POWER:        p.parseInfixBinary,
		token.CARET:        p.parseInfixBinary,
		token.EQ:           p.parseInfixBinary,
		token.NOT_EQ:       p.parseInfixBinary,
		token.EQ_EQ_EQ:     p.parseInfixBinary,
		token.NOT_EQ_EQ:    p.parseInfixBinary,
		token.LT:           p.parseInfixBinary,
		token.LT_EQ:        p.parseInfixBinary,
		token.GT:           p.parseInfixBinary,
		token.GT_EQ:        p.parseInfixBinary,
		token.AND_AND:      p.parseInfixBinary,
		token.OR_OR:        p.parseInfixBinary,
		token.LPAREN:       p.parseCall,
		token.LBRACKET:     p.parseIndex,
		token.METHOD_ARROW: p.parseMethodAccess,
		token.AS:           p.parseAsAlias,
		token.PLUS_PLUS:    p.parseSuffix,
		token.MINUS_MINUS:  p.parseSuffix,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated diagnostics.
func (p *Parser) Errors() *diag.Bag {
	return p.errors
}

func (p *Parser) nextToken() {
	p.cur = p.pk
	p.pk = p.l.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.pk.Kind == k }

// peekAhead looks one token past p.pk without disturbing the parser's own
// position, by running the lexer's total, side-effect-free NextToken on a
// value copy of it. Used only to disambiguate `(` as a grouped expression
// versus the start of a lambda parameter list.
func (p *Parser) peekAhead() token.Token {
	clone := *p.l
	return clone.NextToken()
}

func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.peekError(k)
	return false
}

func (p *Parser) peekError(k token.Kind) {
	p.errors.Addf(p.pk.Pos, len(p.pk.Lexeme), "expected next token to be %s, got %s instead", k, p.pk.Kind)
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors.Addf(tok.Pos, max(1, len(tok.Lexeme)), format, args...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func peekPrecedence(pk token.Token) int {
	if pr, ok := precedences[pk.Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseFile parses the whole token stream into an ast.File. Parsing
// continues past a malformed statement so multiple diagnostics can
// accumulate. The returned Bag is empty when parsing succeeded outright.
func ParseFile(source, name string) (*ast.File, *diag.Bag) {
	l := lexer.New(source)
	p := New(l, name)

	file := &ast.File{Name: name, Source: source}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			file.Statements = append(file.Statements, stmt)
			if exp, ok := stmt.(*ast.Export); ok {
				if name := exportedName(exp.Inner); name != "" {
					file.Exports = append(file.Exports, name)
				}
			}
		}
		p.nextToken()
	}
	return file, p.errors
}

func exportedName(s ast.Statement) string {
	switch inner := s.(type) {
	case *ast.Variable:
		return inner.Name.Value
	case *ast.Function:
		return inner.Name.Value
	case *ast.Interface:
		return inner.Name.Value
	}
	return ""
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errorf(p.cur, "no prefix parse function for %s found", p.cur.Kind)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < peekPrecedence(p.pk) {
		infix, ok := p.infixFns[p.pk.Kind]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseExpressionRightAssoc(precedence int, opKind token.Kind) int {
	if rightAssociative[opKind] {
		return precedence - 1
	}
	return precedence
}
