package parser

import (
	"strconv"

	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

func stripQuotes(lexeme string) string {
	if len(lexeme) >= 2 {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		p.errorf(tok, "could not parse %q as a number", tok.Lexeme)
	}
	return &ast.Number{Token: tok, Value: v}
}

func (p *Parser) parseString() ast.Expression {
	return &ast.String{Token: p.cur, Value: stripQuotes(p.cur.Lexeme)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.cur, Value: p.cur.Kind == token.TRUE}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.Null{Token: p.cur}
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.Prefix{Token: tok, Operator: op, Right: right}
}

// peekIsLambdaStart reports whether the parens the parser is about to
// enter (cur == '(') open a lambda parameter list rather than a grouped
// expression: either `()` followed by `:`/`=>`, or `(name:`. It needs to
// see two tokens past cur, so it clones the lexer rather than growing the
// parser's own lookahead window.
func (p *Parser) peekIsLambdaStart() bool {
	if p.peekIs(token.RPAREN) {
		after := p.peekAhead()
		return after.Kind == token.ARROW || after.Kind == token.COLON
	}
	if p.peekIs(token.IDENT) {
		after := p.peekAhead()
		return after.Kind == token.COLON
	}
	return false
}

func (p *Parser) parseGroupedOrLambda() ast.Expression {
	tok := p.cur
	if p.peekIsLambdaStart() {
		return p.parseLambdaFrom(tok)
	}
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return exp
}

// parseArgList parses a comma-separated, possibly empty, parenthesized
// argument list. p.cur must be '(' on entry; it is 'RPAREN' on a
// successful return.
func (p *Parser) parseArgList() []*ast.Argument {
	var args []*ast.Argument
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	for {
		argTok := p.cur
		name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
		if !p.expectPeek(token.COLON) {
			return args
		}
		p.nextToken()
		t := p.parseType()
		arg := &ast.Argument{Token: argTok, Name: name, Type: t}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			arg.Default = p.parseExpression(LOWEST)
		}
		args = append(args, arg)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RPAREN)
	return args
}

// parseLambdaFrom parses `(args): T => expr` or `(args): T => { ... }`
// once peekIsLambdaStart has confirmed the parens open a parameter list.
func (p *Parser) parseLambdaFrom(tok token.Token) ast.Expression {
	args := p.parseArgList()
	retType := p.maybeParseReturnType()

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	body := p.parseLambdaBody()
	return &ast.AnonymousFunction{Token: tok, Args: args, RetType: retType, Body: body}
}

// maybeParseReturnType consumes an optional `: Type` following an argument
// list. p.cur is left unchanged if no colon follows.
func (p *Parser) maybeParseReturnType() types.Type {
	if !p.peekIs(token.COLON) {
		return nil
	}
	p.nextToken()
	p.nextToken()
	return p.parseType()
}

// parseLambdaBody parses the `=> expr` or `=> { ... }` tail of a lambda.
// p.cur is '=>' on entry.
func (p *Parser) parseLambdaBody() *ast.Block {
	if p.peekIs(token.LBRACE) {
		p.nextToken()
		return p.parseBlock()
	}
	p.nextToken()
	exprTok := p.cur
	expr := p.parseExpression(LOWEST)
	return &ast.Block{Token: exprTok, Statements: []ast.Statement{&ast.Return{Token: exprTok, ReturnValue: expr}}}
}

// parseAnonymousFunctionKeyword parses `function (args): T { ... }` used
// in expression position.
func (p *Parser) parseAnonymousFunctionKeyword() ast.Expression {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseArgList()
	retType := p.maybeParseReturnType()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.AnonymousFunction{Token: tok, Args: args, RetType: retType, Body: body}
}

func (p *Parser) parseHashMapLiteral() ast.Expression {
	tok := p.cur
	hm := &ast.HashMap{Token: tok}
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return hm
	}
	p.nextToken()
	seen := map[string]bool{}
	for {
		keyTok := p.cur
		var key string
		switch p.cur.Kind {
		case token.IDENT:
			key = p.cur.Lexeme
		case token.STRING:
			key = stripQuotes(p.cur.Lexeme)
		default:
			p.errorf(p.cur, "expected a hashmap key, got %s", p.cur.Kind)
		}
		if seen[key] {
			p.errorf(keyTok, "duplicate hashmap key %q", key)
		}
		seen[key] = true
		if !p.expectPeek(token.COLON) {
			return hm
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		hm.Pairs = append(hm.Pairs, ast.HashMapPair{Key: key, Value: val})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RBRACE)
	return hm
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	arr := &ast.Array{Token: tok}
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}
	p.nextToken()
	arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RBRACKET)
	return arr
}

func (p *Parser) parseInfixBinary(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	prec := precedences[tok.Kind]
	p.nextToken()
	right := p.parseExpression(p.parseExpressionRightAssoc(prec, tok.Kind))
	return &ast.Infix{Token: tok, Kind: ast.InfixBinary, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseSuffix(left ast.Expression) ast.Expression {
	tok := p.cur
	return &ast.Suffix{Token: tok, Operator: tok.Lexeme, Left: left}
}

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	tok := p.cur
	var args []ast.Expression
	if p.peekIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseExpression(LOWEST))
		}
		p.expectPeek(token.RPAREN)
	}
	return &ast.Call{Token: tok, Function: left, Args: args}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET)
	return &ast.ArrayIndex{Token: tok, Left: left, Index: idx}
}

func (p *Parser) parseMethodAccess(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	right := p.parseExpression(METHOD)
	return &ast.Infix{Token: tok, Kind: ast.InfixMethod, Left: left, Operator: "->", Right: right}
}

func (p *Parser) parseAsAlias(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	typeTok := p.cur
	t := p.parseType()
	right := &ast.TypeExpr{Token: typeTok, Type: t}
	return &ast.Infix{Token: tok, Kind: ast.InfixAs, Left: left, Operator: "as", Right: right}
}
