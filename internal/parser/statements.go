package parser

import (
	"github.com/sflynlang/sflyn/internal/ast"
	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.LET, token.CONST:
		return p.parseVariableStatement()
	case token.FUNCTION:
		if p.peekIs(token.IDENT) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.INTERFACE:
		return p.parseInterfaceStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.cur // '{'
	block := &ast.Block{Token: tok}
	p.constScope = newParseScope(p.constScope)
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	p.constScope = p.constScope.outer
	return block
}

func assignOpOf(k token.Kind) (string, bool) {
	switch k {
	case token.ASSIGN:
		return "=", true
	case token.PLUS_ASSIGN:
		return "+=", true
	case token.MINUS_ASSIGN:
		return "-=", true
	case token.TIMES_ASSIGN:
		return "*=", true
	case token.DIVIDE_ASSIGN:
		return "/=", true
	}
	return "", false
}

// parseAssignableExpression parses an expression and, if it is
// immediately followed by one of the assignment operators, folds it into
// an InfixAssign node. Assignment is dispatched at the statement level
// rather than through the Pratt infix table, since its precedence would
// otherwise collide with LOWEST at the top of parseExpression.
func (p *Parser) parseAssignableExpression() ast.Expression {
	left := p.parseExpression(LOWEST)
	if op, ok := assignOpOf(p.pk.Kind); ok {
		opTok := p.pk
		p.nextToken()
		p.nextToken()
		right := p.parseExpression(LOWEST)
		left = &ast.Infix{Token: opTok, Kind: ast.InfixAssign, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseAssignableExpression()
	stmt := &ast.ExpressionStatement{Token: tok, Expression: expr}
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseVariableStatement() ast.Statement {
	tok := p.cur // 'let' or 'const'
	isConst := tok.Kind == token.CONST
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}

	var annotation types.Type
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		annotation = p.parseType()
	}

	var value ast.Expression
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}

	if isConst {
		p.constScope.declareConst(name.Value)
	}

	stmt := &ast.Variable{Token: tok, Const: isConst, Name: name, Annotation: annotation, Value: value}
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	tok := p.cur // 'function'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseArgList()
	retType := p.maybeParseReturnType()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.Function{Token: tok, Name: name, Args: args, RetType: retType, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	var val ast.Expression
	if !p.peekIs(token.SEMICOLON) {
		p.nextToken()
		val = p.parseExpression(LOWEST)
	}
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Return{Token: tok, ReturnValue: val}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	var branches []ast.IfBranch

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	branches = append(branches, ast.IfBranch{Condition: cond, Consequence: p.parseBlock()})

	var alt *ast.Block
	for p.peekIs(token.ELSE) {
		p.nextToken() // 'else'
		if p.peekIs(token.IF) {
			p.nextToken() // 'if'
			if !p.expectPeek(token.LPAREN) {
				break
			}
			p.nextToken()
			c := p.parseExpression(LOWEST)
			if !p.expectPeek(token.RPAREN) {
				break
			}
			if !p.expectPeek(token.LBRACE) {
				break
			}
			branches = append(branches, ast.IfBranch{Condition: c, Consequence: p.parseBlock()})
			continue
		}
		if !p.expectPeek(token.LBRACE) {
			break
		}
		alt = p.parseBlock()
		break
	}

	return &ast.IfElse{Token: tok, Branches: branches, Alternative: alt}
}

// parseForStatement parses every for-loop shape: the C-style three-slot
// form and the in/of iteration forms, distinguished by parseForHeader.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseForHeader()
	if !p.curIs(token.RPAREN) {
		p.errorf(p.cur, "expected ')' to close for-loop header, got %s", p.cur.Kind)
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.For{Token: tok, Condition: cond, Body: body}
}

// peekAt returns the token n positions past p.pk (n=0 is the same token
// peekAhead returns) by replaying the lexer on a value copy, leaving the
// parser's own position untouched. Used to look past a `[k, v]`
// destructuring header to confirm the `of` that must follow it.
func (p *Parser) peekAt(n int) token.Token {
	clone := *p.l
	var tok token.Token
	for i := 0; i <= n; i++ {
		tok = clone.NextToken()
	}
	return tok
}

// forOfPairFollows reports whether a `[` sitting pk tokens ahead of
// p.cur opens a two-identifier destructuring header terminated by `of`,
// e.g. `[k, v] of obj`.
func (p *Parser) forOfPairFollows(bracketIsPeek bool) bool {
	if bracketIsPeek {
		return p.peekAt(0).Kind == token.IDENT && p.peekAt(1).Kind == token.COMMA &&
			p.peekAt(2).Kind == token.IDENT && p.peekAt(3).Kind == token.RBRACKET &&
			p.peekAt(4).Kind == token.OF
	}
	return p.peekIs(token.IDENT) && p.peekAt(0).Kind == token.COMMA &&
		p.peekAt(1).Kind == token.IDENT && p.peekAt(2).Kind == token.RBRACKET &&
		p.peekAt(3).Kind == token.OF
}

// parseForHeader parses the inside of a for-loop's parentheses. p.cur is
// already positioned at the first token inside them on entry, and this
// leaves p.cur on the closing ')'.
func (p *Parser) parseForHeader() ast.Expression {
	startTok := p.cur

	if p.curIs(token.LET) || p.curIs(token.CONST) {
		if p.pk.Kind == token.IDENT {
			after := p.peekAhead()
			if after.Kind == token.IN || after.Kind == token.OF {
				return p.parseForInOf(startTok)
			}
		} else if p.pk.Kind == token.LBRACKET && p.forOfPairFollows(true) {
			return p.parseForInOf(startTok)
		}
	} else if p.curIs(token.IDENT) && (p.peekIs(token.IN) || p.peekIs(token.OF)) {
		return p.parseForInOf(startTok)
	} else if p.curIs(token.LBRACKET) && p.forOfPairFollows(false) {
		return p.parseForInOf(startTok)
	}

	return p.parseForCCondition(startTok)
}

func (p *Parser) parseForInOf(startTok token.Token) ast.Expression {
	if p.curIs(token.LET) || p.curIs(token.CONST) {
		p.nextToken()
	}

	var left ast.Expression
	if p.curIs(token.LBRACKET) {
		left = p.parseForOfPair()
	} else {
		left = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	}

	p.nextToken() // 'in' or 'of'
	opTok := p.cur
	p.nextToken()
	rhs := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return &ast.Infix{Token: startTok, Kind: ast.InfixInOf, Left: left, Operator: opTok.Lexeme, Right: rhs}
}

// parseForOfPair parses a for-of loop's `[k, v]` destructuring header.
// p.cur is the opening '[' on entry and the closing ']' on return,
// matching the single-identifier path's
// convention of leaving p.cur on the bound name(s).
func (p *Parser) parseForOfPair() ast.Expression {
	arrTok := p.cur
	p.nextToken()
	key := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.expectPeek(token.COMMA)
	p.nextToken()
	value := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	p.expectPeek(token.RBRACKET)
	return &ast.Array{Token: arrTok, Elements: []ast.Expression{key, value}}
}

func (p *Parser) parseForCCondition(startTok token.Token) ast.Expression {
	fc := &ast.ForCondition{Token: startTok}

	if !p.curIs(token.SEMICOLON) {
		if p.curIs(token.LET) || p.curIs(token.CONST) {
			fc.Init = p.parseVariableStatement()
		} else {
			fc.Init = p.parseExpressionStatement()
		}
	}
	if !p.curIs(token.SEMICOLON) {
		p.errorf(p.cur, "expected ';' in for-loop header, got %s", p.cur.Kind)
	}
	p.nextToken()

	if !p.curIs(token.SEMICOLON) {
		fc.Cond = p.parseExpression(LOWEST)
		if !p.expectPeek(token.SEMICOLON) {
			return fc
		}
	}
	p.nextToken()

	if !p.curIs(token.RPAREN) {
		tok := p.cur
		fc.Step = &ast.ExpressionStatement{Token: tok, Expression: p.parseAssignableExpression()}
		p.expectPeek(token.RPAREN)
	}

	return fc
}

func (p *Parser) parseImportStatement() ast.Statement {
	tok := p.cur

	if p.peekIs(token.STRING) {
		p.nextToken()
		path := stripQuotes(p.cur.Lexeme)
		stmt := &ast.Import{Token: tok, Mode: ast.ImportSideEffect, Path: path}
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}

	if p.peekIs(token.ASTERISK) {
		p.nextToken()
		if !p.expectPeek(token.AS) {
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ns := p.cur.Lexeme
		if !p.expectPeek(token.FROM) {
			return nil
		}
		if !p.expectPeek(token.STRING) {
			return nil
		}
		stmt := &ast.Import{Token: tok, Mode: ast.ImportNamespace, Namespace: ns, Path: stripQuotes(p.cur.Lexeme)}
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}

	if p.peekIs(token.LBRACE) {
		p.nextToken()
		var specs []ast.ImportSpecifier
		if !p.peekIs(token.RBRACE) {
			p.nextToken()
			for {
				name := p.cur.Lexeme
				alias := name
				if p.peekIs(token.AS) {
					p.nextToken()
					if !p.expectPeek(token.IDENT) {
						break
					}
					alias = p.cur.Lexeme
				}
				specs = append(specs, ast.ImportSpecifier{Name: name, Alias: alias})
				if p.peekIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					continue
				}
				break
			}
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		if !p.expectPeek(token.FROM) {
			return nil
		}
		if !p.expectPeek(token.STRING) {
			return nil
		}
		stmt := &ast.Import{Token: tok, Mode: ast.ImportNamed, Specifiers: specs, Path: stripQuotes(p.cur.Lexeme)}
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}

	if p.peekIs(token.IDENT) {
		p.nextToken()
		ns := p.cur.Lexeme
		if !p.expectPeek(token.FROM) {
			return nil
		}
		if !p.expectPeek(token.STRING) {
			return nil
		}
		stmt := &ast.Import{Token: tok, Mode: ast.ImportNamespace, Namespace: ns, Path: stripQuotes(p.cur.Lexeme)}
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}

	p.errorf(p.pk, "invalid import statement")
	return nil
}

func (p *Parser) parseExportStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	inner := p.parseStatement()
	if inner == nil {
		return nil
	}
	return &ast.Export{Token: tok, Inner: inner}
}

func (p *Parser) parseInterfaceStatement() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var fields []ast.InterfaceField
	seen := map[string]bool{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fieldTok := p.cur
		fname := p.cur.Lexeme
		if seen[fname] {
			p.errorf(fieldTok, "duplicate interface field %q", fname)
		}
		seen[fname] = true
		if !p.expectPeek(token.COLON) {
			break
		}
		p.nextToken()
		ftype := p.parseType()
		fields = append(fields, ast.InterfaceField{Name: fname, Type: ftype})
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		} else if p.peekIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}

	return &ast.Interface{Token: tok, Name: name, Fields: fields}
}
