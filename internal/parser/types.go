package parser

import (
	"github.com/sflynlang/sflyn/internal/token"
	"github.com/sflynlang/sflyn/internal/types"
)

// parseType parses a type annotation: a primitive, interface-name
// reference, array suffix, function type, hashmap type, or a `|`-joined
// union of any of those. p.cur must already be positioned on the first
// token of the type; p.cur ends on the type's last token.
func (p *Parser) parseType() types.Type {
	first := p.parseTypeWithArraySuffix()
	if !p.peekIs(token.PIPE) {
		return first
	}
	alts := []types.Type{first}
	for p.peekIs(token.PIPE) {
		p.nextToken() // consume '|'
		p.nextToken() // move onto next alt's first token
		alts = append(alts, p.parseTypeWithArraySuffix())
	}
	return types.NewGroup(alts...)
}

func (p *Parser) parseTypeWithArraySuffix() types.Type {
	t := p.parseTypeAtom()
	for p.peekIs(token.LBRACKET) {
		if !p.expectPeek(token.LBRACKET) {
			return t
		}
		if !p.expectPeek(token.RBRACKET) {
			return t
		}
		t = &types.Array{Elem: t}
	}
	return t
}

func (p *Parser) parseTypeAtom() types.Type {
	switch p.cur.Kind {
	case token.TYPE_STRING:
		return types.String
	case token.TYPE_NUMBER:
		return types.Number
	case token.TYPE_BOOLEAN:
		return types.Boolean
	case token.TYPE_VOID:
		return types.Void
	case token.TYPE_ANY:
		return types.Any
	case token.IDENT:
		// A bare name in type position references a declared interface.
		// The parser cannot know its fields yet; the type checker
		// resolves the real *types.Interface from its interface table
		// before this placeholder is used.
		return &types.Interface{Name: p.cur.Lexeme}
	case token.LBRACE:
		return p.parseHashMapType()
	case token.LPAREN:
		return p.parseFunctionType()
	default:
		p.errorf(p.cur, "expected a type, got %s", p.cur.Kind)
		return types.Any
	}
}

func (p *Parser) parseHashMapType() types.Type {
	hm := types.NewHashMap()
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return hm
	}
	p.nextToken()
	for {
		name := p.cur.Lexeme
		if !p.expectPeek(token.COLON) {
			return hm
		}
		p.nextToken()
		hm.Set(name, p.parseType())
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

func (p *Parser) parseFunctionType() types.Type {
	var args []types.Arg
	if p.peekIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		for {
			name := p.cur.Lexeme
			if !p.expectPeek(token.COLON) {
				break
			}
			p.nextToken()
			t := p.parseType()
			args = append(args, types.Arg{Name: name, Type: t})
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.expectPeek(token.RPAREN)
	}
	if !p.expectPeek(token.ARROW) {
		return &types.Function{Args: args, Ret: types.Void}
	}
	p.nextToken()
	ret := p.parseType()
	return &types.Function{Args: args, Ret: ret}
}
