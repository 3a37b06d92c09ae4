package parser

import (
	"strconv"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
)

// parsePattern parses one match-arm pattern: an int/string/bool literal,
// `_`, a bare binding name, or a (possibly qualified) variant pattern with
// an optional payload.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur
	switch p.cur.Type {
	case lexer.INT:
		tok := p.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(diag.PAR001, "invalid integer literal %q", tok.Literal)
		}
		return &ast.IntPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Value: v}
	case lexer.STRING:
		tok := p.advance()
		return &ast.StrPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.Literal}
	case lexer.TRUE, lexer.FALSE:
		tok := p.advance()
		return &ast.BoolPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.Type == lexer.TRUE}
	case lexer.IDENT, lexer.UNDERSCORE:
		return p.parseIdentPattern()
	default:
		p.errorf(diag.PAR004, "unexpected token in pattern: %s", p.cur.Type)
		p.advance()
		return &ast.WildcardPattern{Base: ast.Base{Sp: p.spanFrom(start)}}
	}
}

// parseIdentPattern distinguishes `_`, a bare binding, and a (possibly
// qualified) variant pattern `Name` / `Name(pat, ...)` / `alias.Name(...)`.
func (p *Parser) parseIdentPattern() ast.Pattern {
	start := p.cur
	name := p.cur.Literal
	p.advance()

	if name == "_" {
		return &ast.WildcardPattern{Base: ast.Base{Sp: p.spanFrom(start)}}
	}

	alias := ""
	variant := name
	if p.curIs(lexer.DOT) {
		p.advance()
		alias = name
		variant = p.cur.Literal
		p.expect(lexer.IDENT)
	}

	if !p.curIs(lexer.LPAREN) {
		if alias == "" && !isUpperVariant(variant) {
			return &ast.BindPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Name: variant}
		}
		return &ast.VariantPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Alias: alias, Variant: variant}
	}

	p.advance() // '('
	var payload []ast.Pattern
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		payload = append(payload, p.parsePattern())
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.VariantPattern{
		Base: ast.Base{Sp: p.spanFrom(start)}, Alias: alias, Variant: variant, Payload: payload,
	}
}

// isUpperVariant reports whether an identifier is capitalized, the
// convention enum variants follow; a bare lowercase identifier in pattern
// position is a binding instead.
func isUpperVariant(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}
