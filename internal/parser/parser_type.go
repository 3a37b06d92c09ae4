package parser

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/lexer"
)

// parseTypeExpr parses a type annotation: a (possibly qualified) named
// type, a `[T]` list type, or a `{f: T, ...}` record type.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur
	switch p.cur.Type {
	case lexer.LBRACKET:
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(lexer.RBRACKET)
		return &ast.ListTypeExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Elem: elem}
	case lexer.LBRACE:
		p.advance()
		var fields []ast.RecordFieldType
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			fname := p.cur.Literal
			p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			ftype := p.parseTypeExpr()
			fields = append(fields, ast.RecordFieldType{Name: fname, Type: ftype})
			if p.curIs(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACE)
		return &ast.RecordTypeExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Fields: fields}
	default:
		name := p.cur.Literal
		p.expect(lexer.IDENT)
		alias := ""
		if p.curIs(lexer.DOT) {
			p.advance()
			alias = name
			name = p.cur.Literal
			p.expect(lexer.IDENT)
		}
		return &ast.NamedType{Base: ast.Base{Sp: p.spanFrom(start)}, Alias: alias, Name: name}
	}
}
