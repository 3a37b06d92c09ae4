package parser

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
)

// parseFile implements `program ::= module_decl? (import | export |
// enum_def | fn_def)*` with item-level error recovery.
func (p *Parser) parseFile() *ast.File {
	start := p.cur
	f := &ast.File{}

	if p.curIs(lexer.MODULE) {
		f.Module = p.parseModuleDecl()
	}

	for !p.curIs(lexer.EOF) {
		if p.stopped {
			break
		}
		switch p.cur.Type {
		case lexer.IMPORT:
			f.Imports = append(f.Imports, p.parseImportDecl())
			f.Items = append(f.Items, f.Imports[len(f.Imports)-1])
		case lexer.EXPORT:
			exp := p.parseExportDecl()
			f.Exports = append(f.Exports, exp)
			f.Items = append(f.Items, exp)
		case lexer.ENUM:
			en := p.parseEnumDef()
			f.Enums = append(f.Enums, en)
			f.Items = append(f.Items, en)
		case lexer.FN:
			fn := p.parseFnDef()
			f.Fns = append(f.Fns, fn)
			f.Items = append(f.Items, fn)
		case lexer.MODULE:
			p.errorf(diag.PAR003, "unexpected second module declaration")
			p.advance() // MODULE is itself a resync keyword
			p.recoverTopLevel()
		default:
			p.errorf(diag.PAR001, "unexpected token at top level: %s", p.cur.Type)
			p.recoverTopLevel()
		}
	}

	f.Sp = p.spanFrom(start)
	return f
}

// recoverTopLevel skips tokens until a top-level keyword or EOF, per spec
// section 4.2.
func (p *Parser) recoverTopLevel() {
	for !p.curIs(lexer.EOF) && !topLevelResync[p.cur.Type] {
		p.advance()
	}
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	start := p.cur
	p.advance() // 'module'
	name := p.parseDottedPath()
	p.expect(lexer.SEMICOLON)
	return &ast.ModuleDecl{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name}
}

func (p *Parser) parseDottedPath() string {
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	for p.curIs(lexer.DOT) {
		p.advance()
		name += "." + p.cur.Literal
		p.expect(lexer.IDENT)
	}
	return name
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cur
	p.advance() // 'import'
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	alias := name
	if p.curIs(lexer.IDENT) && p.cur.Literal == "as" {
		p.advance()
		alias = p.cur.Literal
		p.expect(lexer.IDENT)
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ImportDecl{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name, Alias: alias}
}

func (p *Parser) parseExportDecl() *ast.ExportDecl {
	start := p.cur
	p.advance() // 'export'
	if !p.expect(lexer.LBRACE) {
		p.recoverTopLevel()
		return &ast.ExportDecl{Base: ast.Base{Sp: p.spanFrom(start)}}
	}
	var names []string
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		names = append(names, p.cur.Literal)
		p.expect(lexer.IDENT)
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	p.expect(lexer.SEMICOLON)
	return &ast.ExportDecl{Base: ast.Base{Sp: p.spanFrom(start)}, Names: names}
}

func (p *Parser) parseEnumDef() *ast.EnumDef {
	start := p.cur
	p.advance() // 'enum'
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	if !p.expect(lexer.LBRACE) {
		p.recoverTopLevel()
		return &ast.EnumDef{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name}
	}
	var variants []ast.EnumVariant
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		vName := p.cur.Literal
		p.expect(lexer.IDENT)
		var payload []ast.TypeExpr
		if p.curIs(lexer.LPAREN) {
			p.advance()
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				payload = append(payload, p.parseTypeExpr())
				if p.curIs(lexer.COMMA) {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Name: vName, Payload: payload})
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.EnumDef{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name, Variants: variants}
}

func (p *Parser) parseFnDef() *ast.FnDef {
	start := p.cur
	p.advance() // 'fn'
	name := p.cur.Literal
	if !p.expect(lexer.IDENT) {
		p.errorf(diag.PAR003, "invalid function declaration")
	}
	if !p.expect(lexer.LPAREN) {
		p.recoverTopLevel()
		return &ast.FnDef{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name}
	}
	var params []ast.Param
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		pname := p.cur.Literal
		p.expect(lexer.IDENT)
		var ptype ast.TypeExpr
		if p.curIs(lexer.COLON) {
			p.advance()
			ptype = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)

	var ret ast.TypeExpr
	if p.curIs(lexer.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}

	body := p.parseBlock()
	return &ast.FnDef{
		Base: ast.Base{Sp: p.spanFrom(start)}, Name: name,
		Params: params, RetType: ret, Body: body,
	}
}
