package parser

import (
	"strconv"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
)

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression is the precedence-climbing entry point: all binary
// operators left-associate, unary and postfix bind tighter than any
// binary operator.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf(diag.PAR001, "unexpected token in expression: %s", p.cur.Type)
		return p.errExpr()
	}
	left := prefix()

	// Prefix functions consume their own tokens, so cur is already the
	// candidate operator/call/index/dot token here.
	for !p.curIs(lexer.SEMICOLON) && precedence < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

// errExpr is the expression-position placeholder used after a no-prefix
// diagnostic; the enclosing statement always becomes an ErrStmt, so this
// value is never actually evaluated.
func (p *Parser) errExpr() ast.Expr {
	return &ast.Ident{Base: ast.Base{Sp: p.curSpan()}, Name: "<error>"}
}

func (p *Parser) parseIdentOrQualified() ast.Expr {
	tok := p.advance()
	return &ast.Ident{Base: ast.Base{Sp: p.spanFrom(tok)}, Name: tok.Literal}
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.advance()
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf(diag.PAR001, "invalid integer literal %q", tok.Literal)
	}
	return &ast.IntLit{Base: ast.Base{Sp: p.spanFrom(tok)}, Value: v}
}

func (p *Parser) parseStrLit() ast.Expr {
	tok := p.advance()
	return &ast.StrLit{Base: ast.Base{Sp: p.spanFrom(tok)}, Value: tok.Literal}
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.advance()
	return &ast.BoolLit{Base: ast.Base{Sp: p.spanFrom(tok)}, Value: tok.Type == lexer.TRUE}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.advance()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpr{Base: ast.Base{Sp: p.spanFrom(tok)}, Op: tok.Literal, Operand: operand}
}

func (p *Parser) parseParen() ast.Expr {
	tok := p.advance() // '('
	inner := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.ParenExpr{Base: ast.Base{Sp: p.spanFrom(tok)}, Inner: inner}
}

func (p *Parser) parseListLit() ast.Expr {
	tok := p.advance() // '['
	var elems []ast.Expr
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ListLit{Base: ast.Base{Sp: p.spanFrom(tok)}, Elements: elems}
}

func (p *Parser) parseRecordLit() ast.Expr {
	tok := p.advance() // '{'
	var fields []ast.RecordField
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		name := p.cur.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		value := p.parseExpression(LOWEST)
		fields = append(fields, ast.RecordField{Name: name, Value: value})
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.RecordLit{Base: ast.Base{Sp: p.spanFrom(tok)}, Fields: fields}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.cur.Literal
	prec := p.curPrecedence()
	p.advance() // consume operator
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{
		Base: ast.Base{Sp: ast.Span{Start: left.Span().Start, End: p.posOf(p.prevEnd)}},
		Op:   op, Left: left, Right: right,
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.CallExpr{
		Base:   ast.Base{Sp: ast.Span{Start: callee.Span().Start, End: p.posOf(p.prevEnd)}},
		Callee: callee, Args: args,
	}
}

func (p *Parser) parseIndex(target ast.Expr) ast.Expr {
	p.advance() // '['
	idx := p.parseExpression(LOWEST)
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpr{
		Base:   ast.Base{Sp: ast.Span{Start: target.Span().Start, End: p.posOf(p.prevEnd)}},
		Target: target, Index: idx,
	}
}

func (p *Parser) parseFieldAccess(target ast.Expr) ast.Expr {
	p.advance() // '.'
	field := p.cur.Literal
	p.expect(lexer.IDENT)
	return &ast.FieldAccess{
		Base:   ast.Base{Sp: ast.Span{Start: target.Span().Start, End: p.posOf(p.prevEnd)}},
		Target: target, Field: field,
	}
}

func (p *Parser) parseIfExpr() ast.Expr {
	tok := p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	then := p.parseBlock()
	var els *ast.Block
	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			// `else if` desugars to `else { if ... }`.
			innerStart := p.cur
			innerIf := p.parseIfExpr()
			stmt := &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(innerStart)}, X: innerIf}
			els = &ast.Block{Base: ast.Base{Sp: innerIf.Span()}, Stmts: []ast.Stmt{stmt}}
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfExpr{Base: ast.Base{Sp: p.spanFrom(tok)}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseMatchExpr() ast.Expr {
	tok := p.advance() // 'match'
	subject := p.parseExpression(LOWEST)
	p.expect(lexer.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		pat := p.parsePattern()
		p.expect(lexer.FARROW)
		body := p.parseBlock()
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		if p.curIs(lexer.SEMICOLON) {
			p.advance() // trailing ';' after a match arm is optional
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.MatchExpr{Base: ast.Base{Sp: p.spanFrom(tok)}, Subject: subject, Arms: arms}
}
