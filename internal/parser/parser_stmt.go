package parser

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/lexer"
)

// parseBlock parses `{ stmt* }`. A block's value is the value of its
// last ExprStmt — that rule is applied by the typechecker/evaluator,
// not here.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur
	p.expect(lexer.LBRACE)
	blk := &ast.Block{Base: ast.Base{Sp: p.spanFrom(start)}}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) && !p.stopped && !topLevelResync[p.cur.Type] {
		blk.Stmts = append(blk.Stmts, p.parseStmt())
	}
	p.expect(lexer.RBRACE)
	blk.Sp = p.spanFrom(start)
	return blk
}

// parseStmt parses one statement, replacing it with an ErrStmt and
// resynchronizing if any diagnostic was recorded while parsing it (spec
// section 4.2).
func (p *Parser) parseStmt() ast.Stmt {
	before := p.diagCount()
	start := p.cur

	var stmt ast.Stmt
	switch p.cur.Type {
	case lexer.LET:
		stmt = p.parseLetStmt()
	case lexer.SET:
		stmt = p.parseSetStmt()
	case lexer.RETURN:
		stmt = p.parseReturnStmt()
	case lexer.WHILE:
		stmt = p.parseWhileStmt()
	case lexer.FOR:
		stmt = p.parseForStmt()
	case lexer.BREAK:
		stmt = p.parseBreakStmt()
	case lexer.CONTINUE:
		stmt = p.parseContinueStmt()
	default:
		stmt = p.parseExprStmt()
	}

	if p.diagCount() > before {
		p.resyncStmt()
		return &ast.ErrStmt{Base: ast.Base{Sp: p.spanFrom(start)}}
	}
	return stmt
}

// resyncStmt skips tokens until a statement terminator, a block-level
// closing brace, or a top-level keyword, tracking nested-brace depth so
// it does not stop at a brace opened by the failing statement itself.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.curIs(lexer.EOF) {
		if depth == 0 {
			if p.curIs(lexer.SEMICOLON) {
				p.advance()
				return
			}
			if p.curIs(lexer.RBRACE) {
				return
			}
			if topLevelResync[p.cur.Type] {
				return
			}
		}
		if p.curIs(lexer.LBRACE) {
			depth++
		} else if p.curIs(lexer.RBRACE) {
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.cur
	p.advance() // 'let'
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.advance()
		typ = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON)
	return &ast.LetStmt{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name, Type: typ, Value: value}
}

func (p *Parser) parseSetStmt() ast.Stmt {
	start := p.cur
	p.advance() // 'set'
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.expect(lexer.SEMICOLON)
	return &ast.SetStmt{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name, Value: value}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur
	p.advance() // 'return'
	var value ast.Expr
	if !p.curIs(lexer.SEMICOLON) {
		value = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ReturnStmt{Base: ast.Base{Sp: p.spanFrom(start)}, Value: value}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.cur
	p.advance() // 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return &ast.WhileStmt{Base: ast.Base{Sp: p.spanFrom(start)}, Cond: cond, Body: body}
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.cur
	p.advance() // 'for'
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	rangeStart := p.parseExpression(SUM)
	inclusive := false
	if p.curIs(lexer.RANGE_INCL) {
		inclusive = true
		p.advance()
	} else {
		p.expect(lexer.RANGE)
	}
	rangeEnd := p.parseExpression(SUM)
	var step ast.Expr
	if p.curIs(lexer.BY) {
		p.advance()
		step = p.parseExpression(SUM)
	}
	body := p.parseBlock()
	return &ast.ForStmt{
		Base: ast.Base{Sp: p.spanFrom(start)}, Var: name,
		Range: ast.Range{Start: rangeStart, End: rangeEnd, Inclusive: inclusive, Step: step},
		Body:  body,
	}
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.cur
	p.advance()
	p.expect(lexer.SEMICOLON)
	return &ast.BreakStmt{Base: ast.Base{Sp: p.spanFrom(start)}}
}

func (p *Parser) parseContinueStmt() ast.Stmt {
	start := p.cur
	p.advance()
	p.expect(lexer.SEMICOLON)
	return &ast.ContinueStmt{Base: ast.Base{Sp: p.spanFrom(start)}}
}

// isBlockExpr reports whether an expression's surface syntax already ends
// in `}`, making a trailing `;` after it optional.
func isBlockExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IfExpr, *ast.MatchExpr:
		return true
	}
	return false
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur
	expr := p.parseExpression(LOWEST)
	if p.curIs(lexer.SEMICOLON) {
		p.advance()
	} else if !isBlockExpr(expr) {
		p.expect(lexer.SEMICOLON)
	}
	return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: expr}
}
