// Package parser implements a recursive-descent, precedence-climbing
// parser with error recovery (component C3).
package parser

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	LOWEST int = iota
	OR         // ||
	AND        // &&
	EQUALITY   // == !=
	COMPARE    // < <= > >=
	SUM        // + -
	PRODUCT    // * /
	PREFIX     // unary - !
	POSTFIX    // . [ ] (
)

var precedences = map[lexer.TokenType]int{
	lexer.OROR:     OR,
	lexer.ANDAND:   AND,
	lexer.EQ:       EQUALITY,
	lexer.NEQ:      EQUALITY,
	lexer.LT:       COMPARE,
	lexer.LTE:      COMPARE,
	lexer.GT:       COMPARE,
	lexer.GTE:      COMPARE,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.DOT:      POSTFIX,
	lexer.LBRACKET: POSTFIX,
	lexer.LPAREN:   POSTFIX,
}

// topLevelResync is the set of keywords that may start a new top-level
// item; recovery stops skipping as soon as it sees one of these.
var topLevelResync = map[lexer.TokenType]bool{
	lexer.FN:     true,
	lexer.ENUM:   true,
	lexer.IMPORT: true,
	lexer.MODULE: true,
	lexer.EXPORT: true,
}

// Parser builds an AST from a token stream, recovering from the first
// unexpected token per statement rather than aborting.
type Parser struct {
	l    *lexer.Lexer
	sink *diag.Sink

	cur     lexer.Token
	peek    lexer.Token
	prevEnd lexer.Token

	// allErrors selects whether parsing continues after the first
	// diagnostic ("--all-errors" mode) or stops.
	allErrors bool
	stopped   bool

	prefixFns map[lexer.TokenType]func() ast.Expr
	infixFns  map[lexer.TokenType]func(ast.Expr) ast.Expr
}

// New creates a Parser. sink receives PAR-coded diagnostics.
func New(l *lexer.Lexer, sink *diag.Sink, allErrors bool) *Parser {
	p := &Parser{l: l, sink: sink, allErrors: allErrors}

	p.prefixFns = map[lexer.TokenType]func() ast.Expr{
		lexer.IDENT:    p.parseIdentOrQualified,
		lexer.INT:      p.parseIntLit,
		lexer.STRING:   p.parseStrLit,
		lexer.TRUE:     p.parseBoolLit,
		lexer.FALSE:    p.parseBoolLit,
		lexer.MINUS:    p.parseUnary,
		lexer.BANG:     p.parseUnary,
		lexer.LPAREN:   p.parseParen,
		lexer.LBRACKET: p.parseListLit,
		lexer.LBRACE:   p.parseRecordLit,
		lexer.IF:       p.parseIfExpr,
		lexer.MATCH:    p.parseMatchExpr,
	}

	p.infixFns = map[lexer.TokenType]func(ast.Expr) ast.Expr{
		lexer.PLUS: p.parseBinary, lexer.MINUS: p.parseBinary,
		lexer.STAR: p.parseBinary, lexer.SLASH: p.parseBinary,
		lexer.EQ: p.parseBinary, lexer.NEQ: p.parseBinary,
		lexer.LT: p.parseBinary, lexer.LTE: p.parseBinary,
		lexer.GT: p.parseBinary, lexer.GTE: p.parseBinary,
		lexer.ANDAND: p.parseBinary, lexer.OROR: p.parseBinary,
		lexer.LPAREN:   p.parseCall,
		lexer.LBRACKET: p.parseIndex,
		lexer.DOT:      p.parseFieldAccess,
	}

	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) curSpan() ast.Span {
	pos := ast.Pos{Line: p.cur.Line, Column: p.cur.Column, Offset: p.cur.Offset, File: p.cur.File}
	return ast.Span{Start: pos, End: pos}
}

func (p *Parser) posOf(t lexer.Token) ast.Pos {
	return ast.Pos{Line: t.Line, Column: t.Column, Offset: t.Offset, File: t.File}
}

func (p *Parser) spanFrom(start lexer.Token) ast.Span {
	return ast.Span{Start: p.posOf(start), End: p.posOf(p.prevEnd)}
}

// expect advances past the current token if it matches t, else records a
// PAR001 diagnostic and returns false without advancing.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf(diag.PAR001, "expected %s, got %s", t, p.cur.Type)
	return false
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur
	p.prevEnd = tok
	p.next()
	return tok
}

func (p *Parser) errorf(code diag.Code, format string, args ...interface{}) {
	if p.sink == nil {
		return
	}
	sp := p.curSpan()
	p.sink.Report(code, sp, format, args...)
	if !p.allErrors {
		p.stopped = true
	}
}

func (p *Parser) diagCount() int {
	if p.sink == nil {
		return 0
	}
	return len(p.sink.All())
}

// ParseFile parses an entire module's source text, recovering from
// errors at statement/item granularity.
func (p *Parser) ParseFile() *ast.File {
	return p.parseFile()
}
