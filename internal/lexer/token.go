package lexer

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT
	INT
	STRING
	TRUE
	FALSE

	// Keywords
	MODULE
	IMPORT
	ENUM
	FN
	LET
	SET
	RETURN
	WHILE
	FOR
	IN
	BY
	BREAK
	CONTINUE
	IF
	ELSE
	MATCH
	EXPORT

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	DOT
	ARROW    // ->
	FARROW   // =>
	UNDERSCORE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	EQ  // ==
	NEQ // !=
	LT
	LTE
	GT
	GTE
	ANDAND // &&
	OROR   // ||
	BANG   // !
	ASSIGN // =

	// Ranges
	RANGE      // ..
	RANGE_INCL // ..=
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", STRING: "STRING", TRUE: "true", FALSE: "false",
	MODULE: "module", IMPORT: "import", ENUM: "enum", FN: "fn", LET: "let",
	SET: "set", RETURN: "return", WHILE: "while", FOR: "for", IN: "in",
	BY: "by", BREAK: "break", CONTINUE: "continue", IF: "if", ELSE: "else",
	MATCH: "match", EXPORT: "export",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMICOLON: ";", COLON: ":", DOT: ".", ARROW: "->", FARROW: "=>",
	UNDERSCORE: "_",
	PLUS:       "+", MINUS: "-", STAR: "*", SLASH: "/", EQ: "==", NEQ: "!=",
	LT: "<", LTE: "<=", GT: ">", GTE: ">=", ANDAND: "&&", OROR: "||", BANG: "!",
	ASSIGN: "=", RANGE: "..", RANGE_INCL: "..=",
}

func (t TokenType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

var keywords = map[string]TokenType{
	"module": MODULE, "import": IMPORT, "enum": ENUM, "fn": FN, "let": LET,
	"set": SET, "return": RETURN, "while": WHILE, "for": FOR, "in": IN,
	"by": BY, "break": BREAK, "continue": CONTINUE, "if": IF, "else": ELSE,
	"match": MATCH, "export": EXPORT, "true": TRUE, "false": FALSE,
}

// LookupIdent reclassifies an identifier as a keyword token when it
// matches a reserved word.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "_" {
		return UNDERSCORE
	}
	return IDENT
}

// Token is a single lexeme with its source span.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Offset  int
	File    string
}

func (t Token) Position() string {
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Type, t.Literal, t.Position())
}

// IsOperator reports whether a token is one of the binary/unary operators.
func (t Token) IsOperator() bool {
	switch t.Type {
	case PLUS, MINUS, STAR, SLASH, EQ, NEQ, LT, LTE, GT, GTE, ANDAND, OROR, BANG:
		return true
	}
	return false
}

// IsKeyword reports whether a token is a reserved word.
func (t Token) IsKeyword() bool {
	switch t.Type {
	case MODULE, IMPORT, ENUM, FN, LET, SET, RETURN, WHILE, FOR, IN, BY,
		BREAK, CONTINUE, IF, ELSE, MATCH, EXPORT, TRUE, FALSE:
		return true
	}
	return false
}
