package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `let x = 5 + 10;
fn add(a: Int, b: Int) -> Int {
	return a + b;
}

if x > 10 { print("big"); } else { print("small"); }

match value {
	Some(x) => { x * 2; };
	None => { 0; };
}

[1, 2, 3]
{ name: "Alice", age: 30 }

# a comment
true && false || !true
for i in 0 ..= 4 by 2 { print(i); }
import mathutil
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{LET, "let"}, {IDENT, "x"}, {ASSIGN, "="}, {INT, "5"}, {PLUS, "+"}, {INT, "10"}, {SEMICOLON, ";"},

		{FN, "fn"}, {IDENT, "add"}, {LPAREN, "("},
		{IDENT, "a"}, {COLON, ":"}, {IDENT, "Int"}, {COMMA, ","},
		{IDENT, "b"}, {COLON, ":"}, {IDENT, "Int"}, {RPAREN, ")"},
		{ARROW, "->"}, {IDENT, "Int"}, {LBRACE, "{"},
		{RETURN, "return"}, {IDENT, "a"}, {PLUS, "+"}, {IDENT, "b"}, {SEMICOLON, ";"},
		{RBRACE, "}"},

		{IF, "if"}, {IDENT, "x"}, {GT, ">"}, {INT, "10"}, {LBRACE, "{"},
		{IDENT, "print"}, {LPAREN, "("}, {STRING, "big"}, {RPAREN, ")"}, {SEMICOLON, ";"}, {RBRACE, "}"},
		{ELSE, "else"}, {LBRACE, "{"},
		{IDENT, "print"}, {LPAREN, "("}, {STRING, "small"}, {RPAREN, ")"}, {SEMICOLON, ";"}, {RBRACE, "}"},

		{MATCH, "match"}, {IDENT, "value"}, {LBRACE, "{"},
		{IDENT, "Some"}, {LPAREN, "("}, {IDENT, "x"}, {RPAREN, ")"}, {FARROW, "=>"},
		{LBRACE, "{"}, {IDENT, "x"}, {STAR, "*"}, {INT, "2"}, {SEMICOLON, ";"}, {RBRACE, "}"}, {SEMICOLON, ";"},
		{IDENT, "None"}, {FARROW, "=>"},
		{LBRACE, "{"}, {INT, "0"}, {SEMICOLON, ";"}, {RBRACE, "}"}, {SEMICOLON, ";"},
		{RBRACE, "}"},

		{LBRACKET, "["}, {INT, "1"}, {COMMA, ","}, {INT, "2"}, {COMMA, ","}, {INT, "3"}, {RBRACKET, "]"},
		{LBRACE, "{"}, {IDENT, "name"}, {COLON, ":"}, {STRING, "Alice"}, {COMMA, ","},
		{IDENT, "age"}, {COLON, ":"}, {INT, "30"}, {RBRACE, "}"},

		{TRUE, "true"}, {ANDAND, "&&"}, {FALSE, "false"}, {OROR, "||"}, {BANG, "!"}, {TRUE, "true"},

		{FOR, "for"}, {IDENT, "i"}, {IN, "in"}, {INT, "0"}, {RANGE_INCL, "..="}, {INT, "4"},
		{BY, "by"}, {INT, "2"}, {LBRACE, "{"},
		{IDENT, "print"}, {LPAREN, "("}, {IDENT, "i"}, {RPAREN, ")"}, {SEMICOLON, ";"}, {RBRACE, "}"},

		{IMPORT, "import"}, {IDENT, "mathutil"},

		{EOF, ""},
	}

	l := New(input, "test.ml", nil)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d] - wrong token type. expected=%s, got=%s (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("test[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerAlwaysTerminatesOnIllegalInput(t *testing.T) {
	l := New("let x = 5 @ 6;", "test.ml", nil)
	var saw []TokenType
	for i := 0; i < 100; i++ {
		tok := l.NextToken()
		saw = append(saw, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	if saw[len(saw)-1] != EOF {
		t.Fatal("lexer did not terminate in EOF within 100 tokens")
	}
	found := false
	for _, ty := range saw {
		if ty == ILLEGAL {
			found = true
		}
	}
	if !found {
		t.Error("expected an ILLEGAL token for '@'")
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`let s = "hello`, "test.ml", nil)
	var tok Token
	for {
		tok = l.NextToken()
		if tok.Type == STRING || tok.Type == EOF {
			break
		}
	}
	if tok.Type != STRING || tok.Literal != "hello" {
		t.Fatalf("expected partial string literal %q, got %v", "hello", tok)
	}
}

func TestLexerEscapeSequences(t *testing.T) {
	l := New(`"a\nb\tc\"d\\e"`, "test.ml", nil)
	tok := l.NextToken()
	want := "a\nb\tc\"d\\e"
	if tok.Type != STRING || tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}
