package parser

import (
	"fmt"
	"testing"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
)

func parseExprString(t *testing.T, src string) (ast.Expr, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(diag.ModeAll, "test.ml", src)
	l := lexer.New(src, "test.ml", sink)
	p := New(l, sink, true)
	expr := p.parseExpression(LOWEST)
	return expr, sink
}

// render renders an expression back into a fully parenthesized form, for
// asserting precedence and associativity without a full pretty-printer.
func render(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *ast.StrLit:
		return fmt.Sprintf("%q", n.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *ast.Ident:
		return n.Name
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", n.Op, render(n.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", render(n.Left), n.Op, render(n.Right))
	case *ast.FieldAccess:
		return fmt.Sprintf("%s.%s", render(n.Target), n.Field)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", render(n.Target), render(n.Index))
	case *ast.CallExpr:
		args := ""
		for i, a := range n.Args {
			if i > 0 {
				args += ", "
			}
			args += render(a)
		}
		return fmt.Sprintf("%s(%s)", render(n.Callee), args)
	case *ast.ParenExpr:
		return render(n.Inner)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"add_vs_multiply", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"multiply_vs_add", "2 * 3 + 1", "((2 * 3) + 1)"},
		{"subtract_vs_multiply", "10 - 2 * 3", "(10 - (2 * 3))"},
		{"divide_vs_add", "10 / 2 + 3", "((10 / 2) + 3)"},
		{"add_left_assoc", "1 + 2 + 3", "((1 + 2) + 3)"},
		{"subtract_left_assoc", "10 - 5 - 2", "((10 - 5) - 2)"},
		{"multiply_left_assoc", "2 * 3 * 4", "((2 * 3) * 4)"},
		{"compare_vs_add", "1 + 2 < 3 + 4", "((1 + 2) < (3 + 4))"},
		{"compare_vs_multiply", "2 * 3 == 3 * 2", "((2 * 3) == (3 * 2))"},
		{"and_vs_or", "x || y && z", "(x || (y && z))"},
		{"or_vs_and", "x && y || z", "((x && y) || z)"},
		{"and_left_assoc", "a && b && c", "((a && b) && c)"},
		{"complex_logical", "a && b || c && d", "((a && b) || (c && d))"},
		{"unary_binds_tighter_than_product", "-a * b", "((-a) * b)"},
		{"not_binds_tighter_than_and", "!a && b", "((!a) && b)"},
		{"paren_overrides_precedence", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"call_binds_tighter_than_product", "f(1) * 2", "(f(1) * 2)"},
		{"index_binds_tighter_than_add", "xs[0] + 1", "(xs[0] + 1)"},
		{"field_then_call", "obj.method(1, 2)", "obj.method(1, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, sink := parseExprString(t, tt.input)
			if sink.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", sink.Format())
			}
			if got := render(expr); got != tt.expected {
				t.Errorf("input=%q got=%q want=%q", tt.input, got, tt.expected)
			}
		})
	}
}

func parseFile(t *testing.T, src string, allErrors bool) (*ast.File, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(diag.ModeAll, "test.ml", src)
	l := lexer.New(src, "test.ml", sink)
	p := New(l, sink, allErrors)
	f := p.ParseFile()
	return f, sink
}

func TestParseModuleImportExport(t *testing.T) {
	f, sink := parseFile(t, `
module app;

import mathutil;
import collections as coll;

export { run };

fn run() {}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if f.Module == nil || f.Module.Name != "app" {
		t.Fatalf("expected module decl %q, got %+v", "app", f.Module)
	}
	if len(f.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(f.Imports))
	}
	if f.Imports[0].Name != "mathutil" || f.Imports[0].Alias != "mathutil" {
		t.Errorf("unaliased import: got %+v", f.Imports[0])
	}
	if f.Imports[1].Name != "collections" || f.Imports[1].Alias != "coll" {
		t.Errorf("aliased import: got %+v", f.Imports[1])
	}
	if len(f.Exports) != 1 || f.Exports[0].Names[0] != "run" {
		t.Fatalf("expected export {run}, got %+v", f.Exports)
	}
}

func TestParseEnumDefWithPayloads(t *testing.T) {
	f, sink := parseFile(t, `
enum Option {
	None,
	Some(Int),
}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if len(f.Enums) != 1 {
		t.Fatalf("expected 1 enum, got %d", len(f.Enums))
	}
	en := f.Enums[0]
	if en.Name != "Option" || len(en.Variants) != 2 {
		t.Fatalf("got %+v", en)
	}
	if en.Variants[0].Name != "None" || en.Variants[0].Payload != nil {
		t.Errorf("None should be nullary, got %+v", en.Variants[0])
	}
	if en.Variants[1].Name != "Some" || len(en.Variants[1].Payload) != 1 {
		t.Errorf("Some should carry one payload type, got %+v", en.Variants[1])
	}
}

func TestParseFnDefParamsAndReturnType(t *testing.T) {
	f, sink := parseFile(t, `
fn add(a: Int, b: Int) -> Int {
	return a + b;
}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if len(f.Fns) != 1 {
		t.Fatalf("expected 1 fn, got %d", len(f.Fns))
	}
	fn := f.Fns[0]
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", fn)
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("unexpected param names: %+v", fn.Params)
	}
	namedRet, ok := fn.RetType.(*ast.NamedType)
	if !ok || namedRet.Name != "Int" {
		t.Errorf("expected return type Int, got %+v", fn.RetType)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body stmt, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Errorf("expected ReturnStmt, got %T", fn.Body.Stmts[0])
	}
}

func TestParseLetSetWhileForBreakContinue(t *testing.T) {
	f, sink := parseFile(t, `
fn main() {
	let i = 0;
	while i < 3 {
		set i = i + 1;
		if i == 2 {
			continue;
		}
		if i == 10 {
			break;
		}
	}
	for j in 0 ..= 4 by 2 {
		print(j);
	}
}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	body := f.Fns[0].Body.Stmts
	if len(body) != 3 {
		t.Fatalf("expected 3 top-level stmts in main, got %d", len(body))
	}
	if _, ok := body[0].(*ast.LetStmt); !ok {
		t.Errorf("stmt 0: expected LetStmt, got %T", body[0])
	}
	whileStmt, ok := body[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("stmt 1: expected WhileStmt, got %T", body[1])
	}
	if len(whileStmt.Body.Stmts) != 3 {
		t.Fatalf("expected 3 stmts in while body, got %d", len(whileStmt.Body.Stmts))
	}
	forStmt, ok := body[2].(*ast.ForStmt)
	if !ok {
		t.Fatalf("stmt 2: expected ForStmt, got %T", body[2])
	}
	if !forStmt.Range.Inclusive || forStmt.Range.Step == nil {
		t.Errorf("expected inclusive range with a step, got %+v", forStmt.Range)
	}
}

func TestParseIfElseAsStatementAndExpression(t *testing.T) {
	f, sink := parseFile(t, `
fn classify(n: Int) -> Int {
	if n < 0 {
		return 0 - 1;
	} else {
		return 1;
	}
}

fn main() {
	let sign = if true { 1; } else { 0; };
	print(sign);
}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if len(f.Fns) != 2 {
		t.Fatalf("expected 2 fns, got %d", len(f.Fns))
	}
}

func TestParseMatchArmsRequireBlockBodies(t *testing.T) {
	f, sink := parseFile(t, `
enum Option {
	None,
	Some(Int),
}

fn unwrapOr(o: Option, fallback: Int) -> Int {
	match o {
		None => { return fallback; };
		Some(v) => { return v; };
	}
}
`, false)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	body := f.Fns[0].Body.Stmts
	exprStmt, ok := body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected match wrapped in an ExprStmt, got %T", body[0])
	}
	matchExpr, ok := exprStmt.X.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected MatchExpr, got %T", exprStmt.X)
	}
	if len(matchExpr.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(matchExpr.Arms))
	}
	if _, ok := matchExpr.Arms[0].Pattern.(*ast.VariantPattern); !ok {
		t.Errorf("expected VariantPattern for first arm, got %T", matchExpr.Arms[0].Pattern)
	}
	second, ok := matchExpr.Arms[1].Pattern.(*ast.VariantPattern)
	if !ok || second.Variant != "Some" || len(second.Payload) != 1 {
		t.Errorf("expected Some(v) payload pattern, got %+v", matchExpr.Arms[1].Pattern)
	}
}

func TestParseRecordAndListLiterals(t *testing.T) {
	expr, sink := parseExprString(t, `{ x: 1, y: 2 }`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	rec, ok := expr.(*ast.RecordLit)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("got %+v", expr)
	}

	expr, sink = parseExprString(t, `[1, 2, 3]`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	list, ok := expr.(*ast.ListLit)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("got %+v", expr)
	}
}

func TestParseQualifiedVariantCall(t *testing.T) {
	expr, sink := parseExprString(t, `result.Some(5)`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", expr)
	}
	field, ok := call.Callee.(*ast.FieldAccess)
	if !ok || field.Field != "Some" {
		t.Fatalf("expected FieldAccess callee to Some, got %+v", call.Callee)
	}
}

func TestParseUnexpectedTokenRecordsDiagnostic(t *testing.T) {
	_, sink := parseExprString(t, `+`)
	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for a token with no prefix parser")
	}
}

func TestParseMissingSemicolonStopsAfterFirstErrorByDefault(t *testing.T) {
	_, sink := parseFile(t, `
fn main() {
	let x = 1
	let y = 2;
}
`, false)
	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for the missing semicolon")
	}
	if len(sink.All()) != 1 {
		t.Fatalf("expected exactly one diagnostic when allErrors is false, got %d: %s", len(sink.All()), sink.Format())
	}
}

func TestParseErrorRecoveryContinuesWithAllErrors(t *testing.T) {
	f, sink := parseFile(t, `
fn a() {
	let x = ;
}

fn b() {
	let y = 2;
}
`, true)
	if !sink.HasErrors() {
		t.Fatal("expected a diagnostic for the malformed let statement")
	}
	if len(f.Fns) != 2 {
		t.Fatalf("expected both fn defs to parse, got %d", len(f.Fns))
	}
	aBody := f.Fns[0].Body.Stmts
	if len(aBody) != 1 {
		t.Fatalf("expected fn a's malformed statement to become one ErrStmt, got %d stmts", len(aBody))
	}
	if _, ok := aBody[0].(*ast.ErrStmt); !ok {
		t.Errorf("expected ErrStmt, got %T", aBody[0])
	}
	bBody := f.Fns[1].Body.Stmts
	if len(bBody) != 1 {
		t.Fatalf("expected fn b to still parse its clean statement, got %d stmts", len(bBody))
	}
	if _, ok := bBody[0].(*ast.LetStmt); !ok {
		t.Errorf("expected fn b's statement to parse cleanly after recovery, got %T", bBody[0])
	}
}
