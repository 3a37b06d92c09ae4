package eval

import (
	"fmt"

	"github.com/minilang/minilang/internal/ast"
)

// NewSessionNamespace creates an empty root namespace for interactive use
// (component consumed by internal/repl), registered under key so bare
// identifiers entered later in the session resolve against it the same
// way a loaded module's namespace would.
func (ev *Evaluator) NewSessionNamespace(key string) *Namespace {
	ns := &Namespace{
		Env:      NewEnvironment(),
		Variants: make(map[string]variantInfo),
		Imports:  make(map[string]*Namespace),
		Exports:  make(map[string]bool),
	}
	ev.namespaces[key] = ns
	return ns
}

// DefineEnum registers an interactively entered enum declaration's
// variants into ns.
func (ev *Evaluator) DefineEnum(ns *Namespace, en *ast.EnumDef) {
	for _, v := range en.Variants {
		ns.Variants[v.Name] = variantInfo{enumName: en.Name, payloadLen: len(v.Payload)}
	}
}

// DefineFn registers an interactively entered function declaration's
// closure into ns.
func (ev *Evaluator) DefineFn(ns *Namespace, fn *ast.FnDef) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	ns.Env.Define(fn.Name, &FuncValue{Name: fn.Name, Params: params, Body: fn.Body, Closure: ns.Env})
}

// EvalStmts runs a sequence of statements directly against env, without
// pushing a child scope, so `let` bindings persist in env across
// successive calls — the behavior an interactive session needs and a
// function body (which always gets a fresh scope via evalBlock) does
// not.
func (ev *Evaluator) EvalStmts(stmts []ast.Stmt, env *Environment) (Value, error) {
	var result Value = theUnit
	for i, stmt := range stmts {
		val, sig, err := ev.evalStmt(stmt, env)
		if err != nil {
			if esc, ok := err.(*signalEscape); ok {
				return nil, fmt.Errorf("%s escaped top level", signalKindName(esc.sig.kind))
			}
			return nil, err
		}
		if sig.kind != sigNone {
			return nil, fmt.Errorf("%s escaped top level", signalKindName(sig.kind))
		}
		if i == len(stmts)-1 {
			if _, ok := stmt.(*ast.ExprStmt); ok {
				result = val
			}
		}
	}
	return result, nil
}

func signalKindName(k signalKind) string {
	switch k {
	case sigBreak:
		return "break"
	case sigContinue:
		return "continue"
	case sigReturn:
		return "return"
	default:
		return "signal"
	}
}
