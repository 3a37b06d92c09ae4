package eval

import (
	"github.com/minilang/minilang/internal/loader"
)

// Namespace is one module's runtime surface: its function closures and a
// reverse index from enum-variant name to the enum that owns it, plus the
// namespaces of the modules it imports, keyed by the alias used to reach
// them. A loaded module's namespace is not changed after buildNamespace
// returns (spec section 5); only the REPL's session namespace is
// extended later, by DefineEnum, DefineFn and EvalStmts.
type Namespace struct {
	Env      *Environment
	Variants map[string]variantInfo // local enum variants, by name
	Imports  map[string]*Namespace  // import alias -> that module's namespace
	Exports  map[string]bool
}

type variantInfo struct {
	enumName   string
	payloadLen int
}

// buildNamespace builds (and memoizes, by file path) the runtime
// namespace for mod and every module it transitively imports. Every
// function in mod becomes a FuncValue closed over mod's own namespace —
// never the importer's — so a call through an alias still resolves names
// lexically inside the callee's module.
func (ev *Evaluator) buildNamespace(mod *loader.Module) *Namespace {
	if ns, ok := ev.namespaces[mod.Path]; ok {
		return ns
	}
	ns := &Namespace{
		Env:      NewEnvironment(),
		Variants: make(map[string]variantInfo),
		Imports:  make(map[string]*Namespace),
		Exports:  mod.Exports,
	}
	ev.namespaces[mod.Path] = ns

	for alias, child := range mod.Imports {
		ns.Imports[alias] = ev.buildNamespace(child)
	}

	for _, en := range mod.File.Enums {
		for _, v := range en.Variants {
			ns.Variants[v.Name] = variantInfo{enumName: en.Name, payloadLen: len(v.Payload)}
		}
	}

	for _, fn := range mod.File.Fns {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name
		}
		ns.Env.Define(fn.Name, &FuncValue{Name: fn.Name, Params: params, Body: fn.Body, Closure: ns.Env})
	}

	return ns
}
