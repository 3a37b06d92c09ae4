package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/loader"
)

// Evaluator runs a loaded module tree by tree-walking its AST (component
// C6). It is single-threaded and synchronous throughout: there is no
// suspension point besides the optional step ceiling.
type Evaluator struct {
	sink       *diag.Sink
	out        io.Writer
	namespaces map[string]*Namespace

	maxSteps int
	steps    int
}

// New creates an Evaluator. out receives `print` output; sink (optional)
// receives RT-coded diagnostics; maxSteps <= 0 means no ceiling.
func New(sink *diag.Sink, out io.Writer, maxSteps int) *Evaluator {
	return &Evaluator{
		sink:       sink,
		out:        out,
		namespaces: make(map[string]*Namespace),
		maxSteps:   maxSteps,
	}
}

// RunMain calls the root module's `main` function with zero arguments.
func (ev *Evaluator) RunMain(mod *loader.Module) (Value, error) {
	ns := ev.buildNamespace(mod)
	main, ok := ns.Env.Get("main")
	if !ok {
		return nil, ev.fail(diag.RT008, ast.Span{}, "module %q has no main function", mod.Name)
	}
	fn, ok := main.(*FuncValue)
	if !ok || len(fn.Params) != 0 {
		return nil, ev.fail(diag.RT008, ast.Span{}, "main must be a function of arity zero")
	}
	return ev.callFunction(fn, nil, ast.Span{})
}

// step enforces the optional step ceiling; it is consulted once per
// statement/expression-evaluation entry point that could recurse.
func (ev *Evaluator) step(span ast.Span) error {
	if ev.maxSteps <= 0 {
		return nil
	}
	ev.steps++
	if ev.steps > ev.maxSteps {
		return fmt.Errorf("exceeded step ceiling of %d at %s", ev.maxSteps, span)
	}
	return nil
}

func (ev *Evaluator) callFunction(fn *FuncValue, args []Value, span ast.Span) (Value, error) {
	if err := ev.step(span); err != nil {
		return nil, err
	}
	callEnv := fn.Closure.Child()
	for i, name := range fn.Params {
		if i < len(args) {
			callEnv.Define(name, args[i])
		}
	}
	val, sig, err := ev.evalBlock(fn.Body, callEnv)
	if err != nil {
		return nil, err
	}
	switch sig.kind {
	case sigReturn:
		return sig.value, nil
	case sigBreak, sigContinue:
		return nil, ev.fail(diag.RT005, fn.Body.Span(), "break/continue outside a loop")
	default:
		return val, nil
	}
}

// evalBlock runs every statement in a fresh child scope, returning the
// value of a trailing ExprStmt (or Unit), together with any signal that
// escaped the block unconsumed.
func (ev *Evaluator) evalBlock(b *ast.Block, env *Environment) (Value, signal, error) {
	blockEnv := env.Child()
	var result Value = theUnit
	for i, stmt := range b.Stmts {
		val, sig, err := ev.evalStmt(stmt, blockEnv)
		if err != nil {
			if esc, ok := err.(*signalEscape); ok {
				return nil, esc.sig, nil
			}
			return nil, noSignal, err
		}
		if sig.kind != sigNone {
			return nil, sig, nil
		}
		if i == len(b.Stmts)-1 {
			if _, ok := stmt.(*ast.ExprStmt); ok {
				result = val
			}
		}
	}
	return result, noSignal, nil
}

func (ev *Evaluator) evalStmt(stmt ast.Stmt, env *Environment) (Value, signal, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		v, err := ev.evalExpr(s.Value, env)
		if err != nil {
			return nil, noSignal, err
		}
		env.Define(s.Name, v)
		return theUnit, noSignal, nil
	case *ast.SetStmt:
		v, err := ev.evalExpr(s.Value, env)
		if err != nil {
			return nil, noSignal, err
		}
		env.Assign(s.Name, v)
		return theUnit, noSignal, nil
	case *ast.ReturnStmt:
		var v Value = theUnit
		if s.Value != nil {
			var err error
			v, err = ev.evalExpr(s.Value, env)
			if err != nil {
				return nil, noSignal, err
			}
		}
		return nil, signal{kind: sigReturn, value: v}, nil
	case *ast.WhileStmt:
		return ev.evalWhile(s, env)
	case *ast.ForStmt:
		return ev.evalFor(s, env)
	case *ast.BreakStmt:
		return nil, signal{kind: sigBreak}, nil
	case *ast.ContinueStmt:
		return nil, signal{kind: sigContinue}, nil
	case *ast.ErrStmt:
		return theUnit, noSignal, nil
	case *ast.ExprStmt:
		v, err := ev.evalExpr(s.X, env)
		if err != nil {
			return nil, noSignal, err
		}
		return v, noSignal, nil
	default:
		return theUnit, noSignal, nil
	}
}

func (ev *Evaluator) evalWhile(s *ast.WhileStmt, env *Environment) (Value, signal, error) {
	for {
		if err := ev.step(s.Span()); err != nil {
			return nil, noSignal, err
		}
		condV, err := ev.evalExpr(s.Cond, env)
		if err != nil {
			return nil, noSignal, err
		}
		if !truthy(condV) {
			return theUnit, noSignal, nil
		}
		_, sig, err := ev.evalBlock(s.Body, env)
		if err != nil {
			return nil, noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return theUnit, noSignal, nil
		case sigReturn:
			return nil, sig, nil
		}
	}
}

// evalFor implements `for i in a .. b by step { ... }` / `..=`: bounds and
// step are evaluated once, the default step is +1 when a <= b and -1
// otherwise, an explicit step must be non-zero and point the same
// direction as the range, and the loop variable is rebound fresh each
// iteration.
func (ev *Evaluator) evalFor(s *ast.ForStmt, env *Environment) (Value, signal, error) {
	startV, err := ev.evalExpr(s.Range.Start, env)
	if err != nil {
		return nil, noSignal, err
	}
	endV, err := ev.evalExpr(s.Range.End, env)
	if err != nil {
		return nil, noSignal, err
	}
	start, ok1 := startV.(*IntValue)
	end, ok2 := endV.(*IntValue)
	if !ok1 || !ok2 {
		return nil, noSignal, ev.fail(diag.RT006, s.Span(), "for range bounds must be Int")
	}

	step := int64(1)
	if start.Value > end.Value {
		step = -1
	}
	if s.Range.Step != nil {
		stepV, err := ev.evalExpr(s.Range.Step, env)
		if err != nil {
			return nil, noSignal, err
		}
		sv, ok := stepV.(*IntValue)
		if !ok || sv.Value == 0 {
			return nil, noSignal, ev.fail(diag.RT006, s.Span(), "for range step must be a non-zero Int")
		}
		if diff := end.Value - start.Value; diff != 0 && (sv.Value > 0) != (diff > 0) {
			return nil, noSignal, ev.fail(diag.RT006, s.Span(), "for range step must match the range direction")
		}
		step = sv.Value
	}

	for i := start.Value; inRange(i, end.Value, step, s.Range.Inclusive); i += step {
		if err := ev.step(s.Span()); err != nil {
			return nil, noSignal, err
		}
		iterEnv := env.Child()
		iterEnv.Define(s.Var, &IntValue{Value: i})
		_, sig, err := ev.evalBlock(s.Body, iterEnv)
		if err != nil {
			return nil, noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return theUnit, noSignal, nil
		case sigReturn:
			return nil, sig, nil
		}
	}
	return theUnit, noSignal, nil
}

func inRange(i, end, step int64, inclusive bool) bool {
	if step > 0 {
		if inclusive {
			return i <= end
		}
		return i < end
	}
	if inclusive {
		return i >= end
	}
	return i > end
}

// truthy implements the fallback rule used only at condition/guard
// positions the checker admitted as Unknown: false, 0, and "" are falsy,
// everything else is truthy.
func truthy(v Value) bool {
	switch x := v.(type) {
	case *BoolValue:
		return x.Value
	case *IntValue:
		return x.Value != 0
	case *StringValue:
		return x.Value != ""
	default:
		return true
	}
}

func (ev *Evaluator) evalExpr(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return &IntValue{Value: e.Value}, nil
	case *ast.StrLit:
		return &StringValue{Value: e.Value}, nil
	case *ast.BoolLit:
		return &BoolValue{Value: e.Value}, nil
	case *ast.Ident:
		return ev.evalIdent(e, env)
	case *ast.UnaryExpr:
		return ev.evalUnary(e, env)
	case *ast.BinaryExpr:
		return ev.evalBinary(e, env)
	case *ast.FieldAccess:
		return ev.evalFieldAccess(e, env)
	case *ast.IndexExpr:
		return ev.evalIndex(e, env)
	case *ast.ListLit:
		return ev.evalListLit(e, env)
	case *ast.RecordLit:
		return ev.evalRecordLit(e, env)
	case *ast.IfExpr:
		return ev.evalIf(e, env)
	case *ast.MatchExpr:
		return ev.evalMatch(e, env)
	case *ast.CallExpr:
		return ev.evalCall(e, env)
	case *ast.ParenExpr:
		return ev.evalExpr(e.Inner, env)
	default:
		return theUnit, nil
	}
}

func (ev *Evaluator) evalIdent(e *ast.Ident, env *Environment) (Value, error) {
	if v, ok := env.Get(e.Name); ok {
		return v, nil
	}
	if info, ok := ev.currentNamespace(env).Variants[e.Name]; ok {
		if info.payloadLen > 0 {
			return nil, ev.fail(diag.RT007, e.Span(), "variant %q requires payload; use call syntax", e.Name)
		}
		return &VariantValue{EnumName: info.enumName, Variant: e.Name}, nil
	}
	return nil, ev.fail(diag.RT007, e.Span(), "unknown identifier %q", e.Name)
}

// currentNamespace finds the module namespace whose Env is an ancestor of
// env — i.e. the module the currently-evaluating code was defined in —
// by walking to the root scope and matching it against a known namespace
// Env. Function scopes are always descended from their defining module's
// namespace, so this always terminates at one.
func (ev *Evaluator) currentNamespace(env *Environment) *Namespace {
	root := env
	for root.parent != nil {
		root = root.parent
	}
	for _, ns := range ev.namespaces {
		if ns.Env == root {
			return ns
		}
	}
	return &Namespace{}
}

func (ev *Evaluator) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	v, err := ev.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		iv, ok := v.(*IntValue)
		if !ok {
			return nil, ev.fail(diag.RT001, e.Span(), "unary - requires Int")
		}
		return &IntValue{Value: -iv.Value}, nil
	case "!":
		return &BoolValue{Value: !truthy(v)}, nil
	default:
		return nil, ev.fail(diag.RT001, e.Span(), "unknown unary operator %q", e.Op)
	}
}

func (ev *Evaluator) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	switch e.Op {
	case "&&":
		l, err := ev.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return &BoolValue{Value: false}, nil
		}
		r, err := ev.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &BoolValue{Value: truthy(r)}, nil
	case "||":
		l, err := ev.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return &BoolValue{Value: true}, nil
		}
		r, err := ev.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &BoolValue{Value: truthy(r)}, nil
	}

	l, err := ev.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ev.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return ev.evalPlus(l, r, e.Span())
	case "-", "*", "/":
		li, lok := l.(*IntValue)
		ri, rok := r.(*IntValue)
		if !lok || !rok {
			return nil, ev.fail(diag.RT001, e.Span(), "%s requires Int operands", e.Op)
		}
		switch e.Op {
		case "-":
			return &IntValue{Value: li.Value - ri.Value}, nil
		case "*":
			return &IntValue{Value: li.Value * ri.Value}, nil
		case "/":
			if ri.Value == 0 {
				return nil, ev.fail(diag.RT001, e.Span(), "division by zero")
			}
			return &IntValue{Value: li.Value / ri.Value}, nil
		}
	case "<", "<=", ">", ">=":
		li, lok := l.(*IntValue)
		ri, rok := r.(*IntValue)
		if !lok || !rok {
			return nil, ev.fail(diag.RT001, e.Span(), "%s requires Int operands", e.Op)
		}
		var b bool
		switch e.Op {
		case "<":
			b = li.Value < ri.Value
		case "<=":
			b = li.Value <= ri.Value
		case ">":
			b = li.Value > ri.Value
		case ">=":
			b = li.Value >= ri.Value
		}
		return &BoolValue{Value: b}, nil
	case "==":
		return &BoolValue{Value: valuesEqual(l, r)}, nil
	case "!=":
		return &BoolValue{Value: !valuesEqual(l, r)}, nil
	}
	return nil, ev.fail(diag.RT001, e.Span(), "unknown binary operator %q", e.Op)
}

// evalPlus implements Int+Int=Int; otherwise any String operand coerces
// the other to its display form and produces a String.
func (ev *Evaluator) evalPlus(l, r Value, span ast.Span) (Value, error) {
	li, lok := l.(*IntValue)
	ri, rok := r.(*IntValue)
	if lok && rok {
		return &IntValue{Value: li.Value + ri.Value}, nil
	}
	_, lstr := l.(*StringValue)
	_, rstr := r.(*StringValue)
	if lstr || rstr {
		return &StringValue{Value: displayForm(l) + displayForm(r)}, nil
	}
	return nil, ev.fail(diag.RT001, span, "+ requires Int+Int or a String operand")
}

func valuesEqual(l, r Value) bool {
	switch lv := l.(type) {
	case *IntValue:
		rv, ok := r.(*IntValue)
		return ok && lv.Value == rv.Value
	case *StringValue:
		rv, ok := r.(*StringValue)
		return ok && lv.Value == rv.Value
	case *BoolValue:
		rv, ok := r.(*BoolValue)
		return ok && lv.Value == rv.Value
	case *UnitValue:
		_, ok := r.(*UnitValue)
		return ok
	case *ListValue:
		rv, ok := r.(*ListValue)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for i := range lv.Elements {
			if !valuesEqual(lv.Elements[i], rv.Elements[i]) {
				return false
			}
		}
		return true
	case *RecordValue:
		rv, ok := r.(*RecordValue)
		if !ok || len(lv.Fields) != len(rv.Fields) {
			return false
		}
		for name, fv := range lv.Fields {
			ov, ok := rv.Fields[name]
			if !ok || !valuesEqual(fv, ov) {
				return false
			}
		}
		return true
	case *VariantValue:
		rv, ok := r.(*VariantValue)
		if !ok || lv.EnumName != rv.EnumName || lv.Variant != rv.Variant || len(lv.Payload) != len(rv.Payload) {
			return false
		}
		for i := range lv.Payload {
			if !valuesEqual(lv.Payload[i], rv.Payload[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (ev *Evaluator) evalIndex(e *ast.IndexExpr, env *Environment) (Value, error) {
	tv, err := ev.evalExpr(e.Target, env)
	if err != nil {
		return nil, err
	}
	iv, err := ev.evalExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	lst, ok := tv.(*ListValue)
	if !ok {
		return nil, ev.fail(diag.RT002, e.Span(), "cannot index a %s", tv.Type())
	}
	idx, ok := iv.(*IntValue)
	if !ok {
		return nil, ev.fail(diag.RT002, e.Span(), "index must be Int")
	}
	if idx.Value < 0 || idx.Value >= int64(len(lst.Elements)) {
		return nil, ev.fail(diag.RT002, e.Span(), "index %d out of bounds (len %d)", idx.Value, len(lst.Elements))
	}
	return lst.Elements[idx.Value], nil
}

func (ev *Evaluator) evalListLit(e *ast.ListLit, env *Environment) (Value, error) {
	elems := make([]Value, len(e.Elements))
	for i, el := range e.Elements {
		v, err := ev.evalExpr(el, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &ListValue{Elements: elems}, nil
}

func (ev *Evaluator) evalRecordLit(e *ast.RecordLit, env *Environment) (Value, error) {
	var order []string
	fields := make(map[string]Value, len(e.Fields))
	for _, f := range e.Fields {
		if _, dup := fields[f.Name]; dup {
			return nil, ev.fail(diag.RT009, e.Span(), "duplicate field %q in record literal", f.Name)
		}
		v, err := ev.evalExpr(f.Value, env)
		if err != nil {
			return nil, err
		}
		order = append(order, f.Name)
		fields[f.Name] = v
	}
	return &RecordValue{Order: order, Fields: fields}, nil
}

func (ev *Evaluator) evalIf(e *ast.IfExpr, env *Environment) (Value, error) {
	condV, err := ev.evalExpr(e.Cond, env)
	if err != nil {
		return nil, err
	}
	if truthy(condV) {
		v, sig, err := ev.evalBlock(e.Then, env)
		if err != nil {
			return nil, err
		}
		return ev.valueOrPropagate(v, sig)
	}
	if e.Else == nil {
		return theUnit, nil
	}
	v, sig, err := ev.evalBlock(e.Else, env)
	if err != nil {
		return nil, err
	}
	return ev.valueOrPropagate(v, sig)
}

// valueOrPropagate turns a non-sigNone signal from a nested block back
// into a Go error carrying that signal, so it can unwind through
// expression-evaluation call frames (evalIf/evalMatch) up to the nearest
// statement-evaluation frame that knows how to catch it.
func (ev *Evaluator) valueOrPropagate(v Value, sig signal) (Value, error) {
	if sig.kind == sigNone {
		return v, nil
	}
	return nil, &signalEscape{sig: sig}
}

// signalEscape carries a break/continue/return signal up through
// expression-level recursion (e.g. `if`/`match` used as an expression)
// until evalBlock's statement loop catches it again.
type signalEscape struct{ sig signal }

func (e *signalEscape) Error() string { return "signal escaped expression position" }

func (ev *Evaluator) evalMatch(e *ast.MatchExpr, env *Environment) (Value, error) {
	subject, err := ev.evalExpr(e.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range e.Arms {
		armEnv := env.Child()
		if matchPattern(arm.Pattern, subject, armEnv) {
			v, sig, err := ev.evalBlock(arm.Body, armEnv)
			if err != nil {
				return nil, err
			}
			return ev.valueOrPropagate(v, sig)
		}
	}
	return nil, ev.fail(diag.RT004, e.Span(), "non-exhaustive match: no arm matched %s", subject)
}

// matchPattern tests subject against pat, binding names into env as it
// goes. Patterns are tried in source order by the caller; the first
// match wins.
func matchPattern(pat ast.Pattern, subject Value, env *Environment) bool {
	switch p := pat.(type) {
	case *ast.IntPattern:
		v, ok := subject.(*IntValue)
		return ok && v.Value == p.Value
	case *ast.StrPattern:
		v, ok := subject.(*StringValue)
		return ok && v.Value == p.Value
	case *ast.BoolPattern:
		v, ok := subject.(*BoolValue)
		return ok && v.Value == p.Value
	case *ast.WildcardPattern:
		return true
	case *ast.BindPattern:
		env.Define(p.Name, subject)
		return true
	case *ast.VariantPattern:
		v, ok := subject.(*VariantValue)
		if !ok || v.Variant != p.Variant || len(v.Payload) != len(p.Payload) {
			return false
		}
		for i, sub := range p.Payload {
			if !matchPattern(sub, v.Payload[i], env) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (ev *Evaluator) evalFieldAccess(e *ast.FieldAccess, env *Environment) (Value, error) {
	if id, ok := e.Target.(*ast.Ident); ok {
		if _, isLocal := env.Get(id.Name); !isLocal {
			ns := ev.currentNamespace(env)
			if childNS, isAlias := ns.Imports[id.Name]; isAlias {
				return ev.resolveQualifiedValue(childNS, e.Field, e.Span())
			}
		}
	}
	target, err := ev.evalExpr(e.Target, env)
	if err != nil {
		return nil, err
	}
	rec, ok := target.(*RecordValue)
	if !ok {
		return nil, ev.fail(diag.RT003, e.Span(), "cannot access field %q on a %s", e.Field, target.Type())
	}
	v, ok := rec.Fields[e.Field]
	if !ok {
		return nil, ev.fail(diag.RT003, e.Span(), "missing field %q", e.Field)
	}
	return v, nil
}

func (ev *Evaluator) resolveQualifiedValue(ns *Namespace, field string, span ast.Span) (Value, error) {
	if v, ok := ns.Env.Get(field); ok {
		return v, nil
	}
	if info, ok := ns.Variants[field]; ok {
		if info.payloadLen > 0 {
			return nil, ev.fail(diag.RT007, span, "variant %q requires payload; use call syntax", field)
		}
		return &VariantValue{EnumName: info.enumName, Variant: field}, nil
	}
	return nil, ev.fail(diag.RT007, span, "unknown qualified name %q", field)
}

func (ev *Evaluator) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	if id, ok := e.Callee.(*ast.Ident); ok {
		if id.Name == "print" {
			return ev.evalPrint(e, env)
		}
		if _, isLocal := env.Get(id.Name); !isLocal {
			if info, ok := ev.currentNamespace(env).Variants[id.Name]; ok {
				return ev.evalVariantCall(info, id.Name, e, env)
			}
		}
	}
	if fa, ok := e.Callee.(*ast.FieldAccess); ok {
		if id, ok := fa.Target.(*ast.Ident); ok {
			if _, isLocal := env.Get(id.Name); !isLocal {
				if childNS, isAlias := ev.currentNamespace(env).Imports[id.Name]; isAlias {
					if info, ok := childNS.Variants[fa.Field]; ok {
						return ev.evalVariantCall(info, fa.Field, e, env)
					}
				}
			}
		}
	}

	calleeV, err := ev.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeV.(*FuncValue)
	if !ok {
		return nil, ev.fail(diag.RT007, e.Span(), "cannot call a %s value", calleeV.Type())
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ev.callFunction(fn, args, e.Span())
}

func (ev *Evaluator) evalVariantCall(info variantInfo, name string, e *ast.CallExpr, env *Environment) (Value, error) {
	payload := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		payload[i] = v
	}
	return &VariantValue{EnumName: info.enumName, Variant: name, Payload: payload}, nil
}

// evalPrint implements the `print` built-in: coerce each argument to its
// display form, join with single spaces, append a newline.
func (ev *Evaluator) evalPrint(e *ast.CallExpr, env *Environment) (Value, error) {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		parts[i] = displayForm(v)
	}
	if ev.out != nil {
		fmt.Fprintln(ev.out, strings.Join(parts, " "))
	}
	return theUnit, nil
}
