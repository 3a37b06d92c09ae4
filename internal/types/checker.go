package types

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
)

// Checker walks one module's function bodies against the signatures
// BuildModuleInfo already computed. It never
// short-circuits on error — a malformed subexpression resolves to
// Invalid, which the Equal rules match only against Invalid and Unknown,
// so later uses of that value can report further mismatches.
type Checker struct {
	sink    *diag.Sink
	strict  bool
	module  *ModuleInfo
	imports map[string]*ModuleInfo
	retType *Type // declared return type of the function currently being checked
	sawReturn bool // whether the current function body contains a return
}

func (c *Checker) report(code diag.Code, span ast.Span, format string, args ...interface{}) {
	if c.sink == nil {
		return
	}
	c.sink.Report(code, span, format, args...)
}

func (c *Checker) checkFn(fn *ast.FnDef) {
	sig, ok := c.module.Functions[fn.Name]
	if !ok {
		return // a malformed signature already reported at build time
	}
	env := NewEnv(nil)
	for i, p := range fn.Params {
		if i < len(sig.Params) {
			env.Define(p.Name, sig.Params[i])
		}
	}
	if c.strict {
		for i, p := range fn.Params {
			if p.Type == nil {
				c.report(diag.TC006, fn.Span(), "parameter %q of %q has no type annotation under strict_types", p.Name, fn.Name)
			}
			_ = i
		}
	}

	c.retType = sig.Ret
	c.sawReturn = false
	got := c.checkBlock(fn.Body, env)
	// A Unit-valued body that contains `return` exits through it; each
	// return site was already checked against sig.Ret in checkStmt.
	if !got.Equal(sig.Ret) && !(c.sawReturn && got.Kind == KUnit) {
		c.report(diag.TC001, fn.Body.Span(), "function %q falls through with %s, declared %s", fn.Name, got, sig.Ret)
	}
}

// checkBlock checks every statement and returns the block's value type:
// the type of its trailing ExprStmt, or Unit if it ends in anything else.
// A `return` inside the block does not change the block's own type — the
// checker compares every return site directly against the function's
// declared return type as it encounters it (see checkStmt/ReturnStmt).
func (c *Checker) checkBlock(b *ast.Block, env *Env) *Type {
	blockEnv := NewEnv(env)
	result := Unit
	for i, stmt := range b.Stmts {
		t := c.checkStmt(stmt, blockEnv)
		if i == len(b.Stmts)-1 {
			if _, ok := stmt.(*ast.ExprStmt); ok {
				result = t
			}
		}
	}
	return result
}

func (c *Checker) checkStmt(stmt ast.Stmt, env *Env) *Type {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		valT := c.checkExpr(s.Value, env)
		declared := valT
		if s.Type != nil {
			declared = resolveTypeExpr(s.Type, c.module, c.imports)
			if !valT.Equal(declared) {
				c.report(diag.TC001, s.Span(), "let %q: expected %s, got %s", s.Name, declared, valT)
			}
		}
		if env.Define(s.Name, declared) {
			c.report(diag.TC007, s.Span(), "%q is already bound in this scope", s.Name)
		}
		return Unit
	case *ast.SetStmt:
		valT := c.checkExpr(s.Value, env)
		existing, ok := env.Lookup(s.Name)
		if !ok {
			c.report(diag.TC008, s.Span(), "set to undeclared name %q", s.Name)
			return Unit
		}
		if !valT.Equal(existing) {
			c.report(diag.TC001, s.Span(), "set %q: expected %s, got %s", s.Name, existing, valT)
		}
		env.Assign(s.Name, valT)
		return Unit
	case *ast.ReturnStmt:
		c.sawReturn = true
		retT := Unit
		if s.Value != nil {
			retT = c.checkExpr(s.Value, env)
		}
		if c.retType != nil && !retT.Equal(c.retType) {
			c.report(diag.TC001, s.Span(), "return type %s does not match declared %s", retT, c.retType)
		}
		return Unit
	case *ast.WhileStmt:
		condT := c.checkExpr(s.Cond, env)
		if !condT.Equal(Bool) {
			c.report(diag.TC001, s.Cond.Span(), "while condition must be Bool, got %s", condT)
		}
		c.checkBlock(s.Body, env)
		return Unit
	case *ast.ForStmt:
		startT := c.checkExpr(s.Range.Start, env)
		endT := c.checkExpr(s.Range.End, env)
		if !startT.Equal(Int) {
			c.report(diag.TC001, s.Range.Start.Span(), "for range start must be Int, got %s", startT)
		}
		if !endT.Equal(Int) {
			c.report(diag.TC001, s.Range.End.Span(), "for range end must be Int, got %s", endT)
		}
		if s.Range.Step != nil {
			stepT := c.checkExpr(s.Range.Step, env)
			if !stepT.Equal(Int) {
				c.report(diag.TC001, s.Range.Step.Span(), "for range step must be Int, got %s", stepT)
			}
		}
		loopEnv := NewEnv(env)
		loopEnv.Define(s.Var, Int)
		c.checkBlock(s.Body, loopEnv)
		return Unit
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.ErrStmt:
		return Unit
	case *ast.ExprStmt:
		return c.checkExpr(s.X, env)
	default:
		return Unit
	}
}

func (c *Checker) checkExpr(expr ast.Expr, env *Env) *Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return Int
	case *ast.StrLit:
		return String
	case *ast.BoolLit:
		return Bool
	case *ast.Ident:
		if e.Name == "<error>" {
			return Invalid
		}
		if t, ok := env.Lookup(e.Name); ok {
			return t
		}
		if t, ok := c.module.Functions[e.Name]; ok {
			return t
		}
		if et, ok := c.module.VariantOwner[e.Name]; ok {
			if len(et.Variants[e.Name]) > 0 {
				c.report(diag.TC002, e.Span(), "variant %q requires %d payload value(s); use call syntax", e.Name, len(et.Variants[e.Name]))
			}
			return et
		}
		c.report(diag.RES001, e.Span(), "unknown identifier %q", e.Name)
		return Invalid
	case *ast.UnaryExpr:
		operand := c.checkExpr(e.Operand, env)
		switch e.Op {
		case "-":
			if !operand.Equal(Int) {
				c.report(diag.TC001, e.Span(), "unary - requires Int, got %s", operand)
			}
			return Int
		case "!":
			if !operand.Equal(Bool) {
				c.report(diag.TC001, e.Span(), "unary ! requires Bool, got %s", operand)
			}
			return Bool
		}
		return Invalid
	case *ast.BinaryExpr:
		return c.checkBinary(e, env)
	case *ast.FieldAccess:
		return c.checkFieldAccess(e, env)
	case *ast.IndexExpr:
		target := c.checkExpr(e.Target, env)
		idx := c.checkExpr(e.Index, env)
		if !idx.Equal(Int) {
			c.report(diag.TC001, e.Index.Span(), "index must be Int, got %s", idx)
		}
		if target.Kind != KList && target.Kind != KUnknown {
			c.report(diag.TC004, e.Span(), "cannot index %s", target)
			return Invalid
		}
		if target.Kind == KUnknown {
			return Unknown
		}
		return target.Elem
	case *ast.ListLit:
		elem := Unknown
		for i, el := range e.Elements {
			t := c.checkExpr(el, env)
			if i == 0 {
				elem = t
			} else if !t.Equal(elem) {
				c.report(diag.TC001, el.Span(), "list element %d: expected %s, got %s", i, elem, t)
			}
		}
		return List(elem)
	case *ast.RecordLit:
		// Duplicate field names are a runtime error, not a static one;
		// the checker just takes the last value's type
		// for each name so a later duplicate doesn't cascade into noise.
		var order []string
		fields := make(map[string]*Type, len(e.Fields))
		for _, f := range e.Fields {
			if _, ok := fields[f.Name]; !ok {
				order = append(order, f.Name)
			}
			fields[f.Name] = c.checkExpr(f.Value, env)
		}
		return Record(order, fields)
	case *ast.IfExpr:
		condT := c.checkExpr(e.Cond, env)
		if !condT.Equal(Bool) {
			c.report(diag.TC001, e.Cond.Span(), "if condition must be Bool, got %s", condT)
		}
		thenT := c.checkBlock(e.Then, env)
		if e.Else == nil {
			return Unit
		}
		elseT := c.checkBlock(e.Else, env)
		if thenT.Equal(elseT) {
			return thenT
		}
		return Unit
	case *ast.MatchExpr:
		return c.checkMatch(e, env)
	case *ast.CallExpr:
		return c.checkCall(e, env)
	case *ast.ParenExpr:
		return c.checkExpr(e.Inner, env)
	default:
		return Invalid
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr, env *Env) *Type {
	left := c.checkExpr(e.Left, env)
	right := c.checkExpr(e.Right, env)
	switch e.Op {
	case "-", "*", "/":
		if !left.Equal(Int) || !right.Equal(Int) {
			c.report(diag.TC001, e.Span(), "%s requires Int operands, got %s and %s", e.Op, left, right)
		}
		return Int
	case "+":
		if left.Equal(Int) && right.Equal(Int) {
			return Int
		}
		if left.Equal(String) || right.Equal(String) {
			return String
		}
		c.report(diag.TC001, e.Span(), "+ requires Int+Int or a String operand, got %s and %s", left, right)
		return Invalid
	case "<", "<=", ">", ">=":
		if !left.Equal(Int) || !right.Equal(Int) {
			c.report(diag.TC001, e.Span(), "%s requires Int operands, got %s and %s", e.Op, left, right)
		}
		return Bool
	case "==", "!=":
		if !left.Equal(right) {
			c.report(diag.TC001, e.Span(), "%s requires matching types, got %s and %s", e.Op, left, right)
		}
		return Bool
	case "&&", "||":
		if !left.Equal(Bool) || !right.Equal(Bool) {
			c.report(diag.TC001, e.Span(), "%s requires Bool operands, got %s and %s", e.Op, left, right)
		}
		return Bool
	default:
		return Invalid
	}
}

// checkFieldAccess handles both record-field projection and
// module-qualified access (`alias.name`): when the target is a bare
// identifier naming a known import alias, this is qualified access into
// that module's exported surface rather than a record field.
func (c *Checker) checkFieldAccess(e *ast.FieldAccess, env *Env) *Type {
	if id, ok := e.Target.(*ast.Ident); ok {
		if _, isLocal := env.Lookup(id.Name); !isLocal {
			if mi, isAlias := c.imports[id.Name]; isAlias {
				t, ok := c.resolveQualified(mi, id.Name, e.Field, e.Span())
				if !ok {
					return Invalid
				}
				if t.Kind == KEnum {
					if variant := t.Variants[e.Field]; len(variant) > 0 {
						c.report(diag.TC002, e.Span(), "variant %q requires %d payload value(s); use call syntax", e.Field, len(variant))
					}
				}
				return t
			}
		}
	}

	target := c.checkExpr(e.Target, env)
	if target.Kind == KUnknown {
		return Unknown
	}
	if target.Kind != KRecord {
		c.report(diag.TC003, e.Span(), "cannot access field %q on %s", e.Field, target)
		return Invalid
	}
	ft, ok := target.Fields[e.Field]
	if !ok {
		c.report(diag.TC003, e.Span(), "unknown field %q on %s", e.Field, target)
		return Invalid
	}
	return ft
}

// resolveQualified looks up alias.field among an imported module's
// exported functions, enum names, and enum variants, reporting RES004
// when nothing reachable matches.
func (c *Checker) resolveQualified(mi *ModuleInfo, alias, field string, span ast.Span) (*Type, bool) {
	if t, ok := mi.Functions[field]; ok && mi.Exports[field] {
		return t, true
	}
	if t, ok := mi.Enums[field]; ok && mi.Exports[field] {
		return t, true
	}
	if t, ok := mi.EnumForVariant(field); ok {
		return t, true
	}
	c.report(diag.RES004, span, "%q is not exported by module %q", field, alias)
	return nil, false
}

func (c *Checker) checkCall(e *ast.CallExpr, env *Env) *Type {
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		if callee.Name == "print" {
			for _, a := range e.Args {
				c.checkExpr(a, env)
			}
			return Unit
		}
		if _, isLocal := env.Lookup(callee.Name); !isLocal {
			if et, ok := c.module.VariantOwner[callee.Name]; ok {
				return c.checkVariantCall(et, callee.Name, e, env)
			}
		}
	case *ast.FieldAccess:
		if id, ok := callee.Target.(*ast.Ident); ok {
			if _, isLocal := env.Lookup(id.Name); !isLocal {
				if mi, isAlias := c.imports[id.Name]; isAlias {
					if et, ok := mi.EnumForVariant(callee.Field); ok {
						return c.checkVariantCall(et, callee.Field, e, env)
					}
				}
			}
		}
	}

	fnType := c.checkExpr(e.Callee, env)
	if fnType.Kind == KUnknown {
		for _, a := range e.Args {
			c.checkExpr(a, env)
		}
		return Unknown
	}
	if fnType.Kind != KFunc {
		c.report(diag.TC002, e.Span(), "cannot call non-function value of type %s", fnType)
		for _, a := range e.Args {
			c.checkExpr(a, env)
		}
		return Invalid
	}
	if len(e.Args) != len(fnType.Params) {
		c.report(diag.TC002, e.Span(), "wrong number of arguments: expected %d, got %d", len(fnType.Params), len(e.Args))
	}
	for i, a := range e.Args {
		at := c.checkExpr(a, env)
		if i < len(fnType.Params) && !at.Equal(fnType.Params[i]) {
			c.report(diag.TC001, a.Span(), "argument %d: expected %s, got %s", i+1, fnType.Params[i], at)
		}
	}
	return fnType.Ret
}

// checkVariantCall checks a variant-construction call `Name(args...)` or
// `alias.Name(args...)` against the payload types the enum declares.
func (c *Checker) checkVariantCall(et *Type, variant string, e *ast.CallExpr, env *Env) *Type {
	payload := et.Variants[variant]
	if len(e.Args) != len(payload) {
		c.report(diag.TC002, e.Span(), "variant %q expects %d payload value(s), got %d", variant, len(payload), len(e.Args))
	}
	for i, a := range e.Args {
		at := c.checkExpr(a, env)
		if i < len(payload) && !at.Equal(payload[i]) {
			c.report(diag.TC001, a.Span(), "variant %q payload %d: expected %s, got %s", variant, i+1, payload[i], at)
		}
	}
	return et
}

func (c *Checker) checkMatch(e *ast.MatchExpr, env *Env) *Type {
	subjectT := c.checkExpr(e.Subject, env)

	var armType *Type
	for i, arm := range e.Arms {
		armEnv := NewEnv(env)
		c.checkPattern(arm.Pattern, subjectT, armEnv)
		t := c.checkBlock(arm.Body, armEnv)
		if i == 0 {
			armType = t
		} else if !t.Equal(armType) {
			c.report(diag.TC001, arm.Body.Span(), "match arm %d: expected %s, got %s", i, armType, t)
		}
	}
	if armType == nil {
		return Unit
	}
	return armType
}

func (c *Checker) checkPattern(pat ast.Pattern, subject *Type, env *Env) {
	switch p := pat.(type) {
	case *ast.IntPattern:
		if !subject.Equal(Int) {
			c.report(diag.TC005, p.Span(), "int pattern against non-Int subject %s", subject)
		}
	case *ast.StrPattern:
		if !subject.Equal(String) {
			c.report(diag.TC005, p.Span(), "string pattern against non-String subject %s", subject)
		}
	case *ast.BoolPattern:
		if !subject.Equal(Bool) {
			c.report(diag.TC005, p.Span(), "bool pattern against non-Bool subject %s", subject)
		}
	case *ast.WildcardPattern:
		// matches anything
	case *ast.BindPattern:
		env.Define(p.Name, subject)
	case *ast.VariantPattern:
		c.checkVariantPattern(p, subject, env)
	}
}

func (c *Checker) checkVariantPattern(p *ast.VariantPattern, subject *Type, env *Env) {
	variants := subject.Variants
	if p.Alias != "" {
		mi, ok := c.imports[p.Alias]
		if !ok {
			c.report(diag.TC005, p.Span(), "unknown module alias %q in pattern", p.Alias)
			return
		}
		_ = mi
	}
	if subject.Kind != KEnum {
		if subject.Kind == KUnknown {
			return
		}
		c.report(diag.TC005, p.Span(), "variant pattern against non-enum subject %s", subject)
		return
	}
	payload, ok := variants[p.Variant]
	if !ok {
		c.report(diag.TC005, p.Span(), "%s has no variant %q", subject, p.Variant)
		return
	}
	if len(p.Payload) != len(payload) {
		c.report(diag.TC005, p.Span(), "variant %q expects %d payload value(s), got %d", p.Variant, len(payload), len(p.Payload))
		return
	}
	for i, sub := range p.Payload {
		c.checkPattern(sub, payload[i], env)
	}
}
