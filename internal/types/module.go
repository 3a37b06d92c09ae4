package types

import (
	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/loader"
)

// ModuleInfo is the typed surface of one loaded module: its declared
// function signatures, its enum types, and which names it exports. A
// module-qualified reference (`alias.name`) resolves through the
// ModuleInfo of the module behind that import alias.
type ModuleInfo struct {
	Functions    map[string]*Type
	Enums        map[string]*Type // enum name -> KEnum type
	VariantOwner map[string]*Type // variant name -> owning enum's KEnum type
	Exports      map[string]bool
}

// EnumForVariant finds the enum type that declares variant, requiring it
// to be reachable from outside the module: the owning enum itself must be
// exported. Importing a module does not implicitly bring its variants
// into scope; they stay reachable only as `alias.Variant`, gated on the
// enum's own export.
func (mi *ModuleInfo) EnumForVariant(variant string) (*Type, bool) {
	t, ok := mi.VariantOwner[variant]
	if !ok || !mi.Exports[t.EnumName] {
		return nil, false
	}
	return t, true
}

// BuildModuleInfo computes the typed surface of mod and, recursively and
// memoized by file path, of every module it imports. It does not check
// function bodies — that happens in CheckModule, once every module's
// signatures are known.
func BuildModuleInfo(mod *loader.Module, cache map[string]*ModuleInfo) *ModuleInfo {
	if info, ok := cache[mod.Path]; ok {
		return info
	}
	info := &ModuleInfo{
		Functions:    make(map[string]*Type),
		Enums:        make(map[string]*Type),
		VariantOwner: make(map[string]*Type),
		Exports:      mod.Exports,
	}
	cache[mod.Path] = info // break cycles defensively; the loader already rejects them

	imports := make(map[string]*ModuleInfo, len(mod.Imports))
	for alias, child := range mod.Imports {
		imports[alias] = BuildModuleInfo(child, cache)
	}

	for _, en := range mod.File.Enums {
		et := enumType(en, info, imports)
		info.Enums[en.Name] = et
		for variant := range et.Variants {
			info.VariantOwner[variant] = et
		}
	}
	for _, fn := range mod.File.Fns {
		info.Functions[fn.Name] = fnSignature(fn, info, imports)
	}
	return info
}

func enumType(def *ast.EnumDef, local *ModuleInfo, imports map[string]*ModuleInfo) *Type {
	variants := make(map[string][]*Type, len(def.Variants))
	for _, v := range def.Variants {
		var payload []*Type
		for _, te := range v.Payload {
			payload = append(payload, resolveTypeExpr(te, local, imports))
		}
		variants[v.Name] = payload
	}
	return Enum(def.Name, variants)
}

func fnSignature(def *ast.FnDef, local *ModuleInfo, imports map[string]*ModuleInfo) *Type {
	params := make([]*Type, len(def.Params))
	for i, p := range def.Params {
		if p.Type == nil {
			params[i] = Unknown
		} else {
			params[i] = resolveTypeExpr(p.Type, local, imports)
		}
	}
	ret := Unit
	if def.RetType != nil {
		ret = resolveTypeExpr(def.RetType, local, imports)
	}
	return Func(params, ret)
}

// resolveTypeExpr turns surface syntax into a checker Type. An unresolved
// named type (unknown builtin, unknown local enum, unknown alias/name
// pair) resolves to Invalid so the caller can report a precise error at
// the use site rather than here.
func resolveTypeExpr(te ast.TypeExpr, local *ModuleInfo, imports map[string]*ModuleInfo) *Type {
	switch t := te.(type) {
	case *ast.NamedType:
		if t.Alias != "" {
			mi, ok := imports[t.Alias]
			if !ok {
				return Invalid
			}
			if et, ok := mi.Enums[t.Name]; ok && mi.Exports[t.Name] {
				return et
			}
			return Invalid
		}
		switch t.Name {
		case "Int":
			return Int
		case "Bool":
			return Bool
		case "String":
			return String
		case "Unit":
			return Unit
		case "Unknown":
			return Unknown
		}
		if et, ok := local.Enums[t.Name]; ok {
			return et
		}
		return Invalid
	case *ast.ListTypeExpr:
		return List(resolveTypeExpr(t.Elem, local, imports))
	case *ast.RecordTypeExpr:
		order := make([]string, len(t.Fields))
		fields := make(map[string]*Type, len(t.Fields))
		for i, f := range t.Fields {
			order[i] = f.Name
			fields[f.Name] = resolveTypeExpr(f.Type, local, imports)
		}
		return Record(order, fields)
	case *ast.FnTypeExpr:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = resolveTypeExpr(p, local, imports)
		}
		return Func(params, resolveTypeExpr(t.Ret, local, imports))
	default:
		return Invalid
	}
}

// CheckModule builds the typed surface of mod (and, memoized, of every
// module it transitively imports) and checks every function body against
// its recorded signature, reporting diagnostics to sink.
func CheckModule(mod *loader.Module, cache map[string]*ModuleInfo, sink *diag.Sink, strict bool) *ModuleInfo {
	info := BuildModuleInfo(mod, cache)

	imports := make(map[string]*ModuleInfo, len(mod.Imports))
	for alias, child := range mod.Imports {
		imports[alias] = BuildModuleInfo(child, cache)
	}

	c := &Checker{sink: sink, strict: strict, module: info, imports: imports}
	for _, fn := range mod.File.Fns {
		c.checkFn(fn)
	}
	return info
}
