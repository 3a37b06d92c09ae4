// Package types implements the syntactic type checker (component C5): a
// single-pass walk over the AST that checks each function body against
// its declared signature, with no unification or inference beyond the
// "Unknown matches anything" rule spec.md requires for bare parameters.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the small, closed set of types the checker knows
// about. There is no type variable and no constraint solving — every
// Type is either fully known, Unknown (matches anything), or malformed
// (the zero Kind, produced after an error so checking can keep going).
type Kind int

const (
	KInvalid Kind = iota
	KInt
	KBool
	KString
	KUnit
	KUnknown
	KList
	KRecord
	KFunc
	KEnum
)

// Type is a syntactic type value. Only the fields relevant to Kind are
// populated; the rest are zero.
type Type struct {
	Kind Kind

	Elem *Type // KList

	FieldOrder []string         // KRecord, source order
	Fields     map[string]*Type // KRecord

	Params []*Type // KFunc
	Ret    *Type   // KFunc

	EnumName string              // KEnum
	Variants map[string][]*Type  // KEnum: variant name -> payload types
}

var (
	Int     = &Type{Kind: KInt}
	Bool    = &Type{Kind: KBool}
	String  = &Type{Kind: KString}
	Unit    = &Type{Kind: KUnit}
	Unknown = &Type{Kind: KUnknown}
	Invalid = &Type{Kind: KInvalid}
)

func List(elem *Type) *Type { return &Type{Kind: KList, Elem: elem} }

func Record(order []string, fields map[string]*Type) *Type {
	return &Type{Kind: KRecord, FieldOrder: order, Fields: fields}
}

func Func(params []*Type, ret *Type) *Type {
	return &Type{Kind: KFunc, Params: params, Ret: ret}
}

func Enum(name string, variants map[string][]*Type) *Type {
	return &Type{Kind: KEnum, EnumName: name, Variants: variants}
}

// Equal reports structural equality, with Unknown matching any type in
// either position — the one relaxation that keeps unannotated parameters
// ergonomic without requiring inference.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind == KUnknown || other.Kind == KUnknown {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KList:
		return t.Elem.Equal(other.Elem)
	case KRecord:
		if len(t.Fields) != len(other.Fields) {
			return false
		}
		for name, ft := range t.Fields {
			oft, ok := other.Fields[name]
			if !ok || !ft.Equal(oft) {
				return false
			}
		}
		return true
	case KFunc:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i, p := range t.Params {
			if !p.Equal(other.Params[i]) {
				return false
			}
		}
		return t.Ret.Equal(other.Ret)
	case KEnum:
		return t.EnumName == other.EnumName
	default:
		return true
	}
}

// String renders a type the way diagnostics quote it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KInt:
		return "Int"
	case KBool:
		return "Bool"
	case KString:
		return "String"
	case KUnit:
		return "Unit"
	case KUnknown:
		return "Unknown"
	case KInvalid:
		return "<invalid>"
	case KList:
		return "[" + t.Elem.String() + "]"
	case KRecord:
		var parts []string
		for _, name := range t.FieldOrder {
			parts = append(parts, fmt.Sprintf("%s: %s", name, t.Fields[name]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KFunc:
		var parts []string
		for _, p := range t.Params {
			parts = append(parts, p.String())
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
	case KEnum:
		return t.EnumName
	default:
		return "?"
	}
}
