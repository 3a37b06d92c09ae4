// Package eval implements the tree-walking evaluator (component C6): it
// runs a loaded, type-checked module by calling its `main` function.
package eval

import (
	"fmt"
	"strings"

	"github.com/minilang/minilang/internal/ast"
)

// Value is a runtime value. Every concrete value is one of the cases
// below — there is no open extension point.
type Value interface {
	Type() string
	String() string
}

// IntValue is a 64-bit signed integer.
type IntValue struct{ Value int64 }

func (v *IntValue) Type() string   { return "Int" }
func (v *IntValue) String() string { return fmt.Sprintf("%d", v.Value) }

// StringValue is a UTF-8 string.
type StringValue struct{ Value string }

func (v *StringValue) Type() string   { return "String" }
func (v *StringValue) String() string { return v.Value }

// BoolValue is a boolean.
type BoolValue struct{ Value bool }

func (v *BoolValue) Type() string { return "Bool" }
func (v *BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// UnitValue is the unit value `()`.
type UnitValue struct{}

func (v *UnitValue) Type() string   { return "Unit" }
func (v *UnitValue) String() string { return "()" }

var theUnit = &UnitValue{}

// ListValue is an ordered sequence of values, shared by reference: since
// the language has no mutation operators on lists, aliasing is never
// observable.
type ListValue struct{ Elements []Value }

func (v *ListValue) Type() string { return "List" }
func (v *ListValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RecordValue is a named field map, shared by reference for the same
// reason as ListValue.
type RecordValue struct {
	Order  []string
	Fields map[string]Value
}

func (v *RecordValue) Type() string { return "Record" }
func (v *RecordValue) String() string {
	parts := make([]string, len(v.Order))
	for i, name := range v.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, v.Fields[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// VariantValue is one constructed case of an enum, with its payload
// already evaluated.
type VariantValue struct {
	EnumName string
	Variant  string
	Payload  []Value
}

func (v *VariantValue) Type() string { return v.EnumName }
func (v *VariantValue) String() string {
	if len(v.Payload) == 0 {
		return v.Variant
	}
	parts := make([]string, len(v.Payload))
	for i, p := range v.Payload {
		parts[i] = p.String()
	}
	return v.Variant + "(" + strings.Join(parts, ", ") + ")"
}

// FuncValue is a user-defined function closure. Its enclosing scope is
// always the defining module's namespace, never the caller's scope:
// lookups resolve lexically, not dynamically.
type FuncValue struct {
	Name    string
	Params  []string
	Body    *ast.Block
	Closure *Environment
}

func (v *FuncValue) Type() string   { return "Function" }
func (v *FuncValue) String() string { return fmt.Sprintf("<fn %s>", v.Name) }

// displayForm renders a value the way `+` and `print` coerce non-string
// operands: integers in decimal, booleans as true/false, Unit as "()".
func displayForm(v Value) string {
	return v.String()
}
