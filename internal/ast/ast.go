// Package ast defines the abstract syntax tree produced by the parser.
package ast

import "fmt"

// Pos is a single point in a source buffer.
type Pos struct {
	Line   int
	Column int
	Offset int
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a closed interval between two positions, taken from the first
// and last token of a node.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Item is a top-level item (module/import/enum/fn/export declaration).
type Item interface {
	Node
	itemNode()
}

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a type annotation as written in source.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Base embeds a span and implements Node for every concrete node type.
type Base struct {
	Sp Span
}

func (b Base) Span() Span { return b.Sp }

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

type IntLit struct {
	Base
	Value int64
}

type StrLit struct {
	Base
	Value string
}

type BoolLit struct {
	Base
	Value bool
}

type Ident struct {
	Base
	Name string
}

type RecordField struct {
	Name  string
	Value Expr
}

type RecordLit struct {
	Base
	Fields []RecordField
}

type ListLit struct {
	Base
	Elements []Expr
}

type UnaryExpr struct {
	Base
	Op      string // "-" or "!"
	Operand Expr
}

type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

type FieldAccess struct {
	Base
	Target Expr
	Field  string
}

type IndexExpr struct {
	Base
	Target Expr
	Index  Expr
}

type IfExpr struct {
	Base
	Cond Expr
	Then *Block
	Else *Block // nil when there is no else branch
}

type MatchArm struct {
	Pattern Pattern
	Body    *Block
}

type MatchExpr struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

type ParenExpr struct {
	Base
	Inner Expr
}

// Block is a brace-delimited sequence of statements whose value is the
// value of its last ExprStmt, or Unit if it has none.
type Block struct {
	Base
	Stmts []Stmt
}

// ErrStmt is the parser-error recovery sentinel. Every later pass treats
// it as a no-op whose value is Unit.
type ErrStmt struct {
	Base
}

func (*IntLit) exprNode()         {}
func (*StrLit) exprNode()         {}
func (*BoolLit) exprNode()        {}
func (*Ident) exprNode()          {}
func (*RecordLit) exprNode()      {}
func (*ListLit) exprNode()        {}
func (*UnaryExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*FieldAccess) exprNode()    {}
func (*IndexExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*MatchExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*ParenExpr) exprNode()      {}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

type IntPattern struct {
	Base
	Value int64
}

type StrPattern struct {
	Base
	Value string
}

type BoolPattern struct {
	Base
	Value bool
}

// WildcardPattern is `_`.
type WildcardPattern struct{ Base }

// BindPattern binds the matched value to a name (bare `IDENT`).
type BindPattern struct {
	Base
	Name string
}

// VariantPattern matches an enum variant, optionally module-qualified,
// optionally with payload sub-patterns.
type VariantPattern struct {
	Base
	Alias   string // "" when not qualified
	Variant string
	Payload []Pattern // nil when the variant has no payload pattern
}

func (*IntPattern) patternNode()     {}
func (*StrPattern) patternNode()     {}
func (*BoolPattern) patternNode()    {}
func (*WildcardPattern) patternNode() {}
func (*BindPattern) patternNode()    {}
func (*VariantPattern) patternNode() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

type LetStmt struct {
	Base
	Name  string
	Type  TypeExpr // nil when absent
	Value Expr
}

type SetStmt struct {
	Base
	Name  string
	Value Expr
}

type ReturnStmt struct {
	Base
	Value Expr // nil for bare `return;`
}

type WhileStmt struct {
	Base
	Cond Expr
	Body *Block
}

// Range is `a .. b` or `a ..= b`, with an optional `by step`.
type Range struct {
	Start     Expr
	End       Expr
	Inclusive bool
	Step      Expr // nil when absent
}

type ForStmt struct {
	Base
	Var   string
	Range Range
	Body  *Block
}

type BreakStmt struct{ Base }
type ContinueStmt struct{ Base }

type ExprStmt struct {
	Base
	X Expr
}

func (*LetStmt) stmtNode()      {}
func (*SetStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ExprStmt) stmtNode()     {}
func (*ErrStmt) stmtNode()      {}

// ---------------------------------------------------------------------------
// Type expressions
// ---------------------------------------------------------------------------

// NamedType is `Int`, `Bool`, `String`, `Unit`, or an enum name, optionally
// module-qualified.
type NamedType struct {
	Base
	Alias string // "" when not qualified
	Name  string
}

type ListTypeExpr struct {
	Base
	Elem TypeExpr
}

type RecordFieldType struct {
	Name string
	Type TypeExpr
}

type RecordTypeExpr struct {
	Base
	Fields []RecordFieldType
}

type FnTypeExpr struct {
	Base
	Params []TypeExpr
	Ret    TypeExpr
}

func (*NamedType) typeExprNode()      {}
func (*ListTypeExpr) typeExprNode()   {}
func (*RecordTypeExpr) typeExprNode() {}
func (*FnTypeExpr) typeExprNode()     {}

// ---------------------------------------------------------------------------
// Top-level items
// ---------------------------------------------------------------------------

type ModuleDecl struct {
	Base
	Name string
}

type ImportDecl struct {
	Base
	Name  string
	Alias string // equals Name when no `as` clause is present
}

type ExportDecl struct {
	Base
	Names []string
}

// EnumVariant is one `Name` or `Name(Type, ...)` case of an enum.
type EnumVariant struct {
	Name    string
	Payload []TypeExpr // nil for a nullary variant
}

type EnumDef struct {
	Base
	Name     string
	Variants []EnumVariant
}

type Param struct {
	Name string
	Type TypeExpr // nil when absent (Unknown)
}

type FnDef struct {
	Base
	Name    string
	Params  []Param
	RetType TypeExpr // nil when absent (Unit)
	Body    *Block
}

func (*ModuleDecl) itemNode() {}
func (*ImportDecl) itemNode() {}
func (*ExportDecl) itemNode() {}
func (*EnumDef) itemNode()    {}
func (*FnDef) itemNode()      {}

// File is the parsed contents of a single source module.
type File struct {
	Base
	Module  *ModuleDecl // nil when absent
	Imports []*ImportDecl
	Enums   []*EnumDef
	Fns     []*FnDef
	Exports []*ExportDecl
	Items   []Item // all items, in source order, for diagnostics/printing
}
