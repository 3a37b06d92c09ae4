// Package diag provides the diagnostic sink (C7): an append-only record
// of (phase, severity, span, message) tuples produced by every other
// pipeline stage, plus the code taxonomy those stages report against.
package diag

// Code is a stable diagnostic code, grouped by the phase that reports it.
type Code string

const (
	// Lex phase
	LEX001 Code = "LEX001" // invalid character
	LEX002 Code = "LEX002" // unterminated string literal

	// Parse phase
	PAR001 Code = "PAR001" // unexpected token
	PAR002 Code = "PAR002" // missing closing delimiter
	PAR003 Code = "PAR003" // invalid function declaration
	PAR004 Code = "PAR004" // invalid match pattern

	// Resolve phase (module loader / name resolution)
	RES001 Code = "RES001" // unknown identifier
	RES002 Code = "RES002" // ambiguous or colliding alias
	RES003 Code = "RES003" // cyclic import
	RES004 Code = "RES004" // name not exported by module

	// Typecheck phase
	TC001 Code = "TC001" // mismatched operand/annotation types
	TC002 Code = "TC002" // wrong call arity
	TC003 Code = "TC003" // unknown record field
	TC004 Code = "TC004" // indexing a non-list
	TC005 Code = "TC005" // pattern/subject type mismatch
	TC006 Code = "TC006" // Unknown type rejected under strict_types
	TC007 Code = "TC007" // re-binding a name with let in the same scope
	TC008 Code = "TC008" // assigning to an undeclared name with set

	// Runtime phase
	RT001 Code = "RT001" // division by zero
	RT002 Code = "RT002" // index out of bounds
	RT003 Code = "RT003" // missing record field
	RT004 Code = "RT004" // non-exhaustive match
	RT005 Code = "RT005" // break/continue outside a loop
	RT006 Code = "RT006" // bad range (non-int bound or zero step)
	RT007 Code = "RT007" // calling a non-function value
	RT008 Code = "RT008" // main missing or has non-zero arity
	RT009 Code = "RT009" // duplicate field in a record literal
)

// Phase names recorded on a Diagnostic.
const (
	PhaseLex       = "lex"
	PhaseParse     = "parse"
	PhaseResolve   = "resolve"
	PhaseTypecheck = "typecheck"
	PhaseRuntime   = "runtime"
)

// codePhase maps each code to its owning phase.
var codePhase = map[Code]string{
	LEX001: PhaseLex, LEX002: PhaseLex,
	PAR001: PhaseParse, PAR002: PhaseParse, PAR003: PhaseParse, PAR004: PhaseParse,
	RES001: PhaseResolve, RES002: PhaseResolve, RES003: PhaseResolve, RES004: PhaseResolve,
	TC001: PhaseTypecheck, TC002: PhaseTypecheck, TC003: PhaseTypecheck, TC004: PhaseTypecheck,
	TC005: PhaseTypecheck, TC006: PhaseTypecheck, TC007: PhaseTypecheck, TC008: PhaseTypecheck,
	RT001: PhaseRuntime, RT002: PhaseRuntime, RT003: PhaseRuntime, RT004: PhaseRuntime,
	RT005: PhaseRuntime, RT006: PhaseRuntime, RT007: PhaseRuntime, RT008: PhaseRuntime, RT009: PhaseRuntime,
}

// Phase returns the phase that owns a code, or "" if the code is unknown.
func (c Code) Phase() string {
	return codePhase[c]
}
