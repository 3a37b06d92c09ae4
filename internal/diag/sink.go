package diag

import (
	"fmt"
	"strings"

	"github.com/minilang/minilang/internal/ast"
)

// Severity distinguishes hard failures from advisory notes. Every
// diagnostic recorded today is an Error, but the type stays open alongside
// the Phase/Code/Message split in Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded (phase, severity, span, message) tuple.
type Diagnostic struct {
	Phase    string
	Severity Severity
	Span     ast.Span
	Code     Code
	Message  string
}

// String renders "file:line:col: phase: message", the stable format
// every caller depends on for comparing and displaying diagnostics.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span.Start, d.Phase, d.Message)
}

// Error implements the error interface so a Diagnostic can be returned
// directly from functions that otherwise return a plain error.
func (d Diagnostic) Error() string { return d.String() }

// Mode selects how many diagnostics Surfaced() reports: the first
// non-recovery diagnostic recorded, or all of them.
type Mode int

const (
	ModeFirstOnly Mode = iota
	ModeAll
)

// Sink accumulates diagnostics across lex/parse/resolve/typecheck. It never
// drops a record internally — Mode only affects what Surfaced() returns —
// so parse recovery can keep running even in first-only mode.
type Sink struct {
	mode  Mode
	all   []Diagnostic
	file  string
	lines []string // source lines, for snippet rendering
}

// NewSink creates a Sink for a given mode. The source text is retained
// only to render caret snippets in Format(); it is not required.
func NewSink(mode Mode, filename, source string) *Sink {
	return &Sink{
		mode:  mode,
		file:  filename,
		lines: strings.Split(source, "\n"),
	}
}

// Add records a diagnostic.
func (s *Sink) Add(d Diagnostic) {
	s.all = append(s.all, d)
}

// Report is a convenience wrapper around Add that builds the Diagnostic
// from its parts.
func (s *Sink) Report(code Code, span ast.Span, format string, args ...interface{}) {
	s.Add(Diagnostic{
		Phase:    code.Phase(),
		Severity: SeverityError,
		Span:     span,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic of severity Error was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.all {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every diagnostic recorded, regardless of Mode.
func (s *Sink) All() []Diagnostic {
	return s.all
}

// Surfaced returns the diagnostics that should actually be shown to the
// user, honoring Mode: the first one only, or all of them.
func (s *Sink) Surfaced() []Diagnostic {
	if s.mode == ModeFirstOnly && len(s.all) > 0 {
		return s.all[:1]
	}
	return s.all
}

// Format renders each surfaced diagnostic as
// "file:line:col: phase: message" followed by a one-line source snippet
// and a caret range under the offending span.
func (s *Sink) Format() string {
	var b strings.Builder
	for _, d := range s.Surfaced() {
		fmt.Fprintln(&b, d.String())
		if snippet, ok := s.snippet(d.Span); ok {
			fmt.Fprintln(&b, snippet)
			fmt.Fprintln(&b, s.caret(d.Span))
		}
	}
	return b.String()
}

func (s *Sink) snippet(span ast.Span) (string, bool) {
	idx := span.Start.Line - 1
	if idx < 0 || idx >= len(s.lines) {
		return "", false
	}
	return s.lines[idx], true
}

func (s *Sink) caret(span ast.Span) string {
	col := span.Start.Column
	if col < 1 {
		col = 1
	}
	width := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		width = span.End.Column - span.Start.Column
	}
	return strings.Repeat(" ", col-1) + strings.Repeat("^", width)
}
