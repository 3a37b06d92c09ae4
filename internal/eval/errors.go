package eval

import (
	"fmt"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
)

// fail records an RT-coded diagnostic and returns it as a Go error,
// aborting the evaluation in progress. Runtime errors are not recoverable
// within the language: divide by zero, index out of bounds, a
// non-exhaustive match, and every other RT code all terminate the run.
func (ev *Evaluator) fail(code diag.Code, span ast.Span, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if ev.sink != nil {
		ev.sink.Report(code, span, format, args...)
	}
	return fmt.Errorf("%s: %s", code, msg)
}
