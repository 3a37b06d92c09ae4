// Package repl implements an interactive read-eval-print loop over a
// single, persistent module namespace: bindings and function/enum
// declarations entered on one line stay visible to every line after it,
// until :reset clears the session.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/config"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/eval"
	"github.com/minilang/minilang/internal/lexer"
	"github.com/minilang/minilang/internal/parser"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

const sessionKey = "<repl>"

// REPL is one interactive session.
type REPL struct {
	cfg       config.Config
	out       io.Writer
	evaluator *eval.Evaluator
	ns        *eval.Namespace
	history   []string
}

// New creates a REPL over a fresh session namespace. out receives both
// `print` output and REPL transcript text.
func New(cfg config.Config, in io.Reader, out io.Writer) *REPL {
	ev := eval.New(nil, out, cfg.StepCeiling())
	return &REPL{
		cfg:       cfg,
		out:       out,
		evaluator: ev,
		ns:        ev.NewSessionNamespace(sessionKey),
	}
}

// Run starts the read-eval-print loop against stdin/stdout, via liner for
// history and line-editing.
func (r *REPL) Run() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	fmt.Fprintln(r.out, bold("minilang"))
	fmt.Fprintln(r.out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(r.out)

	line.SetCompleter(func(in string) (c []string) {
		if strings.HasPrefix(in, ":") {
			for _, cmd := range []string{":help", ":quit", ":reset", ":history"} {
				if strings.HasPrefix(cmd, in) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("minilang> ")
		if err == io.EOF {
			fmt.Fprintln(r.out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input) {
				return
			}
			continue
		}

		r.evalLine(input)
	}
}

// handleCommand processes a `:`-prefixed REPL command. It returns true
// when the session should end.
func (r *REPL) handleCommand(input string) bool {
	switch {
	case input == ":quit" || input == ":q" || input == ":exit":
		fmt.Fprintln(r.out, green("Goodbye!"))
		return true
	case input == ":help":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  :help     show this message")
		fmt.Fprintln(r.out, "  :reset    clear all bindings in this session")
		fmt.Fprintln(r.out, "  :history  show entered lines")
		fmt.Fprintln(r.out, "  :quit     exit the REPL")
	case input == ":reset":
		r.evaluator = eval.New(nil, r.out, r.cfg.StepCeiling())
		r.ns = r.evaluator.NewSessionNamespace(sessionKey)
		fmt.Fprintln(r.out, dim("Session reset"))
	case input == ":history":
		for _, h := range r.history {
			fmt.Fprintln(r.out, h)
		}
	default:
		fmt.Fprintf(r.out, "%s: unknown command %q\n", red("Error"), input)
	}
	return false
}

// evalLine parses one entered line and runs it against the session's
// namespace. A line starting with `fn` or `enum` extends the session's
// declarations; anything else is evaluated as a sequence of statements,
// wrapped in a synthetic function body so `let`, `if`, `for`, and plain
// expressions all parse the same way they do inside a real function.
func (r *REPL) evalLine(input string) {
	trimmed := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(trimmed, "fn "), strings.HasPrefix(trimmed, "enum "):
		r.evalDecl(input)
	default:
		r.evalStmts(input)
	}
}

func (r *REPL) evalDecl(input string) {
	sink := diag.NewSink(diag.ModeAll, "<repl>", input)
	file := parseSource(input, sink)
	if sink.HasErrors() {
		fmt.Fprint(r.out, red(sink.Format()))
		return
	}
	for _, en := range file.Enums {
		r.evaluator.DefineEnum(r.ns, en)
	}
	for _, fn := range file.Fns {
		r.evaluator.DefineFn(r.ns, fn)
	}
}

func (r *REPL) evalStmts(input string) {
	wrapped := "fn __session__() {\n" + input + "\n}"
	sink := diag.NewSink(diag.ModeAll, "<repl>", wrapped)
	file := parseSource(wrapped, sink)
	if sink.HasErrors() {
		fmt.Fprint(r.out, red(sink.Format()))
		return
	}
	if len(file.Fns) == 0 {
		return
	}
	body := file.Fns[0].Body

	result, err := r.evaluator.EvalStmts(body.Stmts, r.ns.Env)
	if err != nil {
		fmt.Fprintf(r.out, "%s: %v\n", red("Runtime error"), err)
		return
	}
	if result != nil && result.Type() != "Unit" {
		fmt.Fprintln(r.out, result.String())
	}
}

func parseSource(src string, sink *diag.Sink) *ast.File {
	lx := lexer.New(src, "<repl>", sink)
	p := parser.New(lx, sink, true)
	return p.ParseFile()
}
