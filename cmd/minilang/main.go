// Command minilang is the reference driver for the language: it runs a
// module through the load/typecheck/evaluate pipeline and prints its
// diagnostics and output, or drops into an interactive REPL.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/minilang/minilang/internal/config"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/eval"
	"github.com/minilang/minilang/internal/loader"
	"github.com/minilang/minilang/internal/repl"
	"github.com/minilang/minilang/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a minilang.yaml config file")
		versionFl  = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *versionFl {
		fmt.Printf("minilang %s\n", bold("dev"))
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		cfg = loaded
	}

	switch flag.Arg(0) {
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: minilang run <file.ml>")
			os.Exit(1)
		}
		runFile(flag.Arg(1), cfg)
	case "repl":
		repl.New(cfg, os.Stdin, os.Stdout).Run()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("minilang - the reference pipeline driver"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  minilang run <file.ml>   run a module's main function")
	fmt.Println("  minilang repl            start an interactive session")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func runFile(path string, cfg config.Config) {
	mode := diag.ModeFirstOnly
	if cfg.AllErrors {
		mode = diag.ModeAll
	}

	if !strings.HasSuffix(path, loader.Ext) {
		fmt.Fprintf(os.Stderr, "%s: file does not have a %s extension\n", yellow("Warning"), loader.Ext)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), path, err)
		os.Exit(1)
	}

	sink := diag.NewSink(mode, path, string(src))
	ld := loader.New(sink, cfg.AllErrors)
	mod, loadErr := ld.Load(path)
	if loadErr != nil || sink.HasErrors() {
		printDiagnostics(sink)
		os.Exit(1)
	}

	checkCache := make(map[string]*types.ModuleInfo)
	types.CheckModule(mod, checkCache, sink, cfg.StrictTypes)
	if sink.HasErrors() {
		printDiagnostics(sink)
		os.Exit(1)
	}

	ev := eval.New(sink, os.Stdout, cfg.StepCeiling())
	if _, err := ev.RunMain(mod); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Runtime error"), err)
		if sink.HasErrors() {
			printDiagnostics(sink)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%s %s exited cleanly\n", green("✓"), path)
}

func printDiagnostics(sink *diag.Sink) {
	for _, line := range strings.Split(sink.Format(), "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintln(os.Stderr, red(line))
	}
}
