package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/loader"
)

func load(t *testing.T, dir, root string) (*loader.Module, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink(diag.ModeAll, root, "")
	l := loader.New(sink, true)
	mod, err := l.Load(filepath.Join(dir, root))
	if err != nil && !sink.HasErrors() {
		t.Fatalf("Load: %v", err)
	}
	return mod, sink
}

func write(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCheckModuleAcceptsWellTypedProgram(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn add(a: Int, b: Int) -> Int { return a + b; }
fn main() -> Int { return add(1, 2); }
`)
	mod, sink := load(t, dir, "main.ml")
	if sink.HasErrors() {
		t.Fatalf("unexpected parse/load diagnostics: %s", sink.Format())
	}
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	if sink.HasErrors() {
		t.Errorf("unexpected typecheck diagnostics: %s", sink.Format())
	}
}

func TestCheckModuleRejectsMismatchedReturn(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn bad() -> Int { return "oops"; }
`)
	mod, sink := load(t, dir, "main.ml")
	if sink.HasErrors() {
		t.Fatalf("unexpected parse/load diagnostics: %s", sink.Format())
	}
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	if !sink.HasErrors() {
		t.Error("expected a type error for mismatched return type")
	}
}

func TestCheckModuleQualifiedCall(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "mathutil.ml", `
export { square };
fn square(x: Int) -> Int { return x * x; }
`)
	write(t, dir, "main.ml", `
import mathutil;
fn main() -> Int { return mathutil.square(3); }
`)
	mod, sink := load(t, dir, "main.ml")
	if sink.HasErrors() {
		t.Fatalf("unexpected parse/load diagnostics: %s", sink.Format())
	}
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	if sink.HasErrors() {
		t.Errorf("unexpected typecheck diagnostics: %s", sink.Format())
	}
}

func TestCheckModuleAcceptsEnumVariantConstructionAndMatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
enum Option { None, Some(Int) }
fn unwrapOr(o: Option, default: Int) -> Int {
	match o {
		Some(x) => { return x; };
		None => { return default; };
	}
}
fn main() -> Int { return unwrapOr(Some(5), 0); }
`)
	mod, sink := load(t, dir, "main.ml")
	if sink.HasErrors() {
		t.Fatalf("unexpected parse/load diagnostics: %s", sink.Format())
	}
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	if sink.HasErrors() {
		t.Errorf("unexpected typecheck diagnostics: %s", sink.Format())
	}
}

func TestCheckModuleRejectsUnexportedAccess(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "mathutil.ml", `
fn hidden(x: Int) -> Int { return x; }
`)
	write(t, dir, "main.ml", `
import mathutil;
fn main() -> Int { return mathutil.hidden(3); }
`)
	mod, sink := load(t, dir, "main.ml")
	if sink.HasErrors() {
		t.Fatalf("unexpected parse/load diagnostics: %s", sink.Format())
	}
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	if !sink.HasErrors() {
		t.Error("expected a RES004 diagnostic for accessing an unexported name")
	}
}
