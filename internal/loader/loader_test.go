package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minilang/minilang/internal/diag"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+Ext), []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadResolvesImportsAndExports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "mathutil", `
module mathutil;
export { square };
fn square(x: Int) -> Int { return x * x; }
fn helper(x: Int) -> Int { return x; }
`)
	writeModule(t, dir, "main", `
import mathutil;
fn main() -> Int { return mathutil.square(2); }
`)

	sink := diag.NewSink(diag.ModeFirstOnly, "main.ml", "")
	l := New(sink, false)
	mod, err := l.Load(filepath.Join(dir, "main.ml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}

	child, ok := mod.Imports["mathutil"]
	if !ok {
		t.Fatalf("expected import alias %q", "mathutil")
	}
	if !child.Exports["square"] {
		t.Error("expected square to be exported")
	}
	if child.Exports["helper"] {
		t.Error("helper should not be exported")
	}
}

func TestLoadDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a", `import b;`)
	writeModule(t, dir, "b", `import a;`)

	sink := diag.NewSink(diag.ModeAll, "a.ml", "")
	l := New(sink, true)
	_, err := l.Load(filepath.Join(dir, "a.ml"))
	if err == nil {
		t.Fatal("expected a cyclic-import error")
	}

	found := false
	for _, d := range sink.All() {
		if d.Code == diag.RES003 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a RES003 diagnostic, got: %s", sink.Format())
	}
}

func TestLoadDetectsAliasCollision(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "foo", `export { bar };fn bar() -> Unit {}`)
	writeModule(t, dir, "main", `
import foo;
import foo as foo;
`)

	sink := diag.NewSink(diag.ModeAll, "main.ml", "")
	l := New(sink, true)
	_, _ = l.Load(filepath.Join(dir, "main.ml"))

	found := false
	for _, d := range sink.All() {
		if d.Code == diag.RES002 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a RES002 diagnostic for duplicate alias, got: %s", sink.Format())
	}
}
