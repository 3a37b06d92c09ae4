package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckModuleRejectsWrongArgumentCount(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn add(a: Int, b: Int) -> Int { return a + b; }
fn main() -> Int { return add(1); }
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC002 diagnostic for wrong argument count")
}

func TestCheckModuleRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn main() -> Int {
	let p = { x: 1, y: 2 };
	return p.z;
}
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC003 diagnostic for an unknown record field")
}

func TestCheckModuleRejectsIndexingNonList(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn main() -> Int {
	let n = 5;
	return n[0];
}
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC004 diagnostic for indexing a non-list value")
}

func TestCheckModuleRejectsPatternTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn main() -> Int {
	let n = 5;
	match n {
		"hello" => { return 1; };
		_ => { return 0; };
	}
}
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC005 diagnostic for a string pattern against an Int subject")
}

func TestCheckModuleRejectsMissingAnnotationUnderStrictTypes(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn identity(x) -> Int { return x; }
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, true)
	assert.True(t, sink.HasErrors(), "expected a TC006 diagnostic for a missing parameter annotation under strict_types")
}

func TestCheckModuleAcceptsMissingAnnotationWithoutStrictTypes(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn identity(x) -> Int { return x; }
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.False(t, sink.HasErrors(), "unexpected typecheck diagnostics with strict_types off: %s", sink.Format())
}

func TestCheckModuleRejectsDuplicateLetBinding(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn main() -> Int {
	let x = 1;
	let x = 2;
	return x;
}
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC007 diagnostic for re-binding an already-bound name")
}

func TestCheckModuleRejectsSetOnUndeclaredName(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.ml", `
fn main() -> Int {
	set y = 2;
	return y;
}
`)
	mod, sink := load(t, dir, "main.ml")
	require.False(t, sink.HasErrors(), "unexpected parse/load diagnostics: %s", sink.Format())
	CheckModule(mod, make(map[string]*ModuleInfo), sink, false)
	assert.True(t, sink.HasErrors(), "expected a TC008 diagnostic for assigning to an undeclared name")
}
