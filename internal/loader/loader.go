// Package loader implements the module resolver (component C4): it turns
// a root source file into a graph of parsed, name-checked module
// namespaces, following `import` declarations to sibling files.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minilang/minilang/internal/ast"
	"github.com/minilang/minilang/internal/diag"
	"github.com/minilang/minilang/internal/lexer"
	"github.com/minilang/minilang/internal/parser"
)

// Ext is the fixed source-file extension module paths resolve against.
const Ext = ".ml"

// color tracks DFS visitation state for cycle detection: White (unvisited),
// Grey (on the current DFS stack), Black (finished). Revisiting a Grey
// module is a cyclic import; a single `visited` set cannot distinguish
// "currently being loaded" from "already loaded", which is why this
// tracks three states instead of a boolean.
type color int

const (
	white color = iota
	grey
	black
)

// Module is one loaded, parsed source file plus its resolved import table.
type Module struct {
	Name    string // declared via `module X;`, or the base filename
	Path    string // absolute file path
	File    *ast.File
	Imports map[string]*Module // alias -> resolved module
	Exports map[string]bool    // names listed in this module's export decl(s)
}

// Loader loads and caches modules rooted at a base directory, resolving
// each `import NAME;` to `NAME.ml` alongside the importing file.
type Loader struct {
	sink      *diag.Sink
	allErrors bool

	cache  map[string]*Module
	colors map[string]color
	stack  []string // module paths on the current DFS path, for cycle reporting
}

// New creates a Loader. sink receives RES-coded diagnostics.
func New(sink *diag.Sink, allErrors bool) *Loader {
	return &Loader{
		sink:      sink,
		allErrors: allErrors,
		cache:     make(map[string]*Module),
		colors:    make(map[string]color),
	}
}

// Load parses rootPath and recursively resolves its imports, returning the
// root module. Every reachable module is parsed and checked for name
// collisions before being exposed to the caller.
func (l *Loader) Load(rootPath string) (*Module, error) {
	return l.load(rootPath)
}

func (l *Loader) load(path string) (*Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	switch l.colors[abs] {
	case black:
		return l.cache[abs], nil
	case grey:
		cycle := append(append([]string{}, l.stack...), abs)
		l.report(diag.RES003, "cyclic import: %s", strings.Join(cycle, " -> "))
		return nil, fmt.Errorf("cyclic import: %s", strings.Join(cycle, " -> "))
	}

	l.colors[abs] = grey
	l.stack = append(l.stack, abs)
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		l.colors[abs] = black
	}()

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", abs, err)
	}
	normalized := lexer.Normalize(src)

	lx := lexer.New(string(normalized), abs, l.sink)
	p := parser.New(lx, l.sink, l.allErrors)
	file := p.ParseFile()

	name := moduleName(file, abs)
	mod := &Module{
		Name:    name,
		Path:    abs,
		File:    file,
		Imports: make(map[string]*Module),
		Exports: exportSet(file),
	}
	l.cache[abs] = mod

	seenAlias := make(map[string]bool)
	topLevel := topLevelNames(file)
	dir := filepath.Dir(abs)
	for _, imp := range file.Imports {
		if seenAlias[imp.Alias] {
			l.report(diag.RES002, "duplicate import alias %q in module %q", imp.Alias, name)
			continue
		}
		seenAlias[imp.Alias] = true
		if topLevel[imp.Alias] {
			l.report(diag.RES002, "import alias %q collides with a local top-level name in module %q", imp.Alias, name)
			continue
		}

		childPath := filepath.Join(dir, imp.Name+Ext)
		child, err := l.load(childPath)
		if err != nil {
			return nil, err
		}
		if child != nil {
			mod.Imports[imp.Alias] = child
		}
	}

	return mod, nil
}

// moduleName returns the file's declared `module X;` name, or the base
// filename (without extension) when absent.
func moduleName(file *ast.File, path string) string {
	if file.Module != nil {
		return file.Module.Name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, Ext)
}

// exportSet collects the names listed across all `export { ... };`
// declarations in a file. No export declaration means nothing is
// exported — the zero value of the resulting map already says so.
func exportSet(file *ast.File) map[string]bool {
	exports := make(map[string]bool)
	for _, exp := range file.Exports {
		for _, name := range exp.Names {
			exports[name] = true
		}
	}
	return exports
}

// topLevelNames collects every function and enum name a module declares,
// for import-alias collision checking.
func topLevelNames(file *ast.File) map[string]bool {
	names := make(map[string]bool)
	for _, fn := range file.Fns {
		names[fn.Name] = true
	}
	for _, en := range file.Enums {
		names[en.Name] = true
	}
	return names
}

func (l *Loader) report(code diag.Code, format string, args ...interface{}) {
	if l.sink == nil {
		return
	}
	l.sink.Report(code, ast.Span{}, format, args...)
}
