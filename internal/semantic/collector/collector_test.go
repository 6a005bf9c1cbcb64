package collector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"krawl/internal/brawl"
	"krawl/internal/frontend/parser"
	"krawl/internal/registry"
	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

const testFile = "main.krl"

// fakeImporter serves artifacts written to a temporary directory.
type fakeImporter struct {
	dir     string
	mu      sync.Mutex
	headers map[string]int
	fail    map[string]error
}

func newFakeImporter(t *testing.T) *fakeImporter {
	return &fakeImporter{dir: t.TempDir(), headers: make(map[string]int), fail: make(map[string]error)}
}

// module writes an interface with a func per name and one type `handle`.
func (f *fakeImporter) module(t *testing.T, path, prefix, pkg string, funcs ...string) {
	t.Helper()
	tr := symbol.NewTrackers()
	var decls []symbol.DeclID

	handle := tr.Types.NewNamed("handle", prefix)
	tr.Types.Get(handle).Underlying = tr.Types.NewPointer(tr.Types.Builtin(symbol.Void))
	decls = append(decls, tr.Decls.New(&symbol.Decl{Name: "handle", Kind: symbol.DeclType, Type: handle}))

	for _, name := range funcs {
		fn := tr.Types.NewFunc([]symbol.TypeID{handle}, []symbol.TypeID{tr.Types.Builtin(symbol.Int32)}, false)
		decls = append(decls, tr.Decls.New(&symbol.Decl{Name: name, Kind: symbol.DeclFunc, Type: fn}))
	}
	if err := brawl.WriteFile(f.artifact(path), tr, decls, prefix, pkg); err != nil {
		t.Fatalf("write module %s: %v", path, err)
	}
}

func (f *fakeImporter) artifact(path string) string {
	return filepath.Join(f.dir, strings.ReplaceAll(path, "/", "_")+".brl")
}

func (f *fakeImporter) Resolve(_ context.Context, header string) (string, error) {
	f.mu.Lock()
	f.headers[header]++
	err := f.fail[header]
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.artifact(header), nil
}

func (f *fakeImporter) Locate(importPath string) (string, error) {
	if err := f.fail[importPath]; err != nil {
		return "", err
	}
	return f.artifact(importPath), nil
}

func collect(t *testing.T, input string, importer Importer) *analyzer.Unit {
	t.Helper()
	reports := &report.Reports{}
	program := parser.NewParser(testFile, []byte(input), reports, false).Parse()
	if reports.HasErrors() {
		t.Fatalf("syntax errors in test input")
	}
	u := analyzer.NewUnit(testFile, program, reports, source.NewGroup(), false)
	CollectProgram(context.Background(), u, importer)
	return u
}

func messages(u *analyzer.Unit) []string {
	var out []string
	for _, r := range *u.Reports {
		out = append(out, r.Message)
	}
	return out
}

func TestCollectDeclarations(t *testing.T) {
	u := collect(t, `
type point struct { x, y int }
var a, b int
const limit = 3
func main() {}
`, newFakeImporter(t))

	if u.Reports.HasErrors() {
		t.Fatalf("unexpected errors: %v", messages(u))
	}

	want := []struct {
		name string
		kind symbol.DeclKind
	}{
		{"point", symbol.DeclType},
		{"a", symbol.DeclVar},
		{"b", symbol.DeclVar},
		{"limit", symbol.DeclConst},
		{"main", symbol.DeclFunc},
	}
	if len(u.Decls) != len(want) {
		t.Fatalf("got %d declarations, want %d", len(u.Decls), len(want))
	}
	for i, w := range want {
		decl := u.Decl(u.Decls[i])
		if decl.Name != w.name || decl.Kind != w.kind {
			t.Errorf("decl %d = %s %s, want %s %s", i, decl.Kind, decl.Name, w.kind, w.name)
		}
		if decl.State != symbol.Unresolved || decl.Type.IsValid() {
			t.Errorf("decl %s was resolved by Pass 1", decl.Name)
		}
		if id, ok := u.Trackers.Scopes.LookupLocal(u.Scope, w.name); !ok || id != u.Decls[i] {
			t.Errorf("decl %s not in package scope", w.name)
		}
	}
}

func TestCollectDuplicatesReportedOnce(t *testing.T) {
	u := collect(t, `
type a int
var a int
func a()
func b()
`, newFakeImporter(t))

	if got := u.Reports.ErrorCount(); got != 2 {
		t.Errorf("got %d errors, want 2: %v", got, messages(u))
	}
	if len(u.Decls) != 2 {
		t.Errorf("got %d declarations, want 2 (a, b)", len(u.Decls))
	}
	if hint := (*u.Reports)[0].Hint(); !strings.Contains(hint, "2:6") {
		t.Errorf("hint = %q, want the first declaration's position", hint)
	}
}

func TestCollectImports(t *testing.T) {
	imp := newFakeImporter(t)
	imp.module(t, "stdio.h", "", "stdio", "puts", "fclose")
	imp.module(t, "gl-ext.h", "", "", "glBind")
	imp.module(t, "util", "Xa8f3kQz01b", "util", "run")

	u := collect(t, `
import "stdio.h"
import (
	io "stdio.h"
	"gl-ext.h"
	"util"
)
func main() {}
`, imp)

	if u.Reports.HasErrors() {
		t.Fatalf("unexpected errors: %v", messages(u))
	}
	if imp.headers["stdio.h"] != 1 || imp.headers["gl-ext.h"] != 1 {
		t.Errorf("headers resolved %v, want each once", imp.headers)
	}

	tests := []struct {
		name   string
		prefix string
		member string
	}{
		{"stdio", "", "puts"},
		{"io", "", "fclose"},
		{"gl_ext", "", "glBind"},
		{"util", "Xa8f3kQz01b", "run"},
	}
	for _, tt := range tests {
		id, ok := u.Trackers.Scopes.LookupLocal(u.Scope, tt.name)
		if !ok {
			t.Errorf("package %s not declared", tt.name)
			continue
		}
		pkg := u.Decl(id)
		if pkg.Kind != symbol.DeclPackage || pkg.Prefix != tt.prefix {
			t.Errorf("package %s: kind %s prefix %q", tt.name, pkg.Kind, pkg.Prefix)
		}
		member, ok := u.Trackers.Scopes.LookupLocal(pkg.Members, tt.member)
		if !ok {
			t.Errorf("%s.%s not loaded", tt.name, tt.member)
			continue
		}
		if d := u.Decl(member); !d.Imported || d.State != symbol.Checked {
			t.Errorf("%s.%s is not an imported checked declaration", tt.name, tt.member)
		}
	}

	stdio, _ := u.Trackers.Scopes.LookupLocal(u.Scope, "stdio")
	io, _ := u.Trackers.Scopes.LookupLocal(u.Scope, "io")
	if u.Decl(stdio).Members != u.Decl(io).Members {
		t.Error("the same module was loaded twice")
	}
	if len(u.Imports) != 4 {
		t.Errorf("got %d imports, want 4", len(u.Imports))
	}
}

func TestCollectImportFailures(t *testing.T) {
	imp := newFakeImporter(t)
	imp.module(t, "ok.h", "", "ok", "f")
	imp.fail["broken.h"] = errors.New("clang exited with status 1")
	imp.fail["missing"] = fmt.Errorf("%w: missing", registry.ErrModuleNotFound)

	u := collect(t, `
import "ok.h"
import "broken.h"
import "missing"
import "nowhere"
type ok int
func main() {}
`, imp)

	want := []report.PROBLEM_TYPE{report.CRITICAL_ERROR, report.SEMANTIC_ERROR, report.CRITICAL_ERROR, report.SEMANTIC_ERROR}
	if len(*u.Reports) != len(want) {
		t.Fatalf("got reports %v, want %d", messages(u), len(want))
	}
	for i, r := range *u.Reports {
		if r.Level != want[i] {
			t.Errorf("report %d (%s): level %s, want %s", i, r.Message, r.Level, want[i])
		}
	}
	// ok.h declared package `ok`; the type declaration then collides with it
	if hint := (*u.Reports)[3].Hint(); !strings.Contains(hint, `"ok.h"`) {
		t.Errorf("duplicate hint = %q", hint)
	}
	if len(u.Decls) != 1 {
		t.Errorf("got %d declarations, want 1", len(u.Decls))
	}
}

// failFirstImporter fails broken.h and releases every other header only
// once that failure happened. A header whose context was cancelled by then
// fails the way a killed clang would.
type failFirstImporter struct {
	*fakeImporter
	failed chan struct{}
}

func (f *failFirstImporter) Resolve(ctx context.Context, header string) (string, error) {
	if header == "broken.h" {
		defer close(f.failed)
		return "", errors.New("C front end failed on broken.h: exit status 1")
	}
	<-f.failed
	if ctx.Err() != nil {
		return "", fmt.Errorf("C front end failed on %s: signal: killed", header)
	}
	return f.fakeImporter.Resolve(ctx, header)
}

func TestCollectFailedHeaderLeavesOthersRunning(t *testing.T) {
	imp := &failFirstImporter{fakeImporter: newFakeImporter(t), failed: make(chan struct{})}
	imp.module(t, "stdio.h", "", "stdio", "puts")
	imp.module(t, "math.h", "", "math", "sqrt")

	u := collect(t, `
import "broken.h"
import "stdio.h"
import "math.h"
func main() {}
`, imp)

	if len(*u.Reports) != 1 {
		t.Fatalf("got reports %v, want only the broken header", messages(u))
	}
	if msg := (*u.Reports)[0].Message; !strings.Contains(msg, "broken.h") {
		t.Errorf("report = %q", msg)
	}
	for _, name := range []string{"stdio", "math"} {
		if _, ok := u.Trackers.Scopes.LookupLocal(u.Scope, name); !ok {
			t.Errorf("package %s not declared", name)
		}
	}
}
