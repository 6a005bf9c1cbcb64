package typecheck

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"krawl/internal/brawl"
	"krawl/internal/frontend/parser"
	"krawl/internal/registry"
	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/semantic/collector"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

const testFile = "main.krl"

// modules serves prebuilt interfaces by import path.
type modules map[string]string

func (m modules) Resolve(_ context.Context, header string) (string, error) {
	return m.Locate(header)
}

func (m modules) Locate(importPath string) (string, error) {
	if path, ok := m[importPath]; ok {
		return path, nil
	}
	return "", registry.ErrModuleNotFound
}

// stdioModule writes a small stdio.h interface: type FILE, func puts and
// func fclose.
func stdioModule(t *testing.T) modules {
	t.Helper()
	tr := symbol.NewTrackers()

	file := tr.Types.NewNamed("FILE", "")
	agg := tr.Types.NewAggregate(symbol.TypeStruct)
	tr.AddField(agg, "fd", tr.Types.Builtin(symbol.Int32))
	tr.Types.Get(file).Underlying = agg

	i32 := tr.Types.Builtin(symbol.Int32)
	str := tr.Types.NewPointer(tr.Types.Builtin(symbol.Int8))
	decls := []symbol.DeclID{
		tr.Decls.New(&symbol.Decl{Name: "FILE", Kind: symbol.DeclType, Type: file}),
		tr.Decls.New(&symbol.Decl{Name: "puts", Kind: symbol.DeclFunc, Type: tr.Types.NewFunc([]symbol.TypeID{str}, []symbol.TypeID{i32}, false)}),
		tr.Decls.New(&symbol.Decl{Name: "fclose", Kind: symbol.DeclFunc, Type: tr.Types.NewFunc([]symbol.TypeID{tr.Types.NewPointer(file)}, []symbol.TypeID{i32}, false)}),
	}

	path := filepath.Join(t.TempDir(), "stdio.brl")
	if err := brawl.WriteFile(path, tr, decls, "", "stdio"); err != nil {
		t.Fatalf("write stdio module: %v", err)
	}
	return modules{"stdio.h": path}
}

func check(t *testing.T, input string, mods modules) *analyzer.Unit {
	t.Helper()
	reports := &report.Reports{}
	program := parser.NewParser(testFile, []byte(input), reports, false).Parse()
	if reports.HasErrors() {
		t.Fatalf("syntax errors in test input: %s", messages(reports))
	}
	u := analyzer.NewUnit(testFile, program, reports, source.NewGroup(), false)
	collector.CollectProgram(context.Background(), u, mods)
	if reports.HasErrors() {
		t.Fatalf("collector errors in test input: %s", messages(reports))
	}
	CheckProgram(u)
	return u
}

func messages(reports *report.Reports) string {
	var out []string
	for _, r := range *reports {
		out = append(out, r.Message)
	}
	return strings.Join(out, "; ")
}

func lookup(t *testing.T, u *analyzer.Unit, name string) *symbol.Decl {
	t.Helper()
	id, ok := u.Trackers.Scopes.LookupLocal(u.Scope, name)
	if !ok {
		t.Fatalf("'%s' not declared", name)
	}
	return u.Decl(id)
}

func TestCheckValidDeclarations(t *testing.T) {
	u := check(t, `
type node struct { next *node; data []byte }
type list node
type handle *void
type cb func(int, ...) int32
var head list
var buf [0x4]int
var p, q *int = nil
var msg *uint8 = "hi"
const max uint8 = 255
const min int8 = -128
const pi = 3.14
const letter = 'a'
const on = true
func run(a, b int) (int, bool) {}
`, nil)

	if u.Reports.HasErrors() {
		t.Fatalf("unexpected errors: %s", messages(u.Reports))
	}

	tests := []struct {
		name string
		typ  string
	}{
		{"node", "node"},
		{"head", "list"},
		{"buf", "[4]int"},
		{"p", "*int"},
		{"q", "*int"},
		{"msg", "*uint8"},
		{"max", "uint8"},
		{"min", "int8"},
		{"pi", "float64"},
		{"letter", "int32"},
		{"on", "bool"},
		{"run", "func(int, int) (int, bool)"},
	}
	for _, tt := range tests {
		decl := lookup(t, u, tt.name)
		if got := u.Trackers.TypeString(decl.Type); got != tt.typ {
			t.Errorf("type of %s = %q, want %q", tt.name, got, tt.typ)
		}
	}

	underlying := []struct {
		name string
		typ  string
	}{
		{"node", "struct { next *node; data []uint8 }"},
		{"list", "struct { next *node; data []uint8 }"},
		{"handle", "*void"},
		{"cb", "func(int, ...) int32"},
	}
	for _, tt := range underlying {
		decl := lookup(t, u, tt.name)
		if got := u.Trackers.TypeString(u.Trackers.Underlying(decl.Type)); got != tt.typ {
			t.Errorf("underlying of %s = %q, want %q", tt.name, got, tt.typ)
		}
	}

	for _, id := range u.Decls {
		if decl := u.Decl(id); decl.State != symbol.Checked {
			t.Errorf("%s left in state %d", decl.Name, decl.State)
		}
	}
	values := map[string]string{
		"max":    "255",
		"min":    "-128",
		"letter": "97",
		"msg":    `"hi"`,
		"p":      "nil",
		"head":   "",
	}
	for name, want := range values {
		if got := lookup(t, u, name).Value; got != want {
			t.Errorf("value of %s = %q, want %q", name, got, want)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"undefined type", "var x foo", "undefined: foo"},
		{"value as type", "var v int\nvar x v", "'v' is not a type"},
		{"self alias", "type a a", "invalid recursive type 'a'"},
		{"alias cycle", "type a b\ntype b a", "invalid recursive type 'a'"},
		{"chain into cycle", "type c a\ntype a b\ntype b a", "invalid recursive type 'a'"},
		{"self containment", "type s struct { a [2]s }", "invalid recursive type 's'"},
		{"mutual containment", "type a struct { b b }\ntype b struct { x, y a }", "invalid recursive type 'a'"},
		{"union containment", "type u union { x int; u u }", "invalid recursive type 'u'"},
		{"duplicate field", "type s struct { x int; x int }", "duplicate field 'x'"},
		{"duplicate parameter", "func f(a int, a int)", "duplicate parameter 'a'"},
		{"negative length", "var a [-1]int", report.NEGATIVE_ARRAY_LENGTH},
		{"void var", "var v void", report.INVALID_VOID_USE},
		{"void result", "func f() []void", report.INVALID_VOID_USE},
		{"void alias", "type v void", report.INVALID_VOID_USE},
		{"const overflow", "const c uint8 = 256", report.CONST_TYPE_MISMATCH + " uint8"},
		{"const underflow", "const c int8 = -129", report.CONST_TYPE_MISMATCH + " int8"},
		{"negative unsigned", "const c uint = -1", report.CONST_TYPE_MISMATCH + " uint"},
		{"const string as int", `const c int = "x"`, report.CONST_TYPE_MISMATCH + " int"},
		{"const pointer", "const c *int = 0", report.CONST_NOT_BASIC},
		{"const nil", "const c = nil", report.CONST_NIL},
		{"const nil pointer", "const c *int = nil", report.CONST_NOT_BASIC},
		{"var string as int", "var s string = 1", report.VAR_TYPE_MISMATCH + " string"},
		{"var float as int", "var n int = 1.5", report.VAR_TYPE_MISMATCH + " int"},
		{"var nil as int", "var n int = nil", report.VAR_TYPE_MISMATCH + " int"},
		{"group reported once", "var a, b, c bool = 1", report.VAR_TYPE_MISMATCH + " bool"},
		{"func is not a package", "func main()\nvar x main.T", "'main' is not a package"},
		{"undefined package", "var x nopkg.T", "undefined: nopkg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := check(t, tt.input, nil)
			if got := u.Reports.ErrorCount(); got != 1 {
				t.Fatalf("got %d errors (%s), want 1", got, messages(u.Reports))
			}
			if got := (*u.Reports)[0].Message; !strings.Contains(got, tt.want) {
				t.Errorf("message = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestCheckRecursiveThroughReferences(t *testing.T) {
	u := check(t, `
type list struct { next *list; rest []list; visit func(list) list }
type tree struct { kids [2]*tree }
`, nil)
	if u.Reports.HasErrors() {
		t.Fatalf("unexpected errors: %s", messages(u.Reports))
	}
}

func TestCheckImportedReferences(t *testing.T) {
	u := check(t, `
import "stdio.h"
var out *stdio.FILE
func main() {
	stdio.puts("hello")
	stdio.puts("again")
	x.y = 3
}
`, stdioModule(t))

	if u.Reports.HasErrors() {
		t.Fatalf("unexpected errors: %s", messages(u.Reports))
	}

	var used []string
	for _, id := range u.UsedExterns {
		used = append(used, u.Decl(id).Name)
	}
	if got := strings.Join(used, ","); got != "FILE,puts" {
		t.Errorf("used externs = %s, want FILE,puts", got)
	}
	if got := u.Trackers.TypeString(lookup(t, u, "out").Type); got != "*FILE" {
		t.Errorf("type of out = %q", got)
	}
}

func TestCheckImportedErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing member type", "import \"stdio.h\"\nvar f stdio.missing", "undefined: stdio.missing"},
		{"member is not a type", "import \"stdio.h\"\nvar f stdio.puts", "'stdio.puts' is not a type"},
		{"missing member in body", "import \"stdio.h\"\nfunc main() { stdio.fopen() }", "undefined: stdio.fopen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := check(t, tt.input, stdioModule(t))
			if got := u.Reports.ErrorCount(); got != 1 {
				t.Fatalf("got %d errors (%s), want 1", got, messages(u.Reports))
			}
			if got := (*u.Reports)[0].Message; !strings.Contains(got, tt.want) {
				t.Errorf("message = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
