package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"krawl/internal/brawl"
	"krawl/internal/frontend/parser"
	"krawl/internal/registry"
	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/semantic/collector"
	"krawl/internal/semantic/typecheck"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

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

func libcModule(t *testing.T) modules {
	t.Helper()
	tr := symbol.NewTrackers()
	i32 := tr.Types.Builtin(symbol.Int32)
	decls := []symbol.DeclID{
		tr.Decls.New(&symbol.Decl{Name: "puts", Kind: symbol.DeclFunc, Type: tr.Types.NewFunc([]symbol.TypeID{tr.Types.NewPointer(tr.Types.Builtin(symbol.Int8))}, []symbol.TypeID{i32}, false)}),
		tr.Decls.New(&symbol.Decl{Name: "errno", Kind: symbol.DeclVar, Type: i32}),
		tr.Decls.New(&symbol.Decl{Name: "EOF", Kind: symbol.DeclConst, Type: i32, Value: "-1"}),
		tr.Decls.New(&symbol.Decl{Name: "abort", Kind: symbol.DeclFunc, Type: tr.Types.NewFunc(nil, nil, false)}),
	}
	path := filepath.Join(t.TempDir(), "libc.brl")
	if err := brawl.WriteFile(path, tr, decls, "", "libc"); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return modules{"libc.h": path}
}

func checkedUnit(t *testing.T, input, prefix string, mods modules) *analyzer.Unit {
	t.Helper()
	reports := &report.Reports{}
	program := parser.NewParser("main.krl", []byte(input), reports, false).Parse()
	u := analyzer.NewUnit("main.krl", program, reports, source.NewGroup(), false)
	u.Prefix = prefix
	collector.CollectProgram(context.Background(), u, mods)
	typecheck.CheckProgram(u)
	if reports.HasErrors() {
		t.Fatalf("test input does not check: %s", (*reports)[0].Message)
	}
	return u
}

const program = `
import "libc.h"

type point struct { x, y int32 }

var origin point
var count int = 42
var ratio float32 = 2
var greeting *uint8 = "hello\n"
var name string = "krawl"
var ready bool = true
var none *int = nil

const limit = 10
const pi = 3.14
const title = "demo"

func write(fd int, buf *uint8, n uint) int

func main() int {
	libc.puts(greeting)
	if libc.errno != 0 { libc.puts("failed") }
	return libc.EOF
}
`

func TestLowerListing(t *testing.T) {
	u := checkedUnit(t, program, "", libcModule(t))

	var out bytes.Buffer
	if err := Lower(u, "", &out); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	listing := out.String()

	want := []string{
		"; Generated by krawl 0.1 from main.krl",
		"extern puts\n",
		"extern errno\n",
		"extern write    ; func(int, *uint8, uint) int",
		"limit equ 10    ; const limit int",
		"%define pi __float64__(3.14)",
		"section .rodata\n",
		`str_1: db "hello", 10, 0`,
		`str_2: db "krawl", 0`,
		`title: db "demo", 0`,
		"section .data\n",
		"count: dq 42",
		"ratio: dd __float32__(2.0)",
		"greeting: dq str_1",
		"name: dq str_2, 5",
		"ready: db 1",
		"section .bss\n",
		"alignb 4\norigin: resb 8",
		"alignb 8\nnone: resb 8",
		"section .text\n",
		"global main\nmain:    ; func() int",
	}
	for _, w := range want {
		if !strings.Contains(listing, w) {
			t.Errorf("listing lacks %q:\n%s", w, listing)
		}
	}

	unwanted := []string{"extern EOF", "extern abort", "global write", "; Prefix"}
	for _, w := range unwanted {
		if strings.Contains(listing, w) {
			t.Errorf("listing contains %q", w)
		}
	}
}

func TestLowerPrefixedSymbols(t *testing.T) {
	u := checkedUnit(t, "var total int\nfunc run() {}\n", "Xa8f3kQz01b", nil)

	var out bytes.Buffer
	if err := Lower(u, "", &out); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	listing := out.String()
	for _, w := range []string{"; Prefix: Xa8f3kQz01b", "global Xa8f3kQz01b.total", "global Xa8f3kQz01b.run"} {
		if !strings.Contains(listing, w) {
			t.Errorf("listing lacks %q:\n%s", w, listing)
		}
	}
}

func TestLowerWritesFile(t *testing.T) {
	u := checkedUnit(t, "func main() {}\n", "", nil)
	path := filepath.Join(t.TempDir(), "out", "main.o")

	var dump bytes.Buffer
	if err := Lower(u, path, &dump); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "global main") {
		t.Errorf("output lacks main:\n%s", data)
	}
	if dump.String() != string(data) {
		t.Errorf("dump differs from the written file:\n%s", dump.String())
	}
}

func TestLowerReportsOversizedTypes(t *testing.T) {
	u := checkedUnit(t, "var big [0x7fffffffffff]int64\n", "", nil)
	path := filepath.Join(t.TempDir(), "big.o")

	if err := Lower(u, path, nil); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if !u.Reports.HasErrors() {
		t.Fatal("oversized variable was not reported")
	}
	if (*u.Reports)[0].Phase != report.LOWERING_PHASE {
		t.Errorf("phase = %s", (*u.Reports)[0].Phase)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output written despite errors: %v", err)
	}
}
