package report

import (
	"bytes"
	"strings"
	"testing"

	"krawl/colors"
	"krawl/internal/source"
)

const testFile = "unit.krl"

func loc(line, startCol, endCol int) *source.Location {
	return source.NewLocation(
		&source.Position{Line: line, Column: startCol},
		&source.Position{Line: line, Column: endCol},
	)
}

func TestReportsHasErrors(t *testing.T) {
	tests := []struct {
		name string
		add  func(r *Reports)
		want bool
	}{
		{"empty", func(r *Reports) {}, false},
		{"warning only", func(r *Reports) { r.AddWarning(testFile, loc(1, 1, 2), "w", PARSING_PHASE) }, false},
		{"info only", func(r *Reports) { r.AddInfo(testFile, loc(1, 1, 2), "i", PARSING_PHASE) }, false},
		{"semantic error", func(r *Reports) { r.AddSemanticError(testFile, loc(1, 1, 2), "e", TYPECHECK_PHASE) }, true},
		{"critical error", func(r *Reports) { r.AddCriticalError(testFile, loc(1, 1, 2), "e", COLLECTOR_PHASE) }, true},
		{"syntax error", func(r *Reports) { r.AddSyntaxError(testFile, loc(1, 1, 2), "e", PARSING_PHASE) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Reports
			tt.add(&r)
			if got := r.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportsAccumulate(t *testing.T) {
	var r Reports
	r.AddCriticalError(testFile, nil, "first", COLLECTOR_PHASE)
	r.AddSyntaxError(testFile, loc(0, 0, 0), "second", PARSING_PHASE)

	if r.Len() != 2 {
		t.Fatalf("expected 2 reports, got %d", r.Len())
	}
	if r[1].Location.Start.Line != 1 || r[1].Location.Start.Column != 1 {
		t.Errorf("expected location to be clamped to 1:1, got %s", r[1].Location)
	}
	if r.ErrorCount() != 2 {
		t.Errorf("expected 2 errors, got %d", r.ErrorCount())
	}
}

func TestRenderWithSnippet(t *testing.T) {
	colors.Enabled = false
	defer func() { colors.Enabled = true }()

	files := source.NewGroup()
	files.Add(testFile, []byte("var x int;\nvar x int;\n"))

	var r Reports
	r.AddSemanticError(testFile, loc(2, 5, 6), "'x' redeclared in this block", COLLECTOR_PHASE).AddHint("rename it")

	var buf bytes.Buffer
	r.DisplayAll(&buf, files)
	out := buf.String()

	for _, want := range []string{
		"[Semantic Error while collecting symbols]: 'x' redeclared in this block",
		"[unit.krl:2:5]",
		"2 | var x int;",
		"^ rename it",
		"failed with 1 error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderUnknownFile(t *testing.T) {
	colors.Enabled = false
	defer func() { colors.Enabled = true }()

	var r Reports
	r.AddError("<header>", loc(3, 1, 4), "broken", TYPECHECK_PHASE)

	var buf bytes.Buffer
	r.DisplayAll(&buf, source.NewGroup())
	if !strings.Contains(buf.String(), "[<header>:3:1]") {
		t.Errorf("expected location line, got:\n%s", buf.String())
	}
}
