package source

import "testing"

func TestGroupLine(t *testing.T) {
	g := NewGroup()
	g.Add("a.krl", []byte("var x int;\r\ntype T *T;\n"))

	tests := []struct {
		line   int
		want   string
		wantOk bool
	}{
		{1, "var x int;", true},
		{2, "type T *T;", true},
		{3, "", true},
		{0, "", false},
		{4, "", false},
	}

	for _, tt := range tests {
		got, ok := g.Line("a.krl", tt.line)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("Line(%d) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.wantOk)
		}
	}

	if _, ok := g.Line("missing.krl", 1); ok {
		t.Error("expected unknown file to report false")
	}
}

func TestPositionAdvance(t *testing.T) {
	p := &Position{Line: 1, Column: 1}
	p.Advance("ab\ncd")
	if p.Line != 2 || p.Column != 3 || p.Index != 5 {
		t.Errorf("got %+v, want line 2 column 3 index 5", *p)
	}
}
