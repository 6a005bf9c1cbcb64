package symbol

import "testing"

func buildList(tr *Trackers, prefix string) TypeID {
	named := tr.Types.NewNamed("list", prefix)
	body := tr.Types.NewAggregate(TypeStruct)
	tr.AddField(body, "next", tr.Types.NewPointer(named))
	tr.AddField(body, "data", tr.Types.NewSlice(tr.Types.Builtin(Uint8)))
	tr.Types.Get(named).Underlying = body
	return named
}

func TestIdenticalAcrossUnits(t *testing.T) {
	a, b := NewTrackers(), NewTrackers()
	la, lb := buildList(a, "p"), buildList(b, "p")

	if !Identical(a, la, b, lb) {
		t.Error("self-referential struct types should be identical across units")
	}

	other := buildList(b, "q")
	if Identical(a, la, b, other) {
		t.Error("named types with different prefixes must differ")
	}

	fa := a.Types.NewFunc([]TypeID{a.Types.Builtin(Int)}, nil, true)
	fb := b.Types.NewFunc([]TypeID{b.Types.Builtin(Int)}, nil, false)
	if Identical(a, fa, b, fb) {
		t.Error("variadic flag must be compared")
	}
}

func TestTypeString(t *testing.T) {
	tr := NewTrackers()
	list := buildList(tr, "")

	tests := []struct {
		name string
		id   TypeID
		want string
	}{
		{"builtin", tr.Types.Builtin(Float32), "float32"},
		{"array", tr.Types.NewArray(4, tr.Types.Builtin(Int)), "[4]int"},
		{"named", list, "list"},
		{"struct", tr.Types.Get(list).Underlying, "struct { next *list; data []uint8 }"},
		{"func", tr.Types.NewFunc(
			[]TypeID{tr.Types.NewPointer(tr.Types.Builtin(Uint8))},
			[]TypeID{tr.Types.Builtin(Int)}, true), "func(*uint8, ...) int"},
		{"multi result", tr.Types.NewFunc(nil,
			[]TypeID{tr.Types.Builtin(Int), tr.Types.Builtin(Bool)}, false), "func() (int, bool)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.TypeString(tt.id); got != tt.want {
				t.Errorf("TypeString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldOwner(t *testing.T) {
	tr := NewTrackers()
	u := tr.Types.NewAggregate(TypeUnion)
	f := tr.AddField(u, "i", tr.Types.Builtin(Int32))

	if tr.Decls.Get(f).Owner != u {
		t.Error("field does not point back to its owner")
	}
	if got, ok := tr.FieldByName(u, "i"); !ok || got != f {
		t.Errorf("FieldByName = %d, %v", got, ok)
	}
	if _, ok := tr.FieldByName(u, "missing"); ok {
		t.Error("found a missing field")
	}
}
