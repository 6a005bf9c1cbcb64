package symbol

import (
	"fmt"
	"strings"
)

// TypeKind selects which fields of a Type are meaningful.
type TypeKind int

const (
	TypeBuiltin TypeKind = iota
	TypePointer
	TypeArray
	TypeSlice
	TypeStruct
	TypeUnion
	TypeFunc
	TypeNamed
)

// BuiltinKind enumerates the primitive types.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Int
	Uint
	Uintptr
	Float32
	Float64
	String
)

var builtinNames = [...]string{
	Void:    "void",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Int:     "int",
	Uint:    "uint",
	Uintptr: "uintptr",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
}

func (b BuiltinKind) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("builtin(%d)", int(b))
	}
	return builtinNames[b]
}

// NumBuiltins is the number of builtin kinds, for decoders validating tags.
const NumBuiltins = len(builtinNames)

func (b BuiltinKind) IsInteger() bool {
	return b >= Int8 && b <= Uintptr
}

func (b BuiltinKind) IsFloat() bool {
	return b == Float32 || b == Float64
}

// Type is a semantic type descriptor. Struct and union types own their
// field declarations; every other reference is a handle.
type Type struct {
	Kind TypeKind

	Builtin BuiltinKind // TypeBuiltin

	Elem TypeID // TypePointer, TypeArray, TypeSlice
	Len  int64  // TypeArray

	Fields []DeclID // TypeStruct, TypeUnion

	Params   []TypeID // TypeFunc
	Results  []TypeID
	Variadic bool

	Name       string // TypeNamed
	Prefix     string
	Underlying TypeID
}

// Builtin returns the unit-wide handle of a builtin type, allocating it on
// first use.
func (t *TypeTracker) Builtin(kind BuiltinKind) TypeID {
	if id, ok := t.builtins[kind]; ok {
		return id
	}
	id := t.New(&Type{Kind: TypeBuiltin, Builtin: kind})
	t.builtins[kind] = id
	return id
}

func (t *TypeTracker) NewPointer(elem TypeID) TypeID {
	return t.New(&Type{Kind: TypePointer, Elem: elem})
}

func (t *TypeTracker) NewSlice(elem TypeID) TypeID {
	return t.New(&Type{Kind: TypeSlice, Elem: elem})
}

func (t *TypeTracker) NewArray(length int64, elem TypeID) TypeID {
	return t.New(&Type{Kind: TypeArray, Len: length, Elem: elem})
}

func (t *TypeTracker) NewFunc(params, results []TypeID, variadic bool) TypeID {
	return t.New(&Type{Kind: TypeFunc, Params: params, Results: results, Variadic: variadic})
}

// NewNamed allocates a named type whose underlying type is filled in later.
func (t *TypeTracker) NewNamed(name, prefix string) TypeID {
	return t.New(&Type{Kind: TypeNamed, Name: name, Prefix: prefix})
}

// NewAggregate allocates an empty struct or union type.
func (t *TypeTracker) NewAggregate(kind TypeKind) TypeID {
	if kind != TypeStruct && kind != TypeUnion {
		panic(fmt.Sprintf("NewAggregate: kind %d is not a struct or union", kind))
	}
	return t.New(&Type{Kind: kind})
}

// AddField allocates a field declaration owned by the aggregate type agg
// and appends it to the type's field list. The field keeps a handle back to
// its owner.
func (tr *Trackers) AddField(agg TypeID, name string, typ TypeID) DeclID {
	owner := tr.Types.Get(agg)
	if owner == nil || (owner.Kind != TypeStruct && owner.Kind != TypeUnion) {
		panic("AddField: owner is not a struct or union")
	}
	field := tr.Decls.New(&Decl{
		Name:  name,
		Kind:  DeclField,
		Type:  typ,
		Owner: agg,
		State: Checked,
	})
	owner.Fields = append(owner.Fields, field)
	return field
}

// FieldByName looks a field up on a struct or union type.
func (tr *Trackers) FieldByName(agg TypeID, name string) (DeclID, bool) {
	typ := tr.Types.Get(agg)
	if typ == nil {
		return NoDecl, false
	}
	for _, f := range typ.Fields {
		if d := tr.Decls.Get(f); d != nil && d.Name == name {
			return f, true
		}
	}
	return NoDecl, false
}

// Underlying follows named types to the first unnamed type.
func (tr *Trackers) Underlying(id TypeID) TypeID {
	for i := 0; i < tr.Types.Allocated()+1; i++ {
		typ := tr.Types.Get(id)
		if typ == nil || typ.Kind != TypeNamed {
			return id
		}
		id = typ.Underlying
	}
	return NoType
}

// TypeString renders a type in krawl syntax.
func (tr *Trackers) TypeString(id TypeID) string {
	var sb strings.Builder
	tr.writeType(&sb, id)
	return sb.String()
}

func (tr *Trackers) writeType(sb *strings.Builder, id TypeID) {
	typ := tr.Types.Get(id)
	if typ == nil {
		sb.WriteString("<invalid>")
		return
	}

	switch typ.Kind {
	case TypeBuiltin:
		sb.WriteString(typ.Builtin.String())
	case TypeNamed:
		if typ.Prefix != "" {
			sb.WriteString(typ.Prefix)
			sb.WriteByte('.')
		}
		sb.WriteString(typ.Name)
	case TypePointer:
		sb.WriteByte('*')
		tr.writeType(sb, typ.Elem)
	case TypeSlice:
		sb.WriteString("[]")
		tr.writeType(sb, typ.Elem)
	case TypeArray:
		fmt.Fprintf(sb, "[%d]", typ.Len)
		tr.writeType(sb, typ.Elem)
	case TypeStruct, TypeUnion:
		if typ.Kind == TypeStruct {
			sb.WriteString("struct {")
		} else {
			sb.WriteString("union {")
		}
		for i, f := range typ.Fields {
			if i > 0 {
				sb.WriteByte(';')
			}
			field := tr.Decls.Get(f)
			sb.WriteByte(' ')
			sb.WriteString(field.Name)
			sb.WriteByte(' ')
			tr.writeType(sb, field.Type)
		}
		sb.WriteString(" }")
	case TypeFunc:
		sb.WriteString("func(")
		for i, p := range typ.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			tr.writeType(sb, p)
		}
		if typ.Variadic {
			if len(typ.Params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteByte(')')
		switch len(typ.Results) {
		case 0:
		case 1:
			sb.WriteByte(' ')
			tr.writeType(sb, typ.Results[0])
		default:
			sb.WriteString(" (")
			for i, r := range typ.Results {
				if i > 0 {
					sb.WriteString(", ")
				}
				tr.writeType(sb, r)
			}
			sb.WriteByte(')')
		}
	}
}

// Identical reports whether type a in unit ta and type b in unit tb have the
// same structure. Named types must agree on name and prefix; cycles through
// named types are handled by assuming a pair identical while it is compared.
func Identical(ta *Trackers, a TypeID, tb *Trackers, b TypeID) bool {
	return identical(ta, a, tb, b, make(map[[2]TypeID]bool))
}

func identical(ta *Trackers, a TypeID, tb *Trackers, b TypeID, assumed map[[2]TypeID]bool) bool {
	x, y := ta.Types.Get(a), tb.Types.Get(b)
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if x.Kind != y.Kind {
		return false
	}

	key := [2]TypeID{a, b}
	if assumed[key] {
		return true
	}

	switch x.Kind {
	case TypeBuiltin:
		return x.Builtin == y.Builtin
	case TypeNamed:
		if x.Name != y.Name || x.Prefix != y.Prefix {
			return false
		}
		assumed[key] = true
		return identical(ta, x.Underlying, tb, y.Underlying, assumed)
	case TypePointer, TypeSlice:
		return identical(ta, x.Elem, tb, y.Elem, assumed)
	case TypeArray:
		return x.Len == y.Len && identical(ta, x.Elem, tb, y.Elem, assumed)
	case TypeStruct, TypeUnion:
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			fx, fy := ta.Decls.Get(x.Fields[i]), tb.Decls.Get(y.Fields[i])
			if fx.Name != fy.Name || !identical(ta, fx.Type, tb, fy.Type, assumed) {
				return false
			}
		}
		return true
	case TypeFunc:
		if x.Variadic != y.Variadic || len(x.Params) != len(y.Params) || len(x.Results) != len(y.Results) {
			return false
		}
		for i := range x.Params {
			if !identical(ta, x.Params[i], tb, y.Params[i], assumed) {
				return false
			}
		}
		for i := range x.Results {
			if !identical(ta, x.Results[i], tb, y.Results[i], assumed) {
				return false
			}
		}
		return true
	}
	return false
}
