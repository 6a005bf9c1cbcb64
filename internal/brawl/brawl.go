// Package brawl reads and writes module interfaces: the exported
// declarations of a compiled krawl package or an imported C header, with
// enough type information to type check code that imports them.
//
// Layout:
//
//	string(prefix) string(package) varuint(n) n*decl
//	decl = string(name) varuint(kind) [string(value) if const] type
//	type = varuint(tag) payload
//
// Named types are written once; later occurrences refer back to the
// definition by index, which keeps self-referential types finite.
package brawl

import (
	"errors"
	"fmt"
	"io"

	"krawl/internal/symbol"
	"krawl/internal/utils/stream"
)

const (
	tagBuiltin uint64 = iota
	tagPointer
	tagSlice
	tagArray
	tagStruct
	tagUnion
	tagFunc
	tagNamedDef
	tagNamedRef
)

const flagVariadic = 1 << 0

const (
	maxCount = 1 << 20
	maxDepth = 512
)

// ErrCorrupt is returned for input that is well framed but describes an
// impossible module.
var ErrCorrupt = errors.New("corrupt module interface")

// Module is a deserialized interface.
type Module struct {
	Prefix  string
	Package string
	Decls   []symbol.DeclID
}

// Serialize writes decls with their types. Only var, const, type and func
// declarations can be exported.
func Serialize(w io.Writer, tr *symbol.Trackers, decls []symbol.DeclID, prefix, pkg string) error {
	enc := &encoder{
		w:     stream.NewWriter(w),
		tr:    tr,
		named: make(map[symbol.TypeID]uint64),
	}

	enc.w.WriteString(prefix)
	enc.w.WriteString(pkg)
	enc.w.WriteVarUint(uint64(len(decls)))

	for _, id := range decls {
		if err := enc.writeDecl(id); err != nil {
			return err
		}
	}
	return enc.w.Flush()
}

type encoder struct {
	w     *stream.Writer
	tr    *symbol.Trackers
	named map[symbol.TypeID]uint64
}

func exportable(kind symbol.DeclKind) bool {
	switch kind {
	case symbol.DeclVar, symbol.DeclConst, symbol.DeclType, symbol.DeclFunc:
		return true
	}
	return false
}

func (e *encoder) writeDecl(id symbol.DeclID) error {
	decl := e.tr.Decls.Get(id)
	if decl == nil {
		return fmt.Errorf("brawl: invalid declaration handle %d", id)
	}
	if !exportable(decl.Kind) {
		return fmt.Errorf("brawl: cannot export %s declaration '%s'", decl.Kind, decl.Name)
	}

	e.w.WriteString(decl.Name)
	e.w.WriteVarUint(uint64(decl.Kind))
	if decl.Kind == symbol.DeclConst {
		e.w.WriteString(decl.Value)
	}
	if err := e.writeType(decl.Type); err != nil {
		return fmt.Errorf("brawl: declaration '%s': %w", decl.Name, err)
	}
	return nil
}

func (e *encoder) writeTypes(ids []symbol.TypeID) error {
	e.w.WriteVarUint(uint64(len(ids)))
	for _, id := range ids {
		if err := e.writeType(id); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeType(id symbol.TypeID) error {
	typ := e.tr.Types.Get(id)
	if typ == nil {
		return fmt.Errorf("invalid type handle %d", id)
	}

	switch typ.Kind {
	case symbol.TypeBuiltin:
		e.w.WriteVarUint(tagBuiltin)
		e.w.WriteVarUint(uint64(typ.Builtin))

	case symbol.TypeNamed:
		if index, ok := e.named[id]; ok {
			e.w.WriteVarUint(tagNamedRef)
			e.w.WriteVarUint(index)
			return nil
		}
		e.named[id] = uint64(len(e.named))
		e.w.WriteVarUint(tagNamedDef)
		e.w.WriteString(typ.Name)
		e.w.WriteString(typ.Prefix)
		return e.writeType(typ.Underlying)

	case symbol.TypePointer:
		e.w.WriteVarUint(tagPointer)
		return e.writeType(typ.Elem)

	case symbol.TypeSlice:
		e.w.WriteVarUint(tagSlice)
		return e.writeType(typ.Elem)

	case symbol.TypeArray:
		if typ.Len < 0 {
			return fmt.Errorf("negative array length %d", typ.Len)
		}
		e.w.WriteVarUint(tagArray)
		e.w.WriteVarUint(uint64(typ.Len))
		return e.writeType(typ.Elem)

	case symbol.TypeStruct, symbol.TypeUnion:
		if typ.Kind == symbol.TypeStruct {
			e.w.WriteVarUint(tagStruct)
		} else {
			e.w.WriteVarUint(tagUnion)
		}
		e.w.WriteVarUint(uint64(len(typ.Fields)))
		for _, f := range typ.Fields {
			field := e.tr.Decls.Get(f)
			if field == nil {
				return fmt.Errorf("invalid field handle %d", f)
			}
			e.w.WriteString(field.Name)
			if err := e.writeType(field.Type); err != nil {
				return err
			}
		}

	case symbol.TypeFunc:
		e.w.WriteVarUint(tagFunc)
		var flags uint64
		if typ.Variadic {
			flags |= flagVariadic
		}
		e.w.WriteVarUint(flags)
		if err := e.writeTypes(typ.Params); err != nil {
			return err
		}
		return e.writeTypes(typ.Results)

	default:
		return fmt.Errorf("unknown type kind %d", typ.Kind)
	}
	return nil
}

// Deserialize allocates the declarations and types of a module interface in
// tr. The declarations are marked imported and checked; they belong to no
// scope until the caller declares them.
func Deserialize(r io.Reader, tr *symbol.Trackers) (*Module, error) {
	dec := &decoder{r: stream.NewReader(r), tr: tr}

	mod := &Module{}
	var err error
	if mod.Prefix, err = dec.r.ReadString(); err != nil {
		return nil, fmt.Errorf("brawl: reading prefix: %w", err)
	}
	if mod.Package, err = dec.r.ReadString(); err != nil {
		return nil, fmt.Errorf("brawl: reading package name: %w", err)
	}
	n, err := dec.count()
	if err != nil {
		return nil, fmt.Errorf("brawl: reading declaration count: %w", err)
	}

	mod.Decls = make([]symbol.DeclID, 0, n)
	for i := 0; i < n; i++ {
		id, err := dec.readDecl(mod.Prefix)
		if err != nil {
			return nil, fmt.Errorf("brawl: declaration %d of %d: %w", i+1, n, err)
		}
		mod.Decls = append(mod.Decls, id)
	}
	return mod, nil
}

type decoder struct {
	r     *stream.Reader
	tr    *symbol.Trackers
	named []symbol.TypeID
	depth int
}

func (d *decoder) count() (int, error) {
	n, err := d.r.ReadVarUint()
	if err != nil {
		return 0, err
	}
	if n > maxCount {
		return 0, fmt.Errorf("%w: count %d too large", ErrCorrupt, n)
	}
	return int(n), nil
}

func (d *decoder) readDecl(prefix string) (symbol.DeclID, error) {
	name, err := d.r.ReadString()
	if err != nil {
		return symbol.NoDecl, err
	}
	rawKind, err := d.r.ReadVarUint()
	if err != nil {
		return symbol.NoDecl, err
	}
	kind := symbol.DeclKind(rawKind)
	if rawKind > uint64(symbol.DeclPackage) || !exportable(kind) {
		return symbol.NoDecl, fmt.Errorf("%w: declaration kind %d", ErrCorrupt, rawKind)
	}

	decl := &symbol.Decl{
		Name:     name,
		Kind:     kind,
		State:    symbol.Checked,
		Prefix:   prefix,
		Imported: true,
	}
	if kind == symbol.DeclConst {
		if decl.Value, err = d.r.ReadString(); err != nil {
			return symbol.NoDecl, err
		}
	}
	if decl.Type, err = d.readType(); err != nil {
		return symbol.NoDecl, fmt.Errorf("'%s': %w", name, err)
	}
	return d.tr.Decls.New(decl), nil
}

func (d *decoder) readTypes() ([]symbol.TypeID, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]symbol.TypeID, n)
	for i := range ids {
		if ids[i], err = d.readType(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (d *decoder) readType() (symbol.TypeID, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		return symbol.NoType, fmt.Errorf("%w: types nested too deeply", ErrCorrupt)
	}

	tag, err := d.r.ReadVarUint()
	if err != nil {
		return symbol.NoType, err
	}
	types := d.tr.Types

	switch tag {
	case tagBuiltin:
		kind, err := d.r.ReadVarUint()
		if err != nil {
			return symbol.NoType, err
		}
		if kind >= uint64(symbol.NumBuiltins) {
			return symbol.NoType, fmt.Errorf("%w: builtin kind %d", ErrCorrupt, kind)
		}
		return types.Builtin(symbol.BuiltinKind(kind)), nil

	case tagNamedRef:
		index, err := d.r.ReadVarUint()
		if err != nil {
			return symbol.NoType, err
		}
		if index >= uint64(len(d.named)) {
			return symbol.NoType, fmt.Errorf("%w: named type reference %d out of range", ErrCorrupt, index)
		}
		return d.named[index], nil

	case tagNamedDef:
		name, err := d.r.ReadString()
		if err != nil {
			return symbol.NoType, err
		}
		prefix, err := d.r.ReadString()
		if err != nil {
			return symbol.NoType, err
		}
		id := types.NewNamed(name, prefix)
		d.named = append(d.named, id)
		underlying, err := d.readType()
		if err != nil {
			return symbol.NoType, err
		}
		types.Get(id).Underlying = underlying
		return id, nil

	case tagPointer, tagSlice:
		elem, err := d.readType()
		if err != nil {
			return symbol.NoType, err
		}
		if tag == tagPointer {
			return types.NewPointer(elem), nil
		}
		return types.NewSlice(elem), nil

	case tagArray:
		length, err := d.r.ReadVarUint()
		if err != nil {
			return symbol.NoType, err
		}
		if length > 1<<62 {
			return symbol.NoType, fmt.Errorf("%w: array length %d", ErrCorrupt, length)
		}
		elem, err := d.readType()
		if err != nil {
			return symbol.NoType, err
		}
		return types.NewArray(int64(length), elem), nil

	case tagStruct, tagUnion:
		kind := symbol.TypeStruct
		if tag == tagUnion {
			kind = symbol.TypeUnion
		}
		n, err := d.count()
		if err != nil {
			return symbol.NoType, err
		}
		agg := types.NewAggregate(kind)
		for i := 0; i < n; i++ {
			name, err := d.r.ReadString()
			if err != nil {
				return symbol.NoType, err
			}
			typ, err := d.readType()
			if err != nil {
				return symbol.NoType, err
			}
			field := d.tr.AddField(agg, name, typ)
			d.tr.Decls.Get(field).Imported = true
		}
		return agg, nil

	case tagFunc:
		flags, err := d.r.ReadVarUint()
		if err != nil {
			return symbol.NoType, err
		}
		params, err := d.readTypes()
		if err != nil {
			return symbol.NoType, err
		}
		results, err := d.readTypes()
		if err != nil {
			return symbol.NoType, err
		}
		return types.NewFunc(params, results, flags&flagVariadic != 0), nil
	}

	return symbol.NoType, fmt.Errorf("%w: unknown type tag %d", ErrCorrupt, tag)
}
