package codegen

import (
	"errors"
	"fmt"
	"math"

	"krawl/internal/symbol"
)

// Target represents different target architectures
type Target int

const (
	TargetX86_64 Target = iota
)

func (t Target) String() string {
	switch t {
	case TargetX86_64:
		return "x86-64"
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// GeneratorOptions holds configuration for code generation
type GeneratorOptions struct {
	Target Target
	// Source is named in the listing header.
	Source string
	Debug  bool
}

// CodeGenerator is the interface that all code generators must implement
type CodeGenerator interface {
	Generate(unit *Unit) (string, error)
	GetTarget() Target
}

// NewCodeGenerator creates a new code generator for the specified target
func NewCodeGenerator(options *GeneratorOptions) CodeGenerator {
	return NewX86_64Generator(options)
}

// ErrTooLarge is returned for types whose size does not fit the target.
var ErrTooLarge = errors.New("type too large")

// Layout is the size and alignment of a type in bytes.
type Layout struct {
	Size  int64
	Align int64
}

const pointerSize = 8

var builtinLayouts = map[symbol.BuiltinKind]Layout{
	symbol.Void:    {0, 1},
	symbol.Bool:    {1, 1},
	symbol.Int8:    {1, 1},
	symbol.Uint8:   {1, 1},
	symbol.Int16:   {2, 2},
	symbol.Uint16:  {2, 2},
	symbol.Int32:   {4, 4},
	symbol.Uint32:  {4, 4},
	symbol.Float32: {4, 4},
	symbol.Int64:   {8, 8},
	symbol.Uint64:  {8, 8},
	symbol.Int:     {8, 8},
	symbol.Uint:    {8, 8},
	symbol.Uintptr: {8, 8},
	symbol.Float64: {8, 8},
	symbol.String:  {2 * pointerSize, pointerSize}, // data, len
}

// LayoutOf computes the LP64 layout of a checked type.
func LayoutOf(tr *symbol.Trackers, id symbol.TypeID) (Layout, error) {
	typ := tr.Types.Get(id)
	if typ == nil {
		return Layout{}, fmt.Errorf("layout of invalid type %d", id)
	}

	switch typ.Kind {
	case symbol.TypeBuiltin:
		return builtinLayouts[typ.Builtin], nil
	case symbol.TypePointer, symbol.TypeFunc:
		return Layout{pointerSize, pointerSize}, nil
	case symbol.TypeSlice:
		return Layout{3 * pointerSize, pointerSize}, nil // data, len, cap
	case symbol.TypeNamed:
		return LayoutOf(tr, typ.Underlying)
	case symbol.TypeArray:
		elem, err := LayoutOf(tr, typ.Elem)
		if err != nil {
			return Layout{}, err
		}
		if elem.Size > 0 && typ.Len > math.MaxInt32/elem.Size {
			return Layout{}, fmt.Errorf("%w: %s", ErrTooLarge, tr.TypeString(id))
		}
		return Layout{elem.Size * typ.Len, elem.Align}, nil
	case symbol.TypeStruct, symbol.TypeUnion:
		return aggregateLayout(tr, typ)
	}
	return Layout{}, fmt.Errorf("layout of type kind %d", typ.Kind)
}

func aggregateLayout(tr *symbol.Trackers, typ *symbol.Type) (Layout, error) {
	var size, align int64 = 0, 1
	for _, f := range typ.Fields {
		field, err := LayoutOf(tr, tr.Decls.Get(f).Type)
		if err != nil {
			return Layout{}, err
		}
		align = max(align, field.Align)
		if typ.Kind == symbol.TypeUnion {
			size = max(size, field.Size)
			continue
		}
		size = alignTo(size, field.Align) + field.Size
		if size > math.MaxInt32 {
			return Layout{}, ErrTooLarge
		}
	}
	return Layout{alignTo(size, align), align}, nil
}

func alignTo(n, align int64) int64 {
	return (n + align - 1) / align * align
}

// dataDirective returns the directive emitting one value of the given size.
func dataDirective(size int64) string {
	switch size {
	case 1:
		return "db"
	case 2:
		return "dw"
	case 4:
		return "dd"
	}
	return "dq"
}
