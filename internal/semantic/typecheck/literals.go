package typecheck

import (
	"fmt"
	"strconv"

	"krawl/internal/frontend/ast"
	"krawl/internal/report"
	"krawl/internal/symbol"
)

var intBits = map[symbol.BuiltinKind]int{
	symbol.Int8:    8,
	symbol.Int16:   16,
	symbol.Int32:   32,
	symbol.Int64:   64,
	symbol.Int:     64,
	symbol.Uint8:   8,
	symbol.Uint16:  16,
	symbol.Uint32:  32,
	symbol.Uint64:  64,
	symbol.Uint:    64,
	symbol.Uintptr: 64,
}

func isUnsigned(kind symbol.BuiltinKind) bool {
	return kind >= symbol.Uint8 && kind <= symbol.Uint64 || kind == symbol.Uint || kind == symbol.Uintptr
}

// checkLiteral reports whether lit can initialize a value of typ. The
// result is empty when it can, otherwise a hint describing the problem.
// nil is never constant.
func (c *checker) checkLiteral(lit *ast.Literal, typ symbol.TypeID, constant bool) string {
	under := c.tr.Types.Get(c.tr.Underlying(typ))
	if under == nil {
		return ""
	}

	mismatch := fmt.Sprintf("%s literal %s", literalKindName(lit.Kind), lit.Value)

	if under.Kind != symbol.TypeBuiltin {
		switch {
		case lit.Kind == ast.NilLiteral && !constant &&
			(under.Kind == symbol.TypePointer || under.Kind == symbol.TypeSlice || under.Kind == symbol.TypeFunc):
			return ""
		case lit.Kind == ast.StringLiteral && under.Kind == symbol.TypePointer && c.isByte(under.Elem):
			return ""
		}
		return mismatch
	}

	kind := under.Builtin
	switch lit.Kind {
	case ast.IntLiteral:
		if kind.IsFloat() {
			return ""
		}
		if kind.IsInteger() {
			return checkRange(lit.Value, kind)
		}
	case ast.CharLiteral:
		if kind.IsInteger() {
			value, _, _, err := strconv.UnquoteChar(lit.Value, '\'')
			if err != nil {
				return fmt.Sprintf("invalid character literal '%s'", lit.Value)
			}
			return checkRange(strconv.Itoa(int(value)), kind)
		}
	case ast.FloatLiteral:
		if kind.IsFloat() {
			return ""
		}
	case ast.StringLiteral:
		if kind == symbol.String {
			return ""
		}
	case ast.BoolLiteral:
		if kind == symbol.Bool {
			return ""
		}
	}
	return mismatch
}

func (c *checker) isByte(id symbol.TypeID) bool {
	typ := c.tr.Types.Get(c.tr.Underlying(id))
	return typ != nil && typ.Kind == symbol.TypeBuiltin && (typ.Builtin == symbol.Int8 || typ.Builtin == symbol.Uint8)
}

func checkRange(value string, kind symbol.BuiltinKind) string {
	bits := intBits[kind]
	var err error
	if isUnsigned(kind) {
		_, err = strconv.ParseUint(value, 0, bits)
	} else {
		_, err = strconv.ParseInt(value, 0, bits)
	}
	if err != nil {
		return fmt.Sprintf("%s %s %s", value, report.LITERAL_OVERFLOW, kind)
	}
	return ""
}

func literalKindName(kind ast.LiteralKind) string {
	switch kind {
	case ast.FloatLiteral:
		return "float"
	case ast.StringLiteral:
		return "string"
	case ast.CharLiteral:
		return "char"
	case ast.BoolLiteral:
		return "bool"
	case ast.NilLiteral:
		return "nil"
	}
	return "integer"
}

// literalValue is the value recorded for a declaration: characters become
// their code point and strings are stored quoted with their escapes
// decoded. Other literals are kept as written.
func literalValue(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.CharLiteral:
		if r, _, tail, err := strconv.UnquoteChar(lit.Value, '\''); err == nil && tail == "" {
			return strconv.Itoa(int(r))
		}
	case ast.StringLiteral:
		if decoded, err := strconv.Unquote(`"` + lit.Value + `"`); err == nil {
			return strconv.Quote(decoded)
		}
		return strconv.Quote(lit.Value)
	}
	return lit.Value
}
