package typecheck

import (
	"fmt"
	"strconv"

	"krawl/internal/frontend/ast"
	"krawl/internal/report"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

// resolveType builds the type an expression denotes. It returns NoType after
// reporting when the expression is invalid. void is only accepted where
// allowVoid is set, which is the element of a pointer.
func (c *checker) resolveType(expr ast.TypeExpr, allowVoid bool) symbol.TypeID {
	var typ symbol.TypeID

	switch t := expr.(type) {
	case *ast.Ident:
		typ = c.resolveTypeName(t)
	case *ast.QualifiedIdent:
		typ = c.resolveQualifiedType(t)
	case *ast.PointerType:
		elem := c.resolveType(t.Elem, true)
		if !elem.IsValid() {
			return symbol.NoType
		}
		return c.tr.Types.NewPointer(elem)
	case *ast.SliceType:
		elem := c.resolveType(t.Elem, false)
		if !elem.IsValid() {
			return symbol.NoType
		}
		return c.tr.Types.NewSlice(elem)
	case *ast.ArrayType:
		return c.resolveArray(t)
	case *ast.StructType:
		return c.resolveStruct(t)
	case *ast.FuncType:
		return c.resolveFunc(t)
	default:
		c.u.Reports.AddCriticalError(c.u.FullPath, expr.Loc(), fmt.Sprintf("unsupported type expression <%T>", expr), report.TYPECHECK_PHASE)
		return symbol.NoType
	}

	if !allowVoid && c.isVoid(typ) {
		c.u.Reports.AddSemanticError(c.u.FullPath, expr.Loc(), report.INVALID_VOID_USE, report.TYPECHECK_PHASE).
			AddHint("use *void for an untyped pointer")
		return symbol.NoType
	}
	return typ
}

func (c *checker) isVoid(id symbol.TypeID) bool {
	typ := c.tr.Types.Get(id)
	return typ != nil && typ.Kind == symbol.TypeBuiltin && typ.Builtin == symbol.Void
}

func (c *checker) resolveTypeName(ident *ast.Ident) symbol.TypeID {
	id, ok := c.tr.Scopes.Lookup(c.u.Scope, ident.Name)
	if !ok {
		c.u.Reports.AddSemanticError(c.u.FullPath, ident.Loc(), fmt.Sprintf("%s: %s", report.UNDEFINED_SYMBOL, ident.Name), report.TYPECHECK_PHASE)
		return symbol.NoType
	}
	return c.typeOf(id, ident.Name, ident.Loc())
}

func (c *checker) resolveQualifiedType(q *ast.QualifiedIdent) symbol.TypeID {
	id, ok := c.lookupMember(q)
	if !ok {
		return symbol.NoType
	}
	c.u.MarkUsed(id)
	return c.typeOf(id, q.Package.Name+"."+q.Name.Name, q.Loc())
}

func (c *checker) typeOf(id symbol.DeclID, name string, loc *source.Location) symbol.TypeID {
	decl := c.u.Decl(id)
	if !decl.IsType() {
		c.u.Reports.AddSemanticError(c.u.FullPath, loc, fmt.Sprintf("'%s' %s", name, report.NOT_A_TYPE), report.TYPECHECK_PHASE).
			AddHint(fmt.Sprintf("'%s' is a %s", name, decl.Kind))
		return symbol.NoType
	}
	return decl.Type
}

// lookupMember resolves pkg.Name against the members of an imported
// package, reporting when either part is missing.
func (c *checker) lookupMember(q *ast.QualifiedIdent) (symbol.DeclID, bool) {
	pkgID, ok := c.tr.Scopes.Lookup(c.u.Scope, q.Package.Name)
	if !ok {
		c.u.Reports.AddSemanticError(c.u.FullPath, q.Package.Loc(), fmt.Sprintf("%s: %s", report.UNDEFINED_SYMBOL, q.Package.Name), report.TYPECHECK_PHASE)
		return symbol.NoDecl, false
	}
	pkg := c.u.Decl(pkgID)
	if pkg.Kind != symbol.DeclPackage {
		c.u.Reports.AddSemanticError(c.u.FullPath, q.Package.Loc(), fmt.Sprintf("'%s' %s", q.Package.Name, report.NOT_A_PACKAGE), report.TYPECHECK_PHASE)
		return symbol.NoDecl, false
	}
	return c.member(pkg, q)
}

func (c *checker) member(pkg *symbol.Decl, q *ast.QualifiedIdent) (symbol.DeclID, bool) {
	id, ok := c.tr.Scopes.LookupLocal(pkg.Members, q.Name.Name)
	if !ok {
		c.u.Reports.AddSemanticError(c.u.FullPath, q.Name.Loc(), fmt.Sprintf("%s: %s.%s", report.UNDEFINED_SYMBOL, q.Package.Name, q.Name.Name), report.TYPECHECK_PHASE).
			AddHint(fmt.Sprintf("%q declares no '%s'", pkg.Path, q.Name.Name))
		return symbol.NoDecl, false
	}
	return id, true
}

func (c *checker) resolveArray(t *ast.ArrayType) symbol.TypeID {
	length, err := strconv.ParseInt(t.Len.Value, 0, 64)
	if err != nil {
		c.u.Reports.AddSemanticError(c.u.FullPath, t.Len.Loc(), fmt.Sprintf("invalid array length %s", t.Len.Value), report.TYPECHECK_PHASE)
		return symbol.NoType
	}
	if length < 0 {
		c.u.Reports.AddSemanticError(c.u.FullPath, t.Len.Loc(), report.NEGATIVE_ARRAY_LENGTH, report.TYPECHECK_PHASE)
		return symbol.NoType
	}
	elem := c.resolveType(t.Elem, false)
	if !elem.IsValid() {
		return symbol.NoType
	}
	return c.tr.Types.NewArray(length, elem)
}

// resolveStruct creates the aggregate with one field declaration per name.
// Fields with an invalid type are dropped after the type was reported.
func (c *checker) resolveStruct(t *ast.StructType) symbol.TypeID {
	kind := symbol.TypeStruct
	if t.Union {
		kind = symbol.TypeUnion
	}
	agg := c.tr.Types.NewAggregate(kind)

	seen := make(map[string]*ast.Ident)
	for _, group := range t.Fields {
		typ := c.resolveType(group.Type, false)
		for _, name := range group.Names {
			if prev, dup := seen[name.Name]; dup {
				c.u.Reports.AddSemanticError(c.u.FullPath, name.Loc(), fmt.Sprintf("%s '%s'", report.DUPLICATE_FIELD, name.Name), report.TYPECHECK_PHASE).
					AddHint(fmt.Sprintf("previous field at %d:%d", prev.Start.Line, prev.Start.Column))
				continue
			}
			seen[name.Name] = name
			if !typ.IsValid() {
				continue
			}
			field := c.tr.AddField(agg, name.Name, typ)
			decl := c.u.Decl(field)
			decl.File = c.u.FullPath
			decl.Location = name.Loc()
		}
	}
	return agg
}

func (c *checker) resolveFunc(t *ast.FuncType) symbol.TypeID {
	valid := true
	var params []symbol.TypeID

	seen := make(map[string]bool)
	for _, group := range t.Params {
		typ := c.resolveType(group.Type, false)
		valid = valid && typ.IsValid()

		for _, name := range group.Names {
			if name.Name == "_" {
				continue
			}
			if seen[name.Name] {
				c.u.Reports.AddSemanticError(c.u.FullPath, name.Loc(), fmt.Sprintf("%s '%s'", report.DUPLICATE_PARAMETER, name.Name), report.TYPECHECK_PHASE)
			}
			seen[name.Name] = true
		}

		count := len(group.Names)
		if count == 0 {
			count = 1
		}
		for range count {
			params = append(params, typ)
		}
	}

	results := make([]symbol.TypeID, 0, len(t.Results))
	for _, r := range t.Results {
		typ := c.resolveType(r, false)
		valid = valid && typ.IsValid()
		results = append(results, typ)
	}

	if !valid {
		return symbol.NoType
	}
	return c.tr.Types.NewFunc(params, results, t.Variadic)
}
