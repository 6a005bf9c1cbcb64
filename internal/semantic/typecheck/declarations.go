package typecheck

import (
	"fmt"

	"krawl/internal/frontend/ast"
	"krawl/internal/report"
	"krawl/internal/symbol"
)

func (c *checker) checkVar(decl *symbol.Decl, node *ast.VarDecl) {
	typ, done := c.varTypes[node]
	if !done {
		typ = c.resolveType(node.Type, false)
		c.varTypes[node] = typ
		if typ.IsValid() && node.Value != nil {
			if msg := c.checkLiteral(node.Value, typ, false); msg != "" {
				c.u.Reports.AddSemanticError(c.u.FullPath, node.Value.Loc(), fmt.Sprintf("%s %s", report.VAR_TYPE_MISMATCH, c.tr.TypeString(typ)), report.TYPECHECK_PHASE).
					AddHint(msg)
			}
		}
	}
	decl.Type = typ
	if node.Value != nil {
		decl.Value = literalValue(node.Value)
	}
}

func (c *checker) checkConst(decl *symbol.Decl, node *ast.ConstDecl) {
	decl.Value = literalValue(node.Value)

	if node.Type == nil {
		if node.Value.Kind == ast.NilLiteral {
			c.u.Reports.AddSemanticError(c.u.FullPath, node.Value.Loc(), report.CONST_NIL, report.TYPECHECK_PHASE)
			return
		}
		decl.Type = c.tr.Types.Builtin(defaultType(node.Value.Kind))
		if msg := c.checkLiteral(node.Value, decl.Type, true); msg != "" {
			c.u.Reports.AddSemanticError(c.u.FullPath, node.Value.Loc(), fmt.Sprintf("%s %s", report.CONST_TYPE_MISMATCH, c.tr.TypeString(decl.Type)), report.TYPECHECK_PHASE).
				AddHint(msg)
		}
		return
	}

	typ := c.resolveType(node.Type, false)
	if !typ.IsValid() {
		return
	}
	decl.Type = typ

	under := c.tr.Types.Get(c.tr.Underlying(typ))
	if under == nil || under.Kind != symbol.TypeBuiltin {
		c.u.Reports.AddSemanticError(c.u.FullPath, node.Type.Loc(), report.CONST_NOT_BASIC, report.TYPECHECK_PHASE).
			AddHint(fmt.Sprintf("'%s' has type %s", decl.Name, c.tr.TypeString(typ)))
		return
	}
	if msg := c.checkLiteral(node.Value, typ, true); msg != "" {
		c.u.Reports.AddSemanticError(c.u.FullPath, node.Value.Loc(), fmt.Sprintf("%s %s", report.CONST_TYPE_MISMATCH, c.tr.TypeString(typ)), report.TYPECHECK_PHASE).
			AddHint(msg)
	}
}

func defaultType(kind ast.LiteralKind) symbol.BuiltinKind {
	switch kind {
	case ast.FloatLiteral:
		return symbol.Float64
	case ast.StringLiteral:
		return symbol.String
	case ast.CharLiteral:
		return symbol.Int32
	case ast.BoolLiteral:
		return symbol.Bool
	}
	return symbol.Int
}

func (c *checker) checkFunc(decl *symbol.Decl, node *ast.FuncDecl) {
	decl.Type = c.resolveType(node.Type, false)
	if node.Body == nil {
		return
	}
	for _, ref := range node.Body.Refs {
		c.checkBodyRef(ref)
	}
}

// checkBodyRef records a pkg.Name found in a function body. Only names that
// resolve to an imported package are checked; anything else is a selector
// on a local value, which bodies do not model.
func (c *checker) checkBodyRef(ref *ast.QualifiedIdent) {
	pkgID, ok := c.tr.Scopes.Lookup(c.u.Scope, ref.Package.Name)
	if !ok {
		return
	}
	pkg := c.u.Decl(pkgID)
	if pkg.Kind != symbol.DeclPackage {
		return
	}
	if id, ok := c.member(pkg, ref); ok {
		c.u.MarkUsed(id)
	}
}
