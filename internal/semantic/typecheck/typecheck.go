package typecheck

import (
	"krawl/colors"
	"krawl/internal/frontend/ast"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/symbol"
)

// checker holds the per-unit state of Pass 2.
type checker struct {
	u  *analyzer.Unit
	tr *symbol.Trackers

	// owner maps the named types the unit defines to their declarations.
	owner map[symbol.TypeID]symbol.DeclID
	// cyclic holds the named types already reported as part of a cycle.
	cyclic map[symbol.TypeID]bool
	// varTypes shares one resolved type between the names of a var group.
	varTypes map[*ast.VarDecl]symbol.TypeID
}

// CheckProgram is Pass 2. It binds every own declaration of the unit to a
// type, reports invalid types and literals, records the imported
// declarations the unit references and marks every own declaration checked.
// Imported declarations arrive checked and are not revisited.
func CheckProgram(u *analyzer.Unit) {
	c := &checker{
		u:        u,
		tr:       u.Trackers,
		owner:    make(map[symbol.TypeID]symbol.DeclID),
		cyclic:   make(map[symbol.TypeID]bool),
		varTypes: make(map[*ast.VarDecl]symbol.TypeID),
	}

	c.declareNamedTypes()
	c.resolveTypeDecls()
	c.flattenAliases()
	c.checkContainment()

	for _, id := range u.Decls {
		decl := u.Decl(id)
		switch node := decl.Node.(type) {
		case *ast.VarDecl:
			c.checkVar(decl, node)
		case *ast.ConstDecl:
			c.checkConst(decl, node)
		case *ast.FuncDecl:
			c.checkFunc(decl, node)
		}
		decl.State = symbol.Checked
	}

	if u.Debug {
		colors.GREEN.Printf("Type checked '%s' (%d declarations, %d externs used)\n", u.FullPath, len(u.Decls), len(u.UsedExterns))
	}
}

// declareNamedTypes gives every type declaration its named type up front so
// declarations may refer to each other in any order.
func (c *checker) declareNamedTypes() {
	for _, id := range c.u.Decls {
		decl := c.u.Decl(id)
		if !decl.IsType() {
			continue
		}
		decl.Type = c.tr.Types.NewNamed(decl.Name, decl.Prefix)
		decl.State = symbol.Resolving
		c.owner[decl.Type] = id
	}
}

func (c *checker) resolveTypeDecls() {
	for _, id := range c.u.Decls {
		decl := c.u.Decl(id)
		node, ok := decl.Node.(*ast.TypeDecl)
		if !ok {
			continue
		}
		c.tr.Types.Get(decl.Type).Underlying = c.resolveType(node.Type, false)
		decl.State = symbol.Resolved
	}
}
