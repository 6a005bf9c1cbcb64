package collector

import (
	"context"

	"krawl/colors"
	"krawl/internal/frontend/ast"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/symbol"
)

// Importer turns import paths into module interface files.
type Importer interface {
	// Resolve returns the interface built from a C header.
	Resolve(ctx context.Context, header string) (string, error)
	// Locate returns the interface of a native module.
	Locate(importPath string) (string, error)
}

// CollectProgram is Pass 1: it loads every import and declares every top
// level name of the unit in its package scope. Types are not looked at.
func CollectProgram(ctx context.Context, u *analyzer.Unit, importer Importer) {
	collectImports(ctx, u, importer)

	for _, node := range u.Program.Decls {
		collectDecl(u, node)
	}

	if u.Debug {
		colors.BLUE.Printf("Collected %d declarations and %d imports for '%s'\n", len(u.Decls), len(u.Imports), u.FullPath)
	}
}

func collectDecl(u *analyzer.Unit, node ast.Decl) {
	switch n := node.(type) {
	case *ast.TypeDecl:
		declare(u, n.Name, symbol.DeclType, n)
	case *ast.VarDecl:
		for _, name := range n.Names {
			declare(u, name, symbol.DeclVar, n)
		}
	case *ast.ConstDecl:
		declare(u, n.Name, symbol.DeclConst, n)
	case *ast.FuncDecl:
		declare(u, n.Name, symbol.DeclFunc, n)
	}
}

// declare adds an own declaration to the package scope. A duplicate is
// reported once and dropped; collection continues.
func declare(u *analyzer.Unit, name *ast.Ident, kind symbol.DeclKind, node ast.Decl) {
	tr := u.Trackers
	id := tr.Decls.New(&symbol.Decl{
		Name:     name.Name,
		Kind:     kind,
		Scope:    u.Scope,
		State:    symbol.Unresolved,
		File:     u.FullPath,
		Location: name.Loc(),
		Node:     node,
		Prefix:   u.Prefix,
	})

	if err := tr.Scopes.Declare(u.Scope, name.Name, id); err != nil {
		reportDuplicate(u, name.Name, name.Loc(), err)
		return
	}
	u.Decls = append(u.Decls, id)

	if u.Debug {
		colors.GREEN.Printf("Declared %s '%s' at %s\n", kind, name.Name, name.Loc())
	}
}
