package analyzer

import (
	"krawl/internal/frontend/ast"
	"krawl/internal/report"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

// Import is a module loaded into a unit by Pass 1.
type Import struct {
	Spec     *ast.ImportSpec
	Artifact string
	Package  string
	Prefix   string
	Decl     symbol.DeclID // the package declaration
	Members  symbol.ScopeID
}

// Unit is the state of one compilation unit: a source file or a translated
// C header. Every semantic object the passes create lives in its trackers
// and is released by Destroy.
type Unit struct {
	FullPath string
	Program  *ast.Program

	// Prefix and Package name the symbols this unit defines.
	Prefix  string
	Package string

	Trackers *symbol.Trackers
	Global   symbol.ScopeID
	Scope    symbol.ScopeID // package scope

	// Decls are the unit's own top level declarations in source order.
	Decls   []symbol.DeclID
	Imports []*Import

	// UsedExterns are the imported declarations referenced by the unit, in
	// first-use order.
	UsedExterns []symbol.DeclID
	used        map[symbol.DeclID]bool

	Reports *report.Reports
	Files   *source.Group
	Debug   bool
}

func NewUnit(fullPath string, program *ast.Program, reports *report.Reports, files *source.Group, debug bool) *Unit {
	tr := symbol.NewTrackers()
	global := tr.Scopes.New(symbol.NoScope)
	symbol.FillGlobalScope(tr, global)

	return &Unit{
		FullPath: fullPath,
		Program:  program,
		Trackers: tr,
		Global:   global,
		Scope:    tr.Scopes.New(global),
		used:     make(map[symbol.DeclID]bool),
		Reports:  reports,
		Files:    files,
		Debug:    debug,
	}
}

// Decl is a shorthand for Trackers.Decls.Get.
func (u *Unit) Decl(id symbol.DeclID) *symbol.Decl {
	return u.Trackers.Decls.Get(id)
}

// MarkUsed records a reference to an imported declaration.
func (u *Unit) MarkUsed(id symbol.DeclID) {
	decl := u.Decl(id)
	if decl == nil || !decl.Imported || u.used[id] {
		return
	}
	u.used[id] = true
	u.UsedExterns = append(u.UsedExterns, id)
}

// Destroy releases every declaration, type and scope of the unit along with
// its syntax tree. The unit cannot be used afterwards.
func (u *Unit) Destroy() {
	u.Trackers.Teardown()
	u.Program = nil
	u.Decls = nil
	u.Imports = nil
	u.UsedExterns = nil
	u.used = nil
}
