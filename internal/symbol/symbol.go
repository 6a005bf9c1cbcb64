package symbol

import (
	"krawl/internal/frontend/ast"
	"krawl/internal/source"
)

// DeclKind represents the kind of a declaration.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclConst
	DeclType
	DeclFunc
	DeclField
	DeclPackage
)

var declKindNames = [...]string{
	DeclVar:     "var",
	DeclConst:   "const",
	DeclType:    "type",
	DeclFunc:    "func",
	DeclField:   "field",
	DeclPackage: "package",
}

func (k DeclKind) String() string {
	if k < 0 || int(k) >= len(declKindNames) {
		return "unknown"
	}
	return declKindNames[k]
}

// ResolveState tracks how far the passes have taken a declaration.
type ResolveState int

const (
	Unresolved ResolveState = iota
	Resolving               // Pass 2 is resolving it; seeing it again means a cycle
	Resolved
	Checked
)

// Decl is a named semantic entity. Type, Scope, Owner and Members are
// handles into the trackers of the same unit; a declaration never owns them.
type Decl struct {
	Name  string
	Kind  DeclKind
	Type  TypeID
	Scope ScopeID
	State ResolveState

	File     string
	Location *source.Location
	// Node is the AST that declared this entity, nil for builtins and
	// declarations loaded from a module interface.
	Node ast.Node

	// Value holds the literal of a const declaration.
	Value string

	// Owner is the struct or union type a field belongs to.
	Owner TypeID

	// Members, Prefix and Path describe a package declaration: the scope
	// holding its declarations, its symbol prefix and its import path.
	Members ScopeID
	Prefix  string
	Path    string

	Builtin  bool
	Imported bool
}

// IsType reports whether the declaration names a type.
func (d *Decl) IsType() bool {
	return d.Kind == DeclType
}
