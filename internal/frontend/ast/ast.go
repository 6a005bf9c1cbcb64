package ast

import (
	"strings"

	"krawl/constants"
	"krawl/internal/source"
)

type Node interface {
	INode()
	Loc() *source.Location
}

// Decl is a top level declaration.
type Decl interface {
	Node
	TopDecl()
}

// TypeExpr is a type as written in source.
type TypeExpr interface {
	Node
	TypeExpr()
}

// Program is one parsed source file.
type Program struct {
	FullPath string
	Imports  []*ImportSpec
	Decls    []Decl
	source.Location
}

func (p *Program) INode()                {} // Impliments Node interface
func (p *Program) Loc() *source.Location { return &p.Location }

// ImportPaths returns the distinct import paths in source order.
func (p *Program) ImportPaths() []string {
	seen := make(map[string]bool, len(p.Imports))
	paths := make([]string, 0, len(p.Imports))
	for _, spec := range p.Imports {
		if !seen[spec.Path] {
			seen[spec.Path] = true
			paths = append(paths, spec.Path)
		}
	}
	return paths
}

// ImportSpec is a single `import [alias] "path"`.
type ImportSpec struct {
	Alias *Ident
	Path  string
	source.Location
}

func (i *ImportSpec) INode()                {}
func (i *ImportSpec) Loc() *source.Location { return &i.Location }

// IsCHeader reports whether the import names a C header.
func (i *ImportSpec) IsCHeader() bool {
	return strings.HasSuffix(i.Path, constants.C_HEADER_EXT)
}

type Ident struct {
	Name string
	source.Location
}

func (i *Ident) INode()                {}
func (i *Ident) TypeExpr()             {}
func (i *Ident) Loc() *source.Location { return &i.Location }

type TypeDecl struct {
	Name *Ident
	Type TypeExpr
	source.Location
}

func (t *TypeDecl) INode()                {}
func (t *TypeDecl) TopDecl()              {}
func (t *TypeDecl) Loc() *source.Location { return &t.Location }

// VarDecl declares one or more variables of one type.
type VarDecl struct {
	Names []*Ident
	Type  TypeExpr
	Value *Literal // optional
	source.Location
}

func (v *VarDecl) INode()                {}
func (v *VarDecl) TopDecl()              {}
func (v *VarDecl) Loc() *source.Location { return &v.Location }

type ConstDecl struct {
	Name  *Ident
	Type  TypeExpr // nil when the type comes from the literal
	Value *Literal
	source.Location
}

func (c *ConstDecl) INode()                {}
func (c *ConstDecl) TopDecl()              {}
func (c *ConstDecl) Loc() *source.Location { return &c.Location }

// FuncDecl is a function declaration. Body is nil for external functions.
type FuncDecl struct {
	Name *Ident
	Type *FuncType
	Body *Block
	source.Location
}

func (f *FuncDecl) INode()                {}
func (f *FuncDecl) TopDecl()              {}
func (f *FuncDecl) Loc() *source.Location { return &f.Location }

// Block is a function body. Statements are not parsed; the block only
// keeps its size and the pkg.Name references found in it.
type Block struct {
	Tokens int
	Refs   []*QualifiedIdent
	source.Location
}

func (b *Block) INode()                {}
func (b *Block) Loc() *source.Location { return &b.Location }

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	CharLiteral
	BoolLiteral
	NilLiteral
)

type Literal struct {
	Kind  LiteralKind
	Value string
	source.Location
}

func (l *Literal) INode()                {}
func (l *Literal) Loc() *source.Location { return &l.Location }

// QualifiedIdent names a declaration of an imported package: pkg.Name
type QualifiedIdent struct {
	Package *Ident
	Name    *Ident
	source.Location
}

func (q *QualifiedIdent) INode()                {}
func (q *QualifiedIdent) TypeExpr()             {}
func (q *QualifiedIdent) Loc() *source.Location { return &q.Location }

type PointerType struct {
	Elem TypeExpr
	source.Location
}

func (p *PointerType) INode()                {}
func (p *PointerType) TypeExpr()             {}
func (p *PointerType) Loc() *source.Location { return &p.Location }

type SliceType struct {
	Elem TypeExpr
	source.Location
}

func (s *SliceType) INode()                {}
func (s *SliceType) TypeExpr()             {}
func (s *SliceType) Loc() *source.Location { return &s.Location }

type ArrayType struct {
	Len  *Literal
	Elem TypeExpr
	source.Location
}

func (a *ArrayType) INode()                {}
func (a *ArrayType) TypeExpr()             {}
func (a *ArrayType) Loc() *source.Location { return &a.Location }

// Field is a struct/union field group or a parameter group. Names is empty
// for unnamed parameters.
type Field struct {
	Names []*Ident
	Type  TypeExpr
	source.Location
}

func (f *Field) INode()                {}
func (f *Field) Loc() *source.Location { return &f.Location }

// StructType covers both struct and union.
type StructType struct {
	Union  bool
	Fields []*Field
	source.Location
}

func (s *StructType) INode()                {}
func (s *StructType) TypeExpr()             {}
func (s *StructType) Loc() *source.Location { return &s.Location }

type FuncType struct {
	Params   []*Field
	Results  []TypeExpr
	Variadic bool
	source.Location
}

func (f *FuncType) INode()                {}
func (f *FuncType) TypeExpr()             {}
func (f *FuncType) Loc() *source.Location { return &f.Location }
