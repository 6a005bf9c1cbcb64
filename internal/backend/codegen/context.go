package codegen

import (
	"fmt"
	"strings"

	"krawl/internal/report"
	"krawl/internal/symbol"
)

// Unit is what lowering sees of a checked compilation unit: its own
// declarations and the imported declarations it references.
type Unit struct {
	FullPath string
	Prefix   string
	Trackers *symbol.Trackers
	Decls    []symbol.DeclID
	Externs  []symbol.DeclID
	Reports  *report.Reports
}

// CodeGenContext holds context information during code generation
type CodeGenContext struct {
	Unit         *Unit
	LabelCounter int
}

// NewCodeGenContext creates a new code generation context
func NewCodeGenContext(unit *Unit) *CodeGenContext {
	return &CodeGenContext{Unit: unit}
}

// GetNextLabel generates a unique local label with the given prefix
func (ctx *CodeGenContext) GetNextLabel(prefix string) string {
	ctx.LabelCounter++
	return fmt.Sprintf("%s_%d", prefix, ctx.LabelCounter)
}

// SymbolName is the linker name of a declaration.
func (ctx *CodeGenContext) SymbolName(decl *symbol.Decl) string {
	return sanitizeLabel(symbol.MangledName(decl.Prefix, decl.Name))
}

// sanitizeLabel ensures the label is valid in assembly. Dots are kept: they
// separate the symbol prefix from the name.
func sanitizeLabel(name string) string {
	sanitized := strings.ReplaceAll(name, "-", "_")
	if len(sanitized) > 0 && (sanitized[0] >= '0' && sanitized[0] <= '9' || sanitized[0] == '.') {
		sanitized = "_" + sanitized
	}
	return sanitized
}
