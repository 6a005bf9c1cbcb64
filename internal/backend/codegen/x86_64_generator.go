package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"krawl/constants"
	"krawl/internal/frontend/ast"
	"krawl/internal/report"
	"krawl/internal/symbol"
)

// X86_64Generator generates a NASM listing for the symbols of a unit.
// Function bodies are not lowered; each function gets a stub that returns
// zero.
type X86_64Generator struct {
	options       *GeneratorOptions
	context       *CodeGenContext
	output        strings.Builder
	externSection strings.Builder
	rodataSection strings.Builder
	dataSection   strings.Builder
	bssSection    strings.Builder
	textSection   strings.Builder
}

// NewX86_64Generator creates a new x86-64 assembly code generator
func NewX86_64Generator(options *GeneratorOptions) *X86_64Generator {
	if options == nil {
		options = &GeneratorOptions{}
	}
	return &X86_64Generator{options: options}
}

// GetTarget returns the target architecture
func (g *X86_64Generator) GetTarget() Target {
	return TargetX86_64
}

// Generate lowers the unit. Problems with individual declarations are
// reported to the unit; the error is reserved for failures of the
// generator itself.
func (g *X86_64Generator) Generate(unit *Unit) (string, error) {
	if unit == nil || unit.Trackers == nil {
		return "", fmt.Errorf("generate: no unit")
	}
	g.context = NewCodeGenContext(unit)

	g.output.Reset()
	g.externSection.Reset()
	g.rodataSection.Reset()
	g.dataSection.Reset()
	g.bssSection.Reset()
	g.textSection.Reset()

	g.generateExterns()
	for _, id := range unit.Decls {
		decl := unit.Trackers.Decls.Get(id)
		if decl == nil || decl.State != symbol.Checked {
			return "", fmt.Errorf("generate: declaration %d is not checked", id)
		}
		switch decl.Kind {
		case symbol.DeclVar:
			g.generateVariable(decl)
		case symbol.DeclConst:
			g.generateConstant(decl)
		case symbol.DeclFunc:
			g.generateFunction(decl)
		}
	}

	g.combineOutput()
	return g.output.String(), nil
}

// generateExterns declares the imported functions and variables the unit
// references. Imported types and constants need no symbol.
func (g *X86_64Generator) generateExterns() {
	for _, id := range g.context.Unit.Externs {
		decl := g.context.Unit.Trackers.Decls.Get(id)
		if decl.Kind != symbol.DeclFunc && decl.Kind != symbol.DeclVar {
			continue
		}
		fmt.Fprintf(&g.externSection, "extern %s\n", g.context.SymbolName(decl))
	}
}

func (g *X86_64Generator) generateVariable(decl *symbol.Decl) {
	name := g.context.SymbolName(decl)
	tr := g.context.Unit.Trackers

	layout, err := LayoutOf(tr, decl.Type)
	if err != nil {
		g.report(decl, err)
		return
	}

	value, initialized := g.variableValue(decl, layout)
	if !initialized {
		fmt.Fprintf(&g.bssSection, "global %s\nalignb %d\n%s: resb %d    ; var %s %s\n", name, layout.Align, name, layout.Size, decl.Name, tr.TypeString(decl.Type))
		return
	}
	fmt.Fprintf(&g.dataSection, "global %s\nalign %d\n%s: %s    ; var %s %s\n", name, layout.Align, name, value, decl.Name, tr.TypeString(decl.Type))
}

// variableValue renders the initial value of a variable. Variables without
// a value, or with nil, live in .bss.
func (g *X86_64Generator) variableValue(decl *symbol.Decl, layout Layout) (string, bool) {
	if decl.Value == "" || decl.Value == "nil" {
		return "", false
	}

	tr := g.context.Unit.Trackers
	under := tr.Types.Get(tr.Underlying(decl.Type))
	switch {
	case under.Kind == symbol.TypePointer:
		// string literal for a byte pointer
		return "dq " + g.stringLiteral(decl.Value), true
	case under.Kind == symbol.TypeBuiltin && under.Builtin == symbol.String:
		label := g.stringLiteral(decl.Value)
		return fmt.Sprintf("dq %s, %d", label, len(unquote(decl.Value))), true
	}
	return dataDirective(layout.Size) + " " + g.scalarValue(decl.Value, under), true
}

func (g *X86_64Generator) generateConstant(decl *symbol.Decl) {
	name := g.context.SymbolName(decl)
	tr := g.context.Unit.Trackers
	under := tr.Types.Get(tr.Underlying(decl.Type))

	switch {
	case under.Builtin == symbol.String:
		fmt.Fprintf(&g.rodataSection, "global %s\n%s: %s    ; const %s\n", name, name, stringData(unquote(decl.Value)), decl.Name)
	case under.Builtin.IsFloat():
		fmt.Fprintf(&g.externSection, "%%define %s %s    ; const %s %s\n", name, g.scalarValue(decl.Value, under), decl.Name, tr.TypeString(decl.Type))
	default:
		fmt.Fprintf(&g.externSection, "%s equ %s    ; const %s %s\n", name, g.scalarValue(decl.Value, under), decl.Name, tr.TypeString(decl.Type))
	}
}

func (g *X86_64Generator) generateFunction(decl *symbol.Decl) {
	name := g.context.SymbolName(decl)
	signature := g.context.Unit.Trackers.TypeString(decl.Type)

	if node, ok := decl.Node.(*ast.FuncDecl); !ok || node.Body == nil {
		fmt.Fprintf(&g.externSection, "extern %s    ; %s\n", name, signature)
		return
	}

	fmt.Fprintf(&g.textSection, "global %s\n%s:    ; %s\n", name, name, signature)
	g.textSection.WriteString("    push rbp\n")
	g.textSection.WriteString("    mov rbp, rsp\n")
	g.textSection.WriteString("    xor eax, eax\n")
	g.textSection.WriteString("    pop rbp\n")
	g.textSection.WriteString("    ret\n\n")
}

// scalarValue renders a checked literal of a builtin type.
func (g *X86_64Generator) scalarValue(value string, typ *symbol.Type) string {
	switch {
	case value == "true":
		return "1"
	case value == "false":
		return "0"
	case typ.Builtin.IsFloat():
		if typ.Builtin == symbol.Float32 {
			return fmt.Sprintf("__float32__(%s)", floatLiteral(value))
		}
		return fmt.Sprintf("__float64__(%s)", floatLiteral(value))
	}
	return value
}

// stringLiteral places a string in .rodata and returns its label.
func (g *X86_64Generator) stringLiteral(value string) string {
	label := g.context.GetNextLabel("str")
	fmt.Fprintf(&g.rodataSection, "%s: %s\n", label, stringData(unquote(value)))
	return label
}

func (g *X86_64Generator) report(decl *symbol.Decl, err error) {
	reports := g.context.Unit.Reports
	if reports == nil {
		return
	}
	reports.AddCriticalError(g.context.Unit.FullPath, decl.Location, fmt.Sprintf("cannot lower '%s': %v", decl.Name, err), report.LOWERING_PHASE)
}

// combineOutput combines all sections into final output
func (g *X86_64Generator) combineOutput() {
	unit := g.context.Unit
	fmt.Fprintf(&g.output, "; Generated by %s %s from %s\n", constants.COMPONENT, constants.VERSION, g.options.Source)
	fmt.Fprintf(&g.output, "; Target: Linux %s\n", g.GetTarget())
	if unit.Prefix != "" {
		fmt.Fprintf(&g.output, "; Prefix: %s\n", unit.Prefix)
	}
	g.output.WriteString("default rel\n\n")

	sections := []struct {
		name string
		body *strings.Builder
	}{
		{"", &g.externSection},
		{"section .rodata\n", &g.rodataSection},
		{"section .data\n", &g.dataSection},
		{"section .bss\n", &g.bssSection},
		{"section .text\n", &g.textSection},
	}
	for _, s := range sections {
		if s.body.Len() == 0 {
			continue
		}
		g.output.WriteString(s.name)
		g.output.WriteString(s.body.String())
		g.output.WriteString("\n")
	}
}

// unquote decodes a checked string value.
func unquote(s string) string {
	if decoded, err := strconv.Unquote(s); err == nil {
		return decoded
	}
	return s
}

// stringData renders bytes as a zero terminated db directive, quoting
// printable runs.
func stringData(s string) string {
	var parts []string
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			parts = append(parts, `"`+run.String()+`"`)
			run.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f && c != '"' {
			run.WriteByte(c)
			continue
		}
		flush()
		parts = append(parts, strconv.Itoa(int(c)))
	}
	flush()
	parts = append(parts, "0")
	return "db " + strings.Join(parts, ", ")
}

// floatLiteral renders a numeric literal in the digits-period-digits form
// NASM reads as a float.
func floatLiteral(value string) string {
	var f float64
	if i, err := strconv.ParseInt(value, 0, 64); err == nil {
		f = float64(i)
	} else if f, err = strconv.ParseFloat(value, 64); err != nil {
		return value
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
