package parser

import (
	"krawl/colors"
	"krawl/internal/frontend/ast"
	"krawl/internal/frontend/lexer"
	"krawl/internal/report"
)

// parseImport parses `import [alias] "path"` or a parenthesized group.
func parseImport(p *Parser, program *ast.Program) bool {
	return parseGroup(p, func() bool {
		spec := parseImportSpec(p)
		if spec == nil {
			return false
		}
		program.Imports = append(program.Imports, spec)
		return true
	})
}

func parseImportSpec(p *Parser) *ast.ImportSpec {
	start := p.peek()

	var alias *ast.Ident
	if p.check(lexer.IDENTIFIER_TOKEN) {
		alias = identFrom(p.advance())
	}

	pathToken, ok := p.consume(lexer.STRING_TOKEN, report.EXPECTED_IMPORT_PATH)
	if !ok {
		return nil
	}
	if pathToken.Value == "" {
		p.errorAt(pathToken, "empty import path")
		return nil
	}

	spec := &ast.ImportSpec{
		Alias:    alias,
		Path:     pathToken.Value,
		Location: p.locFrom(start),
	}

	if p.debug {
		colors.BOLD_PURPLE.Printf("Import %q (C header: %v)\n", spec.Path, spec.IsCHeader())
	}

	return spec
}
