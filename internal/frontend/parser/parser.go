package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"krawl/colors"
	"krawl/internal/frontend/ast"
	"krawl/internal/frontend/lexer"
	"krawl/internal/report"
	"krawl/internal/source"
)

type Parser struct {
	tokens   []lexer.Token
	tokenNo  int
	fullPath string
	reports  *report.Reports
	debug    bool // debug mode for additional logging
}

func NewParser(filePath string, content []byte, reports *report.Reports, debug bool) *Parser {
	if reports == nil {
		panic("Cannot create parser: reports sink is nil")
	}

	filePath = filepath.ToSlash(filePath) // Ensure forward slashes for consistency
	tokens := lexer.Tokenize(filePath, content, reports, false)

	return &Parser{
		tokens:   tokens,
		fullPath: filePath,
		reports:  reports,
		debug:    debug,
	}
}

// ParseFile reads path, registers its contents with files for diagnostics
// and parses it.
func ParseFile(path string, files *source.Group, reports *report.Reports, debug bool) (*ast.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	if files != nil {
		files.Add(filepath.ToSlash(path), content)
	}
	return NewParser(path, content, reports, debug).Parse(), nil
}

// current token
func (p *Parser) peek() lexer.Token {
	return p.tokens[p.tokenNo]
}

// previous token
func (p *Parser) previous() lexer.Token {
	if p.tokenNo == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.tokenNo-1]
}

// next returns the token after the current one without consuming anything
func (p *Parser) next() lexer.Token {
	if p.tokenNo+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.tokenNo+1]
}

// is at end of file
func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == lexer.EOF_TOKEN
}

// consume the current token and return that token
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.tokenNo++
	}
	return p.previous()
}

// check if the current token is of the given kind
func (p *Parser) check(kind lexer.TOKEN) bool {
	return p.peek().Kind == kind
}

// matches the current token with any of the given kinds
func (p *Parser) match(kinds ...lexer.TOKEN) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// consume the current token if it is of the given kind. Otherwise report
// message at the current token and leave it in place.
func (p *Parser) consume(kind lexer.TOKEN, message string) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), message)
	return p.peek(), false
}

func (p *Parser) errorAt(token lexer.Token, message string) *report.Report {
	if token.Kind != lexer.EOF_TOKEN && token.Value != message {
		message = fmt.Sprintf("%s, found `%s`", message, token.Value)
	} else if token.Kind == lexer.EOF_TOKEN {
		message += " before end of file"
	}
	return p.reports.AddSyntaxError(p.fullPath, token.Location(), message, report.PARSING_PHASE)
}

// locFrom spans from start to the last consumed token.
func (p *Parser) locFrom(start lexer.Token) source.Location {
	from, to := start.Start, p.previous().End
	return *source.NewLocation(&from, &to)
}

func (p *Parser) skipSemicolons() {
	for p.check(lexer.SEMICOLON_TOKEN) {
		p.advance()
	}
}

func isTopLevelKeyword(kind lexer.TOKEN) bool {
	switch kind {
	case lexer.IMPORT_TOKEN, lexer.TYPE_TOKEN, lexer.VAR_TOKEN, lexer.CONST_TOKEN, lexer.FUNC_TOKEN:
		return true
	}
	return false
}

// synchronize skips to the next top level keyword outside of braces. It
// always makes progress when the failed declaration consumed nothing.
func (p *Parser) synchronize(start int) {
	if p.tokenNo == start {
		p.advance()
	}
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case lexer.OPEN_CURLY:
			depth++
		case lexer.CLOSE_CURLY:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isTopLevelKeyword(p.peek().Kind) {
				return
			}
		}
		p.advance()
	}
}

// parseTopLevel parses one top level declaration into program.
func parseTopLevel(p *Parser, program *ast.Program) bool {
	switch p.peek().Kind {
	case lexer.IMPORT_TOKEN:
		return parseImport(p, program)
	case lexer.TYPE_TOKEN:
		return parseGroup(p, func() bool { return appendDecl(program, parseTypeSpec(p)) })
	case lexer.VAR_TOKEN:
		return parseGroup(p, func() bool { return appendDecl(program, parseVarSpec(p)) })
	case lexer.CONST_TOKEN:
		return parseGroup(p, func() bool { return appendDecl(program, parseConstSpec(p)) })
	case lexer.FUNC_TOKEN:
		return appendDecl(program, parseFuncDecl(p))
	case lexer.SEMICOLON_TOKEN:
		p.advance()
		return true
	}
	p.errorAt(p.peek(), report.UNEXPECTED_TOKEN)
	return false
}

func appendDecl[T interface {
	ast.Decl
	comparable
}](program *ast.Program, decl T) bool {
	var zero T
	if decl == zero {
		return false
	}
	program.Decls = append(program.Decls, decl)
	return true
}

// parseGroup consumes a declaration keyword followed by either one spec or
// a parenthesized list of specs.
func parseGroup(p *Parser, spec func() bool) bool {
	p.advance() // keyword

	if !p.check(lexer.OPEN_PAREN) {
		ok := spec()
		if ok {
			p.skipSemicolons()
		}
		return ok
	}

	p.advance()
	for !p.check(lexer.CLOSE_PAREN) && !p.isAtEnd() {
		if !spec() {
			return false
		}
		p.skipSemicolons()
	}
	if _, ok := p.consume(lexer.CLOSE_PAREN, report.EXPECTED_CLOSE_PAREN); !ok {
		return false
	}
	p.skipSemicolons()
	return true
}

// Parse parses the whole file. Syntax errors are reported and the parser
// resumes at the next top level declaration.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{FullPath: p.fullPath}
	first := p.peek()

	for !p.isAtEnd() {
		start := p.tokenNo
		if !parseTopLevel(p, program) {
			p.synchronize(start)
		}
	}

	program.Location = p.locFrom(first)

	if p.debug {
		colors.GREEN.Printf("Parsed %s: %d imports, %d declarations\n", p.fullPath, len(program.Imports), len(program.Decls))
	}

	return program
}
