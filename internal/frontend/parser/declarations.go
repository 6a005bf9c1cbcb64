package parser

import (
	"krawl/internal/frontend/ast"
	"krawl/internal/frontend/lexer"
	"krawl/internal/report"
	"krawl/internal/source"
)

func identFrom(token lexer.Token) *ast.Ident {
	start, end := token.Start, token.End
	return &ast.Ident{
		Name:     token.Value,
		Location: *source.NewLocation(&start, &end),
	}
}

func parseIdent(p *Parser) *ast.Ident {
	token, ok := p.consume(lexer.IDENTIFIER_TOKEN, report.EXPECTED_IDENTIFIER)
	if !ok {
		return nil
	}
	return identFrom(token)
}

// type Name T
func parseTypeSpec(p *Parser) *ast.TypeDecl {
	start := p.peek()
	name := parseIdent(p)
	if name == nil {
		return nil
	}
	typ := parseType(p)
	if typ == nil {
		return nil
	}
	return &ast.TypeDecl{Name: name, Type: typ, Location: p.locFrom(start)}
}

// var a, b T [= literal]
func parseVarSpec(p *Parser) *ast.VarDecl {
	start := p.peek()

	var names []*ast.Ident
	for {
		name := parseIdent(p)
		if name == nil {
			return nil
		}
		names = append(names, name)
		if !p.check(lexer.COMMA_TOKEN) {
			break
		}
		p.advance()
	}

	typ := parseType(p)
	if typ == nil {
		return nil
	}

	decl := &ast.VarDecl{Names: names, Type: typ}
	if p.check(lexer.EQUALS_TOKEN) {
		p.advance()
		if decl.Value = parseLiteral(p); decl.Value == nil {
			return nil
		}
	}
	decl.Location = p.locFrom(start)
	return decl
}

// const Name [T] = literal
func parseConstSpec(p *Parser) *ast.ConstDecl {
	start := p.peek()
	name := parseIdent(p)
	if name == nil {
		return nil
	}

	decl := &ast.ConstDecl{Name: name}
	if !p.check(lexer.EQUALS_TOKEN) {
		if decl.Type = parseType(p); decl.Type == nil {
			return nil
		}
	}
	if _, ok := p.consume(lexer.EQUALS_TOKEN, report.EXPECTED_EQUALS); !ok {
		return nil
	}
	if decl.Value = parseLiteral(p); decl.Value == nil {
		return nil
	}
	decl.Location = p.locFrom(start)
	return decl
}

// func Name(params) results [{ body }]
func parseFuncDecl(p *Parser) *ast.FuncDecl {
	start := p.advance() // func
	name := parseIdent(p)
	if name == nil {
		return nil
	}
	sig := parseSignature(p, start)
	if sig == nil {
		return nil
	}

	decl := &ast.FuncDecl{Name: name, Type: sig}
	if p.check(lexer.OPEN_CURLY) {
		if decl.Body = skipBody(p); decl.Body == nil {
			return nil
		}
	}
	p.skipSemicolons()
	decl.Location = p.locFrom(start)
	return decl
}

// skipBody consumes a balanced brace block, recording pkg.Name references
// and nothing else.
func skipBody(p *Parser) *ast.Block {
	open := p.advance()
	block := &ast.Block{}
	depth := 1
	for depth > 0 {
		if p.isAtEnd() {
			p.errorAt(open, report.UNTERMINATED_BODY)
			return nil
		}
		token := p.advance()
		switch token.Kind {
		case lexer.OPEN_CURLY:
			depth++
		case lexer.CLOSE_CURLY:
			depth--
		case lexer.IDENTIFIER_TOKEN:
			// a selector on a selector is a field access, not a package reference
			if p.check(lexer.DOT_TOKEN) && p.next().Kind == lexer.IDENTIFIER_TOKEN && p.tokens[p.tokenNo-2].Kind != lexer.DOT_TOKEN {
				p.advance()
				name := p.advance()
				block.Refs = append(block.Refs, &ast.QualifiedIdent{
					Package:  identFrom(token),
					Name:     identFrom(name),
					Location: p.locFrom(token),
				})
				block.Tokens += 2
			}
		}
		block.Tokens++
	}
	block.Tokens-- // closing brace
	block.Location = p.locFrom(open)
	return block
}

func parseLiteral(p *Parser) *ast.Literal {
	start := p.peek()

	negative := false
	if p.check(lexer.MINUS_TOKEN) {
		negative = true
		p.advance()
	}

	token := p.peek()
	lit := &ast.Literal{Value: token.Value}
	switch {
	case token.Kind == lexer.INT_TOKEN:
		lit.Kind = ast.IntLiteral
	case token.Kind == lexer.FLOAT_TOKEN:
		lit.Kind = ast.FloatLiteral
	case token.Kind == lexer.STRING_TOKEN && !negative:
		lit.Kind = ast.StringLiteral
	case token.Kind == lexer.CHAR_TOKEN && !negative:
		lit.Kind = ast.CharLiteral
	case token.Kind == lexer.IDENTIFIER_TOKEN && !negative && (token.Value == "true" || token.Value == "false"):
		lit.Kind = ast.BoolLiteral
	case token.Kind == lexer.IDENTIFIER_TOKEN && !negative && token.Value == "nil":
		lit.Kind = ast.NilLiteral
	default:
		p.errorAt(token, report.EXPECTED_LITERAL)
		return nil
	}
	p.advance()

	if negative {
		lit.Value = "-" + lit.Value
	}
	lit.Location = p.locFrom(start)
	return lit
}
