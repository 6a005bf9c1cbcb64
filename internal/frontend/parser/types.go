package parser

import (
	"krawl/internal/frontend/ast"
	"krawl/internal/frontend/lexer"
	"krawl/internal/report"
)

func isTypeStart(kind lexer.TOKEN) bool {
	switch kind {
	case lexer.IDENTIFIER_TOKEN, lexer.MUL_TOKEN, lexer.OPEN_BRACKET,
		lexer.STRUCT_TOKEN, lexer.UNION_TOKEN, lexer.FUNC_TOKEN, lexer.OPEN_PAREN:
		return true
	}
	return false
}

func parseType(p *Parser) ast.TypeExpr {
	start := p.peek()

	switch start.Kind {
	case lexer.IDENTIFIER_TOKEN:
		ident := identFrom(p.advance())
		if !p.check(lexer.DOT_TOKEN) {
			return ident
		}
		p.advance()
		name := parseIdent(p)
		if name == nil {
			return nil
		}
		return &ast.QualifiedIdent{Package: ident, Name: name, Location: p.locFrom(start)}

	case lexer.MUL_TOKEN:
		p.advance()
		elem := parseType(p)
		if elem == nil {
			return nil
		}
		return &ast.PointerType{Elem: elem, Location: p.locFrom(start)}

	case lexer.OPEN_BRACKET:
		p.advance()
		if p.check(lexer.CLOSE_BRACKET) {
			p.advance()
			elem := parseType(p)
			if elem == nil {
				return nil
			}
			return &ast.SliceType{Elem: elem, Location: p.locFrom(start)}
		}
		length := parseLiteral(p)
		if length == nil {
			return nil
		}
		if length.Kind != ast.IntLiteral {
			p.reports.AddSyntaxError(p.fullPath, length.Loc(), "array length must be an integer literal", report.PARSING_PHASE)
			return nil
		}
		if _, ok := p.consume(lexer.CLOSE_BRACKET, report.EXPECTED_CLOSE_BRACKET); !ok {
			return nil
		}
		elem := parseType(p)
		if elem == nil {
			return nil
		}
		return &ast.ArrayType{Len: length, Elem: elem, Location: p.locFrom(start)}

	case lexer.STRUCT_TOKEN, lexer.UNION_TOKEN:
		return parseStructType(p)

	case lexer.FUNC_TOKEN:
		// `func name` starts a declaration, not a type
		if p.next().Kind != lexer.OPEN_PAREN {
			break
		}
		p.advance()
		return parseSignature(p, start)

	case lexer.OPEN_PAREN:
		p.advance()
		inner := parseType(p)
		if inner == nil {
			return nil
		}
		if _, ok := p.consume(lexer.CLOSE_PAREN, report.EXPECTED_CLOSE_PAREN); !ok {
			return nil
		}
		return inner
	}

	p.errorAt(start, report.EXPECTED_TYPE)
	return nil
}

// struct { a, b T; c U }
func parseStructType(p *Parser) *ast.StructType {
	start := p.advance()
	st := &ast.StructType{Union: start.Kind == lexer.UNION_TOKEN}

	if _, ok := p.consume(lexer.OPEN_CURLY, report.EXPECTED_OPEN_CURLY); !ok {
		return nil
	}
	p.skipSemicolons()

	for !p.check(lexer.CLOSE_CURLY) && !p.isAtEnd() {
		fieldStart := p.peek()
		field := &ast.Field{}
		for {
			name := parseIdent(p)
			if name == nil {
				return nil
			}
			field.Names = append(field.Names, name)
			if !p.check(lexer.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
		if field.Type = parseType(p); field.Type == nil {
			return nil
		}
		field.Location = p.locFrom(fieldStart)
		st.Fields = append(st.Fields, field)
		p.skipSemicolons()
	}

	if _, ok := p.consume(lexer.CLOSE_CURLY, report.EXPECTED_CLOSE_CURLY); !ok {
		return nil
	}
	st.Location = p.locFrom(start)
	return st
}

// parseSignature parses (params) results. start is the `func` token.
func parseSignature(p *Parser, start lexer.Token) *ast.FuncType {
	if _, ok := p.consume(lexer.OPEN_PAREN, report.EXPECTED_OPEN_PAREN); !ok {
		return nil
	}

	fn := &ast.FuncType{}
	for !p.check(lexer.CLOSE_PAREN) && !p.isAtEnd() {
		if p.check(lexer.THREE_DOT_TOKEN) {
			dots := p.advance()
			fn.Variadic = true
			if !p.check(lexer.CLOSE_PAREN) {
				p.errorAt(dots, report.VARIADIC_MUST_BE_LAST)
				return nil
			}
			break
		}

		param := parseParam(p)
		if param == nil {
			return nil
		}
		fn.Params = append(fn.Params, param)

		if !p.check(lexer.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	if _, ok := p.consume(lexer.CLOSE_PAREN, report.EXPECTED_CLOSE_PAREN); !ok {
		return nil
	}

	// results must start on the line of the closing paren
	sameLine := p.peek().Start.Line == p.previous().End.Line

	switch {
	case !sameLine:
	case p.check(lexer.OPEN_PAREN):
		p.advance()
		for !p.check(lexer.CLOSE_PAREN) && !p.isAtEnd() {
			result := parseType(p)
			if result == nil {
				return nil
			}
			fn.Results = append(fn.Results, result)
			if !p.check(lexer.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
		if _, ok := p.consume(lexer.CLOSE_PAREN, report.EXPECTED_CLOSE_PAREN); !ok {
			return nil
		}
	case isTypeStart(p.peek().Kind):
		result := parseType(p)
		if result == nil {
			return nil
		}
		fn.Results = []ast.TypeExpr{result}
	}

	fn.Location = p.locFrom(start)
	return fn
}

// parseParam parses `name T` or an unnamed `T`.
func parseParam(p *Parser) *ast.Field {
	start := p.peek()
	field := &ast.Field{}

	if p.check(lexer.IDENTIFIER_TOKEN) && p.next().Kind != lexer.DOT_TOKEN && isTypeStart(p.next().Kind) {
		field.Names = []*ast.Ident{identFrom(p.advance())}
	}
	if field.Type = parseType(p); field.Type == nil {
		return nil
	}
	field.Location = p.locFrom(start)
	return field
}
