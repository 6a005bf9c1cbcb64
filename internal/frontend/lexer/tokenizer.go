package lexer

import (
	"fmt"
	"regexp"

	"krawl/internal/report"
	"krawl/internal/source"
)

type regexHandler func(lex *Lexer, regex *regexp.Regexp)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

type Lexer struct {
	reports    *report.Reports
	Tokens     []Token
	Position   source.Position
	sourceCode string
	FilePath   string
}

var patterns = []regexPattern{
	{regexp.MustCompile(`^\s+`), skipHandler},                          // whitespace
	{regexp.MustCompile(`^//.*`), skipHandler},                         // single line comments
	{regexp.MustCompile(`^/\*[\s\S]*?\*/`), skipHandler},               // multi line comments
	{regexp.MustCompile("^\"(?:[^\"\\\\\n]|\\\\.)*\""), stringHandler}, // string literals
	{regexp.MustCompile("^`[^`]*`"), stringHandler},                    // raw strings
	{regexp.MustCompile(`^'(?:[^'\\\n]|\\.)+'`), charHandler},
	{regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|[0-9]+\.[0-9]*(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+|\.[0-9]+(?:[eE][+-]?[0-9]+)?)`), floatOrHexHandler},
	{regexp.MustCompile(`^[0-9]+`), numberHandler(INT_TOKEN)},
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), identifierHandler},
	{regexp.MustCompile(`^\.\.\.`), defaultHandler(THREE_DOT_TOKEN)},
	{regexp.MustCompile(`^(?:<<=|>>=|&\^=|&\^|<<|>>|&&|\|\||==|!=|<=|>=|:=|\+=|-=|\*=|/=|%=|&=|\|=|\^=|\+\+|--)`), operatorHandler},
	{regexp.MustCompile(`^\*`), defaultHandler(MUL_TOKEN)},
	{regexp.MustCompile(`^-`), defaultHandler(MINUS_TOKEN)},
	{regexp.MustCompile(`^=`), defaultHandler(EQUALS_TOKEN)},
	{regexp.MustCompile(`^\(`), defaultHandler(OPEN_PAREN)},
	{regexp.MustCompile(`^\)`), defaultHandler(CLOSE_PAREN)},
	{regexp.MustCompile(`^\[`), defaultHandler(OPEN_BRACKET)},
	{regexp.MustCompile(`^\]`), defaultHandler(CLOSE_BRACKET)},
	{regexp.MustCompile(`^\{`), defaultHandler(OPEN_CURLY)},
	{regexp.MustCompile(`^\}`), defaultHandler(CLOSE_CURLY)},
	{regexp.MustCompile(`^,`), defaultHandler(COMMA_TOKEN)},
	{regexp.MustCompile(`^\.`), defaultHandler(DOT_TOKEN)},
	{regexp.MustCompile(`^;`), defaultHandler(SEMICOLON_TOKEN)},
	{regexp.MustCompile(`^[+/%&|^!<>:]`), operatorHandler},
}

func New(filePath string, content []byte, reports *report.Reports) *Lexer {
	return &Lexer{
		reports:    reports,
		Tokens:     make([]Token, 0, len(content)/4),
		Position:   source.Position{Line: 1, Column: 1, Index: 0},
		sourceCode: string(content),
		FilePath:   filePath,
	}
}

func (lex *Lexer) advance(match string) {
	lex.Position.Advance(match)
}

func (lex *Lexer) push(token Token) {
	lex.Tokens = append(lex.Tokens, token)
}

func (lex *Lexer) remainder() string {
	return lex.sourceCode[lex.Position.Index:]
}

func (lex *Lexer) atEOF() bool {
	return lex.Position.Index >= len(lex.sourceCode)
}

func defaultHandler(token TOKEN) regexHandler {
	return func(lex *Lexer, _ *regexp.Regexp) {
		start := lex.Position
		lex.advance(string(token))
		end := lex.Position
		lex.push(NewToken(token, string(token), start, end))
	}
}

func numberHandler(kind TOKEN) regexHandler {
	return func(lex *Lexer, regex *regexp.Regexp) {
		match := regex.FindString(lex.remainder())
		start := lex.Position
		lex.advance(match)
		lex.push(NewToken(kind, match, start, lex.Position))
	}
}

func floatOrHexHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	kind := FLOAT_TOKEN
	if len(match) > 1 && match[0] == '0' && (match[1] == 'x' || match[1] == 'X') {
		kind = INT_TOKEN
	}
	start := lex.Position
	lex.advance(match)
	lex.push(NewToken(kind, match, start, lex.Position))
}

func identifierHandler(lex *Lexer, regex *regexp.Regexp) {
	identifier := regex.FindString(lex.remainder())
	start := lex.Position
	lex.advance(identifier)
	end := lex.Position
	if IsKeyword(identifier) {
		lex.push(NewToken(TOKEN(identifier), identifier, start, end))
	} else {
		lex.push(NewToken(IDENTIFIER_TOKEN, identifier, start, end))
	}
}

func stringHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	//exclude the quotes
	literal := match[1 : len(match)-1]
	start := lex.Position
	lex.advance(match)
	lex.push(NewToken(STRING_TOKEN, literal, start, lex.Position))
}

func charHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	start := lex.Position
	lex.advance(match)
	lex.push(NewToken(CHAR_TOKEN, match[1:len(match)-1], start, lex.Position))
}

func operatorHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	start := lex.Position
	lex.advance(match)
	lex.push(NewToken(OPERATOR_TOKEN, match, start, lex.Position))
}

// skipHandler processes a token that should be skipped by the lexer.
func skipHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.advance(match)
}

// Tokenize splits the source into tokens. Unrecognized characters are
// reported and skipped so that every lexing problem surfaces in one run.
func (lex *Lexer) Tokenize(debug bool) []Token {
	for !lex.atEOF() {
		rest := lex.remainder()
		matched := false

		for _, pattern := range patterns {
			if pattern.regex.MatchString(rest) {
				pattern.handler(lex, pattern.regex)
				matched = true
				break
			}
		}

		if !matched {
			start := lex.Position
			ch := []rune(rest)[0]
			lex.advance(string(ch))
			end := lex.Position
			lex.reports.AddSyntaxError(lex.FilePath, source.NewLocation(&start, &end),
				fmt.Sprintf("unrecognized character '%c'", ch), report.LEXING_PHASE)
		}
	}

	lex.push(NewToken(EOF_TOKEN, "end of file", lex.Position, lex.Position))

	if debug {
		for _, token := range lex.Tokens {
			token.Debug(lex.FilePath)
		}
	}

	return lex.Tokens
}

// Tokenize lexes content in one call.
func Tokenize(filePath string, content []byte, reports *report.Reports, debug bool) []Token {
	return New(filePath, content, reports).Tokenize(debug)
}
