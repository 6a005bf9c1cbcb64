package lexer

import (
	"fmt"

	"krawl/colors"
	"krawl/internal/source"
)

type TOKEN string

const (
	//keywords
	IMPORT_TOKEN TOKEN = "import"
	TYPE_TOKEN   TOKEN = "type"
	VAR_TOKEN    TOKEN = "var"
	CONST_TOKEN  TOKEN = "const"
	FUNC_TOKEN   TOKEN = "func"
	STRUCT_TOKEN TOKEN = "struct"
	UNION_TOKEN  TOKEN = "union"

	IDENTIFIER_TOKEN TOKEN = "identifier"
	//literals
	INT_TOKEN    TOKEN = "integer literal"
	FLOAT_TOKEN  TOKEN = "float literal"
	STRING_TOKEN TOKEN = "string literal"
	CHAR_TOKEN   TOKEN = "char literal"

	THREE_DOT_TOKEN TOKEN = "..."
	MUL_TOKEN       TOKEN = "*"
	MINUS_TOKEN     TOKEN = "-"
	EQUALS_TOKEN    TOKEN = "="
	//delimiters
	OPEN_PAREN      TOKEN = "("
	CLOSE_PAREN     TOKEN = ")"
	OPEN_BRACKET    TOKEN = "["
	CLOSE_BRACKET   TOKEN = "]"
	OPEN_CURLY      TOKEN = "{"
	CLOSE_CURLY     TOKEN = "}"
	COMMA_TOKEN     TOKEN = ","
	DOT_TOKEN       TOKEN = "."
	SEMICOLON_TOKEN TOKEN = ";"

	// operators only matter inside function bodies, which the parser skips
	OPERATOR_TOKEN TOKEN = "operator"

	EOF_TOKEN TOKEN = "end_of_file"
)

var keyWordsMap = map[TOKEN]bool{
	IMPORT_TOKEN: true,
	TYPE_TOKEN:   true,
	VAR_TOKEN:    true,
	CONST_TOKEN:  true,
	FUNC_TOKEN:   true,
	STRUCT_TOKEN: true,
	UNION_TOKEN:  true,
}

func IsKeyword(token string) bool {
	return keyWordsMap[TOKEN(token)]
}

type Token struct {
	Value string
	Kind  TOKEN
	Start source.Position
	End   source.Position
}

func NewToken(kind TOKEN, value string, start, end source.Position) Token {
	return Token{
		Value: value,
		Kind:  kind,
		Start: start,
		End:   end,
	}
}

// Location returns a fresh location covering the token.
func (t Token) Location() *source.Location {
	start, end := t.Start, t.End
	return source.NewLocation(&start, &end)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) %d:%d", t.Kind, t.Value, t.Start.Line, t.Start.Column)
}

func (t Token) Debug(filename string) {
	colors.GREY.Printf("%s:%d:%d ", filename, t.Start.Line, t.Start.Column)
	if t.Value == string(t.Kind) {
		colors.YELLOW.Printf("'%s'\n", t.Value)
	} else {
		colors.BLUE.Printf("'%s' ('%s')\n", t.Value, t.Kind)
	}
}
