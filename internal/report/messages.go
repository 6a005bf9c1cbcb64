package report

// Messages shared by the parser and the semantic passes.
const (
	UNEXPECTED_TOKEN       = "unexpected token"
	EXPECTED_IDENTIFIER    = "expected identifier"
	EXPECTED_IMPORT_PATH   = "expected import path string"
	EXPECTED_TYPE          = "expected type"
	EXPECTED_LITERAL       = "expected literal value"
	EXPECTED_OPEN_PAREN    = "expected '('"
	EXPECTED_CLOSE_PAREN   = "expected ')'"
	EXPECTED_OPEN_CURLY    = "expected '{'"
	EXPECTED_CLOSE_CURLY   = "expected '}'"
	EXPECTED_CLOSE_BRACKET = "expected ']'"
	EXPECTED_EQUALS        = "expected '='"
	UNTERMINATED_BODY      = "unterminated function body"
	VARIADIC_MUST_BE_LAST  = "'...' must be the last parameter"
	UNDEFINED_SYMBOL       = "undefined"
	NOT_A_TYPE             = "is not a type"
	NOT_A_PACKAGE          = "is not a package"
	INVALID_RECURSIVE_TYPE = "invalid recursive type"
	DUPLICATE_FIELD        = "duplicate field"
	DUPLICATE_PARAMETER    = "duplicate parameter"
	NEGATIVE_ARRAY_LENGTH  = "array length must be non-negative"
	INVALID_VOID_USE       = "void is only valid as a pointer element"
	CONST_TYPE_MISMATCH    = "cannot use literal as constant of type"
	VAR_TYPE_MISMATCH      = "cannot use literal as value of type"
	CONST_NOT_BASIC        = "constant type must be a basic type"
	CONST_NIL              = "nil is not a constant"
	LITERAL_OVERFLOW       = "overflows"
	ALREADY_DECLARED       = "already declared in this scope"
	MODULE_NOT_FOUND       = "module not found"
	IMPORT_FAILED          = "failed to import"
)
