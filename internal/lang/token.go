package lang

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	COMMA  // ","
	COLON  // ":"
	SEMI   // ";"

	// Operators
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	CARET      // "^"
	PERCENT2   // "%%"
	ASSIGN     // "="
	LARROW     // "<-"
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	BANG       // "!"
	AND2       // "&&"
	OR2        // "||"

	// Literals & identifiers
	IDENT
	STRING
	INTEGER
	NUMBER
	BOOLEAN
	NULL
)

// Token is a lexical token with optional parsed literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // parsed value for literals
	Offset  int    // byte offset of the lexeme in the source
	Line    int
	Col     int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Line, t.Col, t.Lexeme)
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"TRUE":  BOOLEAN,
	"FALSE": BOOLEAN,
	"NULL":  NULL,
}
