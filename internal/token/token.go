// Package token defines the tokens exchanged between the scanner and the parser.
package token

import (
	"fmt"
	"mini-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota // lexical error forwarded by the scanner
	EOF
	NEWLINE

	// Declarations
	DECL_INT   // #i
	DECL_FLOAT // #d

	// Literals
	IDENT // identifiers: x, total
	INT   // integer literals: 123
	FLOAT // float literals: 3.14

	// Operators
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LT     // <
	GT     // >
	EQ     // ==

	// Delimiters
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	// Keywords
	KW_PRINT
	KW_IF
	KW_WHILE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	DECL_INT:   "#i",
	DECL_FLOAT: "#d",

	IDENT: "IDENT",
	INT:   "INT",
	FLOAT: "FLOAT",

	ASSIGN: "=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	LT:     "<",
	GT:     ">",
	EQ:     "==",

	LPAREN: "(",
	RPAREN: ")",
	LBRACE: "{",
	RBRACE: "}",

	KW_PRINT: "print",
	KW_IF:    "if",
	KW_WHILE: "while",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsDeclaration reports whether k starts a variable declaration.
func (k Kind) IsDeclaration() bool {
	return k == DECL_INT || k == DECL_FLOAT
}

// IsLiteral returns true for numeric literal kinds.
func (k Kind) IsLiteral() bool {
	return k == INT || k == FLOAT
}

// IsArithmetic returns true for + - * /.
func (k Kind) IsArithmetic() bool {
	return k >= PLUS && k <= SLASH
}

// IsRelational returns true for < > ==.
func (k Kind) IsRelational() bool {
	return k >= LT && k <= EQ
}

var keywords = map[string]Kind{
	"print": KW_PRINT,
	"if":    KW_IF,
	"while": KW_WHILE,
}

// EndKeyword stops scanning; the scanner turns it into an EOF token.
const EndKeyword = "end"

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
