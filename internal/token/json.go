package token

import (
	"encoding/json"
	"fmt"
	"io"
)

// externalNames are the type names used by token files, kept compatible with
// the files produced by the original C toolchain.
var externalNames = map[Kind]string{
	ILLEGAL:    "TOKEN_ERROR",
	EOF:        "TOKEN_EOF",
	NEWLINE:    "TOKEN_NEW_LINE",
	DECL_INT:   "TOKEN_INT_DECL",
	DECL_FLOAT: "TOKEN_DOUBLE_DECL",
	IDENT:      "TOKEN_IDENTIFIER",
	INT:        "TOKEN_INT_LITERAL",
	FLOAT:      "TOKEN_DOUBLE_LITERAL",
	ASSIGN:     "TOKEN_ASSIGN",
	PLUS:       "TOKEN_PLUS",
	MINUS:      "TOKEN_MINUS",
	STAR:       "TOKEN_MULTI",
	SLASH:      "TOKEN_DIVISION",
	LT:         "TOKEN_LESS",
	GT:         "TOKEN_GREATER",
	EQ:         "TOKEN_EQUAL",
	LPAREN:     "TOKEN_OPEN_PAREN",
	RPAREN:     "TOKEN_CLOSE_PAREN",
	LBRACE:     "TOKEN_OPEN_BRACE",
	RBRACE:     "TOKEN_CLOSE_BRACE",
	KW_PRINT:   "TOKEN_PRINT",
	KW_IF:      "TOKEN_IF",
	KW_WHILE:   "TOKEN_WHILE",
}

var kindsByExternalName = func() map[string]Kind {
	m := make(map[string]Kind, len(externalNames))
	for k, name := range externalNames {
		m[name] = k
	}
	return m
}()

// ExternalName returns the token file type name for k.
func (k Kind) ExternalName() string {
	if name, ok := externalNames[k]; ok {
		return name
	}
	return "TOKEN_ERROR"
}

type fileToken struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
}

type file struct {
	Tokens []fileToken `json:"tokens"`
}

// WriteJSON writes tokens in the token file format.
func WriteJSON(w io.Writer, tokens []Token) error {
	f := file{Tokens: make([]fileToken, len(tokens))}
	for i, tok := range tokens {
		f.Tokens[i] = fileToken{Type: tok.Kind.ExternalName(), Lexeme: tok.Lexeme}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// ReadJSON decodes a token file. Tokens read this way carry no source spans.
// An EOF token is appended when the file does not end with one.
func ReadJSON(r io.Reader) ([]Token, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}

	tokens := make([]Token, 0, len(f.Tokens)+1)
	for i, ft := range f.Tokens {
		kind, ok := kindsByExternalName[ft.Type]
		if !ok {
			return nil, fmt.Errorf("token %d: unknown token type %q", i, ft.Type)
		}
		tokens = append(tokens, Token{Kind: kind, Lexeme: ft.Lexeme})
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, Token{Kind: EOF})
	}
	return tokens, nil
}
