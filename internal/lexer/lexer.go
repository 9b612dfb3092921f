// Package lexer implements the lexical analysis (tokenization) for mini-lang.
package lexer

import (
	"fmt"
	"mini-lang/internal/diag"
	"mini-lang/internal/span"
	"mini-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
//
// Scanning stops at the first lexical error: the offending text is emitted as
// an ILLEGAL token and followed by EOF, so the token slice always ends in EOF.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.ILLEGAL {
			tokens = append(tokens, token.Token{Kind: token.EOF, Span: l.makeSpan(l.curPos())})
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

// skipWhitespace skips spaces and tabs (not newlines).
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

// illegal records a diagnostic and returns the ILLEGAL token covering start..pos.
func (l *Lexer) illegal(code string, start span.Position, format string, args ...interface{}) token.Token {
	s := l.makeSpan(start)
	l.diags = append(l.diags, diag.Errorf(code, s, format, args...))
	return token.Token{Kind: token.ILLEGAL, Lexeme: l.source[start.Offset:l.pos], Span: s}
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespace()

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: l.makeSpan(l.curPos())}
	}

	start := l.curPos()
	ch := l.peek()

	if ch == '\n' {
		l.advance()
		return token.Token{Kind: token.NEWLINE, Lexeme: "\\n", Span: l.makeSpan(start)}
	}

	if ch == '/' && l.peekNext() == '/' {
		l.skipLineComment()
		return l.nextToken()
	}

	if ch == '#' {
		return l.readDeclaration(start)
	}

	if isDigit(ch) {
		return l.readNumber(start)
	}

	if isIdentStart(ch) {
		return l.readIdentifier(start)
	}

	return l.readOperator(start)
}

// readDeclaration reads #i or #d.
func (l *Lexer) readDeclaration(start span.Position) token.Token {
	l.advance() // #
	switch l.peek() {
	case 'i':
		l.advance()
		return token.Token{Kind: token.DECL_INT, Lexeme: "#i", Span: l.makeSpan(start)}
	case 'd':
		l.advance()
		return token.Token{Kind: token.DECL_FLOAT, Lexeme: "#d", Span: l.makeSpan(start)}
	}
	if l.pos < len(l.source) && l.peek() != '\n' {
		l.advance()
	}
	return l.illegal(diag.CodeUnknownDeclMarker, start, "unknown declaration marker %q, expected '#i' or '#d'", l.source[start.Offset:l.pos])
}

// readNumber reads an integer or float literal. A dot must be followed by
// digits, and a float may not contain a second dot.
func (l *Lexer) readNumber(start span.Position) token.Token {
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() != '.' {
		return token.Token{Kind: token.INT, Lexeme: l.source[start.Offset:l.pos], Span: l.makeSpan(start)}
	}

	l.advance() // '.'
	if !isDigit(l.peek()) {
		return l.illegal(diag.CodeMalformedNumber, start, "malformed number %q: expected digits after '.'", l.source[start.Offset:l.pos])
	}
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		return l.illegal(diag.CodeMalformedNumber, start, "malformed number %q: more than one '.'", l.source[start.Offset:l.pos])
	}
	return token.Token{Kind: token.FLOAT, Lexeme: l.source[start.Offset:l.pos], Span: l.makeSpan(start)}
}

// readIdentifier reads an identifier or keyword. The word "end" ends the input.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos

	for l.pos < len(l.source) && isIdentPart(l.peek()) {
		l.advance()
	}

	lexeme := l.source[identStart:l.pos]
	if lexeme == token.EndKeyword {
		return token.Token{Kind: token.EOF, Lexeme: lexeme, Span: l.makeSpan(start)}
	}
	kind := token.LookupIdent(lexeme)
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

var singleCharKinds = map[byte]token.Kind{
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'<': token.LT,
	'>': token.GT,
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	if ch == '=' {
		if l.peek() == '=' {
			l.advance()
			return token.Token{Kind: token.EQ, Lexeme: "==", Span: l.makeSpan(start)}
		}
		return token.Token{Kind: token.ASSIGN, Lexeme: "=", Span: l.makeSpan(start)}
	}

	if kind, ok := singleCharKinds[ch]; ok {
		return token.Token{Kind: kind, Lexeme: string(ch), Span: l.makeSpan(start)}
	}

	return l.illegal(diag.CodeUnexpectedChar, start, "unexpected character: %s", quoteChar(ch))
}

func quoteChar(ch byte) string {
	if ch < 0x80 {
		return fmt.Sprintf("'%c'", ch)
	}
	return fmt.Sprintf("byte 0x%02x", ch)
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
