// Package parser implements the syntax analysis for mini-lang.
//
// Statements are located by splitting explicit token spans at newlines that
// sit outside any open brace body; expressions inside a statement span are
// parsed with a Pratt parser bounded by that span.
//
// The parser does not recover: the first syntax error turns the current
// statement position, and everything after it, into a single ErrorMarker.
// Statements parsed before the error stay in the tree.
package parser

import (
	"fmt"
	"mini-lang/internal/ast"
	"mini-lang/internal/diag"
	"mini-lang/internal/span"
	"mini-lang/internal/token"
	"strconv"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpRelational = 10 // < > ==
	bpAdditive   = 20 // + -
	bpMultiply   = 30 // * /
)

// infixBP returns the binding power of a binary operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.LT, token.GT, token.EQ:
		return bpRelational
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH:
		return bpMultiply
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a token slice.
type Parser struct {
	tokens []token.Token
	diags  []diag.Diagnostic

	failed  bool        // an error has been reported; stop building
	failTok token.Token // token the first error was reported at
}

// New creates a new parser from a token slice. An EOF token is appended when
// the slice does not already end with one.
func New(tokens []token.Token) *Parser {
	toks := make([]token.Token, len(tokens), len(tokens)+1)
	copy(toks, tokens)
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		var end span.Span
		if len(toks) > 0 {
			last := toks[len(toks)-1].Span.End
			end = span.Span{Start: last, End: last}
		}
		toks = append(toks, token.Token{Kind: token.EOF, Span: end})
	}
	return &Parser{tokens: toks}
}

// ParseProgram parses the whole token slice. The returned node is never nil:
// it is a statement chain ending in an EndMarker, or in an ErrorMarker when
// an error diagnostic was reported.
func (p *Parser) ParseProgram() (ast.Node, []diag.Diagnostic) {
	program := p.parseStatements(0, len(p.tokens))
	return program, p.diags
}

// ---- span helpers ----

// spanOf returns the source span of tokens[lo:hi].
func (p *Parser) spanOf(lo, hi int) span.Span {
	if hi <= lo {
		return p.tokenAt(lo).Span
	}
	return span.Join(p.tokens[lo].Span, p.tokens[hi-1].Span)
}

// tokenAt returns tokens[i], clamped to the final EOF token.
func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// matching returns the index of the token closing the group opened at
// tokens[open], searching within [open, hi). It returns -1 when the group is
// not closed inside the span.
func (p *Parser) matching(open, hi int, opener, closer token.Kind) int {
	depth := 0
	for i := open; i < hi; i++ {
		switch p.tokens[i].Kind {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ---- error helpers ----

// fail reports an error at tok and returns the marker that replaces the node
// being built. Only the first error is reported.
func (p *Parser) fail(tok token.Token, code string, format string, args ...interface{}) *ast.ErrorMarker {
	if !p.failed {
		p.failed = true
		p.failTok = tok
		p.diags = append(p.diags, diag.Errorf(code, tok.Span, format, args...))
	}
	return &ast.ErrorMarker{NodeBase: ast.NodeBase{Span: tok.Span}, Lexeme: tok.Lexeme}
}

// hint attaches h to the most recent diagnostic.
func (p *Parser) hint(h string) {
	if n := len(p.diags); n > 0 {
		p.diags[n-1] = p.diags[n-1].WithHint(h)
	}
}

func (p *Parser) warn(s span.Span, code string, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.Warningf(code, s, format, args...))
}

// failure returns a fresh marker for the rest of a chain after an error.
func (p *Parser) failure() *ast.ErrorMarker {
	return &ast.ErrorMarker{NodeBase: ast.NodeBase{Span: p.failTok.Span}, Lexeme: p.failTok.Lexeme}
}

// ============================================================
// Statement lists
// ============================================================

// parseStatements parses tokens[lo:hi] as a statement chain.
func (p *Parser) parseStatements(lo, hi int) ast.Node {
	for lo < hi && p.tokens[lo].Kind == token.NEWLINE {
		lo++
	}
	if lo >= hi || p.tokens[lo].Kind == token.EOF {
		return &ast.EndMarker{NodeBase: ast.NodeBase{Span: p.tokenAt(lo).Span}}
	}

	end, illegal := p.statementEnd(lo, hi)
	if illegal >= 0 {
		tok := p.tokens[illegal]
		return p.fail(tok, diag.CodeLexError, "lexical error at %q", tok.Lexeme)
	}

	stmt := p.parseStatement(lo, end)
	if p.failed {
		return p.failure()
	}

	next := end
	if next < hi && p.tokens[next].Kind == token.NEWLINE {
		next++
	}
	rest := p.parseStatements(next, hi)

	return &ast.Sequence{
		NodeBase: ast.NodeBase{Span: p.spanOf(lo, end)},
		Stmt:     stmt,
		Rest:     rest,
	}
}

// statementEnd finds the end of the statement starting at lo: the first
// NEWLINE outside any open brace body, the first EOF, or hi. If an ILLEGAL
// token comes first its index is returned as illegal (otherwise -1).
func (p *Parser) statementEnd(lo, hi int) (end, illegal int) {
	depth := 0
	for i := lo; i < hi; i++ {
		switch p.tokens[i].Kind {
		case token.ILLEGAL:
			return i, i
		case token.EOF:
			return i, -1
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		case token.NEWLINE:
			if depth <= 0 {
				return i, -1
			}
		}
	}
	return hi, -1
}

// ============================================================
// Statements
// ============================================================

// parseStatement parses the single statement tokens[lo:hi] (lo < hi).
func (p *Parser) parseStatement(lo, hi int) ast.Stmt {
	tok := p.tokens[lo]
	switch {
	case tok.Kind.IsDeclaration():
		return p.parseDeclaration(lo, hi)
	case tok.Kind == token.IDENT:
		return p.parseAssign(lo, hi)
	case tok.Kind == token.KW_PRINT:
		return p.parsePrint(lo, hi)
	case tok.Kind == token.KW_IF, tok.Kind == token.KW_WHILE:
		return p.parseConditional(lo, hi)
	default:
		return p.fail(tok, diag.CodeUnexpectedToken, "unexpected %s at start of statement", describe(tok))
	}
}

// parseDeclaration parses: (#i | #d) IDENT [ = literal ]
// Tokens after that are ignored with a warning.
func (p *Parser) parseDeclaration(lo, hi int) ast.Stmt {
	kw := p.tokens[lo]
	if lo+1 >= hi || p.tokens[lo+1].Kind != token.IDENT {
		return p.fail(kw, diag.CodeExpectedIdent, "expected identifier after '%s'", kw.Lexeme)
	}

	nameTok := p.tokens[lo+1]
	decl := &ast.Declaration{
		Type: ast.Int,
		Name: p.identifier(nameTok),
	}
	if kw.Kind == token.DECL_FLOAT {
		decl.Type = ast.Float
	}

	next := lo + 2
	if next+1 < hi && p.tokens[next].Kind == token.ASSIGN && p.tokens[next+1].Kind.IsLiteral() {
		decl.Init = p.literal(p.tokens[next+1])
		next += 2
	}
	if next < hi {
		p.warn(p.spanOf(next, hi), diag.CodeIgnoredTokens,
			"tokens after the declaration of '%s' are ignored", nameTok.Lexeme)
	}

	decl.Span = p.spanOf(lo, next)
	return decl
}

// parseAssign parses: IDENT = expr
func (p *Parser) parseAssign(lo, hi int) ast.Stmt {
	nameTok := p.tokens[lo]
	if lo+1 >= hi || p.tokens[lo+1].Kind != token.ASSIGN {
		return p.fail(nameTok, diag.CodeExpectedAssign, "expected '=' after '%s'", nameTok.Lexeme)
	}

	value := p.parseExpression(lo+2, hi)
	return &ast.Assign{
		StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: p.spanOf(lo, hi)}},
		Target:   p.identifier(nameTok),
		Value:    value,
	}
}

// parsePrint parses: print expr
func (p *Parser) parsePrint(lo, hi int) ast.Stmt {
	value := p.parseExpression(lo+1, hi)
	return &ast.Print{
		StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: p.spanOf(lo, hi)}},
		Value:    value,
	}
}

// parseConditional parses: (if | while) ( expr ) { statements }
func (p *Parser) parseConditional(lo, hi int) ast.Stmt {
	kw := p.tokens[lo]
	open := lo + 1
	if open >= hi || p.tokens[open].Kind != token.LPAREN {
		return p.fail(kw, diag.CodeUnexpectedToken, "expected '(' after '%s'", kw.Lexeme)
	}
	closeParen := p.matching(open, hi, token.LPAREN, token.RPAREN)
	if closeParen < 0 {
		return p.fail(p.tokens[open], diag.CodeUnclosed, "unclosed '(' in '%s' condition", kw.Lexeme)
	}
	if closeParen == open+1 {
		return p.fail(p.tokens[closeParen], diag.CodeExpectedExpr, "expected condition inside '%s ( )'", kw.Lexeme)
	}
	cond := p.parseExpression(open+1, closeParen)
	if p.failed {
		return p.failure()
	}

	lbrace := closeParen + 1
	if lbrace >= hi || p.tokens[lbrace].Kind != token.LBRACE {
		return p.fail(p.tokenAt(lbrace), diag.CodeUnexpectedToken, "expected '{' after '%s' condition, got %s", kw.Lexeme, describe(p.tokenAt(lbrace)))
	}
	rbrace := p.matching(lbrace, hi, token.LBRACE, token.RBRACE)
	if rbrace < 0 {
		return p.fail(p.tokens[lbrace], diag.CodeUnclosed, "unclosed '{' in '%s' body", kw.Lexeme)
	}
	if rbrace+1 < hi {
		return p.fail(p.tokens[rbrace+1], diag.CodeUnexpectedToken, "unexpected %s after '}'", describe(p.tokens[rbrace+1]))
	}

	body := p.parseStatements(lbrace+1, rbrace)
	if p.failed {
		return p.failure()
	}

	base := ast.StmtBase{NodeBase: ast.NodeBase{Span: p.spanOf(lo, hi)}}
	if kw.Kind == token.KW_WHILE {
		return &ast.While{StmtBase: base, Cond: cond, Body: body}
	}
	return &ast.If{StmtBase: base, Cond: cond, Body: body}
}

// ============================================================
// Expressions
// ============================================================

// cursor walks the tokens of one expression span [pos, end).
type cursor struct {
	pos int
	end int
}

func (c *cursor) done() bool { return c.pos >= c.end }

// parseExpression parses tokens[lo:hi] as exactly one expression.
func (p *Parser) parseExpression(lo, hi int) ast.Expr {
	if lo >= hi {
		return p.fail(p.tokenAt(lo), diag.CodeExpectedExpr, "expected expression, got %s", describe(p.tokenAt(lo)))
	}
	c := &cursor{pos: lo, end: hi}
	expr := p.parseExpr(c, bpNone)
	if !p.failed && !c.done() {
		tok := p.tokens[c.pos]
		return p.fail(tok, diag.CodeUnexpectedToken, "unexpected %s in expression", describe(tok))
	}
	return expr
}

// parseExpr is the Pratt loop. Operators bind while their binding power is
// greater than minBP, which makes + - * / left-associative.
func (p *Parser) parseExpr(c *cursor, minBP int) ast.Expr {
	left := p.parsePrimary(c)
	sawRelational := false

	for !p.failed && !c.done() {
		op := p.tokens[c.pos]
		bp := infixBP(op.Kind)
		if bp == bpNone || bp <= minBP {
			break
		}
		if op.Kind.IsRelational() && sawRelational {
			marker := p.fail(op, diag.CodeChainedComparison, "comparison operators cannot be chained ('%s')", op.Lexeme)
			p.hint("parenthesize one comparison, e.g. (a < b) == c")
			return marker
		}
		c.pos++
		if c.done() {
			return p.fail(op, diag.CodeOperatorMisuse, "incorrect use of '%s': missing right operand", op.Lexeme)
		}

		right := p.parseExpr(c, bp)
		left = &ast.BinaryOp{
			ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Join(left.GetSpan(), right.GetSpan())}},
			Op:       op.Kind,
			Left:     left,
			Right:    right,
		}
		sawRelational = sawRelational || op.Kind.IsRelational()
	}

	return left
}

// parsePrimary parses a literal, an identifier or a parenthesized expression.
func (p *Parser) parsePrimary(c *cursor) ast.Expr {
	tok := p.tokens[c.pos]

	switch {
	case tok.Kind.IsLiteral():
		c.pos++
		return p.literal(tok)

	case tok.Kind == token.IDENT:
		c.pos++
		return p.identifier(tok)

	case tok.Kind == token.LPAREN:
		closeParen := p.matching(c.pos, c.end, token.LPAREN, token.RPAREN)
		if closeParen < 0 {
			marker := p.fail(tok, diag.CodeUnclosed, "unclosed '('")
			p.hint("expressions cannot continue on the next line")
			return marker
		}
		inner := p.parseExpression(c.pos+1, closeParen)
		c.pos = closeParen + 1
		return inner

	case tok.Kind.IsArithmetic():
		return p.fail(tok, diag.CodeOperatorMisuse, "incorrect use of '%s': missing left operand", tok.Lexeme)

	default:
		return p.fail(tok, diag.CodeUnexpectedToken, "unexpected %s in expression", describe(tok))
	}
}

// ---- leaves ----

func (p *Parser) identifier(tok token.Token) *ast.Identifier {
	return &ast.Identifier{
		ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: tok.Span}},
		Name:     tok.Lexeme,
	}
}

// literal decodes an INT or FLOAT token.
func (p *Parser) literal(tok token.Token) ast.Expr {
	base := ast.ExprBase{NodeBase: ast.NodeBase{Span: tok.Span}}
	if tok.Kind == token.FLOAT {
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return p.fail(tok, diag.CodeLiteralRange, "invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLiteral{ExprBase: base, Value: v}
	}
	v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return p.fail(tok, diag.CodeLiteralRange, "invalid integer literal %q", tok.Lexeme)
	}
	return &ast.IntLiteral{ExprBase: base, Value: v}
}

// describe names a token for error messages.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "end of line"
	case token.IDENT, token.INT, token.FLOAT:
		return fmt.Sprintf("%s '%s'", tok.Kind, tok.Lexeme)
	default:
		return fmt.Sprintf("'%s'", tok.Kind)
	}
}
