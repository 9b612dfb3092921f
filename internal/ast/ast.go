// Package ast defines the abstract syntax tree for mini-lang.
//
// A program is a chain of Sequence nodes: each holds the statement at its
// position and the rest of the program, and every chain ends in an EndMarker
// or an ErrorMarker. Every node is owned by exactly one parent.
package ast

import (
	"mini-lang/internal/span"
	"mini-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// DeclType is the declared type of a variable.
type DeclType int

const (
	Int DeclType = iota
	Float
)

func (t DeclType) String() string {
	if t == Float {
		return "float"
	}
	return "int"
}

// ============================================================
// Program structure
// ============================================================

// Sequence is "this statement, then the rest of the program".
// Rest is another *Sequence, an *EndMarker or an *ErrorMarker.
type Sequence struct {
	NodeBase
	Stmt Stmt
	Rest Node
}

// EndMarker terminates a statement chain.
type EndMarker struct {
	NodeBase
}

// ErrorMarker replaces whatever the parser could not build. It carries the
// offending lexeme and may stand in for a statement, an expression or the
// rest of a chain.
type ErrorMarker struct {
	NodeBase
	Lexeme string
}

func (*ErrorMarker) exprNode() {}
func (*ErrorMarker) stmtNode() {}

// ============================================================
// Expressions
// ============================================================

// Identifier is a variable reference.
type Identifier struct {
	ExprBase
	Name string
}

// IntLiteral is an integer literal, decoded at parse time.
type IntLiteral struct {
	ExprBase
	Value int64
}

// FloatLiteral is a floating-point literal, decoded at parse time.
type FloatLiteral struct {
	ExprBase
	Value float64
}

// BinaryOp is an arithmetic or relational operation.
// Op is one of PLUS, MINUS, STAR, SLASH, LT, GT, EQ.
type BinaryOp struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// ============================================================
// Statements
// ============================================================

// Declaration introduces a variable. Init is the inline initializer literal
// of `#i x = 5`, nil for a bare declaration.
type Declaration struct {
	StmtBase
	Type DeclType
	Name *Identifier
	Init Expr
}

// Assign stores Value into Target.
type Assign struct {
	StmtBase
	Target *Identifier
	Value  Expr
}

// Print evaluates Value and writes it on its own line.
type Print struct {
	StmtBase
	Value Expr
}

// If runs Body when Cond is non-zero.
type If struct {
	StmtBase
	Cond Expr
	Body Node
}

// While runs Body as long as Cond is non-zero.
type While struct {
	StmtBase
	Cond Expr
	Body Node
}

// Statements returns the statements of a chain in source order, and the
// node that terminates it.
func Statements(chain Node) ([]Stmt, Node) {
	var stmts []Stmt
	for {
		seq, ok := chain.(*Sequence)
		if !ok {
			return stmts, chain
		}
		stmts = append(stmts, seq.Stmt)
		chain = seq.Rest
	}
}
