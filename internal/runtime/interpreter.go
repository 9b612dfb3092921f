package runtime

import (
	"fmt"
	"io"
	"mini-lang/internal/ast"
	"mini-lang/internal/token"
)

// ============================================================
// Options
// ============================================================

// Options controls interpreter behavior.
type Options struct {
	// RecheckConditions evaluates an if or while condition once more after
	// the statement finishes, discarding the result. Errors raised by that
	// extra evaluation are fatal like any other.
	RecheckConditions bool

	// MaxLoopIterations bounds the total number of while body executions
	// across the run. Zero means unlimited.
	MaxLoopIterations int
}

// DefaultOptions returns the options used by NewInterpreter.
func DefaultOptions() Options {
	return Options{RecheckConditions: true}
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it.
type Interpreter struct {
	env    *Environment
	output io.Writer
	opts   Options

	iterations int // while body executions so far
}

// NewInterpreter creates a new interpreter with default options.
func NewInterpreter(output io.Writer) *Interpreter {
	return NewInterpreterWithOptions(output, DefaultOptions())
}

// NewInterpreterWithOptions creates a new interpreter.
func NewInterpreterWithOptions(output io.Writer, opts Options) *Interpreter {
	return &Interpreter{
		env:    NewEnvironment(),
		output: output,
		opts:   opts,
	}
}

// Run executes a program chain. The first runtime error stops the run; output
// already written stays written.
func (i *Interpreter) Run(program ast.Node) error {
	_, err := i.Evaluate(program)
	return err
}

// Evaluate evaluates any node. Expressions yield their value; statements and
// chains yield 0.
func (i *Interpreter) Evaluate(node ast.Node) (float64, error) {
	switch n := node.(type) {
	case nil:
		return 0, nil
	case *ast.ErrorMarker:
		return 0, runtimeErr(SyntaxError, n.Span, "cannot execute program: syntax error at %q", n.Lexeme)
	case ast.Expr:
		return i.evalExpr(n)
	case ast.Stmt:
		return 0, i.execStmt(n)
	default:
		return 0, i.execChain(n)
	}
}

// Env returns the environment (useful for REPL).
func (i *Interpreter) Env() *Environment {
	return i.env
}

// ============================================================
// Chains
// ============================================================

func (i *Interpreter) execChain(node ast.Node) error {
	for {
		switch n := node.(type) {
		case *ast.Sequence:
			if err := i.execStmt(n.Stmt); err != nil {
				return err
			}
			node = n.Rest
		case *ast.EndMarker, nil:
			return nil
		case *ast.ErrorMarker:
			_, err := i.Evaluate(n)
			return err
		default:
			return runtimeErr(SyntaxError, node.GetSpan(), "unexpected node type: %T", node)
		}
	}
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Declaration:
		return i.execDeclaration(s)

	case *ast.Assign:
		return i.execAssign(s)

	case *ast.Print:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.output, formatNumber(val))
		return err

	case *ast.If:
		return i.execIf(s)

	case *ast.While:
		return i.execWhile(s)

	case *ast.ErrorMarker:
		_, err := i.Evaluate(s)
		return err

	default:
		return runtimeErr(SyntaxError, stmt.GetSpan(), "unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execDeclaration(s *ast.Declaration) error {
	if _, err := i.env.Declare(s.Name.Name, s.Type); err != nil {
		return withSpan(err, s.Name.Span)
	}
	if s.Init == nil {
		return nil
	}

	val, err := i.evalExpr(s.Init)
	if err != nil {
		return err
	}
	return withSpan(i.env.Assign(s.Name.Name, val), s.Init.GetSpan())
}

func (i *Interpreter) execAssign(s *ast.Assign) error {
	if _, ok := i.env.Lookup(s.Target.Name); !ok {
		return runtimeErr(UndeclaredVariable, s.Target.Span, "variable '%s' is not declared", s.Target.Name)
	}

	val, err := i.evalExpr(s.Value)
	if err != nil {
		return err
	}
	return withSpan(i.env.Assign(s.Target.Name, val), s.Span)
}

func (i *Interpreter) execIf(s *ast.If) error {
	cond, err := i.evalExpr(s.Cond)
	if err != nil {
		return err
	}
	if truthy(cond) {
		if err := i.execChain(s.Body); err != nil {
			return err
		}
	}
	return i.recheck(s.Cond)
}

func (i *Interpreter) execWhile(s *ast.While) error {
	for {
		cond, err := i.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !truthy(cond) {
			break
		}

		i.iterations++
		if i.opts.MaxLoopIterations > 0 && i.iterations > i.opts.MaxLoopIterations {
			return runtimeErr(StepLimitExceeded, s.Span, "loop iteration limit of %d exceeded", i.opts.MaxLoopIterations)
		}

		if err := i.execChain(s.Body); err != nil {
			return err
		}
	}
	return i.recheck(s.Cond)
}

// recheck evaluates a condition once more after its statement has run.
func (i *Interpreter) recheck(cond ast.Expr) error {
	if !i.opts.RecheckConditions {
		return nil
	}
	_, err := i.evalExpr(cond)
	return err
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (float64, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return float64(e.Value), nil

	case *ast.FloatLiteral:
		return e.Value, nil

	case *ast.Identifier:
		v, ok := i.env.Lookup(e.Name)
		if !ok {
			return 0, runtimeErr(UndeclaredVariable, e.Span, "variable '%s' is not declared", e.Name)
		}
		return v.Value(), nil

	case *ast.BinaryOp:
		return i.evalBinary(e)

	case *ast.ErrorMarker:
		return i.Evaluate(e)

	default:
		return 0, runtimeErr(SyntaxError, expr.GetSpan(), "unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalBinary(e *ast.BinaryOp) (float64, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return 0, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return 0, err
	}

	switch e.Op {
	case token.PLUS:
		return left + right, nil
	case token.MINUS:
		return left - right, nil
	case token.STAR:
		return left * right, nil
	case token.SLASH:
		if right == 0 {
			return 0, runtimeErr(DivisionByZero, e.Right.GetSpan(), "division by zero")
		}
		return left / right, nil
	case token.LT:
		return boolValue(left < right), nil
	case token.GT:
		return boolValue(left > right), nil
	case token.EQ:
		return boolValue(left == right), nil
	default:
		return 0, runtimeErr(SyntaxError, e.Span, "unknown binary operator: %s", e.Op)
	}
}
