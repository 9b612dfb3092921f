package runtime

import (
	"bytes"
	"errors"
	"mini-lang/internal/ast"
	"mini-lang/internal/lexer"
	"mini-lang/internal/parser"
	"strings"
	"testing"
)

// parseSource scans and parses source, ignoring diagnostics.
func parseSource(source string) ast.Node {
	l := lexer.New(source, "test.mini")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens)
	program, _ := p.ParseProgram()
	return program
}

// runSource parses and executes source code, returning captured stdout and any error.
func runSource(source string) (string, error) {
	return runSourceWithOptions(source, DefaultOptions())
}

func runSourceWithOptions(source string, opts Options) (string, error) {
	var buf bytes.Buffer
	interp := NewInterpreterWithOptions(&buf, opts)
	err := interp.Run(parseSource(source))
	return buf.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source string, target error) *RuntimeError {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got: %v", target, err)
	}
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	return rerr
}

// ---- Tests ----

func TestPrintLiteral(t *testing.T) {
	expectOutput(t, `print 42`, "42\n")
	expectOutput(t, `print 2.5`, "2.5\n")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2 * 3`, "7\n")
	expectOutput(t, `print (1 + 2) * 3`, "9\n")
	expectOutput(t, `print 10 - 4 - 3`, "3\n")
	expectOutput(t, `print 10 / 2`, "5\n")
	expectOutput(t, `print 10 / 4`, "2.5\n")
	expectOutput(t, `print 1 / 3`, "0.3333333333333333\n")
}

func TestRelationalYieldsOneOrZero(t *testing.T) {
	expectOutput(t, `
print 1 < 2
print 2 < 1
print 3 > 2
print 2 == 2.0
print 1 + 1 == 3
`, "1\n0\n1\n1\n0\n")
}

func TestDeclarationAndAssignment(t *testing.T) {
	expectOutput(t, `
#i x
#d y
x = 4
y = x / 8
print x
print y
`, "4\n0.5\n")
}

func TestUninitializedReadsZero(t *testing.T) {
	expectOutput(t, "#i x\n#d y\nprint x\nprint y", "0\n0\n")
}

func TestInlineInitializer(t *testing.T) {
	expectOutput(t, "#i x = 5\n#d y = 2\nprint x + y", "7\n")

	rerr := expectError(t, "#i x = 2.5", ErrTypeMismatch)
	if rerr.Span.Start.Column != 8 {
		t.Errorf("expected error at the initializer, got %s", rerr.Span.Start)
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	rerr := expectError(t, "#i x\n#i x", ErrDuplicateDeclaration)
	if rerr.Kind != DuplicateDeclaration {
		t.Errorf("expected kind DuplicateDeclaration, got %s", rerr.Kind)
	}
	if rerr.Span.Start.Line != 2 {
		t.Errorf("expected error on line 2, got %s", rerr.Span.Start)
	}

	expectError(t, "#i x\n#d x", ErrDuplicateDeclaration)
}

func TestUndeclaredVariable(t *testing.T) {
	expectError(t, `print y`, ErrUndeclaredVariable)
	expectError(t, `y = 1`, ErrUndeclaredVariable)
	expectError(t, "#i x\nx = y + 1", ErrUndeclaredVariable)
}

func TestIntAssignmentRequiresWholeNumber(t *testing.T) {
	expectError(t, "#i x\nx = 3.5", ErrTypeMismatch)
	expectError(t, "#i x\nx = 7 / 2", ErrTypeMismatch)

	// A whole number produced by a float expression is accepted.
	expectOutput(t, "#i x\nx = 2.0 * 2.0\nprint x", "4\n")

	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := interp.Run(parseSource("#i x\nx = 2.0 * 2.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := interp.Env().Lookup("x")
	if v.Value() != 4 || !v.Initialized {
		t.Errorf("expected initialized x == 4, got %v (initialized=%t)", v.Value(), v.Initialized)
	}
}

func TestFloatAcceptsAnyValue(t *testing.T) {
	expectOutput(t, "#d r\nr = 7 / 2\nprint r\nr = 3\nprint r", "3.5\n3\n")
}

func TestDivisionByZero(t *testing.T) {
	expectError(t, `print 10 / 0`, ErrDivisionByZero)
	expectError(t, "#d z\nprint 1 / z", ErrDivisionByZero)
	expectError(t, `print 1 / (2 - 2.0)`, ErrDivisionByZero)
}

func TestOutputBeforeErrorIsKept(t *testing.T) {
	out, err := runSource("print 1\nprint 2\nprint 3 / 0\nprint 4")
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if out != "1\n2\n" {
		t.Errorf("expected output before the error to be kept, got %q", out)
	}
}

func TestIf(t *testing.T) {
	expectOutput(t, `
#i x = 10
if (x > 5) {
  print 1
}
if (x < 5) {
  print 2
}
if (x - 10) {
  print 3
}
if (0.5) {
  print 4
}
`, "1\n4\n")
}

func TestWhileLoop(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	err := interp.Run(parseSource(`
#i x = 0
while (x < 3) {
  x = x + 1
  print x
}
`))
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	if buf.String() != "1\n2\n3\n" {
		t.Errorf("expected body to run 3 times, got %q", buf.String())
	}
	x, _ := interp.Env().Lookup("x")
	if x.Value() != 3 {
		t.Errorf("expected x == 3, got %v", x.Value())
	}
}

func TestNestedLoops(t *testing.T) {
	expectOutput(t, `
#i i = 0
#i total = 0
#i j
while (i < 3) {
  j = 0
  while (j < 4) {
    total = total + 1
    j = j + 1
  }
  i = i + 1
}
print total
`, "12\n")
}

func TestDeclarationInBodyIsGlobal(t *testing.T) {
	expectOutput(t, "if (1) {\n#i inner = 7\n}\nprint inner", "7\n")
}

func TestConditionRecheck(t *testing.T) {
	// The body makes the condition fail when evaluated again.
	source := `
#i y = 1
if (10 / y > 0) {
  y = 0
}
print y
`
	out, err := runSource(source)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected the recheck to divide by zero, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output after the failed recheck, got %q", out)
	}

	out, err = runSourceWithOptions(source, Options{RecheckConditions: false})
	if err != nil {
		t.Fatalf("unexpected error with recheck disabled: %v", err)
	}
	if out != "0\n" {
		t.Errorf("expected '0', got %q", out)
	}
}

func TestLoopIterationLimit(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreterWithOptions(&buf, Options{MaxLoopIterations: 100})
	err := interp.Run(parseSource("#i x\nwhile (1) {\nx = x + 1\n}"))
	if !errors.Is(err, ErrStepLimitExceeded) {
		t.Fatalf("expected step limit error, got %v", err)
	}
	x, _ := interp.Env().Lookup("x")
	if x.Value() != 100 {
		t.Errorf("expected 100 iterations before the limit, got %v", x.Value())
	}
}

func TestSyntaxErrorMarker(t *testing.T) {
	out, err := runSource("print 1\nprint 2 +\nprint 3")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if out != "1\n" {
		t.Errorf("expected the statements before the error to run, got %q", out)
	}
}

func TestEvaluateExpression(t *testing.T) {
	stmts, _ := ast.Statements(parseSource("print (7 + 5) / 4"))
	expr := stmts[0].(*ast.Print).Value

	interp := NewInterpreter(&bytes.Buffer{})
	val, err := interp.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 3 {
		t.Errorf("expected 3, got %v", val)
	}
}

func TestChainMatchesStatementsInOrder(t *testing.T) {
	source := `
#i a = 3
#d b
b = a * 1.5
print a
print b
if (b > a) {
  print b - a
}
`
	program := parseSource(source)

	var whole bytes.Buffer
	if err := NewInterpreter(&whole).Run(program); err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	stmts, _ := ast.Statements(program)
	if len(stmts) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(stmts))
	}
	var stepwise bytes.Buffer
	interp := NewInterpreter(&stepwise)
	for _, stmt := range stmts {
		if _, err := interp.Evaluate(stmt); err != nil {
			t.Fatalf("runtime error: %v", err)
		}
	}

	if whole.String() != stepwise.String() {
		t.Errorf("chain output %q differs from stepwise output %q", whole.String(), stepwise.String())
	}
	if whole.String() != "3\n4.5\n1.5\n" {
		t.Errorf("unexpected output %q", whole.String())
	}
}
