package runtime

import (
	"errors"
	"math"
	"mini-lang/internal/ast"
	"reflect"
	"testing"
)

func TestEnvironmentDeclare(t *testing.T) {
	env := NewEnvironment()
	v, err := env.Declare("x", ast.Float)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Initialized || v.Value() != 0 {
		t.Errorf("expected zeroed uninitialized slot, got %+v", v)
	}

	if _, err := env.Declare("x", ast.Int); !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("expected duplicate declaration, got %v", err)
	}
}

func TestEnvironmentAssign(t *testing.T) {
	env := NewEnvironment()
	env.Declare("n", ast.Int)
	env.Declare("f", ast.Float)

	if err := env.Assign("missing", 1); !errors.Is(err, ErrUndeclaredVariable) {
		t.Errorf("expected undeclared variable, got %v", err)
	}

	tests := []struct {
		name  string
		value float64
		ok    bool
	}{
		{"n", 4, true},
		{"n", -12, true},
		{"n", 3.5, false},
		{"n", math.NaN(), false},
		{"n", math.Inf(1), false},
		{"n", 1e300, false},
		{"f", 3.5, true},
		{"f", math.Inf(-1), true},
	}
	for _, tt := range tests {
		err := env.Assign(tt.name, tt.value)
		if tt.ok && err != nil {
			t.Errorf("assign %s = %v: unexpected error %v", tt.name, tt.value, err)
		}
		if !tt.ok && !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("assign %s = %v: expected type mismatch, got %v", tt.name, tt.value, err)
		}
	}

	n, _ := env.Lookup("n")
	if n.Value() != -12 || !n.Initialized {
		t.Errorf("expected n == -12, got %v", n.Value())
	}
}

func TestEnvironmentNames(t *testing.T) {
	env := NewEnvironment()
	for _, name := range []string{"b", "c", "a"} {
		env.Declare(name, ast.Int)
	}
	if got := env.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("expected sorted names, got %v", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		5:           "5",
		-3:          "-3",
		2.5:         "2.5",
		-0.25:       "-0.25",
		1e21:        "1000000000000000000000",
		math.Inf(1): "+Inf",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
