package runtime

import (
	"math"
	"mini-lang/internal/ast"
	"mini-lang/internal/span"
	"sort"
)

// Variable is a typed slot in the Environment. Int variables hold an int64,
// float variables a float64; an uninitialized variable reads as zero.
type Variable struct {
	Type        ast.DeclType
	Initialized bool

	intVal   int64
	floatVal float64
}

// Value returns the stored value widened to float64.
func (v *Variable) Value() float64 {
	if v.Type == ast.Int {
		return float64(v.intVal)
	}
	return v.floatVal
}

// Environment is the single global variable table. There is no block
// scoping: a declaration inside an if or while body is visible afterwards.
type Environment struct {
	values map[string]*Variable
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]*Variable)}
}

// Declare adds a new zeroed, uninitialized variable.
func (e *Environment) Declare(name string, typ ast.DeclType) (*Variable, error) {
	if _, exists := e.values[name]; exists {
		return nil, runtimeErr(DuplicateDeclaration, span.Span{}, "variable '%s' is already declared", name)
	}
	v := &Variable{Type: typ}
	e.values[name] = v
	return v, nil
}

// Lookup returns the variable declared as name.
func (e *Environment) Lookup(name string) (*Variable, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Assign stores value into name. An int variable accepts only whole numbers
// representable as int64.
func (e *Environment) Assign(name string, value float64) error {
	v, ok := e.values[name]
	if !ok {
		return runtimeErr(UndeclaredVariable, span.Span{}, "variable '%s' is not declared", name)
	}

	if v.Type == ast.Int {
		if !isWhole(value) {
			return runtimeErr(TypeMismatch, span.Span{}, "cannot assign %s to int variable '%s'", formatNumber(value), name)
		}
		v.intVal = int64(value)
	} else {
		v.floatVal = value
	}
	v.Initialized = true
	return nil
}

// Names returns the declared names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isWhole reports whether f is an integer value that fits in an int64.
func isWhole(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	return f >= math.MinInt64 && f < math.MaxInt64
}
