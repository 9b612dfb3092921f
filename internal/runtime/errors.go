package runtime

import (
	"errors"
	"fmt"
	"mini-lang/internal/span"
)

// ErrorKind classifies a fatal runtime error.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	UndeclaredVariable
	DuplicateDeclaration
	TypeMismatch
	DivisionByZero
	StepLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case TypeMismatch:
		return "TypeMismatch"
	case DivisionByZero:
		return "DivisionByZero"
	case StepLimitExceeded:
		return "StepLimitExceeded"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors, one per kind. A *RuntimeError matches its kind's sentinel
// with errors.Is.
var (
	ErrSyntax               = errors.New("syntax error")
	ErrUndeclaredVariable   = errors.New("undeclared variable")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrStepLimitExceeded    = errors.New("step limit exceeded")
)

var sentinels = map[ErrorKind]error{
	SyntaxError:          ErrSyntax,
	UndeclaredVariable:   ErrUndeclaredVariable,
	DuplicateDeclaration: ErrDuplicateDeclaration,
	TypeMismatch:         ErrTypeMismatch,
	DivisionByZero:       ErrDivisionByZero,
	StepLimitExceeded:    ErrStepLimitExceeded,
}

// RuntimeError represents an error during interpretation.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *RuntimeError) Error() string {
	if !e.Span.Start.IsKnown() {
		return fmt.Sprintf("runtime error: %s", e.Message)
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// Is reports whether target is the sentinel for e's kind.
func (e *RuntimeError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func runtimeErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}

// withSpan attaches s to an environment error, keeping its kind.
func withSpan(err error, s span.Span) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && !rerr.Span.Start.IsKnown() {
		rerr.Span = s
	}
	return err
}
