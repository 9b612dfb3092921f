// Package diag provides diagnostic (error/warning) types for the scanner and parser.
package diag

import (
	"fmt"
	"mini-lang/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Stable diagnostic codes. E1xxx come from the scanner, E2xxx/W2xxx from the parser.
const (
	CodeUnexpectedChar    = "E1001"
	CodeMalformedNumber   = "E1002"
	CodeUnknownDeclMarker = "E1003"

	CodeLexError          = "E2001"
	CodeExpectedIdent     = "E2002"
	CodeExpectedAssign    = "E2003"
	CodeOperatorMisuse    = "E2004"
	CodeUnexpectedToken   = "E2005"
	CodeExpectedExpr      = "E2006"
	CodeUnclosed          = "E2007"
	CodeChainedComparison = "E2008"
	CodeLiteralRange      = "E2009"

	CodeIgnoredTokens = "W2001"
)

// Diagnostic represents a front-end diagnostic message.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable error code, e.g. "E2004"
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Span     span.Span `json:"span"`           // source location
	Hint     string    `json:"hint,omitempty"` // optional hint
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	msg := fmt.Sprintf("[%s] %s: %s", d.Code, prefix, d.Message)
	if d.Span.Start.IsKnown() {
		msg = fmt.Sprintf("[%s] %s at %s: %s", d.Code, prefix, d.Span.Start, d.Message)
	}
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// WithHint returns a copy of d carrying hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
