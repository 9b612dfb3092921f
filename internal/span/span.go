// Package span provides source positions and ranges shared by the scanner,
// the parser and the interpreter.
package span

import "fmt"

// Position is a location in source text. The zero Position means "unknown",
// which is what tokens read from a token file carry.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsKnown reports whether the position points into real source text.
func (p Position) IsKnown() bool {
	return p.Line > 0
}

// Span represents a range in source code [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Join returns the span covering both a and b, assuming a starts first.
func Join(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}
