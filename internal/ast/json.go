package ast

import (
	"mini-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Sequence:
		return m("Sequence", n.Span,
			"stmt", NodeToMap(n.Stmt),
			"rest", NodeToMap(n.Rest))
	case *EndMarker:
		return m("EndMarker", n.Span)
	case *ErrorMarker:
		return m("ErrorMarker", n.Span, "lexeme", n.Lexeme)

	// ---- Expressions ----
	case *Identifier:
		return m("Identifier", n.Span, "name", n.Name)
	case *IntLiteral:
		return m("IntLiteral", n.Span, "value", n.Value)
	case *FloatLiteral:
		return m("FloatLiteral", n.Span, "value", n.Value)
	case *BinaryOp:
		return m("BinaryOp", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))

	// ---- Statements ----
	case *Declaration:
		result := m("Declaration", n.Span, "type", n.Type.String(), "name", NodeToMap(n.Name))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *Assign:
		return m("Assign", n.Span,
			"target", NodeToMap(n.Target),
			"value", NodeToMap(n.Value))
	case *Print:
		return m("Print", n.Span, "value", NodeToMap(n.Value))
	case *If:
		return m("If", n.Span,
			"cond", NodeToMap(n.Cond),
			"body", NodeToMap(n.Body))
	case *While:
		return m("While", n.Span,
			"cond", NodeToMap(n.Cond),
			"body", NodeToMap(n.Body))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// m builds a node map with kind and span, plus alternating key/value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]int{"line": s.Start.Line, "column": s.Start.Column, "offset": s.Start.Offset},
		"end":   map[string]int{"line": s.End.Line, "column": s.End.Column, "offset": s.End.Offset},
	}
}
