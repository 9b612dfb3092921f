// Package runtime implements the tree-walking interpreter for mini-lang.
//
// Every value is a float64 while it flows through expressions; variables
// declared with #i store their value as an int64.
package runtime

import (
	"strconv"
)

// formatNumber renders a value the way print does: whole numbers without a
// fractional part, everything else as the shortest decimal that round-trips.
func formatNumber(f float64) string {
	if isWhole(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatNumber formats f the way print does.
func FormatNumber(f float64) string { return formatNumber(f) }

// truthy reports whether a condition value selects the body.
func truthy(f float64) bool { return f != 0 }

// boolValue converts a comparison result to 1 or 0.
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
