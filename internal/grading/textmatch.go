package grading

import "strings"

// textEqual is the short-answer comparison: whitespace-trimmed,
// case-insensitive equality.
func textEqual(given, want string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(want))
}
