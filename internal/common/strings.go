package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// HasText returns true if s contains at least one non-whitespace character.
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
