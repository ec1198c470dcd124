// Package query turns raw user input into an executable query plan.
package query

import "strings"

// Normalize canonicalizes a raw query string: full-width spaces become
// standard spaces, whitespace runs collapse to one space, the result is
// trimmed, and ASCII letters are lowercased. Japanese characters pass
// through untouched. Two inputs differing only by these transformations
// normalize to the same string, which cache keys and history aggregation
// rely on.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "　", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Map(lowerASCII, s)
}

func lowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
