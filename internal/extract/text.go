package extract

import (
	"strings"
	"unicode"
)

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// lowerRunes lower-cases text rune by rune so that rune offsets in the
// result line up with the input.
func lowerRunes(text string) (orig, lower []rune) {
	orig = []rune(text)
	lower = make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}
	return orig, lower
}

// runeIndex is strings.Index measured in runes.
func runeIndex(haystack []rune, needle string) int {
	n := []rune(needle)
	if len(n) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(n) <= len(haystack); i++ {
		for j := range n {
			if haystack[i+j] != n[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
