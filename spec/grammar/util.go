package grammar

import "strings"

// metaChars are the characters having special meaning in a lexical pattern.
const metaChars = `.*+?|()[]\`

// EscapePattern makes a pattern matching a literal text. For example, EscapePattern(`+`)
// returns `\+`.
func EscapePattern(s string) string {
	if !strings.ContainsAny(s, metaChars) {
		return s
	}
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(metaChars, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
