package stringutils

import (
	"strings"
	"unicode/utf8"
)

// Sanitize removes invalid UTF-8, NUL and other control characters except
// tab, newline and carriage return. Postgres text columns reject NUL bytes
// and pasted page content often carries them.
func Sanitize(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, isControl) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 32, r == 127:
		return true
	case r >= 128 && r <= 159:
		return true
	default:
		return false
	}
}
