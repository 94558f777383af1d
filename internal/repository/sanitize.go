package repository

import (
	"strings"
	"unicode/utf8"
)

// SanitizeContent drops characters PostgreSQL rejects in text/jsonb columns
// (NUL, other C0 controls except tab/newline/CR, lone surrogates).
func SanitizeContent(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			continue
		case r >= 0xD800 && r <= 0xDFFF:
			continue
		case r == utf8.RuneError:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
