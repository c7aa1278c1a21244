package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts Go identifiers and loose words to snake_case.
//
// Acronyms stay together ("BaseURL" -> "base_url", "HTTPServer" -> "http_server")
// and spaces, dashes and dots become a single underscore.
func ToLowerSnake(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(runes) + 4)

	pendingSep := false
	for i, r := range runes {
		if r == ' ' || r == '-' || r == '.' || r == '_' {
			pendingSep = b.Len() > 0
			continue
		}

		if i > 0 && unicode.IsUpper(r) && wordBoundary(runes, i) {
			pendingSep = b.Len() > 0
		}

		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func wordBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
