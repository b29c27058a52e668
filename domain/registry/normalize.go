package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace. ok is false when nothing is left.
func NormalizeName(value string) (string, bool) {
	return normalizeCell(value)
}

// NormalizeEmail trims surrounding whitespace. The address format is not
// checked: any non-empty value is accepted.
func NormalizeEmail(value string) (string, bool) {
	return normalizeCell(value)
}

func normalizeCell(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// DedupKey is the key used to suppress repeated entities within one extraction
func DedupKey(name string) string {
	return strings.ToLower(name)
}

// MatchKey folds a business name for cross-system matching: lower-cased,
// NFKD decomposed, and stripped of everything outside [a-z0-9].
func MatchKey(value string) string {
	decomposed := norm.NFKD.String(strings.ToLower(value))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
