package openai

import "strings"

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// groundedValue returns value if it occurs in the source text, otherwise "".
// Matching is case-insensitive on trimmed text. Rejecting beats substituting:
// a dropped field is visible, an invented one is not.
func groundedValue(value, source string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(source), strings.ToLower(value)) {
		return value
	}
	return ""
}

// groundedPhone returns value if its digit sequence occurs in the source
// text's digits, otherwise "". Phone numbers are compared digit-by-digit so
// formatting differences ("+7 701 555-0101" vs "77015550101") do not cause a
// genuine number to be dropped.
func groundedPhone(value, source string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	valueDigits := digitsOf(value)
	if valueDigits == "" {
		return ""
	}
	if strings.Contains(digitsOf(source), valueDigits) {
		return value
	}
	return ""
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
