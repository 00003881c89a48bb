package textproc

import (
	"strings"
	"unicode"
)

// punctuation kept during normalization; everything else outside
// letters/digits/underscore/whitespace is stripped.
const keptPunct = ".,!?;:()-'\""

// Normalize collapses whitespace runs to a single space, strips characters
// outside the conservative allow-list, and trims the result.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case allowedRune(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return true
	}
	return strings.ContainsRune(keptPunct, r)
}
