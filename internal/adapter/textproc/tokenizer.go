package textproc

import (
	"strings"
	"unicode"
)

// maxPiece caps a single token at 8 runes so long words split into
// subword pieces, keeping token counts close to embedding-model budgets.
const maxPiece = 8

// Tokenizer is a fixed, deterministic subword tokenizer shared by the
// chunker and prompt budget accounting. Encode is lossless: concatenating
// the tokens in order reproduces the input exactly.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Encode splits text into subword tokens. A single leading space binds to
// the word that follows it; alphanumeric runs longer than maxPiece runes
// split into multiple pieces; any other rune is a token of its own.
func (t *Tokenizer) Encode(text string) []string {
	runes := []rune(text)
	tokens := make([]string, 0, len(runes)/4+1)

	i := 0
	for i < len(runes) {
		start := i
		if runes[i] == ' ' && i+1 < len(runes) && isWordRune(runes[i+1]) {
			i++
		}
		if i < len(runes) && isWordRune(runes[i]) {
			for i < len(runes) && isWordRune(runes[i]) && i-start < maxPiece {
				i++
			}
		} else if i < len(runes) {
			i++
		}
		tokens = append(tokens, string(runes[start:i]))
	}
	return tokens
}

// Decode reassembles tokens back into text.
func (t *Tokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

// Count returns the token count used for chunk and budget accounting.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
