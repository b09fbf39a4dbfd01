package vectorizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize lowercases text and returns its word tokens with stop words removed.
// A token is a run of at least two letters, numbers or underscores.
func Tokenize(text string) []string {
	words := splitWords(strings.ToLower(text))
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 {
			continue
		}
		if IsStopWord(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
