package vectorize

import (
	"strings"
	"unicode"
)

// tokenize lowercases text, strips everything but Unicode letters and digits,
// and splits the remainder into tokens. Tokens of a single rune are dropped;
// they carry almost no signal and inflate bucket collisions.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	words := strings.Fields(cleaned)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len([]rune(word)) > 1 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// termFrequencies counts occurrences of each token.
func termFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}
	return freq
}
