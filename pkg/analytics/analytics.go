package analytics

import (
	"iter"
	"regexp"
	"strings"
)

// wordPattern matches maximal runs of word characters: letters, digits and
// underscore, in any script.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases text and lazily yields each word token in order.
// Everything that is not a word character acts as a separator.
func Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := strings.ToLower(text)
		for rest != "" {
			loc := wordPattern.FindStringIndex(rest)
			if loc == nil {
				return
			}
			if !yield(rest[loc[0]:loc[1]]) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// WordFrequency counts the occurrences of each token.
func WordFrequency(tokens []string) map[string]int {
	frequencies := make(map[string]int, len(tokens))
	for _, word := range tokens {
		frequencies[word]++
	}
	return frequencies
}
