package mapreduce

import (
	"iter"

	"github.com/dtnitsch/mr-wordcount/pkg/analytics"
)

// DefaultBatchSize bounds how many tokens feed a single map insert.
const DefaultBatchSize = 800

// Batch lazily splits seq into contiguous chunks of at most size tokens.
// Only the last chunk may be shorter; an empty seq yields no chunks.
// A non-positive size falls back to DefaultBatchSize.
func Batch(seq iter.Seq[string], size int) iter.Seq[[]string] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return func(yield func([]string) bool) {
		chunk := make([]string, 0, size)
		for tok := range seq {
			chunk = append(chunk, tok)
			if len(chunk) == size {
				if !yield(chunk) {
					return
				}
				chunk = make([]string, 0, size)
			}
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
	}
}

// Map generates a word frequency map for a single chunk of tokens.
func Map(chunk []string) map[string]int {
	return analytics.WordFrequency(chunk)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
