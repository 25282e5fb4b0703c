package mapreduce

import (
	"fmt"
	"io"
	"sort"

	"github.com/dtnitsch/mr-wordcount/models"
)

// TopN returns the n most frequent words, highest count first.
// Equal counts are ordered by word so the result is deterministic.
func TopN(wordCounts map[string]int, n int) []models.WordCount {
	ss := make([]models.WordCount, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, models.WordCount{Word: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	return ss[:limit]
}

// PrintTopWords writes the top N words in a numbered list format.
func PrintTopWords(w io.Writer, wordCounts map[string]int, n int) {
	for i, wc := range TopN(wordCounts, n) {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, wc.Word, wc.Count)
	}
}
