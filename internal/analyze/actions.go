package analyze

import (
	"fmt"
	"os"

	"github.com/dtnitsch/mr-wordcount/internal/common"
	"github.com/dtnitsch/mr-wordcount/pkg/analytics"
	"github.com/dtnitsch/mr-wordcount/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

// CountAction runs the same map and reduce phases in memory, without a
// store, and prints the numbered top list.
func CountAction(c *cli.Context) error {
	text, err := common.ReadInput(c.String("file"), os.Stdin)
	if err != nil {
		return err
	}

	// 1. Map Stage
	var intermediate []map[string]int
	total := 0
	for chunk := range mapreduce.Batch(analytics.Tokenize(text), c.Int("batch-size")) {
		intermediate = append(intermediate, mapreduce.Map(chunk))
		total += len(chunk)
	}

	// 2. Reduce Stage
	final := mapreduce.Reduce(intermediate)

	// 3. Present Results
	w := c.App.Writer
	fmt.Fprintf(w, "Map phase: %d chunks. Reduce phase: %d distinct words, %d total.\n",
		len(intermediate), len(final), total)
	mapreduce.PrintTopWords(w, final, c.Int("top"))
	return nil
}
