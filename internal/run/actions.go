package run

import (
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/mr-wordcount/internal/common"
	"github.com/dtnitsch/mr-wordcount/models"
	"github.com/dtnitsch/mr-wordcount/pkg/caching"
	"github.com/dtnitsch/mr-wordcount/pkg/fetcher"
	"github.com/dtnitsch/mr-wordcount/pkg/parser"
	"github.com/urfave/cli/v2"
)

// RunAction submits one job straight to the store and prints its id.
func RunAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	text, err := inputText(c)
	if err != nil {
		return err
	}

	runner, store, err := common.OpenRunner(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := runner.Submit(c.Context, text)
	if err != nil {
		return fmt.Errorf("failed to run job: %w", err)
	}

	return common.PrintYAML(c.App.Writer, res)
}

// ResultAction prints the top words of a job.
func ResultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("job id is required. Run 'mr-wordcount run --text \"...\"' first")
	}
	jobID := c.Args().First()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	logger := common.NewLogger(c, cfg)

	runner, store, err := common.OpenRunner(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	words, err := runner.TopWords(c.Context, jobID, c.Int("top"))
	if err != nil {
		return fmt.Errorf("failed to get results: %w", err)
	}

	return common.PrintYAML(c.App.Writer, models.ResultResponse{JobID: jobID, TopWords: words})
}

// inputText picks exactly one of --text, --file or --url.
func inputText(c *cli.Context) (string, error) {
	set := 0
	for _, name := range []string{"text", "file", "url"} {
		if c.IsSet(name) {
			set++
		}
	}
	if set != 1 {
		return "", fmt.Errorf("exactly one of --text, --file or --url is required")
	}

	switch {
	case c.IsSet("text"):
		return c.String("text"), nil
	case c.IsSet("file"):
		return common.ReadInput(c.String("file"), os.Stdin)
	default:
		return pageText(c, strings.TrimSpace(c.String("url")))
	}
}

func pageText(c *cli.Context, rawURL string) (string, error) {
	html, err := fetchPage(c, rawURL)
	if err != nil {
		return "", err
	}

	p := &parser.Parser{}
	text, err := p.ExtractText(rawURL, string(html))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", rawURL, err)
	}
	return text, nil
}

// fetchPage downloads rawURL, going through the page cache when
// --cache-dir is set.
func fetchPage(c *cli.Context, rawURL string) ([]byte, error) {
	var cache *caching.PageCache
	if dir := c.String("cache-dir"); dir != "" {
		var err error
		cache, err = caching.NewPageCache(dir, c.Duration("max-age"))
		if err != nil {
			return nil, err
		}
		if html, ok := cache.Get(rawURL); ok {
			return html, nil
		}
	}

	html, err := fetcher.NewFetcher().GetHtmlBytes(c.Context, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	if cache != nil {
		if err := cache.Put(rawURL, html); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: %v\n", err)
		}
	}
	return html, nil
}
