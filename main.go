package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/mr-wordcount/internal/analyze"
	dbactions "github.com/dtnitsch/mr-wordcount/internal/db"
	"github.com/dtnitsch/mr-wordcount/internal/run"
	"github.com/dtnitsch/mr-wordcount/internal/serve"
	"github.com/dtnitsch/mr-wordcount/pkg/help"
	"github.com/dtnitsch/mr-wordcount/pkg/jobs"
	"github.com/dtnitsch/mr-wordcount/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mr-wordcount",
		Usage: "Word frequency jobs with a staged map/reduce over a SQL store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "YAML config file (missing file is fine; env vars override)",
				EnvVars: []string{"WC_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (/health, /run, /result/{job_id})",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config, :8000)"},
				},
			},
			{
				Name:   "run",
				Usage:  "Submit one job directly to the store",
				Action: run.RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Text to count"},
					&cli.StringFlag{Name: "file", Usage: "Read text from a file ('-' for stdin)"},
					&cli.StringFlag{Name: "url", Usage: "Fetch a page and count its readable text"},
					&cli.StringFlag{Name: "cache-dir", Usage: "Cache fetched pages here (only with --url)"},
					&cli.DurationFlag{Name: "max-age", Value: 24 * time.Hour, Usage: "Page cache freshness, 0 = never expire"},
				},
			},
			{
				Name:      "result",
				Usage:     "Print the top words of a job",
				ArgsUsage: "<job_id>",
				Action:    run.ResultAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top", Value: jobs.DefaultTop, Usage: "Number of words to return"},
				},
			},
			{
				Name:   "count",
				Usage:  "Count words in memory without a store",
				Action: analyze.CountAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Value: "-", Usage: "Input file ('-' for stdin)"},
					&cli.IntFlag{Name: "top", Value: 25, Usage: "Number of words to print"},
					&cli.IntFlag{Name: "batch-size", Value: mapreduce.DefaultBatchSize, Usage: "Tokens per map chunk"},
				},
			},
			{
				Name:   "quickstart",
				Usage:  "Print a YAML cheat sheet of common commands",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
			{
				Name:  "db",
				Usage: "Store maintenance",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Create the word count tables",
						Action: dbactions.InitAction,
					},
					{
						Name:      "drop-job",
						Usage:     "Delete all rows of a job",
						ArgsUsage: "<job_id>",
						Action:    dbactions.DropJobAction,
					},
				},
			},
		},
	}
}
