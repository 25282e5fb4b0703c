package db

import (
	"fmt"

	"github.com/dtnitsch/mr-wordcount/internal/common"
	dbpkg "github.com/dtnitsch/mr-wordcount/pkg/db"
	"github.com/urfave/cli/v2"
)

// InitAction creates the word count tables.
func InitAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	database, err := dbpkg.Open(c.Context, cfg.Store)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(c.Context); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Schema ready (%s)\n", database.Dialect())
	return nil
}

// DropJobAction removes every row of a job, e.g. one abandoned mid-MAP.
func DropJobAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("job id is required")
	}
	jobID := c.Args().First()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	database, err := dbpkg.Open(c.Context, cfg.Store)
	if err != nil {
		return err
	}
	defer database.Close()

	mapRows, reduceRows, err := database.DeleteJob(c.Context, jobID)
	if err != nil {
		return fmt.Errorf("failed to drop job %s: %w", jobID, err)
	}

	fmt.Fprintf(c.App.Writer, "Dropped job %s: %d map rows, %d reduce rows\n", jobID, mapRows, reduceRows)
	return nil
}
