package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/mr-wordcount/models"
	"github.com/dtnitsch/mr-wordcount/pkg/db"
	"github.com/dtnitsch/mr-wordcount/pkg/jobs"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the --config file plus environment overrides.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the JSON stderr logger; --quiet wins over log_level.
func NewLogger(c *cli.Context, cfg models.Config) *slog.Logger {
	logLevel := ParseLevel(cfg.LogLevel)
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenRunner opens the store and wraps it in a job runner. The caller owns
// the returned store and must close it.
func OpenRunner(ctx context.Context, cfg models.Config, logger *slog.Logger) (*jobs.Runner, *db.DB, error) {
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	runner := jobs.NewRunner(store, jobs.Options{BatchSize: cfg.BatchSize, Atomic: cfg.Atomic}, logger)
	return runner, store, nil
}

// ReadInput returns the contents of path, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// PrintYAML writes v to w as YAML.
func PrintYAML(w io.Writer, v any) error {
	yamlBytes, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}
