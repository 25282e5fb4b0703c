// Package jobs runs word count jobs against the store: a MAP phase that
// persists per-chunk partial counts, then a REDUCE phase that aggregates them.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dtnitsch/mr-wordcount/models"
	"github.com/dtnitsch/mr-wordcount/pkg/analytics"
	"github.com/dtnitsch/mr-wordcount/pkg/db"
	"github.com/dtnitsch/mr-wordcount/pkg/mapreduce"
	"github.com/google/uuid"
)

// DefaultTop is the number of words returned when the caller does not ask.
const DefaultTop = 10

// ErrTextRequired is returned when the submitted text is blank.
var ErrTextRequired = errors.New("text is required")

// Options tune a Runner.
type Options struct {
	BatchSize int
	// Atomic runs MAP and REDUCE in one transaction so a failed job leaves
	// no rows behind.
	Atomic bool
}

// Runner submits jobs and reads their results.
type Runner struct {
	store  *db.DB
	opts   Options
	logger *slog.Logger
	newID  func() string

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewRunner creates a Runner on top of an open store.
func NewRunner(store *db.DB, opts Options, logger *slog.Logger) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = mapreduce.DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  store,
		opts:   opts,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Submit tokenizes text, writes one map row per distinct word of every
// chunk, then reduces the job into final totals.
func (r *Runner) Submit(ctx context.Context, text string) (models.RunResponse, error) {
	if strings.TrimSpace(text) == "" {
		return models.RunResponse{}, ErrTextRequired
	}

	if err := r.ensureSchema(ctx); err != nil {
		return models.RunResponse{}, err
	}

	jobID := r.newID()
	logger := r.logger.With("job_id", jobID)

	var (
		total int
		err   error
	)
	if r.opts.Atomic {
		total, err = r.runAtomic(ctx, jobID, text)
	} else {
		total, err = r.run(ctx, r.store, jobID, text)
	}
	if err != nil {
		logger.Error("job failed", "error", err)
		return models.RunResponse{}, err
	}

	logger.Info("job complete", "total_words", total)
	return models.RunResponse{JobID: jobID, TotalWords: total}, nil
}

func (r *Runner) run(ctx context.Context, q db.Querier, jobID, text string) (int, error) {
	total, chunks := 0, 0
	for chunk := range mapreduce.Batch(analytics.Tokenize(text), r.opts.BatchSize) {
		if err := db.InsertMapRows(ctx, q, jobID, mapreduce.Map(chunk)); err != nil {
			return 0, fmt.Errorf("map chunk %d: %w", chunks, err)
		}
		total += len(chunk)
		chunks++
	}

	words, err := db.ReduceJob(ctx, q, jobID)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("job reduced", "job_id", jobID, "chunks", chunks, "distinct_words", words)
	return total, nil
}

func (r *Runner) runAtomic(ctx context.Context, jobID, text string) (int, error) {
	tx, err := r.store.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w: %w", db.ErrStoreWrite, err)
	}

	total, err := r.run(ctx, tx, jobID, text)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Warn("rollback failed", "job_id", jobID, "error", rbErr)
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit job: %w: %w", db.ErrStoreWrite, err)
	}
	return total, nil
}

// ensureSchema creates the tables on first use.
func (r *Runner) ensureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()

	if r.schemaReady {
		return nil
	}
	if err := r.store.EnsureSchema(ctx); err != nil {
		return err
	}
	r.schemaReady = true
	return nil
}

// TopWords returns at most top words of the job ranked by count. A
// non-positive top means DefaultTop. Unknown jobs yield an empty list.
func (r *Runner) TopWords(ctx context.Context, jobID string, top int) ([]models.WordCount, error) {
	if top <= 0 {
		top = DefaultTop
	}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r.store.TopWords(ctx, jobID, top)
}
