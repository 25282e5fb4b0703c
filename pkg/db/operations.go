package db

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dtnitsch/mr-wordcount/models"
)

// maxRowsPerInsert keeps each statement well under MySQL's 65535
// placeholder limit (three per row).
var maxRowsPerInsert = 5000

// InsertMapRows writes one wc_map row per distinct word of a single chunk.
// Rows go out in multi-row INSERTs of at most maxRowsPerInsert rows.
func InsertMapRows(ctx context.Context, q Querier, jobID string, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)

	for part := range slices.Chunk(words, maxRowsPerInsert) {
		if err := insertMapRows(ctx, q, jobID, part, counts); err != nil {
			return err
		}
	}
	return nil
}

func insertMapRows(ctx context.Context, q Querier, jobID string, words []string, counts map[string]int) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO wc_map (job_id, word, v) VALUES ")
	args := make([]any, 0, len(words)*3)
	for i, w := range words {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, jobID, w, counts[w])
	}

	if _, err := q.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert map rows: %w: %w", ErrStoreWrite, err)
	}
	return nil
}

// ReduceJob aggregates every wc_map row of the job into wc_reduce and
// returns the number of distinct words written.
func ReduceJob(ctx context.Context, q Querier, jobID string) (int64, error) {
	result, err := q.ExecContext(ctx, `
		INSERT INTO wc_reduce (job_id, word, total)
		SELECT job_id, word, SUM(v)
		FROM wc_map
		WHERE job_id = ?
		GROUP BY job_id, word
	`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to reduce job: %w: %w", ErrStoreWrite, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get reduced row count: %w", err)
	}
	return n, nil
}

// TopWords returns at most limit totals for the job, highest count first and
// ties broken by word. An unknown job yields an empty slice.
func (db *DB) TopWords(ctx context.Context, jobID string, limit int) ([]models.WordCount, error) {
	if limit <= 0 {
		return []models.WordCount{}, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT word, total
		FROM wc_reduce
		WHERE job_id = ?
		ORDER BY total DESC, word ASC
		LIMIT ?
	`, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top words: %w", err)
	}
	defer rows.Close()

	words := make([]models.WordCount, 0, min(limit, 64))
	for rows.Next() {
		var wc models.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word count: %w", err)
		}
		words = append(words, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top words: %w", err)
	}

	return words, nil
}

// JobTotal returns the sum of all reduced totals for the job.
func (db *DB) JobTotal(ctx context.Context, jobID string) (int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM wc_reduce WHERE job_id = ?", jobID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum job totals: %w", err)
	}
	return total, nil
}

// DeleteJob removes every map and reduce row of the job.
func (db *DB) DeleteJob(ctx context.Context, jobID string) (mapRows, reduceRows int64, err error) {
	mapRows, err = deleteByJob(ctx, db, "wc_map", jobID)
	if err != nil {
		return 0, 0, err
	}
	reduceRows, err = deleteByJob(ctx, db, "wc_reduce", jobID)
	if err != nil {
		return mapRows, 0, err
	}
	return mapRows, reduceRows, nil
}

func deleteByJob(ctx context.Context, q Querier, table, jobID string) (int64, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE job_id = ?", jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s rows: %w: %w", table, ErrStoreWrite, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted row count: %w", err)
	}
	return n, nil
}
