package db

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/dtnitsch/mr-wordcount/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database, err := Open(context.Background(), models.StoreConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func countMapRows(t *testing.T, db *DB, jobID string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM wc_map WHERE job_id = ?", jobID).Scan(&n); err != nil {
		t.Fatalf("count wc_map: %v", err)
	}
	return n
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}
	if db.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %q, want sqlite", db.Dialect())
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), models.StoreConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("Open() with unknown driver succeeded, want error")
	}
}

func TestOpen_MySQLUnreachable(t *testing.T) {
	_, err := Open(context.Background(), models.StoreConfig{
		Driver:   "mysql",
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		User:     "wc",
		Database: "wc",
	})
	if !errors.Is(err, ErrStoreConnect) {
		t.Fatalf("Open() error = %v, want ErrStoreConnect", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(models.StoreConfig{Host: "db", User: "u", Password: "p", Database: "words"})
	want := "u:p@tcp(db:3306)/words?parseTime=true"
	if dsn != want {
		t.Errorf("mysqlDSN() = %q, want %q", dsn, want)
	}
}

func TestInsertMapRows_AndReduce(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	// Two chunks of the same job share "the" and "cat".
	if err := InsertMapRows(ctx, db, "job-1", map[string]int{"the": 2, "cat": 1, "sat": 1}); err != nil {
		t.Fatalf("InsertMapRows() chunk 1 error = %v", err)
	}
	if err := InsertMapRows(ctx, db, "job-1", map[string]int{"the": 1, "cat": 1, "ran": 1}); err != nil {
		t.Fatalf("InsertMapRows() chunk 2 error = %v", err)
	}
	// Another job must not leak into job-1.
	if err := InsertMapRows(ctx, db, "job-2", map[string]int{"the": 50}); err != nil {
		t.Fatalf("InsertMapRows() job-2 error = %v", err)
	}

	if got := countMapRows(t, db, "job-1"); got != 6 {
		t.Errorf("wc_map rows for job-1 = %d, want 6", got)
	}

	n, err := ReduceJob(ctx, db, "job-1")
	if err != nil {
		t.Fatalf("ReduceJob() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ReduceJob() wrote %d rows, want 4", n)
	}

	words, err := db.TopWords(ctx, "job-1", 10)
	if err != nil {
		t.Fatalf("TopWords() error = %v", err)
	}
	want := []models.WordCount{
		{Word: "the", Count: 3},
		{Word: "cat", Count: 2},
		{Word: "ran", Count: 1},
		{Word: "sat", Count: 1},
	}
	if len(words) != len(want) {
		t.Fatalf("TopWords() = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("TopWords()[%d] = %+v, want %+v", i, words[i], want[i])
		}
	}

	total, err := db.JobTotal(ctx, "job-1")
	if err != nil {
		t.Fatalf("JobTotal() error = %v", err)
	}
	if total != 7 {
		t.Errorf("JobTotal() = %d, want 7", total)
	}
}

func TestInsertMapRows_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := InsertMapRows(context.Background(), db, "job", nil); err != nil {
		t.Fatalf("InsertMapRows(nil) error = %v", err)
	}
	if got := countMapRows(t, db, "job"); got != 0 {
		t.Errorf("wc_map rows = %d, want 0", got)
	}
}

func TestReduceJob_Twice_ViolatesPrimaryKey(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := InsertMapRows(ctx, db, "job", map[string]int{"a": 1}); err != nil {
		t.Fatalf("InsertMapRows() error = %v", err)
	}
	if _, err := ReduceJob(ctx, db, "job"); err != nil {
		t.Fatalf("ReduceJob() error = %v", err)
	}

	_, err := ReduceJob(ctx, db, "job")
	if !errors.Is(err, ErrStoreWrite) {
		t.Errorf("second ReduceJob() error = %v, want ErrStoreWrite", err)
	}
}

func TestTopWords_UnknownJob(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	words, err := db.TopWords(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("TopWords() error = %v", err)
	}
	if words == nil || len(words) != 0 {
		t.Errorf("TopWords() = %#v, want empty non-nil slice", words)
	}
}

func TestTopWords_Limit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	counts := map[string]int{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1}
	if err := InsertMapRows(ctx, db, "job", counts); err != nil {
		t.Fatalf("InsertMapRows() error = %v", err)
	}
	if _, err := ReduceJob(ctx, db, "job"); err != nil {
		t.Fatalf("ReduceJob() error = %v", err)
	}

	for _, limit := range []int{0, 1, 3, 5, 50, math.MaxInt} {
		words, err := db.TopWords(ctx, "job", limit)
		if err != nil {
			t.Fatalf("TopWords(%d) error = %v", limit, err)
		}
		want := min(limit, len(counts))
		if len(words) != want {
			t.Errorf("TopWords(%d) returned %d entries, want %d", limit, len(words), want)
		}
		for i := 1; i < len(words); i++ {
			if words[i-1].Count < words[i].Count {
				t.Errorf("TopWords(%d) not sorted descending: %v", limit, words)
			}
		}
	}
}

func TestDeleteJob(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := InsertMapRows(ctx, db, "job", map[string]int{"x": 1, "y": 2}); err != nil {
		t.Fatalf("InsertMapRows() error = %v", err)
	}
	if _, err := ReduceJob(ctx, db, "job"); err != nil {
		t.Fatalf("ReduceJob() error = %v", err)
	}

	mapRows, reduceRows, err := db.DeleteJob(ctx, "job")
	if err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}
	if mapRows != 2 || reduceRows != 2 {
		t.Errorf("DeleteJob() = (%d, %d), want (2, 2)", mapRows, reduceRows)
	}

	words, _ := db.TopWords(ctx, "job", 10)
	if len(words) != 0 {
		t.Errorf("TopWords() after delete = %v, want empty", words)
	}
}

func TestInsertMapRows_SplitsLargeChunks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	old := maxRowsPerInsert
	maxRowsPerInsert = 7
	defer func() { maxRowsPerInsert = old }()

	counts := make(map[string]int)
	for i := range 50 {
		counts[fmt.Sprintf("w%02d", i)] = i + 1
	}
	if err := InsertMapRows(ctx, db, "job", counts); err != nil {
		t.Fatalf("InsertMapRows() error = %v", err)
	}
	if n := countMapRows(t, db, "job"); n != 50 {
		t.Errorf("wc_map rows = %d, want 50", n)
	}

	if _, err := ReduceJob(ctx, db, "job"); err != nil {
		t.Fatalf("ReduceJob() error = %v", err)
	}
	total, err := db.JobTotal(ctx, "job")
	if err != nil {
		t.Fatalf("JobTotal() error = %v", err)
	}
	if total != 50*51/2 {
		t.Errorf("JobTotal() = %d, want %d", total, 50*51/2)
	}
}

func TestMySQLSchema_KeyFitsInnoDB(t *testing.T) {
	varchar := regexp.MustCompile(`(job_id|word) VARCHAR\((\d+)\)`)
	for _, stmt := range mysqlSchema {
		if !strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS wc_reduce") {
			continue
		}
		width := map[string]int{}
		for _, m := range varchar.FindAllStringSubmatch(stmt, -1) {
			n, _ := strconv.Atoi(m[2])
			width[m[1]] = n
		}
		if width["word"] < 700 {
			t.Errorf("word column width = %d, want at least 700", width["word"])
		}
		// utf8mb4 reserves four bytes per character.
		if key := 4 * (width["job_id"] + width["word"]); key > 3072 {
			t.Errorf("primary key is %d bytes, InnoDB allows 3072", key)
		}
		return
	}
	t.Fatal("wc_reduce table not found in MySQL schema")
}
