package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/dtnitsch/mr-wordcount/models"
	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

var (
	// ErrStoreConnect reports that the store could not be reached.
	ErrStoreConnect = errors.New("store unavailable")
	// ErrStoreWrite reports a failed schema, map or reduce write.
	ErrStoreWrite = errors.New("store write failed")
)

// DB is a pooled connection to the word count store.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens the store described by cfg and verifies it is reachable.
// The schema is not created here; see EnsureSchema.
func Open(ctx context.Context, cfg models.StoreConfig) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	dialect := Dialect(cfg.Driver)
	switch dialect {
	case DialectMySQL:
		sqlDB, err = sql.Open("mysql", mysqlDSN(cfg))
	case DialectSQLite:
		sqlDB, err = openSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w: %w", ErrStoreConnect, err)
	}

	if dialect == DialectMySQL {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close() // Close error less important than ping error
		return nil, fmt.Errorf("failed to connect to %s: %w: %w", dialect, ErrStoreConnect, err)
	}

	return &DB{DB: sqlDB, dialect: dialect}, nil
}

// openSQLite opens a SQLite database at the given path.
func openSQLite(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != "" && path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database, and SQLite
	// allows one writer at a time anyway.
	sqlDB.SetMaxOpenConns(1)
	return sqlDB, nil
}

func mysqlDSN(cfg models.StoreConfig) string {
	port := cfg.Port
	if port == 0 {
		port = models.DefaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Dialect returns the SQL flavour of the open store.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// EnsureSchema creates the map and reduce tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaFor(db.dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w: %w", ErrStoreWrite, err)
		}
	}
	return nil
}
