package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stevelan1995/stepflow/pkg/cache"
)

// Store is a cache.Base backed by a SQL table, one row per key. Safe for
// concurrent use by multiple goroutines within one process; safety
// across processes is whatever the underlying database guarantees for
// concurrent upserts to the same row (last-writer-wins, same as the
// FileStore's per-process caveat in §5).
type Store struct {
	db *sqlx.DB
	d  dialect
}

func open(driverName, dsn string, d dialect) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driverName, err)
	}
	if _, err := db.Exec(d.createTableSQL()); err != nil {
		return nil, fmt.Errorf("sqlstore: create table: %w", err)
	}
	return &Store{db: db, d: d}, nil
}

// NewSQLite opens (creating if absent) a SQLite-backed cache at dsn,
// e.g. a file path or "file::memory:?cache=shared".
func NewSQLite(dsn string) (*Store, error) { return open("sqlite3", dsn, sqliteDialect{}) }

// NewMySQL opens a MySQL-backed cache using the given DSN.
func NewMySQL(dsn string) (*Store, error) { return open("mysql", dsn, mysqlDialect{}) }

// NewPostgres opens a PostgreSQL-backed cache using the given DSN.
func NewPostgres(dsn string) (*Store, error) { return open("postgres", dsn, postgresDialect{}) }

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(1) FROM stepflow_cache WHERE cache_key = %s", s.d.placeholder(1))
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(q), key); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Read(ctx context.Context, key string) (*cache.CachedResult, error) {
	var row struct {
		Payload string `db:"payload"`
		Status  string `db:"status"`
		Skipped bool   `db:"skipped"`
	}
	q := fmt.Sprintf("SELECT payload, status, skipped FROM stepflow_cache WHERE cache_key = %s", s.d.placeholder(1))
	err := s.db.GetContext(ctx, &row, s.db.Rebind(q), key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, nil // degrade to a miss rather than fail the run
	}

	var out any
	if err := json.Unmarshal([]byte(row.Payload), &out); err != nil {
		return nil, nil // corrupted payload, treat as a miss
	}

	return &cache.CachedResult{
		SchemaVersion: cache.CurrentSchemaVersion,
		Output:        out,
		Status:        row.Status,
		Skipped:       row.Skipped,
	}, nil
}

func (s *Store) Write(ctx context.Context, key string, value cache.CachedResult) error {
	payload, err := json.Marshal(value.Output)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(s.d.upsertSQL()), key, string(payload), value.Status, value.Skipped)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	q := fmt.Sprintf("DELETE FROM stepflow_cache WHERE cache_key = %s", s.d.placeholder(1))
	_, err := s.db.ExecContext(ctx, s.db.Rebind(q), key)
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM stepflow_cache")
	return err
}
