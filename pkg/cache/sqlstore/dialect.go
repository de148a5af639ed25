// Package sqlstore implements a cache.Base backed by a SQL database,
// grounded on the teacher's pkg/storage.Dialect abstraction: the same
// placeholder/upsert/DDL seams that let one repository implementation
// speak SQLite, MySQL, or PostgreSQL now back a single cache table
// instead of a workflow-aggregate table.
package sqlstore

import "fmt"

// dialect captures the SQL syntax differences between the three
// supported drivers.
type dialect interface {
	name() string
	// placeholder returns the bind-parameter marker for the i-th
	// (1-indexed) positional argument.
	placeholder(i int) string
	upsertSQL() string
	createTableSQL() string
}

type sqliteDialect struct{}

func (sqliteDialect) name() string             { return "sqlite" }
func (sqliteDialect) placeholder(int) string   { return "?" }
func (sqliteDialect) upsertSQL() string {
	return `INSERT INTO stepflow_cache (cache_key, payload, status, skipped)
VALUES (?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, status = excluded.status, skipped = excluded.skipped`
}
func (sqliteDialect) createTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS stepflow_cache (
	cache_key TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	status    TEXT NOT NULL,
	skipped   INTEGER NOT NULL DEFAULT 0
)`
}

type mysqlDialect struct{}

func (mysqlDialect) name() string           { return "mysql" }
func (mysqlDialect) placeholder(int) string { return "?" }
func (mysqlDialect) upsertSQL() string {
	return `INSERT INTO stepflow_cache (cache_key, payload, status, skipped)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE payload = VALUES(payload), status = VALUES(status), skipped = VALUES(skipped)`
}
func (mysqlDialect) createTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS stepflow_cache (
	cache_key VARCHAR(255) PRIMARY KEY,
	payload   LONGTEXT NOT NULL,
	status    VARCHAR(32) NOT NULL,
	skipped   TINYINT(1) NOT NULL DEFAULT 0
)`
}

type postgresDialect struct{}

func (postgresDialect) name() string             { return "postgres" }
func (postgresDialect) placeholder(i int) string { return fmt.Sprintf("$%d", i) }
func (postgresDialect) upsertSQL() string {
	return `INSERT INTO stepflow_cache (cache_key, payload, status, skipped)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cache_key) DO UPDATE SET payload = excluded.payload, status = excluded.status, skipped = excluded.skipped`
}
func (postgresDialect) createTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS stepflow_cache (
	cache_key TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	status    TEXT NOT NULL,
	skipped   BOOLEAN NOT NULL DEFAULT FALSE
)`
}
