// Package cache implements the pluggable content-addressed result
// store that underpins resume-after-failure: a key->CachedResult map
// with in-memory, filesystem, and SQL-backed implementations.
package cache

import "context"

// CachedResult is the payload persisted for a successful or skipped
// step outcome. Only these two outcomes are ever written (§4.7).
type CachedResult struct {
	SchemaVersion int    `json:"schema_version"`
	Output        any    `json:"output"`
	Status        string `json:"status"`
	Skipped       bool   `json:"skipped"`
}

// CurrentSchemaVersion is bumped whenever the on-disk/on-wire shape of
// CachedResult changes incompatibly; readers reject unknown versions
// rather than guess at a migration (§9 DESIGN NOTES).
const CurrentSchemaVersion = 1

// Base is the store contract every cache backend implements. Keys are
// caller-supplied strings; implementations may normalize them but must
// not collide distinct keys.
type Base interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) (*CachedResult, error)
	Write(ctx context.Context, key string, value CachedResult) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
