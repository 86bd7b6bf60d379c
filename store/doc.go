// Package store provides a bun-based SQLite implementation of the
// queue.Engine and queue.Inspector interfaces.
//
// # Overview
//
// The store backend provides:
//
//   - durable persistence of jobs in a single "jobs" table
//   - atomic state transitions via UPDATE ... RETURNING
//   - lease-based visibility timeout semantics
//   - versioned, idempotent schema migrations (see migrate.go)
//
// # Concurrency Model
//
// All writes go through a single *bun.DB configured for exactly one open
// connection (SetMaxOpenConns(1)). SQLite serializes writers regardless,
// so this makes the serialization explicit instead of relying on SQLITE_BUSY
// retries: Dequeue, Complete and Fail are each one atomic statement (or,
// for Fail, one short transaction) and never interleave with each other.
//
// # Schema
//
// Migrate (or MustMigrate) brings a database up to date and is safe to
// call on every process start. It creates the jobs table, its indexes,
// and additively evolves older schemas (see migrate.go) — schema changes
// are tracked in an explicit schema_migrations table rather than inferred
// from error messages.
//
// # Limitations
//
// Exactly-once processing is not guaranteed: delivery semantics are
// at-least-once, matching the lease/backoff model queue.Engine documents.
package store
