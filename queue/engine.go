package queue

import (
	"context"
	"errors"

	"github.com/quaylabs/jobqueue/job"
)

// LeaseMS is the visibility timeout, in milliseconds, assigned to a job by
// Dequeue. A job whose LeaseUntil is still in the future is not eligible
// for re-dequeue; once it passes, the job is reclaimed automatically on
// the next Dequeue sweep.
const LeaseMS int64 = 120_000

// DefaultMaxAttempts is used by Enqueue when the caller does not supply
// MaxAttempts (or supplies a non-positive value).
const DefaultMaxAttempts = 3

// MinMaxAttempts and MaxMaxAttempts bound the clamp range for MaxAttempts.
const (
	MinMaxAttempts = 1
	MaxMaxAttempts = 10
)

var (
	// ErrInvalidPayload is returned by Enqueue when id, type or target fail
	// validation.
	ErrInvalidPayload = errors.New("invalid_payload")

	// ErrConflict is returned by Enqueue when id already exists.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned by Fail when id does not refer to any job.
	// Get returns (nil, nil) instead of an error — a lookup miss is not a
	// failure (spec.md §7).
	ErrNotFound = errors.New("not_found")
)

// DequeueResult is the snapshot Dequeue returns for the job it leased.
type DequeueResult struct {
	Job        *job.Job
	LeaseUntil int64
}

// FailResult reports the outcome of a Fail call: whether the job was
// rescheduled (retried) or moved to Failed.
type FailResult struct {
	Retried     bool
	Attempts    uint32
	MaxAttempts uint32
	NextRunAt   *int64
}

// Engine is the write side of the job queue: the enqueue/lease/retry/
// complete state machine described in SPEC_FULL.md §4.2.
//
// Implementations must perform the select-and-update of Dequeue as a
// single atomic operation so that two concurrent Dequeue calls can never
// lease the same row.
type Engine interface {
	// Enqueue validates and inserts a new Queued job. maxAttempts is
	// clamped to [MinMaxAttempts, MaxMaxAttempts], defaulting to
	// DefaultMaxAttempts when <= 0. Returns ErrInvalidPayload for a
	// malformed id/type/target, ErrConflict if id already exists.
	Enqueue(ctx context.Context, id string, typ job.Type, target string, createdAt int64, maxAttempts int) (*job.Job, error)

	// Dequeue atomically selects and leases the oldest eligible job
	// (createdAt ASC, id ASC), where eligible means Queued with NextRunAt
	// null-or-past, or Processing with an expired LeaseUntil (reclaim).
	// Returns (nil, nil) if no job is eligible. Reclaim does not increment
	// Attempts.
	Dequeue(ctx context.Context) (*DequeueResult, error)

	// Complete marks id Done and stores result. It does not gate on the
	// job's prior state — an unknown id is a no-op, and a job already
	// Done is overwritten — keeping consumer acks crash-safe to retry
	// (spec.md §9).
	Complete(ctx context.Context, id string, result []byte) error

	// Fail records a failure for id. If the job is unknown, ErrNotFound is
	// returned. Otherwise the job is rescheduled with backoff or moved to
	// Failed per the fixed backoff schedule in backoff.go.
	Fail(ctx context.Context, id string, reason string) (*FailResult, error)
}
