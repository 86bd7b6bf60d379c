package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
)

// Engine implements queue.Engine using a single-writer SQLite connection
// through bun, shaped after the teacher's sql.Puller/sql.Pusher: Dequeue
// is one UPDATE ... WHERE id IN (subquery) ... RETURNING statement, so
// selection and transition happen atomically without an explicit row
// lock; Complete is a single UPDATE by id, and Fail reads and updates the
// row inside one short transaction.
type Engine struct {
	db    *bun.DB
	clock queue.Clock
}

// NewEngine creates a SQL-backed Engine. db must already be migrated and
// configured for single-writer access (SetMaxOpenConns(1)).
func NewEngine(db *bun.DB, clock queue.Clock) *Engine {
	return &Engine{db: db, clock: clock}
}

// Enqueue inserts a new job in the Queued state.
//
// target must be non-empty and typ must be a known job type, otherwise
// ErrInvalidPayload is returned. A duplicate id yields ErrConflict.
func (e *Engine) Enqueue(ctx context.Context, id string, typ job.Type, target string, createdAt int64, maxAttempts int) (*job.Job, error) {
	if id == "" || target == "" || !job.ValidType(typ) {
		return nil, queue.ErrInvalidPayload
	}
	model := &jobModel{
		Id:          id,
		Type:        typ,
		Target:      target,
		CreatedAt:   createdAt,
		Status:      job.Queued,
		Attempts:    0,
		MaxAttempts: clampMaxAttempts(maxAttempts),
		NextRunAt:   &createdAt,
		SortAt:      createdAt,
	}
	_, err := e.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, queue.ErrConflict
		}
		return nil, err
	}
	return model.toJob(), nil
}

// Dequeue atomically leases the single oldest eligible job: one that is
// Queued with next_run_at due, or Processing with an expired lease (a
// reclaim). Attempts never change here — they advance only inside Fail,
// so a reclaimed lease and a fresh pickup are indistinguishable in the
// attempts counter until the job actually fails.
func (e *Engine) Dequeue(ctx context.Context) (*queue.DequeueResult, error) {
	now := e.clock.NowMS()
	leaseUntil := now + queue.LeaseMS

	subQuery := e.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		WhereGroup("AND", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("status = ? AND (next_run_at IS NULL OR next_run_at <= ?)", job.Queued, now).
				WhereOr("status = ? AND lease_until < ?", job.Processing, now)
		}).
		Order("created_at ASC", "id ASC").
		Limit(1)

	var rows []*jobModel
	err := e.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Processing).
		Set("lease_until = ?", leaseUntil).
		Set("next_run_at = NULL").
		Set("updated_at = ?", now).
		Set("sort_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &queue.DequeueResult{Job: rows[0].toJob(), LeaseUntil: leaseUntil}, nil
}

// Complete marks a job Done regardless of its current state. Unlike the
// teacher's Puller.Complete, this does not gate on the job currently
// being Processing: a late or duplicate completion from a consumer that
// lost and reclaimed its lease must still be accepted, not rejected as a
// conflict, per the delivery semantics this queue promises producers. An
// unknown id is a no-op rather than an error, keeping a retried ack from
// a consumer crash-safe even if the row was since purged.
func (e *Engine) Complete(ctx context.Context, id string, result []byte) error {
	now := e.clock.NowMS()
	_, err := e.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("status = ?", job.Done).
		Set("lease_until = NULL").
		Set("next_run_at = NULL").
		Set("result = ?", result).
		Set("error = NULL").
		Set("updated_at = ?", now).
		Set("sort_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// Fail records a failed attempt. If attempts remain under max_attempts,
// the job is returned to Queued with next_run_at pushed out by the fixed
// backoff schedule; otherwise it moves to the terminal Failed state.
func (e *Engine) Fail(ctx context.Context, id string, reason string) (*queue.FailResult, error) {
	var result *queue.FailResult
	err := e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var current jobModel
		err := tx.NewSelect().
			Model(&current).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return queue.ErrNotFound
			}
			return err
		}

		now := e.clock.NowMS()
		reasonCopy := reason
		nextAttempts := current.Attempts + 1

		if nextAttempts < current.MaxAttempts {
			nextRunAt := now + int64(backoffFor(nextAttempts)/1_000_000) // ms
			_, err = tx.NewUpdate().
				Model((*jobModel)(nil)).
				Set("status = ?", job.Queued).
				Set("attempts = ?", nextAttempts).
				Set("lease_until = NULL").
				Set("next_run_at = ?", nextRunAt).
				Set("error = ?", reasonCopy).
				Set("updated_at = ?", now).
				Set("sort_at = ?", now).
				Where("id = ?", id).
				Exec(ctx)
			if err != nil {
				return err
			}
			result = &queue.FailResult{
				Retried:     true,
				Attempts:    nextAttempts,
				MaxAttempts: current.MaxAttempts,
				NextRunAt:   &nextRunAt,
			}
			return nil
		}

		_, err = tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", job.Failed).
			Set("attempts = ?", nextAttempts).
			Set("lease_until = NULL").
			Set("next_run_at = NULL").
			Set("error = ?", reasonCopy).
			Set("updated_at = ?", now).
			Set("sort_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		result = &queue.FailResult{
			Retried:     false,
			Attempts:    nextAttempts,
			MaxAttempts: current.MaxAttempts,
			NextRunAt:   nil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
