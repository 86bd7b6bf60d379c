package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
)

// Inspector implements queue.Inspector using the same bun-backed jobs
// table as Engine. It never performs a state transition: every method is
// read-only except Purge, which only deletes terminal rows.
type Inspector struct {
	db *bun.DB
}

// NewInspector creates a SQL-backed Inspector.
func NewInspector(db *bun.DB) *Inspector {
	return &Inspector{db: db}
}

// Get retrieves a job by id. A missing id returns (nil, nil): a lookup
// miss is not an error.
func (i *Inspector) Get(ctx context.Context, id string) (*job.Job, error) {
	var m jobModel
	err := i.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m.toJob(), nil
}

// Stats returns the count of jobs in each status that has at least one
// row, ordered by status ascending. Statuses with zero jobs are omitted
// rather than reported as zero.
func (i *Inspector) Stats(ctx context.Context) ([]queue.StatusCount, error) {
	var rows []struct {
		Status job.Status `bun:"status"`
		Count  int64      `bun:"count"`
	}
	err := i.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("status").
		ColumnExpr("count(*) AS count").
		Group("status").
		OrderExpr("status ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]queue.StatusCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, queue.StatusCount{Status: r.Status, Count: r.Count})
	}
	return out, nil
}

// List returns up to limit jobs in descending (sort_at, id) order,
// optionally filtered by status. cursor, if non-empty, resumes after the
// last item of a previous page; an invalid or stale cursor is treated as
// no cursor at all rather than an error, matching how the Gateway
// forwards whatever a client sends back verbatim.
func (i *Inspector) List(ctx context.Context, status job.Status, limit int, cur string) (*queue.Page, error) {
	switch {
	case limit < 1:
		limit = 1
	case limit > 200:
		limit = 200
	}

	query := i.db.NewSelect().
		Model((*jobModel)(nil)).
		OrderExpr("sort_at DESC, id DESC").
		Limit(limit + 1)

	if status != job.Unknown {
		query = query.Where("status = ?", status)
	}
	if c, ok := decodeCursor(cur); ok {
		query = query.Where("(sort_at < ?) OR (sort_at = ? AND id < ?)", c.SortAt, c.SortAt, c.Id)
	}

	var rows []*jobModel
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]*job.Job, len(rows))
	for idx, r := range rows {
		items[idx] = r.toJob()
	}

	page := &queue.Page{Items: items}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = encodeCursor(cursor{SortAt: last.SortAt, Id: last.Id})
	}
	return page, nil
}

// Purge deletes terminal (Done or Failed) jobs whose updated_at (or
// created_at, if never updated) is at or before beforeMs, returning the
// number of rows removed. Non-terminal
// jobs are never eligible, so Purge cannot race a job currently leased
// out to a consumer.
func (i *Inspector) Purge(ctx context.Context, beforeMs int64) (int64, error) {
	res, err := i.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("status IN (?, ?)", job.Done, job.Failed).
		Where("COALESCE(updated_at, created_at) <= ?", beforeMs).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
