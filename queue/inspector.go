package queue

import (
	"context"

	"github.com/quaylabs/jobqueue/job"
)

// StatusCount is one row of Stats' status histogram.
type StatusCount struct {
	Status job.Status
	Count  int64
}

// Page is one page of List's keyset-paginated results.
type Page struct {
	Items      []*job.Job
	NextCursor string // empty when there is no further page
}

// Inspector is the read-only view of the queue: lookup, aggregate stats,
// paginated listing, and time-bound purge of terminal jobs (SPEC_FULL.md
// §4.3). Inspector methods never perform state transitions beyond Purge's
// deletion of already-terminal rows, and never affect lease/retry state.
type Inspector interface {
	// Get returns the job identified by id, or (nil, nil) if no such job
	// exists. Lookup miss is not an error.
	Get(ctx context.Context, id string) (*job.Job, error)

	// Stats returns a count per status, ordered by status ascending.
	Stats(ctx context.Context) ([]StatusCount, error)

	// List returns up to limit jobs ordered by (sortAt DESC, id DESC),
	// optionally filtered by status (job.Unknown means no filter; any
	// status value outside the known enum is likewise treated as no
	// filter upstream in httpapi). limit is clamped to [1,200].
	// cursor, if non-empty, is a previously-returned opaque keyset token;
	// an invalid cursor is treated as absent.
	List(ctx context.Context, status job.Status, limit int, cursor string) (*Page, error)

	// Purge deletes terminal (Done/Failed) jobs whose UpdatedAt (or
	// CreatedAt, if never updated) is <= beforeMs, returning the number of
	// rows removed.
	Purge(ctx context.Context, beforeMs int64) (int64, error)
}
