package job

import "encoding/json"

// Type identifies the behavior a Job represents. The core treats Type as
// opaque beyond validating it against the known enum at enqueue time; only
// the Consumer, outside this package, knows how to execute a given Type.
type Type string

const (
	// Crawl jobs are executed by the Consumer as a plain HTTP GET against
	// Target.
	Crawl Type = "crawl"

	// Rank jobs are accepted and leased like any other job, but have no
	// registered executor in this system (spec open question, resolved as
	// out of scope for execution — see SPEC_FULL.md §9).
	Rank Type = "rank"
)

// ValidType reports whether t is one of the known job types.
func ValidType(t Type) bool {
	return t == Crawl || t == Rank
}

// Job is a single unit of work managed by the queue storage.
//
// All timestamps are epoch-milliseconds, matching the wire format the
// Admission Adapter exposes and the ordering guarantees the Store must
// provide. Job values returned by Engine/Inspector methods are snapshots;
// mutating them does not change queue state — transitions happen only
// through the Engine interface.
type Job struct {
	Id     string
	Type   Type
	Target string

	CreatedAt int64
	UpdatedAt *int64

	Status      Status
	LeaseUntil  *int64
	Attempts    uint32
	MaxAttempts uint32
	NextRunAt   *int64

	Result json.RawMessage
	Error  *string

	// SortAt mirrors UpdatedAt (or CreatedAt if the job was never updated)
	// and exists solely to give List a stable, monotonic ordering key; it
	// carries no other meaning and is never exposed as an independent field
	// a caller can set.
	SortAt int64
}
