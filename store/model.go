package store

import (
	"github.com/uptrace/bun"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
)

// jobModel is the bun mapping of the jobs table. All timestamps are stored
// as epoch-milliseconds (int64), matching the wire types spec.md §3
// assigns them, rather than bun's usual time.Time columns.
type jobModel struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	Id     string   `bun:"id,pk"`
	Type   job.Type `bun:"type,notnull"`
	Target string   `bun:"target,notnull"`

	CreatedAt int64  `bun:"created_at,notnull"`
	UpdatedAt *int64 `bun:"updated_at"`

	Status      job.Status `bun:"status,notnull"`
	LeaseUntil  *int64     `bun:"lease_until"`
	Attempts    uint32     `bun:"attempts,notnull,default:0"`
	MaxAttempts uint32     `bun:"max_attempts,notnull"`
	NextRunAt   *int64     `bun:"next_run_at"`

	Result []byte  `bun:"result,type:blob"`
	Error  *string `bun:"error"`

	SortAt int64 `bun:"sort_at,notnull"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:          jm.Id,
		Type:        jm.Type,
		Target:      jm.Target,
		CreatedAt:   jm.CreatedAt,
		UpdatedAt:   jm.UpdatedAt,
		Status:      jm.Status,
		LeaseUntil:  jm.LeaseUntil,
		Attempts:    jm.Attempts,
		MaxAttempts: jm.MaxAttempts,
		NextRunAt:   jm.NextRunAt,
		Result:      jm.Result,
		Error:       jm.Error,
		SortAt:      jm.SortAt,
	}
}

func clampMaxAttempts(maxAttempts int) uint32 {
	if maxAttempts <= 0 {
		return queue.DefaultMaxAttempts
	}
	if maxAttempts < queue.MinMaxAttempts {
		return queue.MinMaxAttempts
	}
	if maxAttempts > queue.MaxMaxAttempts {
		return queue.MaxMaxAttempts
	}
	return uint32(maxAttempts)
}
