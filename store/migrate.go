package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/quaylabs/jobqueue/queue"
)

// migration is one versioned, idempotent schema step. Steps are applied in
// order and recorded in schema_migrations so that re-running Migrate on an
// already-current database is a no-op — the explicit alternative to the
// "idempotent ADD COLUMN, catch and ignore" approach (see SPEC_FULL.md §9).
type migration struct {
	id string
	fn func(ctx context.Context, db bun.IDB) error
}

func migrations() []migration {
	return []migration{
		{"001_create_jobs_table", createJobsTable},
		{"003_add_sort_at_column", addSortAtColumn},
		{"002_create_indexes", createIndexes},
		{"004_backfill_sort_at", backfillSortAt},
	}
}

func createMigrationsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id TEXT PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)
	`)
	return err
}

func appliedMigrations(ctx context.Context, db bun.IDB) (map[string]bool, error) {
	var ids []string
	if err := db.NewSelect().Table("schema_migrations").Column("id").Scan(ctx, &ids); err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}

func recordMigration(ctx context.Context, db bun.IDB, id string, nowMS int64) error {
	_, err := db.NewInsert().
		Model(&struct {
			bun.BaseModel `bun:"table:schema_migrations"`
			Id            string `bun:"id,pk"`
			AppliedAt     int64  `bun:"applied_at"`
		}{Id: id, AppliedAt: nowMS}).
		Exec(ctx)
	return err
}

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createIndexes(ctx context.Context, db bun.IDB) error {
	steps := []func() error{
		func() error {
			_, err := db.NewCreateIndex().
				Model((*jobModel)(nil)).
				Index("idx_jobs_status_next_run").
				Column("status", "next_run_at").
				IfNotExists().
				Exec(ctx)
			return err
		},
		func() error {
			_, err := db.NewCreateIndex().
				Model((*jobModel)(nil)).
				Index("idx_jobs_sort_id").
				ColumnExpr("sort_at DESC, id DESC").
				IfNotExists().
				Exec(ctx)
			return err
		},
		func() error {
			_, err := db.NewCreateIndex().
				Model((*jobModel)(nil)).
				Index("idx_jobs_created_id").
				Column("created_at", "id").
				IfNotExists().
				Exec(ctx)
			return err
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// addSortAtColumn tolerates upgrading a database created before sort_at
// existed: it additively ALTERs the table only when the column is
// genuinely missing, checked via PRAGMA table_info rather than by
// attempting the ALTER and swallowing the "duplicate column" error.
func addSortAtColumn(ctx context.Context, db bun.IDB) error {
	has, err := hasColumn(ctx, db, "jobs", "sort_at")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.ExecContext(ctx, `ALTER TABLE jobs ADD COLUMN sort_at INTEGER`)
	return err
}

func hasColumn(ctx context.Context, db bun.IDB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	nameIdx := -1
	for i, c := range cols {
		if c == "name" {
			nameIdx = i
		}
	}
	if nameIdx < 0 {
		return false, errors.New("store: PRAGMA table_info returned no name column")
	}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return false, err
		}
		name, _ := raw[nameIdx].(string)
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// backfillSortAt runs once: every pre-existing row gets sort_at set from
// its updated_at, falling back to created_at, exactly mirroring the rule
// Engine applies going forward (SPEC_FULL.md §3).
func backfillSortAt(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, `
		UPDATE jobs
		SET sort_at = COALESCE(updated_at, created_at)
		WHERE sort_at IS NULL OR sort_at = 0
	`)
	return err
}

// Migrate brings the database schema up to date. It is safe to call on
// every process start: already-applied steps are skipped.
func Migrate(ctx context.Context, db *bun.DB, now queue.Clock) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := createMigrationsTable(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	applied, err := appliedMigrations(ctx, tx)
	if err != nil {
		return errors.Join(err, tx.Rollback())
	}
	for _, m := range migrations() {
		if applied[m.id] {
			continue
		}
		if err := m.fn(ctx, tx); err != nil {
			return errors.Join(fmt.Errorf("store: migration %s: %w", m.id, err), tx.Rollback())
		}
		if err := recordMigration(ctx, tx, m.id, now.NowMS()); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// MustMigrate behaves like Migrate but panics on failure. Intended for
// application bootstrap where a broken schema is unrecoverable.
func MustMigrate(ctx context.Context, db *bun.DB, now queue.Clock) {
	if err := Migrate(ctx, db, now); err != nil {
		panic(err)
	}
}
