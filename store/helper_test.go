package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/quaylabs/jobqueue/store"

	_ "modernc.org/sqlite"
)

// fakeClock gives tests full control over NowMS, so lease expiration and
// backoff scheduling can be asserted without sleeping.
type fakeClock struct {
	now int64
}

func (c *fakeClock) NowMS() int64 {
	return c.now
}

func (c *fakeClock) advance(ms int64) {
	c.now += ms
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())

	clock := &fakeClock{now: 1_000_000}
	require.NoError(t, store.Migrate(context.Background(), db, clock))
	return db
}
