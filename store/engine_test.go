package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
	"github.com/quaylabs/jobqueue/store"
)

func newEngine(t *testing.T) (*store.Engine, *fakeClock) {
	t.Helper()
	db := newTestDB(t)
	clock := &fakeClock{now: 1_000_000}
	return store.NewEngine(db, clock), clock
}

func TestEnqueueThenDequeue(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	created, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 3)
	require.NoError(t, err)
	require.Equal(t, job.Queued, created.Status)

	res, err := engine.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "job-1", res.Job.Id)
	require.Equal(t, job.Processing, res.Job.Status)
	require.EqualValues(t, 0, res.Job.Attempts)
	require.Equal(t, clock.now+queue.LeaseMS, res.LeaseUntil)

	empty, err := engine.Dequeue(ctx)
	require.NoError(t, err)
	require.Nil(t, empty)
}

func TestEnqueueRejectsBadPayload(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Type("bogus"), "https://example.com", clock.now, 3)
	require.ErrorIs(t, err, queue.ErrInvalidPayload)

	_, err = engine.Enqueue(ctx, "job-1", job.Crawl, "", clock.now, 3)
	require.ErrorIs(t, err, queue.ErrInvalidPayload)
}

func TestEnqueueDuplicateIdConflicts(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 3)
	require.NoError(t, err)

	_, err = engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com/other", clock.now, 3)
	require.ErrorIs(t, err, queue.ErrConflict)
}

func TestSingleRetryThenDone(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 3)
	require.NoError(t, err)

	res, err := engine.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)

	fr, err := engine.Fail(ctx, "job-1", "connection refused")
	require.NoError(t, err)
	require.True(t, fr.Retried)
	require.EqualValues(t, 1, fr.Attempts)
	require.NotNil(t, fr.NextRunAt)
	require.Equal(t, clock.now+10_000, *fr.NextRunAt)

	clock.advance(10_000)
	res, err = engine.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.EqualValues(t, 1, res.Job.Attempts)

	require.NoError(t, engine.Complete(ctx, "job-1", []byte(`{"ok":true}`)))
}

func TestExhaustionMovesToFailed(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 2)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := engine.Dequeue(ctx)
		require.NoError(t, err)
		fr, err := engine.Fail(ctx, "job-1", "boom")
		require.NoError(t, err)
		if i == 0 {
			require.True(t, fr.Retried)
			clock.advance(10_000)
		} else {
			require.False(t, fr.Retried)
			require.Nil(t, fr.NextRunAt)
		}
	}
}

func TestReclaimExpiredLeaseWithoutIncrementingAttempts(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 3)
	require.NoError(t, err)

	first, err := engine.Dequeue(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, first.Job.Attempts)

	clock.advance(queue.LeaseMS + 1)

	second, err := engine.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.Equal(t, "job-1", second.Job.Id)
	require.EqualValues(t, 0, second.Job.Attempts)
}

func TestCompleteDoesNotGateOnCurrentState(t *testing.T) {
	ctx := context.Background()
	engine, clock := newEngine(t)

	_, err := engine.Enqueue(ctx, "job-1", job.Crawl, "https://example.com", clock.now, 3)
	require.NoError(t, err)

	require.NoError(t, engine.Complete(ctx, "job-1", []byte(`{}`)))
	require.NoError(t, engine.Complete(ctx, "job-1", []byte(`{}`)))
}

func TestCompleteUnknownIdIsNoop(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	require.NoError(t, engine.Complete(ctx, "missing", []byte(`{}`)))
}

func TestFailUnknownIdIsNotFound(t *testing.T) {
	ctx := context.Background()
	engine, _ := newEngine(t)

	_, err := engine.Fail(ctx, "missing", "boom")
	require.ErrorIs(t, err, queue.ErrNotFound)
}

func TestTerminalStatesClearNextRunAt(t *testing.T) {
	ctx := context.Background()
	engine, inspector, clock := newEngineAndInspector(t)

	_, err := engine.Enqueue(ctx, "job-done", job.Crawl, "https://example.com", clock.now, 1)
	require.NoError(t, err)
	_, err = engine.Dequeue(ctx)
	require.NoError(t, err)
	require.NoError(t, engine.Complete(ctx, "job-done", []byte(`{}`)))

	done, err := inspector.Get(ctx, "job-done")
	require.NoError(t, err)
	require.Nil(t, done.NextRunAt)

	_, err = engine.Enqueue(ctx, "job-failed", job.Crawl, "https://example.com", clock.now, 1)
	require.NoError(t, err)
	_, err = engine.Dequeue(ctx)
	require.NoError(t, err)
	_, err = engine.Fail(ctx, "job-failed", "boom")
	require.NoError(t, err)

	failed, err := inspector.Get(ctx, "job-failed")
	require.NoError(t, err)
	require.Equal(t, job.Failed, failed.Status)
	require.Nil(t, failed.NextRunAt)
}
