package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
)

// fakeEngine and fakeInspector give the handler tests full control over
// queue behavior without a real store.

type fakeEngine struct {
	enqueueFn  func(id string, typ job.Type, target string, createdAt int64, maxAttempts int) (*job.Job, error)
	dequeueFn  func() (*queue.DequeueResult, error)
	completeFn func(id string, result []byte) error
	failFn     func(id, reason string) (*queue.FailResult, error)
}

func (f *fakeEngine) Enqueue(_ context.Context, id string, typ job.Type, target string, createdAt int64, maxAttempts int) (*job.Job, error) {
	return f.enqueueFn(id, typ, target, createdAt, maxAttempts)
}

func (f *fakeEngine) Dequeue(context.Context) (*queue.DequeueResult, error) {
	return f.dequeueFn()
}

func (f *fakeEngine) Complete(_ context.Context, id string, result []byte) error {
	return f.completeFn(id, result)
}

func (f *fakeEngine) Fail(_ context.Context, id string, reason string) (*queue.FailResult, error) {
	return f.failFn(id, reason)
}

type fakeInspector struct {
	getFn   func(id string) (*job.Job, error)
	statsFn func() ([]queue.StatusCount, error)
	listFn  func(status job.Status, limit int, cursor string) (*queue.Page, error)
	purgeFn func(beforeMs int64) (int64, error)
}

func (f *fakeInspector) Get(_ context.Context, id string) (*job.Job, error) {
	return f.getFn(id)
}

func (f *fakeInspector) Stats(context.Context) ([]queue.StatusCount, error) {
	return f.statsFn()
}

func (f *fakeInspector) List(_ context.Context, status job.Status, limit int, cursor string) (*queue.Page, error) {
	return f.listFn(status, limit, cursor)
}

func (f *fakeInspector) Purge(_ context.Context, beforeMs int64) (int64, error) {
	return f.purgeFn(beforeMs)
}

type fakeClock struct{ now int64 }

func (c fakeClock) NowMS() int64 { return c.now }

func jsonBody(v any) io.Reader {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(v)
	return &buf
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
