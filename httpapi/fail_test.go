package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quaylabs/jobqueue/queue"
)

func TestFailRetried(t *testing.T) {
	nextRunAt := int64(20_000)
	engine := &fakeEngine{
		failFn: func(id, reason string) (*queue.FailResult, error) {
			return &queue.FailResult{Retried: true, Attempts: 1, MaxAttempts: 3, NextRunAt: &nextRunAt}, nil
		},
	}
	a := NewAdapter(engine, nil, fakeClock{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/fail", jsonBody(map[string]any{"id": "job-1", "reason": "timeout"}))
	rec := httptest.NewRecorder()
	a.Fail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp failResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Retried)
	require.EqualValues(t, 20_000, *resp.NextRunAt)
}

func TestFailExhausted(t *testing.T) {
	engine := &fakeEngine{
		failFn: func(id, reason string) (*queue.FailResult, error) {
			return &queue.FailResult{Retried: false, Attempts: 3, MaxAttempts: 3}, nil
		},
	}
	a := NewAdapter(engine, nil, fakeClock{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/fail", jsonBody(map[string]any{"id": "job-1", "reason": "boom"}))
	rec := httptest.NewRecorder()
	a.Fail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp failResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Retried)
	require.Nil(t, resp.NextRunAt)
}
