package consumer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDequeueSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(dequeueResponse{Job: &jobView{Id: "job-1", Type: "crawl", Target: "https://example.com"}})
	}))
	defer srv.Close()

	client := newGatewayClient(srv.URL, "secret-token", srv.Client())
	j, err := client.dequeue(t.Context())

	require.NoError(t, err)
	require.Equal(t, "Bearer secret-token", gotAuth)
	require.Equal(t, "job-1", j.Id)
}

func TestDequeueEmptyQueue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dequeueResponse{})
	}))
	defer srv.Close()

	client := newGatewayClient(srv.URL, "secret-token", srv.Client())
	j, err := client.dequeue(t.Context())

	require.NoError(t, err)
	require.Nil(t, j)
}

func TestCompleteAndFailPostCorrectPaths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newGatewayClient(srv.URL, "secret-token", srv.Client())

	require.NoError(t, client.complete(t.Context(), "job-1", nil))
	require.Equal(t, "/v1/jobs/complete", gotPath)

	require.NoError(t, client.fail(t.Context(), "job-1", "boom"))
	require.Equal(t, "/v1/jobs/fail", gotPath)
}

func TestPostErrorStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newGatewayClient(srv.URL, "secret-token", srv.Client())
	err := client.complete(t.Context(), "job-1", nil)
	require.Error(t, err)
}
