package consumer

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestConsumer(t *testing.T, gatewayURL string) *Consumer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	httpClient := &http.Client{Timeout: time.Second}
	return &Consumer{
		gateway: newGatewayClient(gatewayURL, "secret-token", httpClient),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		log:     log,
		cfg:     Config{CrawlTimeout: time.Second},
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestHandleCrawlCompletesOnSuccess(t *testing.T) {
	var completed atomic.Bool
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/jobs/complete" {
			completed.Store(true)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	c := newTestConsumer(t, gw.URL)
	c.handle(t.Context(), &jobView{Id: "job-1", Type: "crawl", Target: target.URL})

	require.True(t, completed.Load())
}

func TestHandleCrawlFailsOnTargetError(t *testing.T) {
	var failed atomic.Bool
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/jobs/fail" {
			failed.Store(true)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer target.Close()

	c := newTestConsumer(t, gw.URL)
	c.handle(t.Context(), &jobView{Id: "job-1", Type: "crawl", Target: target.URL})

	require.True(t, failed.Load())
}

func TestHandleRankAlwaysFails(t *testing.T) {
	var failed atomic.Bool
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/jobs/fail" {
			failed.Store(true)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	c := newTestConsumer(t, gw.URL)
	c.handle(t.Context(), &jobView{Id: "job-1", Type: "rank", Target: "n/a"})

	require.True(t, failed.Load())
}
