// Package gatewaysvc assembles the Gateway's HTTP server: routing,
// middleware, and the health endpoint, around the storage-agnostic
// httpapi.Adapter.
package gatewaysvc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/quaylabs/jobqueue/httpapi"
)

// Config holds what Server needs beyond the Adapter itself.
type Config struct {
	Token       string
	Environment string
}

// Server is the Gateway's HTTP server.
type Server struct {
	handler http.Handler
	cfg     Config
	log     *slog.Logger
}

// New builds a Server wiring every spec.md §6 endpoint behind the
// middleware chain, plus an unauthenticated /health.
func New(adapter *httpapi.Adapter, cfg Config, log *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/jobs/enqueue", adapter.Enqueue)
	mux.HandleFunc("/v1/jobs/dequeue", adapter.Dequeue)
	mux.HandleFunc("/v1/jobs/complete", adapter.Complete)
	mux.HandleFunc("/v1/jobs/fail", adapter.Fail)
	mux.HandleFunc("/v1/jobs/get", adapter.Get)
	mux.HandleFunc("/v1/jobs/stats", adapter.Stats)
	mux.HandleFunc("/v1/jobs/list", adapter.List)
	mux.HandleFunc("/v1/jobs/purge", adapter.Purge)

	protected := chain(mux, log, cfg.Token)

	top := http.NewServeMux()
	top.Handle("/v1/", protected)
	top.HandleFunc("/health", healthHandler(cfg, log))

	return &Server{handler: top, cfg: cfg, log: log}
}

// ServeHTTP implements http.Handler so Server can be passed directly to
// http.Server or httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type healthResponse struct {
	Ok        bool   `json:"ok"`
	Service   string `json:"service"`
	Env       string `json:"env"`
	RequestId string `json:"requestId"`
}

// healthHandler is public: no bearer auth, no recovery wrapper beyond what
// the top-level mux already provides, since it must answer even if the
// store is unreachable.
func healthHandler(cfg Config, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{
			Ok:        true,
			Service:   "jobqueue-gateway",
			Env:       cfg.Environment,
			RequestId: id,
		})
	}
}
