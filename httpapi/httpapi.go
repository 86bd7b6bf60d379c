// Package httpapi adapts the queue.Engine and queue.Inspector interfaces
// to the Gateway's wire protocol: one handler per endpoint, each doing
// nothing but decode, call, encode. Authentication, logging and recovery
// live one layer up in gatewaysvc; this package sets no response header
// beyond Content-Type and, on a 405, Allow.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quaylabs/jobqueue/job"
	"github.com/quaylabs/jobqueue/queue"
)

// Adapter wires the Gateway's HTTP endpoints to a queue.Engine and
// queue.Inspector pair.
type Adapter struct {
	engine    queue.Engine
	inspector queue.Inspector
	clock     queue.Clock
	log       *slog.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(engine queue.Engine, inspector queue.Inspector, clock queue.Clock, log *slog.Logger) *Adapter {
	return &Adapter{engine: engine, inspector: inspector, clock: clock, log: log}
}

// errorResponse is the standard error body returned by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a queue sentinel error to the HTTP status code spec.md
// §7 assigns it. Any other error is a 500 — the adapter never leaks
// internal error text for those.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, queue.ErrInvalidPayload):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, queue.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, queue.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, queue.ErrInvalidPayload.Error())
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, queue.ErrInvalidPayload.Error())
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	return false
}

// jobView is the wire representation of a job.Job.
type jobView struct {
	Id          string          `json:"id"`
	Type        job.Type        `json:"type"`
	Target      string          `json:"target"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   *int64          `json:"updatedAt,omitempty"`
	Status      string          `json:"status"`
	LeaseUntil  *int64          `json:"leaseUntil,omitempty"`
	Attempts    uint32          `json:"attempts"`
	MaxAttempts uint32          `json:"maxAttempts"`
	NextRunAt   *int64          `json:"nextRunAt,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
}

func toJobView(j *job.Job) *jobView {
	if j == nil {
		return nil
	}
	return &jobView{
		Id:          j.Id,
		Type:        j.Type,
		Target:      j.Target,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		Status:      j.Status.String(),
		LeaseUntil:  j.LeaseUntil,
		Attempts:    j.Attempts,
		MaxAttempts: j.MaxAttempts,
		NextRunAt:   j.NextRunAt,
		Result:      j.Result,
		Error:       j.Error,
	}
}
