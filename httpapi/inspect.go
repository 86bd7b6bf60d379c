package httpapi

import (
	"net/http"
	"strconv"

	"github.com/quaylabs/jobqueue/job"
)

// Get handles GET /v1/jobs/get?id=....
func (a *Adapter) Get(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	j, err := a.inspector.Get(r.Context(), id)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*jobView{"job": toJobView(j)})
}

type statCountView struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Stats handles GET /v1/jobs/stats.
func (a *Adapter) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	counts, err := a.inspector.Stats(r.Context())
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}
	out := make([]statCountView, 0, len(counts))
	for _, c := range counts {
		out = append(out, statCountView{Status: c.Status.String(), Count: c.Count})
	}
	writeJSON(w, http.StatusOK, map[string][]statCountView{"stats": out})
}

type listResponse struct {
	Items      []jobView `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// List handles GET /v1/jobs/list?status=&limit=&cursor=.
func (a *Adapter) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()

	status := job.Unknown
	if raw := q.Get("status"); raw != "" {
		if parsed, err := job.ParseStatus(raw); err == nil {
			status = parsed
		}
	}

	limit := 50
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_payload")
			return
		}
		limit = n
	}

	page, err := a.inspector.List(r.Context(), status, limit, q.Get("cursor"))
	if err != nil {
		httpStatus, msg := statusFor(err)
		writeError(w, httpStatus, msg)
		return
	}

	items := make([]jobView, len(page.Items))
	for i, j := range page.Items {
		items[i] = *toJobView(j)
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, NextCursor: page.NextCursor})
}

type purgeRequest struct {
	BeforeMS *int64 `json:"beforeMs"`
}

type purgeResponse struct {
	Ok         bool            `json:"ok"`
	BeforeMS   int64           `json:"beforeMs"`
	Deleted    int64           `json:"deleted"`
	StatsAfter []statCountView `json:"statsAfter"`
}

// Purge handles POST /v1/jobs/purge. beforeMs is required: unlike Get or
// Complete, there is no sensible default cutoff for "delete everything
// terminal up to now" that wouldn't surprise a caller who forgot the field.
func (a *Adapter) Purge(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req purgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BeforeMS == nil {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	n, err := a.inspector.Purge(r.Context(), *req.BeforeMS)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}

	statsAfter, err := a.inspector.Stats(r.Context())
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}
	out := make([]statCountView, 0, len(statsAfter))
	for _, c := range statsAfter {
		out = append(out, statCountView{Status: c.Status.String(), Count: c.Count})
	}

	writeJSON(w, http.StatusOK, purgeResponse{Ok: true, BeforeMS: *req.BeforeMS, Deleted: n, StatsAfter: out})
}
