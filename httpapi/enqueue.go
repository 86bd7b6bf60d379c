package httpapi

import (
	"net/http"

	"github.com/quaylabs/jobqueue/job"
)

type enqueueRequest struct {
	Id          string   `json:"id"`
	Type        job.Type `json:"type"`
	Target      string   `json:"target"`
	MaxAttempts int      `json:"maxAttempts"`
}

type enqueueResponse struct {
	Ok       bool     `json:"ok"`
	Accepted bool     `json:"accepted"`
	Job      *jobView `json:"job"`
}

// Enqueue handles POST /v1/jobs/enqueue.
func (a *Adapter) Enqueue(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req enqueueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	now := a.clock.NowMS()
	j, err := a.engine.Enqueue(r.Context(), req.Id, req.Type, req.Target, now, req.MaxAttempts)
	if err != nil {
		status, msg := statusFor(err)
		a.log.Error("enqueue failed", "err", err, "id", req.Id)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusAccepted, enqueueResponse{Ok: true, Accepted: true, Job: toJobView(j)})
}
