package httpapi

import "net/http"

type dequeueResponse struct {
	Job        *jobView `json:"job,omitempty"`
	LeaseUntil *int64   `json:"leaseUntil,omitempty"`
}

// Dequeue handles POST /v1/jobs/dequeue. An empty queue is not an error:
// it responds 200 with an empty JSON object (no job field) so the Consumer
// can treat "nothing to do" and "fetched a job" uniformly.
func (a *Adapter) Dequeue(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	res, err := a.engine.Dequeue(r.Context())
	if err != nil {
		status, msg := statusFor(err)
		a.log.Error("dequeue failed", "err", err)
		writeError(w, status, msg)
		return
	}
	if res == nil {
		writeJSON(w, http.StatusOK, dequeueResponse{})
		return
	}
	leaseUntil := res.LeaseUntil
	writeJSON(w, http.StatusOK, dequeueResponse{Job: toJobView(res.Job), LeaseUntil: &leaseUntil})
}
