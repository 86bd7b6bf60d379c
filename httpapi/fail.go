package httpapi

import "net/http"

type failRequest struct {
	Id     string `json:"id"`
	Reason string `json:"reason"`
}

type failResponse struct {
	Retried     bool   `json:"retried"`
	Attempts    uint32 `json:"attempts"`
	MaxAttempts uint32 `json:"maxAttempts"`
	NextRunAt   *int64 `json:"nextRunAt,omitempty"`
}

// Fail handles POST /v1/jobs/fail.
func (a *Adapter) Fail(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req failRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Id == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	res, err := a.engine.Fail(r.Context(), req.Id, req.Reason)
	if err != nil {
		status, msg := statusFor(err)
		a.log.Error("fail failed", "err", err, "id", req.Id)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, failResponse{
		Retried:     res.Retried,
		Attempts:    res.Attempts,
		MaxAttempts: res.MaxAttempts,
		NextRunAt:   res.NextRunAt,
	})
}
