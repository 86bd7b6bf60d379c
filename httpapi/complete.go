package httpapi

import (
	"encoding/json"
	"net/http"
)

type completeRequest struct {
	Id     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Complete handles POST /v1/jobs/complete.
func (a *Adapter) Complete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req completeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Id == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	if err := a.engine.Complete(r.Context(), req.Id, req.Result); err != nil {
		status, msg := statusFor(err)
		a.log.Error("complete failed", "err", err, "id", req.Id)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "done"})
}
