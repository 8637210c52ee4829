package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "unipass/pkg/domain-errors"
	"unipass/pkg/requestcontext"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Status echoes the record's current state when a transition is
	// rejected, so a gate terminal or dashboard can show it without a
	// second round trip.
	Status string `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	writeErrorStatus(w, r, logger, err, "")
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, currentStatus string) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	body := errorBody{Error: string(code), Status: currentStatus}
	var de *dErrors.Error
	if errors.As(err, &de) && status < http.StatusInternalServerError {
		body.Message = de.Message
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, logger, dErrors.Wrap(dErrors.CodeBadRequest, "malformed request body", err))
		return false
	}
	return true
}
