package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldcheck/inspectd/internal/domain/session"
)

// errorBody is the explicit error-state contract shared with clients: the
// code distinguishes hard validation failures from the soft CLARIFY signal
// and retryable OFFLINE conditions.
type errorBody struct {
	State   string `json:"state"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{State: "error", Code: code, Message: message})
}

// writeDomainError maps domain sentinels to HTTP statuses and error codes.
// Tenant mismatch and absence share NOT_FOUND so existence never leaks.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClarificationNeeded):
		writeError(w, http.StatusBadRequest, "CLARIFY", "Please describe your inspection goal in more detail.")
	case errors.Is(err, session.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, session.ErrRecordNotAvailable):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Record not available until session is completed")
	case errors.Is(err, session.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the session owner can complete the inspection")
	case errors.Is(err, session.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "OFFLINE", "Service unavailable; retry when connected.")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
