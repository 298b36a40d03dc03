package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/tripfile"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detail carries the raw underlying error for an on-demand detail view;
	// omitted when there is nothing beyond the message.
	Detail string `json:"detail,omitempty"`
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a structured error body.
func respondError(w http.ResponseWriter, status int, code, message, detail string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message, Detail: detail}})
}

// respondRequestError rejects a request before it reaches the service layer
// (e.g. missing or malformed body).
func respondRequestError(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, "bad_request", message, "")
}

// respondUploadError maps an UploadTrip failure to HTTP. Validation failures
// become 422 with the user-facing message plus the raw cause as detail;
// anything else is a 500.
func respondUploadError(w http.ResponseWriter, err error) {
	var verr *tripfile.ValidationError
	if errors.As(err, &verr) {
		detail := ""
		if verr.Cause != nil {
			detail = verr.Cause.Error()
		}
		respondError(w, http.StatusUnprocessableEntity, "validation_error", verr.Message, detail)
		return
	}
	if errors.Is(err, domain.ErrValidation) {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), "")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "failed to import trip", "")
}
