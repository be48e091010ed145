package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
)

// apiResponse is the shape every JSON API endpoint returns. Success responses
// may carry extra data in a wrapper struct that embeds this one.
type apiResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be set before the
// first body write, so the order here is fixed.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the standard
// error body. The service layer deals in apperror sentinels, not status
// codes; this is the single place they meet HTTP.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrRemote):
			status = http.StatusBadGateway
		}
		writeJSON(w, status, apiResponse{Success: false, Error: appErr.Message})
		return
	}

	// Unknown error: keep the detail out of the response, it may contain
	// file paths or API URLs.
	writeJSON(w, http.StatusInternalServerError, apiResponse{
		Success: false,
		Error:   "an internal error occurred",
	})
}
