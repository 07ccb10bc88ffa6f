package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tvx/internal/shared"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response","status":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Status: status})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrShowNotFound), errors.Is(err, shared.ErrNotCached):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
