package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moviedex/moviedex/internal/session"
	"github.com/moviedex/moviedex/internal/tmdb"
)

// apiResponse is the uniform envelope for every /api payload.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	})
}

// writeUpstreamError maps the client error taxonomy onto HTTP statuses.
// Validation failures are the caller's fault; everything else is either the
// upstream's fault (502 family) or a timeout waiting on shared work (504).
func writeUpstreamError(w http.ResponseWriter, err error) {
	var verr *tmdb.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
		return
	}

	if errors.Is(err, session.ErrWaitTimeout) {
		writeError(w, http.StatusGatewayTimeout, "SESSION_TIMEOUT", err.Error())
		return
	}

	var aerr *tmdb.APIError
	if errors.As(err, &aerr) {
		switch aerr.Kind {
		case tmdb.KindNotFound:
			writeError(w, http.StatusNotFound, "NOT_FOUND", aerr.Error())
		case tmdb.KindRateLimited:
			writeError(w, http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED", aerr.Error())
		default:
			writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", aerr.Error())
		}
		return
	}

	var terr *tmdb.TransportError
	if errors.As(err, &terr) {
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", terr.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func parseJSONBody(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
