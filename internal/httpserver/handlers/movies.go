package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

// MovieDetail fetches the full movie record from the upstream API.
func MovieDetail(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := movieID(w, r)
		if !ok {
			return
		}

		detail, err := d.Client.GetDetail(r.Context(), id)
		if err != nil {
			d.Logger.Warn("movie detail failed",
				logger.Int("movie_id", id),
				logger.Error(err))
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

type rateRequest struct {
	Value float64 `json:"value"`
}

type rateResponse struct {
	MovieID int     `json:"movie_id"`
	Value   float64 `json:"value"`
	Message string  `json:"message,omitempty"`
}

// RateMovie submits a guest rating. The guest session token is acquired
// lazily; an authentication rejection drops the cached token so the next
// attempt starts a fresh session.
func RateMovie(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := movieID(w, r)
		if !ok {
			return
		}

		var req rateRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be JSON with a numeric value field")
			return
		}
		// Reject bad values before touching the session broker so an invalid
		// rating never costs an upstream call.
		if err := tmdb.ValidateRating(req.Value); err != nil {
			writeUpstreamError(w, err)
			return
		}

		token, err := d.Sessions.SessionID(r.Context())
		if err != nil {
			d.Logger.Error("guest session unavailable", logger.Error(err))
			writeUpstreamError(w, err)
			return
		}

		res, err := d.Client.SubmitRating(r.Context(), id, req.Value, token)
		if err != nil {
			var aerr *tmdb.APIError
			if errors.As(err, &aerr) && aerr.Kind == tmdb.KindAuthenticationFailed {
				d.Sessions.Clear()
			}
			d.Logger.Warn("rating submission failed",
				logger.Int("movie_id", id),
				logger.Float64("value", req.Value),
				logger.Error(err))
			writeUpstreamError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, rateResponse{
			MovieID: id,
			Value:   req.Value,
			Message: res.StatusMessage,
		})
	}
}

// MovieCollections lists the collections a movie belongs to.
func MovieCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := movieID(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, d.Collections.Containing(id))
	}
}

func movieID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be a positive integer")
		return 0, false
	}
	return id, true
}
