package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/search"
)

// Search runs a movie search for the requested page window and remembers
// the result as the last successful search.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("query"))

		page, err := queryInt(q.Get("page"), 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page must be a positive integer")
			return
		}
		pageSize, err := queryInt(q.Get("page_size"), search.DefaultPageSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page_size must be a positive integer")
			return
		}

		res, err := d.Aggregator.Search(r.Context(), query, page, pageSize)
		if err != nil {
			d.Logger.Warn("search failed",
				logger.String("query", query),
				logger.Error(err))
			writeUpstreamError(w, err)
			return
		}

		d.SearchState.Set(*res)
		writeJSON(w, http.StatusOK, res)
	}
}

// LastSearch returns the result of the most recent successful search.
func LastSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.SearchState.Get()
		if res == nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no search has completed yet")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ClearLastSearch forgets the remembered search result.
func ClearLastSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.SearchState.Clear()
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	}
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
