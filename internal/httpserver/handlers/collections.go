package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/tmdb"
)

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCollections returns every collection.
func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Collections.List())
	}
}

// CreateCollection creates an empty named collection.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collectionRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be JSON")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "collection name cannot be empty")
			return
		}

		col := d.Collections.Create(r.Context(), req.Name, req.Description)
		writeJSON(w, http.StatusCreated, col)
	}
}

// GetCollection returns one collection by id.
func GetCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		col, ok := d.Collections.Get(chi.URLParam(r, "collectionID"))
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "collection does not exist")
			return
		}
		writeJSON(w, http.StatusOK, col)
	}
}

// RenameCollection changes a collection's name.
func RenameCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collectionRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be JSON")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "collection name cannot be empty")
			return
		}

		id := chi.URLParam(r, "collectionID")
		if !d.Collections.Rename(r.Context(), id, req.Name) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "collection does not exist")
			return
		}
		col, _ := d.Collections.Get(id)
		writeJSON(w, http.StatusOK, col)
	}
}

// DeleteCollection removes a collection entirely.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Collections.Delete(r.Context(), chi.URLParam(r, "collectionID")) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "collection does not exist")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

// AddCollectionMovie adds a movie summary to a collection. Adding a movie
// that is already present is a conflict, not a silent no-op, so clients can
// tell the user.
func AddCollectionMovie(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var movie tmdb.MovieSummary
		if err := parseJSONBody(r, &movie); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be a JSON movie summary")
			return
		}
		if movie.ID < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be a positive integer")
			return
		}

		id := chi.URLParam(r, "collectionID")
		if _, ok := d.Collections.Get(id); !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "collection does not exist")
			return
		}
		if !d.Collections.AddMovie(r.Context(), id, movie) {
			writeError(w, http.StatusConflict, "CONFLICT", "movie is already in this collection")
			return
		}

		col, _ := d.Collections.Get(id)
		writeJSON(w, http.StatusCreated, col)
	}
}

// RemoveCollectionMovie removes a movie from a collection.
func RemoveCollectionMovie(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
		if err != nil || movieID < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be a positive integer")
			return
		}

		id := chi.URLParam(r, "collectionID")
		if !d.Collections.RemoveMovie(r.Context(), id, movieID) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "collection or movie does not exist")
			return
		}
		col, _ := d.Collections.Get(id)
		writeJSON(w, http.StatusOK, col)
	}
}
