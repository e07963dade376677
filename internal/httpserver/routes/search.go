package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/httpserver/handlers"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/api/search", handlers.Search(d))
	r.Get("/api/search/last", handlers.LastSearch(d))
	r.Delete("/api/search/last", handlers.ClearLastSearch(d))
}
