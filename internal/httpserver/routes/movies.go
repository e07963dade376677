package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/httpserver/handlers"
)

func init() { Register(registerMovies) }

func registerMovies(r chi.Router, d deps.Deps) {
	r.Get("/api/movies/{movieID}", handlers.MovieDetail(d))
	r.Post("/api/movies/{movieID}/rating", handlers.RateMovie(d))
	r.Get("/api/movies/{movieID}/collections", handlers.MovieCollections(d))
}
