package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/httpserver/handlers"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.Get("/api/collections", handlers.ListCollections(d))
	r.Post("/api/collections", handlers.CreateCollection(d))
	r.Get("/api/collections/{collectionID}", handlers.GetCollection(d))
	r.Patch("/api/collections/{collectionID}", handlers.RenameCollection(d))
	r.Delete("/api/collections/{collectionID}", handlers.DeleteCollection(d))
	r.Post("/api/collections/{collectionID}/movies", handlers.AddCollectionMovie(d))
	r.Delete("/api/collections/{collectionID}/movies/{movieID}", handlers.RemoveCollectionMovie(d))
}
