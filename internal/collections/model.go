// Package collections manages locally-owned named sets of movies.
package collections

import (
	"time"

	"github.com/moviedex/moviedex/internal/tmdb"
)

// Collection is a named set of movies. Movies are unique within a collection
// by identifier.
type Collection struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Movies      []tmdb.MovieSummary `json:"movies"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// clone returns a deep enough copy that callers cannot mutate service state
// through the returned value.
func (c Collection) clone() Collection {
	cp := c
	cp.Movies = make([]tmdb.MovieSummary, len(c.Movies))
	copy(cp.Movies, c.Movies)
	return cp
}

func (c Collection) contains(movieID int) bool {
	for _, m := range c.Movies {
		if m.ID == movieID {
			return true
		}
	}
	return false
}
