package collections

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

// Service owns the in-memory collection set and writes it through to a Store
// on every mutation. Membership and rename/delete operations report
// not-found and duplicate conditions as booleans rather than errors, leaving
// it to the caller whether that is worth telling the user about.
//
// A failed Save is logged and the in-memory state kept; the next successful
// write repairs the divergence.
type Service struct {
	store  Store
	logger logger.Logger
	now    func() time.Time

	mu   sync.RWMutex
	cols []Collection
	subs []chan struct{}
}

// NewService loads the stored collections and returns a ready service.
// Unreadable or corrupt stored content is logged and treated as an empty
// set rather than a fatal error.
func NewService(ctx context.Context, store Store, log logger.Logger) *Service {
	cols, err := store.Load(ctx)
	if err != nil {
		log.Error("failed to load collections, starting empty",
			logger.Error(err))
		cols = nil
	}

	return &Service{
		store:  store,
		logger: log,
		now:    time.Now,
		cols:   cols,
	}
}

// List returns all collections.
func (s *Service) List() []Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Collection, 0, len(s.cols))
	for _, c := range s.cols {
		out = append(out, c.clone())
	}
	return out
}

// Get returns a collection by id.
func (s *Service) Get(id string) (Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cols {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return Collection{}, false
}

// Create adds a new empty collection and returns it. createdAt and updatedAt
// are equal at creation.
func (s *Service) Create(ctx context.Context, name, description string) Collection {
	now := s.now()
	col := Collection{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Movies:      []tmdb.MovieSummary{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.cols = append(s.cols, col)
	s.persistLocked(ctx)
	s.notifyLocked()
	s.mu.Unlock()

	s.logger.Info("collection created",
		logger.String("id", col.ID),
		logger.String("name", col.Name))
	return col.clone()
}

// Rename changes a collection's name. Returns false when the id is unknown.
func (s *Service) Rename(ctx context.Context, id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.cols[i].Name = strings.TrimSpace(name)
	s.cols[i].UpdatedAt = s.now()
	s.persistLocked(ctx)
	s.notifyLocked()
	return true
}

// Delete removes a collection. Returns false when the id is unknown.
func (s *Service) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.cols = append(s.cols[:i], s.cols[i+1:]...)
	s.persistLocked(ctx)
	s.notifyLocked()

	s.logger.Info("collection deleted", logger.String("id", id))
	return true
}

// AddMovie adds a movie to a collection. Returns false when the id is
// unknown or the movie is already present.
func (s *Service) AddMovie(ctx context.Context, id string, movie tmdb.MovieSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	if s.cols[i].contains(movie.ID) {
		return false
	}
	s.cols[i].Movies = append(s.cols[i].Movies, movie)
	s.cols[i].UpdatedAt = s.now()
	s.persistLocked(ctx)
	s.notifyLocked()
	return true
}

// RemoveMovie removes a movie from a collection. Returns false when the id
// is unknown or the movie is not in it.
func (s *Service) RemoveMovie(ctx context.Context, id string, movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	movies := s.cols[i].Movies
	for j, m := range movies {
		if m.ID == movieID {
			s.cols[i].Movies = append(movies[:j], movies[j+1:]...)
			s.cols[i].UpdatedAt = s.now()
			s.persistLocked(ctx)
			s.notifyLocked()
			return true
		}
	}
	return false
}

// IsMovieIn reports whether a movie is in a collection.
func (s *Service) IsMovieIn(id string, movieID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	return i >= 0 && s.cols[i].contains(movieID)
}

// Containing returns all collections that contain a movie.
func (s *Service) Containing(movieID int) []Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Collection
	for _, c := range s.cols {
		if c.contains(movieID) {
			out = append(out, c.clone())
		}
	}
	return out
}

// Count returns the number of collections.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cols)
}

// Subscribe returns a channel signalled after every successful mutation.
// Signals are coalesced for slow readers.
func (s *Service) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Service) indexLocked(id string) int {
	for i, c := range s.cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.cols); err != nil {
		// In-memory state is kept; the divergence heals on the next
		// successful write.
		s.logger.Error("failed to persist collections",
			logger.Int("collections", len(s.cols)),
			logger.Error(err))
	}
}

func (s *Service) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
