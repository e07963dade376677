// Package seed imports starter collections from a YAML file into an empty
// collections store.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moviedex/moviedex/internal/collections"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

// File is the top-level structure of the seed YAML.
type File struct {
	Collections []Entry `yaml:"collections"`
}

// Entry describes one starter collection.
type Entry struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Movies      []Movie `yaml:"movies,omitempty"`
}

// Movie carries the summary fields a seeded movie needs.
type Movie struct {
	ID          int     `yaml:"id"`
	Title       string  `yaml:"title"`
	Overview    string  `yaml:"overview,omitempty"`
	PosterPath  string  `yaml:"poster_path,omitempty"`
	VoteAverage float64 `yaml:"vote_average,omitempty"`
	ReleaseDate string  `yaml:"release_date,omitempty"`
}

// Loader reads and parses a seed file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the seed file.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return &f, nil
}

// Import loads the seed file into svc. A non-empty service is left alone:
// seeding only fills a fresh install, it never merges.
func Import(ctx context.Context, path string, svc *collections.Service, log logger.Logger) error {
	if svc.Count() > 0 {
		log.Debug("collections already present, skipping seed import",
			logger.String("file", path))
		return nil
	}

	f, err := NewLoader(path).Load()
	if err != nil {
		return err
	}

	imported := 0
	for _, entry := range f.Collections {
		if entry.Name == "" {
			continue
		}
		col := svc.Create(ctx, entry.Name, entry.Description)
		for _, m := range entry.Movies {
			if m.ID < 1 {
				continue
			}
			svc.AddMovie(ctx, col.ID, tmdb.MovieSummary{
				ID:          m.ID,
				Title:       m.Title,
				Overview:    m.Overview,
				PosterPath:  m.PosterPath,
				VoteAverage: m.VoteAverage,
				ReleaseDate: m.ReleaseDate,
			})
		}
		imported++
	}

	log.Info("seed import completed",
		logger.String("file", path),
		logger.Int("collections", imported))
	return nil
}
