package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviedex/moviedex/internal/collections"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

type memStore struct {
	cols []collections.Collection
}

func (m *memStore) Load(ctx context.Context) ([]collections.Collection, error) {
	return m.cols, nil
}

func (m *memStore) Save(ctx context.Context, cols []collections.Collection) error {
	m.cols = cols
	return nil
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newService(t *testing.T) *collections.Service {
	t.Helper()
	return collections.NewService(context.Background(), &memStore{}, logger.New("error", false))
}

func TestImportSeedsEmptyService(t *testing.T) {
	path := writeSeed(t, `
collections:
  - name: Classics
    description: Old favourites
    movies:
      - id: 238
        title: The Godfather
        vote_average: 8.7
      - id: 278
        title: The Shawshank Redemption
  - name: Watchlist
`)

	svc := newService(t)
	require.NoError(t, Import(context.Background(), path, svc, logger.New("error", false)))

	cols := svc.List()
	require.Len(t, cols, 2)
	assert.Equal(t, "Classics", cols[0].Name)
	assert.Equal(t, "Old favourites", cols[0].Description)
	require.Len(t, cols[0].Movies, 2)
	assert.Equal(t, 238, cols[0].Movies[0].ID)
	assert.Equal(t, "Watchlist", cols[1].Name)
	assert.Empty(t, cols[1].Movies)
}

func TestImportSkipsNonEmptyService(t *testing.T) {
	path := writeSeed(t, `
collections:
  - name: Classics
`)

	svc := newService(t)
	svc.Create(context.Background(), "Existing", "")

	require.NoError(t, Import(context.Background(), path, svc, logger.New("error", false)))
	assert.Equal(t, 1, svc.Count())
	cols := svc.List()
	assert.Equal(t, "Existing", cols[0].Name)
}

func TestImportSkipsInvalidEntries(t *testing.T) {
	path := writeSeed(t, `
collections:
  - name: ""
  - name: Valid
    movies:
      - id: 0
        title: Broken
      - id: 550
        title: Fight Club
`)

	svc := newService(t)
	require.NoError(t, Import(context.Background(), path, svc, logger.New("error", false)))

	cols := svc.List()
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Movies, 1)
	assert.Equal(t, tmdb.MovieSummary{ID: 550, Title: "Fight Club"}, cols[0].Movies[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSeed(t, "collections: [unterminated")
	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}
