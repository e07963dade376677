package collections

import "context"

// Store persists the entire collection set as one document. There is no
// partial or incremental persistence: every Save rewrites the whole set.
type Store interface {
	// Load returns the stored collections, or an empty slice when nothing
	// has been stored yet.
	Load(ctx context.Context) ([]Collection, error)
	// Save replaces the stored collections.
	Save(ctx context.Context, cols []Collection) error
}
