// Package redis persists the collection set under a single redis key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/moviedex/moviedex/internal/collections"
)

// CollectionsKey holds the entire collection set as one JSON document,
// mirroring the file backend's single-document contract.
const CollectionsKey = "moviedex:collections"

// Store handles redis operations for the collection set.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Load reads the stored collections. A missing key is an empty set.
func (s *Store) Load(ctx context.Context) ([]collections.Collection, error) {
	data, err := s.client.Get(ctx, CollectionsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []collections.Collection{}, nil
		}
		return nil, fmt.Errorf("failed to get collections: %w", err)
	}

	var cols []collections.Collection
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collections: %w", err)
	}
	return cols, nil
}

// Save replaces the stored collections. No TTL: collections live until the
// user deletes them.
func (s *Store) Save(ctx context.Context, cols []collections.Collection) error {
	if cols == nil {
		cols = []collections.Collection{}
	}
	data, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("failed to marshal collections: %w", err)
	}

	if err := s.client.Set(ctx, CollectionsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save collections: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
