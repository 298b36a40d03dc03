package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/internal/domain"
)

// redisTripStore is the Redis implementation of TripStore. Documents are
// stored without expiry; the trip blob lives until the next save overwrites it.
type redisTripStore struct {
	client *redis.Client
}

// NewRedisTripStore constructs a TripStore backed by the provided Redis client.
func NewRedisTripStore(client *redis.Client) TripStore {
	return &redisTripStore{client: client}
}

func (s *redisTripStore) Save(ctx context.Context, key string, doc []byte) error {
	if err := s.client.Set(ctx, key, doc, 0).Err(); err != nil {
		return fmt.Errorf("repo.TripStore.Save: %w", err)
	}
	return nil
}

func (s *redisTripStore) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.TripStore.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.TripStore.Load: %w", err)
	}
	return doc, nil
}
