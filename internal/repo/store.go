// Package repo contains the persistence adapters for the Trip Planner.
// The core treats storage as an opaque key-value save/load pair for the
// serialized trip document; implementations never interpret the blob.
// Postgres and Redis backends are provided, plus an in-memory store for
// development and tests.
package repo

import "context"

// TripStore persists the serialized trip document as an opaque blob.
type TripStore interface {
	// Save stores doc under key, overwriting any previous value.
	Save(ctx context.Context, key string, doc []byte) error

	// Load returns the document stored under key.
	// Returns domain.ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context, key string) ([]byte, error)
}
