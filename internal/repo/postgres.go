package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgTripStore is the Postgres implementation of TripStore: a single-table
// upsert keyed by the caller-supplied text key.
type pgTripStore struct {
	db db
}

// NewPostgresTripStore constructs a TripStore backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewPostgresTripStore(db db) TripStore {
	return &pgTripStore{db: db}
}

// Save upserts the document blob under key.
func (s *pgTripStore) Save(ctx context.Context, key string, doc []byte) error {
	const q = `
		INSERT INTO trip_documents (key, doc, updated_at)
		VALUES (@key, @doc, now())
		ON CONFLICT (key) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = now()`

	if _, err := s.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "doc": doc}); err != nil {
		return fmt.Errorf("repo.TripStore.Save: %w", err)
	}
	return nil
}

// Load retrieves the document blob stored under key.
func (s *pgTripStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT doc FROM trip_documents WHERE key = @key`

	var doc []byte
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.TripStore.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.TripStore.Load: %w", err)
	}
	return doc, nil
}
