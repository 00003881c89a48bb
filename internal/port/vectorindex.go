package port

import (
	"context"

	"bookrag/internal/domain"
)

// VectorIndex stores (id, vector, payload) points and serves k-nearest
// neighbour search by cosine similarity. Vectors are computed by the
// caller; the index never talks to the embedding provider itself.
type VectorIndex interface {
	// EnsureCollection creates the backing collection if absent. It is
	// idempotent; calling it again with a different dimension returns a
	// ConfigurationMismatchError.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes points keyed by ID. Re-upserting an ID replaces its
	// vector and payload.
	Upsert(ctx context.Context, items []domain.VectorItem) error

	// Search returns at most k hits ordered by descending similarity.
	Search(ctx context.Context, vector []float32, k int) ([]domain.VectorHit, error)
}
