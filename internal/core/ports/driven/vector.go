package driven

import (
	"context"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// VectorStore is a persistent, disk-backed set of named collections.
type VectorStore interface {
	// GetOrCreateCollection opens a collection, creating it if missing.
	// embeddingModel is recorded on creation for later consistency checks.
	GetOrCreateCollection(ctx context.Context, name, embeddingModel string) (Collection, error)

	// GetCollection opens an existing collection.
	// Returns domain.ErrNotFound if it does not exist.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// Close releases resources.
	Close() error
}

// Collection stores vector records and answers similarity queries.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// EmbeddingModel returns the model recorded when the collection was created.
	EmbeddingModel() string

	// Upsert inserts or replaces records by id.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Query returns up to n records nearest to the embedding,
	// ordered by ascending distance.
	Query(ctx context.Context, embedding []float32, n int) ([]domain.Match, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}
