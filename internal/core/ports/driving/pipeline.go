package driving

import (
	"context"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// TopicExtractor pulls candidate topics out of exam summary files.
type TopicExtractor interface {
	// ExtractDir reads every file under dir matching pattern and returns
	// the deduplicated, sorted topics. Per-file model failures are logged
	// and contribute no topics.
	ExtractDir(ctx context.Context, dir, pattern string) (*domain.ExtractionSummary, error)
}

// TopicStructurer orders topics into a study sequence.
type TopicStructurer interface {
	// Structure asks the synthesis model for a learning order.
	Structure(ctx context.Context, topics []domain.Topic) (*domain.StructuredTopics, error)
}

// Indexer embeds vision-processed markdown into the vector collection.
type Indexer interface {
	// IndexDir indexes every processed file under dir.
	IndexDir(ctx context.Context, dir string) (*domain.IndexSummary, error)
}

// ContextRetriever finds stored chunks relevant to a query.
type ContextRetriever interface {
	// Retrieve returns up to n nearest chunks. A failed query embedding
	// is reported as domain.ErrQueryEmbedding.
	Retrieve(ctx context.Context, query string, n int) (*domain.Retrieval, error)
}

// GuideBuilder produces one study-guide section per topic.
type GuideBuilder interface {
	// Build returns sections in the same order as topics.
	Build(ctx context.Context, topics []domain.Topic) ([]domain.GuideSection, error)
}

// Solver answers a single exam problem from retrieved context.
type Solver interface {
	// Solve retrieves context for query and generates an explanation.
	Solve(ctx context.Context, query string) (*domain.Solution, error)
}
