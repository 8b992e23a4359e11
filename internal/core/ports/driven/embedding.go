package driven

import "context"

// TaskType tags an embedding request with its intended use.
// Document and query embeddings share one output space but are tuned differently.
type TaskType string

// Embedding task types.
const (
	// TaskRetrievalDocument embeds text that will be stored and searched.
	TaskRetrievalDocument TaskType = "RETRIEVAL_DOCUMENT"

	// TaskRetrievalQuery embeds text used to search stored documents.
	TaskRetrievalQuery TaskType = "RETRIEVAL_QUERY"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Gemini (models/text-embedding-004)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)

	// EmbedBatch generates one embedding per text, in request order.
	EmbedBatch(ctx context.Context, texts []string, task TaskType) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
