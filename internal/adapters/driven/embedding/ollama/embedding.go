// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/examprep/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultTimeout bounds a single embedding request.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RateLimitRPS paces requests. Zero disables pacing.
	RateLimitRPS float64

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// EmbeddingService generates embeddings using Ollama.
// Ollama has no task types; document and query embeddings are identical.
type EmbeddingService struct {
	client  *api.Client
	model   string
	limiter *ratelimit.RateLimiter
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultOllamaEmbeddingModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout, cfg.HTTPClient)
	if err != nil {
		return nil, err
	}

	return &EmbeddingService{
		client:  client,
		model:   cfg.Model,
		limiter: ratelimit.New(cfg.RateLimitRPS),
	}, nil
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string, task driven.TaskType) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text}, task)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one /api/embed call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string, _ driven.TaskType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.client.Embed(ctx, &api.EmbedRequest{
		Model: s.model,
		Input: texts,
	})
	if err != nil {
		if ollamaclient.IsRateLimited(err) {
			s.limiter.RecordRateLimitError(0)
		}
		return nil, fmt.Errorf("ollama embed: %w", ollamaclient.WrapError(err))
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: %w: got %d, want %d",
			domain.ErrEmbeddingMismatch, len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// ModelName returns the name of the embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
