// Package gemini provides an embedding service adapter using the Gemini API
// through the Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/custodia-labs/examprep/internal/adapters/driven/googleai"
	"github.com/custodia-labs/examprep/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google API key.
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the embedding model (default: models/text-embedding-004).
	Model string

	// RateLimitRPS paces requests. Zero disables pacing.
	RateLimitRPS float64

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// EmbeddingService generates embeddings using Gemini.
type EmbeddingService struct {
	models  *genai.Models
	model   string
	limiter *ratelimit.RateLimiter
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultEmbeddingModel
	}

	client, err := googleai.NewClient(ctx, googleai.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	return &EmbeddingService{
		models:  client.Models,
		model:   googleai.ModelPath(cfg.Model),
		limiter: ratelimit.New(cfg.RateLimitRPS),
	}, nil
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string, task driven.TaskType) ([]float32, error) {
	vecs, err := s.embed(ctx, "embed content", []string{text}, task)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string, task driven.TaskType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return s.embed(ctx, "batch embed contents", texts, task)
}

// embed sends texts as one request and checks one non-empty vector
// came back per text, in order.
func (s *EmbeddingService) embed(ctx context.Context, op string, texts []string, task driven.TaskType) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		TaskType: string(task),
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("%s: %w: got %d, want %d", op, domain.ErrEmbeddingMismatch, got, len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("%s: %w: empty vector at %d", op, domain.ErrEmbeddingMismatch, i)
		}
		out[i] = e.Values
	}
	return out, nil
}

// ModelName returns the embedding model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) fail(op string, err error) error {
	if googleai.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(googleai.RetryAfter(err))
	}
	return fmt.Errorf("%s: %w", op, googleai.WrapError(err))
}
