// Package ollama provides an LLM service adapter using Ollama.
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
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultLLMTimeout bounds a single generation request.
const DefaultLLMTimeout = 300 * time.Second

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.1).
	Model string

	// Timeout is the request timeout (default: 300s).
	Timeout time.Duration

	// RateLimitRPS paces requests. Zero disables pacing.
	RateLimitRPS float64

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client  *api.Client
	model   string
	limiter *ratelimit.RateLimiter
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultOllamaGenerateModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout, cfg.HTTPClient)
	if err != nil {
		return nil, err
	}

	return &LLMService{
		client:  client,
		model:   cfg.Model,
		limiter: ratelimit.New(cfg.RateLimitRPS),
	}, nil
}

// Generate produces a non-streamed completion for the prompt.
// Safety thresholds have no Ollama equivalent and are ignored.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.Generation, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: &stream,
	}
	if opts.Temperature > 0 {
		req.Options = map[string]any{"temperature": opts.Temperature}
	}
	if opts.Safety != driven.SafetyDefault {
		logger.Debug("ollama: ignoring safety threshold %s", opts.Safety)
	}

	var resp api.GenerateResponse
	err := s.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		resp.Response += r.Response
		if r.Done {
			resp.DoneReason = r.DoneReason
		}
		return nil
	})
	if err != nil {
		if ollamaclient.IsRateLimited(err) {
			s.limiter.RecordRateLimitError(0)
		}
		return nil, fmt.Errorf("ollama generate: %w", ollamaclient.WrapError(err))
	}

	gen := &driven.Generation{Text: resp.Response}
	if resp.Response != "" {
		gen.Parts = []string{resp.Response}
		gen.Candidates = []driven.Candidate{{Parts: gen.Parts, FinishReason: resp.DoneReason}}
	}
	return gen, nil
}

// ModelName returns the name of the LLM model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
