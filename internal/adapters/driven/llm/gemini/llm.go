// Package gemini provides an LLM service adapter using the Gemini API
// through the Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/examprep/internal/adapters/driven/googleai"
	"github.com/custodia-labs/examprep/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google API key.
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the model name (default: gemini-1.5-flash-latest).
	Model string

	// RateLimitRPS paces requests. Zero disables pacing.
	RateLimitRPS float64

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// LLMService provides text generation using Gemini.
type LLMService struct {
	models  *genai.Models
	model   string
	limiter *ratelimit.RateLimiter
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultExtractionModel
	}

	client, err := googleai.NewClient(ctx, googleai.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	return &LLMService{
		models:  client.Models,
		model:   cfg.Model,
		limiter: ratelimit.New(cfg.RateLimitRPS),
	}, nil
}

// Generate sends a single-turn prompt and returns the reply.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.Generation, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := s.models.GenerateContent(ctx, googleai.ModelPath(s.model), contents, generateConfig(opts))
	if err != nil {
		if googleai.IsRateLimited(err) {
			s.limiter.RecordRateLimitError(googleai.RetryAfter(err))
		}
		return nil, fmt.Errorf("generate content: %w", googleai.WrapError(err))
	}

	return toGeneration(resp), nil
}

// ModelName returns the model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

// generateConfig returns nil when opts ask for nothing beyond the defaults.
func generateConfig(opts driven.GenerateOptions) *genai.GenerateContentConfig {
	if opts.Temperature <= 0 && opts.Safety == driven.SafetyDefault {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		cfg.Temperature = &temp
	}
	cfg.SafetySettings = safetySettings(opts.Safety)
	return cfg
}

func safetySettings(threshold driven.SafetyThreshold) []*genai.SafetySetting {
	if threshold == driven.SafetyDefault {
		return nil
	}
	settings := make([]*genai.SafetySetting, 0, len(driven.HarmCategories))
	for _, category := range driven.HarmCategories {
		settings = append(settings, &genai.SafetySetting{
			Category:  genai.HarmCategory(category),
			Threshold: genai.HarmBlockThreshold(threshold),
		})
	}
	return settings
}

// toGeneration flattens the response. Text is only set when there is
// exactly one candidate, matching the SDK's text accessor.
func toGeneration(resp *genai.GenerateContentResponse) *driven.Generation {
	gen := &driven.Generation{}
	if resp == nil {
		return gen
	}

	if resp.PromptFeedback != nil {
		gen.BlockReason = string(resp.PromptFeedback.BlockReason)
	}

	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		gen.Candidates = append(gen.Candidates, driven.Candidate{
			Parts:        partTexts(c.Content),
			FinishReason: string(c.FinishReason),
		})
	}

	if len(gen.Candidates) == 1 {
		gen.Parts = gen.Candidates[0].Parts
		gen.Text = strings.Join(gen.Parts, "")
	}

	return gen
}

func partTexts(content *genai.Content) []string {
	if content == nil {
		return nil
	}
	texts := make([]string, 0, len(content.Parts))
	for _, p := range content.Parts {
		if p == nil || p.Text == "" {
			continue
		}
		texts = append(texts, p.Text)
	}
	return texts
}
