// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	geminiembed "github.com/custodia-labs/examprep/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/examprep/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/custodia-labs/examprep/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/examprep/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Role selects which configured model an LLM service uses.
type Role int

const (
	// RoleExtraction is the cheaper model for mechanical extraction.
	RoleExtraction Role = iota

	// RoleSynthesis is the higher-capability model for reasoning.
	RoleSynthesis
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleExtraction:
		return "extraction"
	case RoleSynthesis:
		return "synthesis"
	default:
		return "unknown"
	}
}

// ModelFor returns the model a role uses under the given settings.
func ModelFor(settings *domain.AISettings, role Role) string {
	if role == RoleExtraction {
		return settings.Models.Extraction
	}
	return settings.Models.Synthesis
}

// CreateLLMService creates the generative model service for a role.
func CreateLLMService(ctx context.Context, settings *domain.AISettings, role Role) (driven.LLMService, error) {
	if err := check(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	model := ModelFor(settings, role)

	switch settings.Provider {
	case domain.AIProviderGemini:
		svc, err := geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:       settings.APIKey,
			BaseURL:      settings.BaseURL,
			Model:        model,
			RateLimitRPS: settings.RateLimitRPS,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	case domain.AIProviderOllama:
		svc, err := ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL:      settings.BaseURL,
			Model:        model,
			RateLimitRPS: settings.RateLimitRPS,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrLLMUnavailable, domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateEmbeddingService creates the embedding service.
func CreateEmbeddingService(ctx context.Context, settings *domain.AISettings) (driven.EmbeddingService, error) {
	if err := check(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:       settings.APIKey,
			BaseURL:      settings.BaseURL,
			Model:        settings.Models.Embedding,
			RateLimitRPS: settings.RateLimitRPS,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case domain.AIProviderOllama:
		svc, err := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:      settings.BaseURL,
			Model:        settings.Models.Embedding,
			RateLimitRPS: settings.RateLimitRPS,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrEmbeddingUnavailable, domain.ErrUnsupportedType, settings.Provider)
	}
}

func check(settings *domain.AISettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return domain.ErrMissingCredential
	}
	return nil
}
