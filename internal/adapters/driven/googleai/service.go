// Package googleai builds Gen AI SDK clients for the Gemini API and maps
// their errors onto domain errors.
package googleai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// Config holds what is needed to reach the API.
type Config struct {
	// APIKey is the API credential. Required.
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// ModelPath returns the resource name for a model, adding the "models/"
// prefix the API expects when it is missing.
func ModelPath(model string) string {
	if strings.HasPrefix(model, "models/") || strings.HasPrefix(model, "tunedModels/") {
		return model
	}
	return "models/" + model
}
