// Package ollamaclient builds Ollama API clients and maps their errors
// onto domain errors.
package ollamaclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// New creates an Ollama API client for baseURL.
// An empty baseURL uses the local default.
func New(baseURL string, timeout time.Duration, httpClient *http.Client) (*api.Client, error) {
	if baseURL == "" {
		baseURL = domain.DefaultOllamaBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama base url %q: %w", domain.ErrInvalidInput, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: ollama base url %q has no scheme or host", domain.ErrInvalidInput, baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return api.NewClient(u, httpClient), nil
}

// WrapError tags an Ollama status error with the matching domain error.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var serr api.StatusError
	if !errors.As(err, &serr) {
		return err
	}

	switch serr.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	default:
		return err
	}
}

// IsRateLimited returns true if the error indicates the server is saturated.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var serr api.StatusError
	return errors.As(err, &serr) && serr.StatusCode == http.StatusTooManyRequests
}
