package googleai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// asAPIError finds a Gen AI API error in the chain.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

// IsRateLimited returns true if the error indicates rate limiting or quota exhaustion.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	apiErr, ok := asAPIError(err)
	return ok && apiErr.Code == http.StatusTooManyRequests
}

// RetryAfter returns the server's RetryInfo delay, or zero when absent.
func RetryAfter(err error) time.Duration {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0
	}
	for _, detail := range apiErr.Details {
		if t, _ := detail["@type"].(string); t != retryInfoType {
			continue
		}
		raw, _ := detail["retryDelay"].(string)
		d, parseErr := time.ParseDuration(strings.TrimSpace(raw))
		if parseErr != nil || d <= 0 {
			return 0
		}
		return d
	}
	return 0
}

// WrapError tags a Gen AI API error with the matching domain error.
// The original error text is kept for the user.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return err
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrMissingCredential, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	default:
		return err
	}
}
