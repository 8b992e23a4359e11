package googleai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrMissingCredential},
		{"forbidden", http.StatusForbidden, domain.ErrMissingCredential},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"quota", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"bad request", http.StatusBadRequest, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(genai.APIError{Code: tt.code, Message: "boom"})

			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")

			_, ok := asAPIError(err)
			assert.True(t, ok)
		})
	}
}

func TestWrapError_PointerAndWrapped(t *testing.T) {
	err := WrapError(fmt.Errorf("call: %w", &genai.APIError{Code: http.StatusNotFound}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWrapError_PassThrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("network down")
	assert.Equal(t, plain, WrapError(plain))

	server := genai.APIError{Code: http.StatusInternalServerError}
	assert.Equal(t, error(server), WrapError(server))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(genai.APIError{Code: http.StatusTooManyRequests}))
	assert.True(t, IsRateLimited(domain.ErrRateLimited))
	assert.False(t, IsRateLimited(genai.APIError{Code: http.StatusInternalServerError}))
	assert.False(t, IsRateLimited(errors.New("other")))
}

func TestRetryAfter(t *testing.T) {
	withDelay := genai.APIError{Code: 429, Details: []map[string]any{
		{"@type": "type.googleapis.com/google.rpc.QuotaFailure"},
		{"@type": retryInfoType, "retryDelay": "7s"},
	}}

	assert.Equal(t, 7*time.Second, RetryAfter(withDelay))
	assert.Zero(t, RetryAfter(genai.APIError{Code: 429}))
	assert.Zero(t, RetryAfter(genai.APIError{Code: 429, Details: []map[string]any{
		{"@type": retryInfoType, "retryDelay": "soon"},
	}}))
	assert.Zero(t, RetryAfter(errors.New("plain")))
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, "models/gemini-1.5-pro-latest", ModelPath("gemini-1.5-pro-latest"))
	assert.Equal(t, "models/text-embedding-004", ModelPath("models/text-embedding-004"))
	assert.Equal(t, "tunedModels/x", ModelPath("tunedModels/x"))
}

func TestNewClient_RequiresCredential(t *testing.T) {
	_, err := NewClient(t.Context(), Config{})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestNewClient_WithAPIKey(t *testing.T) {
	client, err := NewClient(t.Context(), Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.NotNil(t, client.Models)
}
