package gemini

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewEmbeddingService(t.Context(), Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "text-embedding-004",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(t.Context(), Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultEmbeddingModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestEmbed(t *testing.T) {
	var body struct {
		Requests []struct {
			TaskType string `json:"taskType"`
		} `json:"requests"`
	}
	var path string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [0.5, -1, 2]}]}`))
	})

	vec, err := svc.Embed(t.Context(), "what is entropy", driven.TaskRetrievalQuery)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/v1beta/models/text-embedding-004:"), path)
	assert.Equal(t, []float32{0.5, -1, 2}, vec)
	require.Len(t, body.Requests, 1)
	assert.Equal(t, "RETRIEVAL_QUERY", body.Requests[0].TaskType)
}

func TestEmbed_EmptyVector(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": [{}]}`))
	})

	_, err := svc.Embed(t.Context(), "q", driven.TaskRetrievalQuery)
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
}

func TestEmbedBatch(t *testing.T) {
	var body struct {
		Requests []struct {
			TaskType string `json:"taskType"`
			Content  struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"requests"`
	}
	var path string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [1]}, {"values": [2]}, {"values": [3]}]}`))
	})

	vecs, err := svc.EmbedBatch(t.Context(), []string{"a", "b", "c"}, driven.TaskRetrievalDocument)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, ":batchEmbedContents"))
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, vecs)
	require.Len(t, body.Requests, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, "RETRIEVAL_DOCUMENT", body.Requests[i].TaskType)
		assert.Equal(t, want, body.Requests[i].Content.Parts[0].Text)
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	vecs, err := svc.EmbedBatch(t.Context(), nil, driven.TaskRetrievalDocument)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [1]}]}`))
	})

	_, err := svc.EmbedBatch(t.Context(), []string{"a", "b"}, driven.TaskRetrievalDocument)
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
}

func TestEmbedBatch_RateLimited(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := svc.EmbedBatch(t.Context(), []string{"a"}, driven.TaskRetrievalDocument)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
