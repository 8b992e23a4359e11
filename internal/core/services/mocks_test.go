package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	GenerateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.Generation, error)

	mu      sync.Mutex
	prompts []string
	options []driven.GenerateOptions
	calls   atomic.Int32
}

func (m *mockLLMService) Generate(
	ctx context.Context, prompt string, opts driven.GenerateOptions,
) (*driven.Generation, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return &driven.Generation{Text: "generated"}, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	EmbedFunc      func(ctx context.Context, text string, task driven.TaskType) ([]float32, error)
	EmbedBatchFunc func(ctx context.Context, texts []string, task driven.TaskType) ([][]float32, error)

	batchCalls atomic.Int32
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string, task driven.TaskType) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text, task)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbeddingService) EmbedBatch(
	ctx context.Context, texts []string, task driven.TaskType,
) ([][]float32, error) {
	m.batchCalls.Add(1)
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts, task)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 0, 0}
	}
	return out, nil
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockCollection implements driven.Collection for testing.
type mockCollection struct {
	UpsertFunc func(ctx context.Context, records []domain.VectorRecord) error
	QueryFunc  func(ctx context.Context, embedding []float32, n int) ([]domain.Match, error)

	mu      sync.Mutex
	records []domain.VectorRecord
	batches []int
}

func (m *mockCollection) Name() string {
	return "mock-collection"
}

func (m *mockCollection) EmbeddingModel() string {
	return "mock-embed"
}

func (m *mockCollection) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, records); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	m.batches = append(m.batches, len(records))
	return nil
}

func (m *mockCollection) Query(ctx context.Context, embedding []float32, n int) ([]domain.Match, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, embedding, n)
	}
	return nil, nil
}

func (m *mockCollection) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	templates map[string]string
	loadErr   error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{templates: map[string]string{
		driven.PromptExtractTopics:   "EXTRACT\n%s",
		driven.PromptStructureTopics: "STRUCTURE\n%s",
		driven.PromptGuideTopic:      "GUIDE topic=%s\ncontext=%s",
		driven.PromptSolveQuery:      "SOLVE query=%s\ncontext=%s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	t, ok := m.templates[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
}

func newMockConfigStore(values map[string]any) *mockConfigStore {
	if values == nil {
		values = map[string]any{}
	}
	return &mockConfigStore{values: values}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	i, _ := m.values[key].(int)
	return i
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "mock.toml" }

// mockCredentials implements driven.CredentialSource for testing.
type mockCredentials map[string]string

func (m mockCredentials) Get(key string) string { return m[key] }

// mockRetriever implements driving.ContextRetriever for testing.
type mockRetriever struct {
	RetrieveFunc func(ctx context.Context, query string, n int) (*domain.Retrieval, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string, n int) (*domain.Retrieval, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, n)
	}
	return &domain.Retrieval{Query: query}, nil
}

// promptField returns the value after "key=" on the prompt line starting with it.
func promptField(prompt, key string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, key+"="); ok {
			return rest
		}
		if idx := strings.Index(line, " "+key+"="); idx >= 0 {
			return line[idx+len(key)+2:]
		}
	}
	return ""
}
