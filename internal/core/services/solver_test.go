package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

func TestSolverService_Solve(t *testing.T) {
	retriever := &mockRetriever{
		RetrieveFunc: func(_ context.Context, query string, n int) (*domain.Retrieval, error) {
			assert.Equal(t, 4, n)
			return &domain.Retrieval{Query: query, Matches: sampleMatches()[:1]}, nil
		},
	}
	llm := &mockLLMService{
		GenerateFunc: func(context.Context, string, driven.GenerateOptions) (*driven.Generation, error) {
			return &driven.Generation{Parts: []string{"Step 1. ", "Step 2."}}, nil
		},
	}

	sol, err := NewSolverService(llm, newMockPromptStore(), retriever, 4).
		Solve(context.Background(), "Find the eigenvalues")

	require.NoError(t, err)
	assert.Equal(t, "Find the eigenvalues", sol.Query)
	assert.Equal(t, "Step 1. Step 2.", sol.GeneratedExplanation)
	assert.Contains(t, sol.RetrievedContext, "Retrieved Context from Study Material:")
	assert.Contains(t, sol.RetrievedContext, "Key Equations (from page 12):")

	require.Len(t, llm.options, 1)
	assert.InDelta(t, 0.7, llm.options[0].Temperature, 1e-9)
	assert.Equal(t, driven.SafetyDefault, llm.options[0].Safety)
	assert.Equal(t, "Find the eigenvalues", promptField(llm.prompts[0], "query"))
}

func TestSolverService_Solve_EmbedFailureUsesSentinel(t *testing.T) {
	retriever := &mockRetriever{
		RetrieveFunc: func(_ context.Context, query string, _ int) (*domain.Retrieval, error) {
			return nil, domain.ErrQueryEmbedding
		},
	}
	llm := &mockLLMService{}

	sol, err := NewSolverService(llm, newMockPromptStore(), retriever, 10).Solve(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "No relevant context found in the knowledge base.", sol.RetrievedContext)
	assert.Equal(t, "generated", sol.GeneratedExplanation)
	assert.Equal(t, int32(1), llm.calls.Load())
}

func TestSolverService_Solve_Placeholders(t *testing.T) {
	tests := []struct {
		name string
		gen  *driven.Generation
		err  error
		want string
	}{
		{"call error", nil, errors.New("quota exceeded"), "Error generating explanation: quota exceeded"},
		{"no text", &driven.Generation{}, nil, SolverExtractPlaceholder},
		{"blocked", &driven.Generation{BlockReason: "OTHER"}, nil, "Error generating explanation: prompt blocked: OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLMService{
				GenerateFunc: func(context.Context, string, driven.GenerateOptions) (*driven.Generation, error) {
					return tt.gen, tt.err
				},
			}
			sol, err := NewSolverService(llm, newMockPromptStore(), &mockRetriever{}, 10).
				Solve(context.Background(), "q")
			require.NoError(t, err)
			assert.Equal(t, tt.want, sol.GeneratedExplanation)
		})
	}
}

func TestSolverService_Solve_MissingPrompt(t *testing.T) {
	prompts := newMockPromptStore()
	delete(prompts.templates, driven.PromptSolveQuery)

	_, err := NewSolverService(&mockLLMService{}, prompts, &mockRetriever{}, 10).Solve(context.Background(), "q")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
