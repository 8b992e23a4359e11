package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure SolverService implements the interface.
var _ driving.Solver = (*SolverService)(nil)

// SolverExtractPlaceholder replaces a reply with no extractable text.
const SolverExtractPlaceholder = "Error: Could not extract explanation from the response."

// SolverService answers one exam problem using only retrieved context.
type SolverService struct {
	llm       driven.LLMService
	prompts   driven.PromptStore
	retriever driving.ContextRetriever
	results   int
}

// NewSolverService creates a new solver retrieving results chunks.
func NewSolverService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	retriever driving.ContextRetriever,
	results int,
) *SolverService {
	return &SolverService{
		llm:       llm,
		prompts:   prompts,
		retriever: retriever,
		results:   results,
	}
}

// Solve never fails on model or store errors; they surface as
// placeholder text in the solution.
func (s *SolverService) Solve(ctx context.Context, query string) (*domain.Solution, error) {
	logger.Section("Solve")

	template, err := s.prompts.Load(driven.PromptSolveQuery)
	if err != nil {
		return nil, fmt.Errorf("load solver prompt: %w", err)
	}

	retrieval, err := s.retriever.Retrieve(ctx, query, s.results)
	if err != nil {
		logger.Warn("error embedding query %q: %v", truncate(query, 50), err)
		retrieval = &domain.Retrieval{Query: query}
	}
	formatted := FormatContext(retrieval, SolverContextStyle)

	logger.Info("generating explanation using %s", s.llm.ModelName())
	explanation := s.generate(ctx, fmt.Sprintf(template, query, formatted))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.Solution{
		Query:                query,
		RetrievedContext:     formatted,
		GeneratedExplanation: explanation,
	}, nil
}

func (s *SolverService) generate(ctx context.Context, prompt string) string {
	gen, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: domain.SolveTemperature,
	})
	if err != nil {
		logger.Warn("error during explanation generation: %v", err)
		return fmt.Sprintf("Error generating explanation: %v", err)
	}

	text, ok := GenerationText(gen)
	if !ok {
		if gen != nil && gen.BlockReason != "" {
			return fmt.Sprintf("Error generating explanation: %v: %s", domain.ErrPromptBlocked, gen.BlockReason)
		}
		logger.Warn("could not extract text from reply")
		return SolverExtractPlaceholder
	}
	return text
}
