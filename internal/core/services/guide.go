package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/fanout"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure GuideService implements the interface.
var _ driving.GuideBuilder = (*GuideService)(nil)

// Placeholder bodies substituted for sections that could not be generated.
const (
	// GuideFormatPlaceholder replaces a reply with no extractable text.
	GuideFormatPlaceholder = "\n\n*Error: Could not generate explanation for this topic due to response format issues.*\n\n"

	embedFailureFormat = "## %s\n\n*Error: Could not embed this topic query. Skipping.*\n\n"
)

// EmbedFailureSection is the body used when a topic could not be embedded.
func EmbedFailureSection(topic domain.Topic) string {
	return fmt.Sprintf(embedFailureFormat, topic)
}

// GenerationErrorSection is the body used when a generation call failed.
func GenerationErrorSection(err error, blockReason string) string {
	msg := fmt.Sprintf("\n\n*Error generating explanation for this topic: %v*", err)
	if blockReason != "" {
		msg += fmt.Sprintf("\n*Prompt Feedback: block_reason: %s*", blockReason)
	}
	return msg + "\n\n"
}

// GuideService retrieves context for each topic and generates an
// augmented explanation, several topics at a time.
type GuideService struct {
	llm       driven.LLMService
	prompts   driven.PromptStore
	retriever driving.ContextRetriever
	limiter   *fanout.Limiter
	results   int
}

// NewGuideService creates a guide service running at most concurrency
// generation calls at once and retrieving results chunks per topic.
func NewGuideService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	retriever driving.ContextRetriever,
	concurrency int,
	results int,
) *GuideService {
	return &GuideService{
		llm:       llm,
		prompts:   prompts,
		retriever: retriever,
		limiter:   fanout.NewLimiter(concurrency),
		results:   results,
	}
}

// guideJob is a prepared generation request for one topic.
type guideJob struct {
	index  int
	topic  domain.Topic
	prompt string
}

// Build prepares prompts sequentially, then generates concurrently.
// Topics whose query could not be embedded get a placeholder section
// and never occupy a generation slot.
func (s *GuideService) Build(ctx context.Context, topics []domain.Topic) ([]domain.GuideSection, error) {
	logger.Section("Guide Generation")

	if len(topics) == 0 {
		return nil, domain.ErrNoTopics
	}

	template, err := s.prompts.Load(driven.PromptGuideTopic)
	if err != nil {
		return nil, fmt.Errorf("load guide prompt: %w", err)
	}

	sections := make([]domain.GuideSection, len(topics))
	jobs := make([]guideJob, 0, len(topics))

	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("preparing topic %d/%d: %q", i+1, len(topics), truncate(topic, 60))

		retrieval, err := s.retriever.Retrieve(ctx, topic, s.results)
		if err != nil {
			logger.Warn("error embedding topic %q: %v", truncate(topic, 50), err)
			sections[i] = domain.GuideSection{Topic: topic, Body: EmbedFailureSection(topic)}
			continue
		}

		formatted := FormatContext(retrieval, GuideContextStyle)
		jobs = append(jobs, guideJob{
			index:  i,
			topic:  topic,
			prompt: fmt.Sprintf(template, topic, formatted),
		})
	}

	logger.Info("generating %d explanations (concurrency: %d)", len(jobs), s.limiter.Size())
	bodies, err := fanout.Map(ctx, s.limiter, jobs, s.generate)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for k, job := range jobs {
		sections[job.index] = domain.GuideSection{Topic: job.topic, Body: bodies[k]}
	}
	return sections, nil
}

func (s *GuideService) generate(ctx context.Context, job guideJob) string {
	logger.Debug("generating explanation for %q", truncate(job.topic, 60))

	gen, err := s.llm.Generate(ctx, job.prompt, driven.GenerateOptions{
		Temperature: domain.GuideTemperature,
		Safety:      driven.SafetyBlockOnlyHigh,
	})
	if err != nil {
		logger.Warn("error generating explanation for %q: %v", job.topic, err)
		blockReason := ""
		if gen != nil {
			blockReason = gen.BlockReason
		}
		return GenerationErrorSection(err, blockReason)
	}

	text, ok := GenerationText(gen)
	if ok {
		return text
	}
	if gen != nil && gen.BlockReason != "" {
		logger.Warn("prompt blocked for %q: %s", job.topic, gen.BlockReason)
		return GenerationErrorSection(domain.ErrPromptBlocked, gen.BlockReason)
	}
	logger.Warn("could not extract text from reply for %q", job.topic)
	return GuideFormatPlaceholder
}
