package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure TopicExtractionService implements the interface.
var _ driving.TopicExtractor = (*TopicExtractionService)(nil)

// TopicExtractionService asks the extraction model for the topics each
// exam summary covers.
type TopicExtractionService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewTopicExtractionService creates a new topic extraction service.
func NewTopicExtractionService(llm driven.LLMService, prompts driven.PromptStore) *TopicExtractionService {
	return &TopicExtractionService{
		llm:     llm,
		prompts: prompts,
	}
}

// ExtractDir processes summary files one at a time.
func (s *TopicExtractionService) ExtractDir(
	ctx context.Context, dir, pattern string,
) (*domain.ExtractionSummary, error) {
	logger.Section("Topic Extraction")

	files, err := FindSummaryFiles(dir, pattern)
	if err != nil {
		return nil, err
	}
	summary := &domain.ExtractionSummary{FilesFound: len(files)}
	if len(files) == 0 {
		return summary, nil
	}

	template, err := s.prompts.Load(driven.PromptExtractTopics)
	if err != nil {
		return nil, fmt.Errorf("load extraction prompt: %w", err)
	}

	topics := domain.NewTopicSet()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("processing exam summary: %s", path)
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("error reading %s: %v", path, err)
			continue
		}
		if strings.TrimSpace(string(content)) == "" {
			logger.Info("skipping empty file %s", path)
			continue
		}

		extracted, err := s.extract(ctx, template, string(content))
		if err != nil {
			logger.Warn("error extracting topics from %s: %v", path, err)
			continue
		}
		summary.FilesProcessed++

		added := topics.Add(extracted...)
		logger.Debug("extracted %d topics from %s (%d new)", len(extracted), path, added)
	}

	summary.Topics = topics.Sorted()
	return summary, nil
}

func (s *TopicExtractionService) extract(ctx context.Context, template, content string) ([]domain.Topic, error) {
	gen, err := s.llm.Generate(ctx, fmt.Sprintf(template, content), driven.GenerateOptions{})
	if err != nil {
		return nil, err
	}
	text, ok := GenerationText(gen)
	if !ok {
		return nil, domain.ErrEmptyReply
	}
	return ParseTopicLines(text), nil
}

// ParseTopicLines splits a reply into one topic per non-blank line.
func ParseTopicLines(reply string) []domain.Topic {
	var topics []domain.Topic
	for _, line := range splitLines(reply) {
		if line = strings.TrimSpace(line); line != "" {
			topics = append(topics, line)
		}
	}
	return topics
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// FindSummaryFiles returns every file under dir whose name matches
// pattern, recursively, in sorted order.
func FindSummaryFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = domain.DefaultExamSummaryPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", domain.ErrInvalidInput, pattern, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: exam directory %q: %v", domain.ErrInvalidInput, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", domain.ErrInvalidInput, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
