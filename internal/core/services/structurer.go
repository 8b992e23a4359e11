package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure TopicStructuringService implements the interface.
var _ driving.TopicStructurer = (*TopicStructuringService)(nil)

// TopicStructuringService reorders topics into a learning sequence
// using the synthesis model.
type TopicStructuringService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewTopicStructuringService creates a new topic structuring service.
func NewTopicStructuringService(llm driven.LLMService, prompts driven.PromptStore) *TopicStructuringService {
	return &TopicStructuringService{
		llm:     llm,
		prompts: prompts,
	}
}

// Structure sends the topics in a single request and parses the reply
// as a JSON array of strings.
func (s *TopicStructuringService) Structure(
	ctx context.Context, topics []domain.Topic,
) (*domain.StructuredTopics, error) {
	logger.Section("Topic Structuring")

	if len(topics) == 0 {
		return nil, domain.ErrNoTopics
	}

	template, err := s.prompts.Load(driven.PromptStructureTopics)
	if err != nil {
		return nil, fmt.Errorf("load structuring prompt: %w", err)
	}

	logger.Info("sending %d topics to %s for structuring", len(topics), s.llm.ModelName())
	gen, err := s.llm.Generate(ctx, fmt.Sprintf(template, BulletList(topics)), driven.GenerateOptions{
		Safety: driven.SafetyBlockLowAndAbove,
	})
	if err != nil {
		return nil, fmt.Errorf("structure topics: %w", err)
	}

	text, ok := GenerationText(gen)
	if !ok {
		if gen != nil && gen.BlockReason != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrPromptBlocked, gen.BlockReason)
		}
		return nil, domain.ErrEmptyReply
	}

	ordered, tier, err := ParseTopicArray(text)
	if err != nil {
		logger.Debug("raw structuring reply:\n%s", text)
		return nil, err
	}
	logger.Debug("parsed %d topics from %s reply", len(ordered), tier)

	return &domain.StructuredTopics{
		Topics:     ordered,
		InputCount: len(topics),
		Tier:       string(tier),
	}, nil
}

// ParseTopicArray extracts a non-empty JSON array of strings from a reply.
func ParseTopicArray(reply string) ([]domain.Topic, JSONTier, error) {
	ext, ok := ExtractJSON(reply)
	if !ok {
		return nil, "", domain.ErrReplyNotJSON
	}

	var items []json.RawMessage
	if err := json.Unmarshal(ext.Payload, &items); err != nil {
		return nil, ext.Tier, domain.ErrReplyNotJSONArray
	}

	topics := make([]domain.Topic, 0, len(items))
	for i, item := range items {
		var topic string
		if err := json.Unmarshal(item, &topic); err != nil {
			return nil, ext.Tier, fmt.Errorf("%w: element %d is JSON %s, want string",
				domain.ErrReplyNotJSONArray, i, jsonKind(item))
		}
		topics = append(topics, topic)
	}
	if len(topics) == 0 {
		return nil, ext.Tier, fmt.Errorf("%w: model returned an empty list", domain.ErrNoTopics)
	}

	return topics, ext.Tier, nil
}

// jsonKind names the JSON type of a raw value.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty value"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// BulletList renders topics as "- topic" lines.
func BulletList(topics []domain.Topic) string {
	lines := make([]string, len(topics))
	for i, t := range topics {
		lines[i] = "- " + t
	}
	return strings.Join(lines, "\n")
}
