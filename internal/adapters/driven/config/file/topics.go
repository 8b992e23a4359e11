package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure TopicStore implements the interface.
var _ driven.TopicStore = (*TopicStore)(nil)

// TopicStore reads and writes topic lists on the local filesystem.
type TopicStore struct{}

// NewTopicStore creates a topic store.
func NewTopicStore() *TopicStore {
	return &TopicStore{}
}

// topicsDocument is the object form accepted by Load.
type topicsDocument struct {
	Topics *[]json.RawMessage `json:"topics"`
}

// Load reads a topic list. A .txt file is read one topic per line;
// anything else must be a JSON array of strings or an object with a
// "topics" array.
func (s *TopicStore) Load(path string) ([]domain.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: topics file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read topics %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return parseLines(string(data)), nil
	}

	items, err := topicArray(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, path, err)
	}
	return items, nil
}

// Save writes topics to path, creating parent directories.
// .json gets a two-space indented array, .txt one topic per line. Other
// extensions are written as text and a warning is returned.
func (s *TopicStore) Save(path string, topics []domain.Topic) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	var (
		data    []byte
		warning string
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		encoded, err := encodeTopics(topics)
		if err != nil {
			return "", err
		}
		data = encoded
	case ".txt":
		data = joinLines(topics)
	default:
		warning = fmt.Sprintf("unknown output file extension %q, saving as plain text", ext)
		data = joinLines(topics)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write topics %s: %w", path, err)
	}
	return warning, nil
}

func topicArray(data []byte) ([]domain.Topic, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}

	var raw []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case '{':
		var doc topicsDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
		if doc.Topics == nil {
			return nil, errors.New(`expected a list of topics or an object with a "topics" list`)
		}
		raw = *doc.Topics
	default:
		return nil, errors.New(`expected a list of topics or an object with a "topics" list`)
	}

	topics := make([]domain.Topic, 0, len(raw))
	for i, item := range raw {
		var t string
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("topic %d is not a string", i)
		}
		topics = append(topics, t)
	}
	return topics, nil
}

func encodeTopics(topics []domain.Topic) ([]byte, error) {
	if topics == nil {
		topics = []domain.Topic{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(topics); err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}
	return buf.Bytes(), nil
}

func joinLines(topics []domain.Topic) []byte {
	var b strings.Builder
	for _, t := range topics {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func parseLines(text string) []domain.Topic {
	var topics []domain.Topic
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
