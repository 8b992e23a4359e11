package driven

import "github.com/custodia-labs/examprep/internal/core/domain"

// TopicStore reads and writes topic lists.
type TopicStore interface {
	// Load reads a topic list. JSON arrays and {"topics": [...]} objects are
	// accepted; newline-delimited text is accepted for .txt files.
	Load(path string) ([]domain.Topic, error)

	// Save writes a topic list, choosing the format by file extension.
	// Returns a non-empty warning when the extension was not recognised.
	Save(path string, topics []domain.Topic) (warning string, err error)
}
