package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// placeholders is the number of %s verbs each template must carry.
var placeholders = map[string]int{
	driven.PromptExtractTopics:   1,
	driven.PromptStructureTopics: 1,
	driven.PromptGuideTopic:      2,
	driven.PromptSolveQuery:      2,
}

// PromptStore serves prompt templates.
// Templates are embedded in the binary. When a prompt directory is
// configured, files there override the embedded defaults.
//
// Directory setup is lazy: nothing is written until the first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a prompt store.
// An empty promptDir serves embedded defaults only and never touches disk.
func NewPromptStore(promptDir string) *PromptStore {
	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}
}

// Load returns the prompt template for the given name.
// A user file that is unreadable or carries the wrong number of %s
// placeholders is reported and the embedded default is used instead.
func (s *PromptStore) Load(name string) (string, error) {
	if _, known := placeholders[name]; !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path, or "" when only embedded
// defaults are served.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) resolve(name string) (string, error) {
	def, err := defaultPrompt(name)
	if err != nil {
		return "", err
	}
	if s.promptDir == "" {
		return def, nil
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Warn("prompt directory unavailable, using built-in prompts: %v", s.initErr)
		return def, nil
	}

	custom, err := s.loadFromFile(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reading prompt %s: %v; using built-in prompt", name, err)
		}
		return def, nil
	}

	if got, want := strings.Count(custom, "%s"), placeholders[name]; got != want {
		logger.Warn("prompt %s has %d %%s placeholders, expected %d; using built-in prompt", name, got, want)
		return def, nil
	}
	return custom, nil
}

func defaultPrompt(name string) (string, error) {
	data, err := embeddedPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("load embedded prompt %q: %w", name, err)
	}
	return string(data), nil
}

// initialise creates the prompt directory and writes default files that
// do not exist yet. Called once via sync.Once.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0o755); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name := range placeholders {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		content, err := defaultPrompt(name)
		if err != nil {
			s.initErr = err
			return
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)) + "\n", nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	content := `# examprep prompts

Templates sent to the generative model. Edit a file to change the prompt;
delete it to restore the built-in version on the next run.

## Files

- ` + "`extract_topics.txt`" + ` - topics from one exam summary (one %s: summary text)
- ` + "`structure_topics.txt`" + ` - study order as a JSON list (one %s: bullet list)
- ` + "`guide_topic.txt`" + ` - study guide section (two %s: topic, context)
- ` + "`solve_query.txt`" + ` - context-only answer (two %s: query, context)

A file with the wrong number of ` + "`%s`" + ` placeholders is ignored.
Write a literal percent sign as ` + "`%%`" + `.
`
	return os.WriteFile(path, []byte(content), 0o644)
}
