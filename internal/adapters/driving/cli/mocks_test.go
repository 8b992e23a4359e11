package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/adapters/driven/config/file"
	"github.com/custodia-labs/examprep/internal/adapters/driven/output"
	"github.com/custodia-labs/examprep/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	GenerateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (*driven.Generation, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockLLMService) Generate(
	ctx context.Context, prompt string, opts driven.GenerateOptions,
) (*driven.Generation, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return &driven.Generation{Text: "generated"}, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) Close() error      { return nil }

// mockEmbeddingService returns a small deterministic vector per text.
type mockEmbeddingService struct {
	err error
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	return []float32{float32(len(text)), float32(strings.Count(text, " ")), 1}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string, _ driven.TaskType) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string, _ driven.TaskType) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Close() error      { return nil }

// mockCredentials implements driven.CredentialSource for testing.
type mockCredentials map[string]string

func (m mockCredentials) Get(key string) string { return m[key] }

// testEnv is a temp-dir workspace wired to fake model services and the
// real file, sqlite, and output adapters.
type testEnv struct {
	dir      string
	llm      *mockLLMService
	embedder *mockEmbeddingService
	creds    mockCredentials
	roles    []ai.Role
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

// setupTestServices installs fake dependencies and returns the test
// environment. Flags and dependencies are restored on cleanup.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	resetFlags(t)

	env := &testEnv{
		dir:      t.TempDir(),
		llm:      &mockLLMService{},
		embedder: &mockEmbeddingService{},
		creds:    mockCredentials{domain.APIKeyEnv: "test-key"},
	}

	restore := SetDependencies(Dependencies{
		ConfigStore: func(_ string) (driven.ConfigStore, error) {
			return file.NewConfigStore(env.path("config.toml"))
		},
		Credentials: func() (driven.CredentialSource, error) {
			return env.creds, nil
		},
		LLM: func(_ context.Context, settings *domain.AISettings, role ai.Role) (driven.LLMService, error) {
			if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
				return nil, domain.ErrMissingCredential
			}
			env.roles = append(env.roles, role)
			return env.llm, nil
		},
		Embedder: func(_ context.Context, _ *domain.AISettings) (driven.EmbeddingService, error) {
			return env.embedder, nil
		},
		VectorStore: func(dir string) (driven.VectorStore, error) {
			return sqlite.NewStore(dir)
		},
		Prompts: func(dir string) driven.PromptStore {
			return file.NewPromptStore(dir)
		},
		Topics: file.NewTopicStore(),
		Writer: output.NewWriter(),
	})
	t.Cleanup(restore)

	// Relative default paths must land in the temp dir.
	dbPathFlag = env.path("db")
	return env
}

// resetFlags returns every flag to its default so runs do not leak
// values into each other.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
	t.Cleanup(func() {
		reset(rootCmd.PersistentFlags())
		for _, c := range rootCmd.Commands() {
			reset(c.Flags())
		}
	})
}

// run executes rootCmd with args and returns stdout, stderr, and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// findCommand returns the registered subcommand with the given name.
func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

var errBoom = errors.New("boom")
