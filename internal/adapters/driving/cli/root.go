// Package cli provides the cobra command-line surface of the pipeline.
// Every stage is a subcommand of rootCmd; the standalone binaries under
// cmd/ each run one of them through Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/adapters/driven/config/file"
	"github.com/custodia-labs/examprep/internal/adapters/driven/output"
	"github.com/custodia-labs/examprep/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/services"
	"github.com/custodia-labs/examprep/internal/logger"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// InterruptedMessage is printed when a run is cancelled by a signal.
const InterruptedMessage = "Process interrupted by user."

// Config keys a persistent flag may override.
const (
	overrideProvider   = "provider"
	overrideDBPath     = "db_path"
	overrideCollection = "collection"
)

var (
	verbose        bool
	configPath     string
	providerFlag   string
	dbPathFlag     string
	collectionFlag string
)

// Dependencies constructs the adapters the commands run against.
// Tests replace them with fakes through SetDependencies.
type Dependencies struct {
	// ConfigStore opens the TOML config at path (empty means the default location).
	ConfigStore func(path string) (driven.ConfigStore, error)

	// Credentials opens the environment plus optional dotenv file.
	Credentials func() (driven.CredentialSource, error)

	// LLM creates a generation client for the given role.
	LLM func(ctx context.Context, settings *domain.AISettings, role ai.Role) (driven.LLMService, error)

	// Embedder creates an embedding client.
	Embedder func(ctx context.Context, settings *domain.AISettings) (driven.EmbeddingService, error)

	// VectorStore opens the vector database under dir.
	VectorStore func(dir string) (driven.VectorStore, error)

	// Prompts opens the prompt store for an optional user directory.
	Prompts func(dir string) driven.PromptStore

	// Topics reads and writes topic files.
	Topics driven.TopicStore

	// Writer persists guides and solutions.
	Writer driven.GuideWriter
}

// DefaultDependencies returns the production adapters.
func DefaultDependencies() Dependencies {
	return Dependencies{
		ConfigStore: func(path string) (driven.ConfigStore, error) {
			return file.NewConfigStore(path)
		},
		Credentials: func() (driven.CredentialSource, error) {
			return file.NewEnvCredentials(file.DotEnvFile)
		},
		LLM:      ai.CreateLLMService,
		Embedder: ai.CreateEmbeddingService,
		VectorStore: func(dir string) (driven.VectorStore, error) {
			return sqlite.NewStore(dir)
		},
		Prompts: func(dir string) driven.PromptStore {
			return file.NewPromptStore(dir)
		},
		Topics: file.NewTopicStore(),
		Writer: output.NewWriter(),
	}
}

var deps = DefaultDependencies()

// SetDependencies replaces the adapters used by the commands.
// It returns a function restoring the previous set.
func SetDependencies(d Dependencies) func() {
	prev := deps
	deps = d
	return func() { deps = prev }
}

var rootCmd = &cobra.Command{
	Use:   "examprep",
	Short: "Exam preparation pipeline",
	Long: `examprep turns past exam summaries and processed lecture material into
a study guide. Topics are extracted and ordered by a generative model, study
material is embedded into a local vector collection, and guide sections or
single answers are generated from the retrieved context.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.examprep/config.toml)")
	flags.StringVar(&providerFlag, "provider", "", "model provider: gemini or ollama")
	flags.StringVar(&dbPathFlag, "db-path", "", "vector database directory (default "+domain.DefaultDBPath+")")
	flags.StringVar(&collectionFlag, "collection", "", "vector collection name (default "+domain.DefaultCollection+")")

	// Accept the underscore spellings (--exam_dir) as well.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if providerFlag != "" && !domain.AIProvider(providerFlag).IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, providerFlag)
	}
	return nil
}

// Execute runs the named subcommand with args and returns the exit code.
// An empty name runs the root command itself.
func Execute(name string, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	if name != "" {
		args = append([]string{name}, args...)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "\n"+InterruptedMessage)
		return ExitInterrupted
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), styleError("Error: "+err.Error()))
		return ExitFailure
	}
	return ExitOK
}

// flagOverrides layers persistent flag values over the config file.
type flagOverrides struct {
	driven.ConfigStore
	values map[string]string
}

func (o flagOverrides) Get(key string) (any, bool) {
	if v, ok := o.values[key]; ok {
		return v, true
	}
	return o.ConfigStore.Get(key)
}

func (o flagOverrides) GetString(key string) string {
	if v, ok := o.values[key]; ok {
		return v
	}
	return o.ConfigStore.GetString(key)
}

func overrides() map[string]string {
	values := make(map[string]string)
	if providerFlag != "" {
		values[overrideProvider] = providerFlag
	}
	if dbPathFlag != "" {
		values[overrideDBPath] = dbPathFlag
	}
	if collectionFlag != "" {
		values[overrideCollection] = collectionFlag
	}
	return values
}

// loadSettings resolves flags over config over defaults and validates
// that the provider can be used.
func loadSettings() (*domain.AppSettings, error) {
	store, err := deps.ConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	creds, err := deps.Credentials()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	svc := services.NewSettingsService(flagOverrides{ConfigStore: store, values: overrides()}, creds)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	settings, err := svc.Get()
	if err != nil {
		return nil, err
	}
	logger.Debug("provider %s, store %s/%s", settings.AI.Provider.Description(), settings.Store.Path, settings.Store.Collection)
	return settings, nil
}

// openCollection opens the configured collection. With create set the
// collection is created when missing and stamped with embeddingModel.
func openCollection(
	ctx context.Context, settings *domain.AppSettings, embeddingModel string, create bool,
) (driven.VectorStore, driven.Collection, error) {
	store, err := deps.VectorStore(settings.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}

	var coll driven.Collection
	if create {
		coll, err = store.GetOrCreateCollection(ctx, settings.Store.Collection, embeddingModel)
	} else {
		coll, err = store.GetCollection(ctx, settings.Store.Collection)
	}
	if err != nil {
		_ = store.Close()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("collection %q not found in %s; run the indexer first: %w",
				settings.Store.Collection, settings.Store.Path, err)
		}
		return nil, nil, fmt.Errorf("open collection %q: %w", settings.Store.Collection, err)
	}

	if m := coll.EmbeddingModel(); !create && m != "" && embeddingModel != "" && m != embeddingModel {
		logger.Warn("collection %q was built with %s, querying with %s", coll.Name(), m, embeddingModel)
	}
	return store, coll, nil
}

// saveTopics writes topics and surfaces a format warning.
func saveTopics(cmd *cobra.Command, path string, topics []domain.Topic) error {
	warning, err := deps.Topics.Save(path, topics)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if warning != "" {
		cmd.PrintErrln(styleWarning("Warning: " + warning))
	}
	return nil
}
