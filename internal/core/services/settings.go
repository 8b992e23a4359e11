package services

import (
	"fmt"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyProvider        = "provider"
	keyModelExtraction = "models.extraction"
	keyModelSynthesis  = "models.synthesis"
	keyModelEmbedding  = "models.embedding"
	keyOllamaBaseURL   = "ollama.base_url"
	keyGeminiBaseURL   = "gemini.base_url"
	keyRateLimitRPS    = "rate_limit_rps"
	keyPromptsDir      = "prompts_dir"
	keyDBPath          = "db_path"
	keyCollection      = "collection"
)

// SettingsService resolves settings from the config file and credentials.
type SettingsService struct {
	configStore driven.ConfigStore
	credentials driven.CredentialSource
}

// NewSettingsService creates a new settings service.
// The credentials parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, credentials driven.CredentialSource) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		credentials: credentials,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.AI.Provider)
	models := domain.DefaultModelsFor(provider)

	settings := &domain.AppSettings{
		AI: domain.AISettings{
			Provider: provider,
			Models: domain.ModelSettings{
				Extraction: s.getString(keyModelExtraction, models.Extraction),
				Synthesis:  s.getString(keyModelSynthesis, models.Synthesis),
				Embedding:  s.getString(keyModelEmbedding, models.Embedding),
			},
			RateLimitRPS: s.getFloat(keyRateLimitRPS, defaults.AI.RateLimitRPS),
		},
		Store: domain.StoreSettings{
			Path:       s.getString(keyDBPath, defaults.Store.Path),
			Collection: s.getString(keyCollection, defaults.Store.Collection),
		},
		PromptsDir: s.configStore.GetString(keyPromptsDir),
	}

	switch provider {
	case domain.AIProviderOllama:
		settings.AI.BaseURL = s.getString(keyOllamaBaseURL, domain.DefaultOllamaBaseURL)
	default:
		// No default - empty means the public endpoint
		settings.AI.BaseURL = s.configStore.GetString(keyGeminiBaseURL)
	}

	if s.credentials != nil && provider.RequiresAPIKey() {
		settings.AI.APIKey = s.credentials.Get(domain.APIKeyEnv)
	}

	return settings, nil
}

// Validate checks that the configured provider can be used.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.AI.IsConfigured() {
		return fmt.Errorf("%w: %s environment variable not set or .env file missing key",
			domain.ErrMissingCredential, domain.APIKeyEnv)
	}
	if settings.AI.RateLimitRPS < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, keyRateLimitRPS)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
