package domain

const unknownDescription = "Unknown"

// AIProvider identifies a hosted or local model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// Default model names and pipeline constants.
const (
	DefaultExtractionModel = "gemini-1.5-flash-latest"
	DefaultSynthesisModel  = "gemini-1.5-pro-latest"
	DefaultEmbeddingModel  = "models/text-embedding-004"

	DefaultOllamaBaseURL        = "http://localhost:11434"
	DefaultOllamaGenerateModel  = "llama3.1"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"

	DefaultDBPath     = "chroma_db_vision"
	DefaultCollection = "study_material_vision_v1"

	DefaultResults              = 10
	DefaultEmbedBatchSize       = 100
	DefaultWriteBatchSize       = 100
	DefaultEmbedConcurrency     = 10
	DefaultGenerateConcurrency  = 5
	GuideTemperature            = 0.6
	SolveTemperature            = 0.7
	APIKeyEnv                   = "GOOGLE_API_KEY"
	VisionProcessedSuffix       = "_vision_processed"
	VisionProcessedPattern      = "*" + VisionProcessedSuffix + ".md"
	DefaultExamSummaryPattern   = "*.md"
	DefaultTopicsFile           = "exam_topics.json"
	DefaultStructuredTopicsFile = "exam_topics_structured.json"
	DefaultGuideFile            = "Exam_Guide_Async.md"
	DefaultSolutionDir          = "exam_solutions_rag"
	DefaultMarkdownDir          = "processed_markdown_vision"
)

// ModelSettings names the models used for each task.
type ModelSettings struct {
	// Extraction is the cheaper model used for mechanical extraction.
	Extraction string

	// Synthesis is the higher-capability model used for reasoning.
	Synthesis string

	// Embedding is the embedding model. It must match across index and query.
	Embedding string
}

// AISettings holds provider configuration.
type AISettings struct {
	// Provider is the model provider.
	Provider AIProvider

	// APIKey is the credential (Gemini).
	APIKey string

	// BaseURL is the API endpoint (Ollama, or a Gemini endpoint override).
	BaseURL string

	// Models names the models per task.
	Models ModelSettings

	// RateLimitRPS paces outgoing model requests. Zero disables pacing.
	RateLimitRPS float64
}

// IsConfigured returns true if the provider is set up.
func (a AISettings) IsConfigured() bool {
	if !a.Provider.IsValid() {
		return false
	}
	if a.Provider.RequiresAPIKey() && a.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings locates the vector collection.
type StoreSettings struct {
	// Path is the directory holding the vector database.
	Path string

	// Collection is the collection name.
	Collection string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// AI holds model provider settings.
	AI AISettings

	// Store holds vector store settings.
	Store StoreSettings

	// PromptsDir is an optional directory of user-editable prompt templates.
	PromptsDir string
}

// DefaultAppSettings returns settings with the pipeline defaults.
// The API key is left empty and must come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AI: AISettings{
			Provider: AIProviderGemini,
			Models: ModelSettings{
				Extraction: DefaultExtractionModel,
				Synthesis:  DefaultSynthesisModel,
				Embedding:  DefaultEmbeddingModel,
			},
		},
		Store: StoreSettings{
			Path:       DefaultDBPath,
			Collection: DefaultCollection,
		},
	}
}

// DefaultModelsFor returns the default model names for a provider.
func DefaultModelsFor(p AIProvider) ModelSettings {
	if p == AIProviderOllama {
		return ModelSettings{
			Extraction: DefaultOllamaGenerateModel,
			Synthesis:  DefaultOllamaGenerateModel,
			Embedding:  DefaultOllamaEmbeddingModel,
		}
	}
	return ModelSettings{
		Extraction: DefaultExtractionModel,
		Synthesis:  DefaultSynthesisModel,
		Embedding:  DefaultEmbeddingModel,
	}
}
