package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API or a compatible server.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
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
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// EmbeddingTask tells the embedding provider how the text will be used.
type EmbeddingTask string

// Embedding tasks.
const (
	// TaskDocument embeds text that will be stored in an index.
	TaskDocument EmbeddingTask = "document"

	// TaskQuery embeds a search query.
	TaskQuery EmbeddingTask = "query"
)

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key (Gemini, OpenAI).
	APIKey string

	// AccessToken is an OAuth access token used instead of an API key (Gemini).
	AccessToken string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" && e.AccessToken == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// AccessToken is an OAuth access token used instead of an API key (Gemini).
	AccessToken string

	// MaxTokens caps the length of generated answers.
	MaxTokens int

	// Temperature controls answer randomness.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderOllama {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" && l.AccessToken == "" {
		return false
	}
	return true
}

// IndexSettings controls how tenant indexes are built and queried.
type IndexSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// BatchInterval is the minimum spacing between embedding requests.
	BatchInterval time.Duration

	// LookbackMonths bounds the sales window exported for shops.
	LookbackMonths int

	// TopK is the number of matches retrieved for shop questions.
	TopK int

	// CatalogTopK is the number of matches retrieved for catalog questions.
	CatalogTopK int
}

// PathSettings holds on-disk locations.
type PathSettings struct {
	// DataDir holds per-tenant index artifacts.
	DataDir string

	// Database is the SQLite database file.
	Database string

	// UploadsDir is watched for per-shop uploads.
	UploadsDir string
}

// WatchSettings configures the upload watcher.
type WatchSettings struct {
	// Enabled turns the watcher on in serve mode.
	Enabled bool

	// Delay postpones the rebuild after an upload so bursts coalesce.
	Delay time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings
	Paths     PathSettings
	Scheduler SchedulerConfig
	Watch     WatchSettings
}

// Index defaults.
const (
	DefaultChunkSize      = 900
	DefaultBatchSize      = 20
	MaxBatchSize          = 100
	DefaultBatchInterval  = 50 * time.Millisecond
	DefaultLookbackMonths = 12
	DefaultTopK           = 6
	DefaultCatalogTopK    = 5
	DefaultUploadDelay    = 2 * time.Second

	DefaultAnswerMaxTokens   = 1024
	DefaultAnswerTemperature = 0.3
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; paths are filled in by the caller.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Index: IndexSettings{
			ChunkSize:      DefaultChunkSize,
			BatchSize:      DefaultBatchSize,
			BatchInterval:  DefaultBatchInterval,
			LookbackMonths: DefaultLookbackMonths,
			TopK:           DefaultTopK,
			CatalogTopK:    DefaultCatalogTopK,
		},
		LLM: LLMSettings{
			MaxTokens:   DefaultAnswerMaxTokens,
			Temperature: DefaultAnswerTemperature,
		},
		Scheduler: DefaultSchedulerConfig(),
		Watch: WatchSettings{
			Enabled: true,
			Delay:   DefaultUploadDelay,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "models/text-embedding-004",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "models/gemini-2.5-flash",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"models/text-embedding-004": 768,
		"models/embedding-001":      768,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
