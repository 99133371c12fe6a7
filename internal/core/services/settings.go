package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedToken       = "embedding.access_token"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMToken         = "llm.access_token"
	keyLLMMaxTokens     = "llm.max_tokens"
	keyLLMTemperature   = "llm.temperature"
	keyChunkSize        = "index.chunk_size"
	keyBatchSize        = "index.batch_size"
	keyBatchInterval    = "index.batch_interval"
	keyLookbackMonths   = "index.lookback_months"
	keyTopK             = "index.top_k"
	keyCatalogTopK      = "index.catalog_top_k"
	keyDataDir          = "paths.data_dir"
	keyDatabase         = "paths.database"
	keyUploadsDir       = "paths.uploads_dir"
	keySchedulerEnabled = "scheduler.enabled"
	keySchedulerEvery   = "scheduler.interval"
	keySchedulerCatalog = "scheduler.include_catalog"
	keyWatchEnabled     = "watch.enabled"
	keyWatchDelay       = "watch.delay"
)

// DefaultOllamaURL is the base URL used for Ollama when none is set.
const DefaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:    s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:       s.configStore.GetString(keyEmbedModel),
			BaseURL:     s.configStore.GetString(keyEmbedBaseURL),
			APIKey:      s.configStore.GetString(keyEmbedAPIKey),
			AccessToken: s.configStore.GetString(keyEmbedToken),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:       s.configStore.GetString(keyLLMModel),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			AccessToken: s.configStore.GetString(keyLLMToken),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
		},
		Index: domain.IndexSettings{
			ChunkSize:      s.getInt(keyChunkSize, d.Index.ChunkSize),
			BatchSize:      min(s.getInt(keyBatchSize, d.Index.BatchSize), domain.MaxBatchSize),
			BatchInterval:  s.getDuration(keyBatchInterval, d.Index.BatchInterval),
			LookbackMonths: s.getInt(keyLookbackMonths, d.Index.LookbackMonths),
			TopK:           s.getInt(keyTopK, d.Index.TopK),
			CatalogTopK:    s.getInt(keyCatalogTopK, d.Index.CatalogTopK),
		},
		Paths: domain.PathSettings{
			DataDir:    s.configStore.GetString(keyDataDir),
			Database:   s.configStore.GetString(keyDatabase),
			UploadsDir: s.configStore.GetString(keyUploadsDir),
		},
		Scheduler: domain.SchedulerConfig{
			Enabled:        s.getBool(keySchedulerEnabled, d.Scheduler.Enabled),
			Interval:       s.getDuration(keySchedulerEvery, d.Scheduler.Interval),
			IncludeCatalog: s.getBool(keySchedulerCatalog, d.Scheduler.IncludeCatalog),
		},
		Watch: domain.WatchSettings{
			Enabled: s.getBool(keyWatchEnabled, d.Watch.Enabled),
			Delay:   s.getDuration(keyWatchDelay, d.Watch.Delay),
		},
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings. Empty credentials are not written
// so that an unset key does not erase a stored one.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String(), false},
		{keyEmbedModel, settings.Embedding.Model, false},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, false},
		{keyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.APIKey == ""},
		{keyEmbedToken, settings.Embedding.AccessToken, settings.Embedding.AccessToken == ""},
		{keyLLMProvider, settings.LLM.Provider.String(), false},
		{keyLLMModel, settings.LLM.Model, false},
		{keyLLMBaseURL, settings.LLM.BaseURL, false},
		{keyLLMAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{keyLLMToken, settings.LLM.AccessToken, settings.LLM.AccessToken == ""},
		{keyLLMMaxTokens, settings.LLM.MaxTokens, false},
		{keyLLMTemperature, settings.LLM.Temperature, false},
		{keyChunkSize, settings.Index.ChunkSize, false},
		{keyBatchSize, settings.Index.BatchSize, false},
		{keyBatchInterval, settings.Index.BatchInterval.String(), false},
		{keyLookbackMonths, settings.Index.LookbackMonths, false},
		{keyTopK, settings.Index.TopK, false},
		{keyCatalogTopK, settings.Index.CatalogTopK, false},
		{keySchedulerEnabled, settings.Scheduler.Enabled, false},
		{keySchedulerEvery, settings.Scheduler.Interval.String(), false},
		{keySchedulerCatalog, settings.Scheduler.IncludeCatalog, false},
		{keyWatchEnabled, settings.Watch.Enabled, false},
		{keyWatchDelay, settings.Watch.Delay.String(), false},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
// Changing the model invalidates persisted indexes; they are rebuilt on
// the next refresh.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %q does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: provider %q does not support answers", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return DefaultOllamaURL
	}
	return current
}

// Validate checks that settings can build indexes.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: configure an embedding provider with 'loom settings embedding'",
			domain.ErrEmbeddingUnavailable)
	}
	if settings.Index.ChunkSize <= 0 {
		return fmt.Errorf("%w: index.chunk_size must be positive", domain.ErrInvalidInput)
	}
	if settings.Index.TopK <= 0 || settings.Index.CatalogTopK <= 0 {
		return fmt.Errorf("%w: index top_k values must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getFloat accepts TOML floats and integers, and numeric strings from
// environment overrides.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.GetBool(key)
	if !ok {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
