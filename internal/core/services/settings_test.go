package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/storage/memory"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

type mockAIValidator struct {
	embedErr error
	llmErr   error
	embedded *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.embedded = cfg
	return m.embedErr
}

func (m *mockAIValidator) ValidateLLM(*domain.LLMSettings) error {
	return m.llmErr
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Index, settings.Index)
	assert.Equal(t, defaults.Scheduler, settings.Scheduler)
	assert.Equal(t, defaults.Watch, settings.Watch)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("index.chunk_size", 400)
	_ = store.Set("index.batch_interval", "200ms")
	_ = store.Set("scheduler.enabled", false)
	_ = store.Set("watch.delay", "5s")
	_ = store.Set("paths.database", "/srv/loom.db")
	_ = store.Set("llm.max_tokens", 300)
	_ = store.Set("llm.temperature", "0.1")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, 400, settings.Index.ChunkSize)
	assert.Equal(t, 200*time.Millisecond, settings.Index.BatchInterval)
	assert.False(t, settings.Scheduler.Enabled)
	assert.Equal(t, 5*time.Second, settings.Watch.Delay)
	assert.Equal(t, "/srv/loom.db", settings.Paths.Database)
	assert.Equal(t, 300, settings.LLM.MaxTokens)
	assert.InDelta(t, 0.1, settings.LLM.Temperature, 1e-9)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "anthropic")
	_ = store.Set("index.top_k", -1)
	_ = store.Set("scheduler.interval", "often")
	_ = store.Set("index.batch_size", 5000)
	_ = store.Set("llm.temperature", "warm")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Empty(t, settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultTopK, settings.Index.TopK)
	assert.Equal(t, 6*time.Hour, settings.Scheduler.Interval)
	assert.Equal(t, domain.MaxBatchSize, settings.Index.BatchSize)
	assert.InDelta(t, domain.DefaultAnswerTemperature, settings.LLM.Temperature, 1e-9)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderGemini, Model: "models/gemini-2.5-pro", APIKey: "g-key",
		MaxTokens: 512, Temperature: 0.7,
	}
	settings.Index.CatalogTopK = 8
	settings.Watch.Enabled = false

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.LLM, got.LLM)
	assert.Equal(t, 8, got.Index.CatalogTopK)
	assert.False(t, got.Watch.Enabled)
}

func TestSettingsService_Save_EmptyKeyKeepsStored(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.api_key", "stored")
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.LLM.Provider = domain.AIProviderOpenAI
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "stored", store.GetString("llm.api_key"))
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		model    string
		apiKey   string
		wantErr  bool
		wantURL  string
		wantMod  string
	}{
		{"ollama default model", domain.AIProviderOllama, "", "", false, DefaultOllamaURL, "nomic-embed-text"},
		{"gemini with key", domain.AIProviderGemini, "", "g-key", false, "", "models/text-embedding-004"},
		{"openai custom model", domain.AIProviderOpenAI, "text-embedding-3-large", "sk", false, "", "text-embedding-3-large"},
		{"gemini without key", domain.AIProviderGemini, "", "", true, "", ""},
		{"unknown provider", domain.AIProvider("anthropic"), "", "k", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantMod, settings.Embedding.Model)
			assert.Equal(t, tt.wantURL, settings.Embedding.BaseURL)
		})
	}
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderGemini, "", "g-key"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "models/gemini-2.5-flash", settings.LLM.Model)
	assert.True(t, settings.LLM.IsConfigured())

	err = service.SetLLMProvider(domain.AIProviderOllama, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.SetLLMProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	assert.ErrorIs(t, service.Validate(), domain.ErrEmbeddingUnavailable)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_ValidateConfigs(t *testing.T) {
	validator := &mockAIValidator{embedErr: errors.New("connection refused")}
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	service := NewSettingsService(store, validator)

	err := service.ValidateEmbeddingConfig()
	require.Error(t, err)
	require.NotNil(t, validator.embedded)
	assert.Equal(t, domain.AIProviderOllama, validator.embedded.Provider)

	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_ValidateConfigs_NoValidator(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.NoError(t, service.ValidateEmbeddingConfig())
	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
