package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// ollamaServer answers the Ollama tags endpoint used by Ping.
func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	result.Close()

	result = &InitResult{
		EmbeddingService: createOllamaEmbedding(&domain.EmbeddingSettings{Model: "nomic-embed-text"}),
	}
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantNil   bool
		wantModel string
		wantDims  int
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:     "unknown provider is not configured",
			settings: &domain.EmbeddingSettings{Provider: "anthropic", APIKey: "k"},
			wantNil:  true,
		},
		{
			name:      "gemini with api key",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "text-embedding-004"},
			wantModel: "models/text-embedding-004",
			wantDims:  768,
		},
		{
			name:      "ollama with known model",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "mxbai-embed-large"},
			wantModel: "mxbai-embed-large",
			wantDims:  1024,
		},
		{
			name:      "ollama with unknown model falls back",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom"},
			wantModel: "custom",
			wantDims:  768,
		},
		{
			name:      "openai",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "text-embedding-3-large"},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	svc, err := CreateLLMService(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	// Ollama is an embedding-only provider here.
	svc, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "models/gemini-2.5-flash", svc.ModelName())

	svc, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gpt-4o", svc.ModelName())
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	srv := ollamaServer(t)

	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	svc.Close()

	_, err = CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, BaseURL: "http://127.0.0.1:1",
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	_, err := CreateAndValidateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI, APIKey: "k", BaseURL: "http://127.0.0.1:1",
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestInit(t *testing.T) {
	srv := ollamaServer(t)

	settings := domain.DefaultAppSettings()
	_, err := Init(&settings)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
	settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", BaseURL: "http://127.0.0.1:1"}

	result, err := Init(&settings)
	require.NoError(t, err)
	defer result.Close()

	assert.NotNil(t, result.EmbeddingService)
	assert.Nil(t, result.LLMService)
	assert.Len(t, result.Warnings, 1)
}

func TestInit_UnreachableEmbeddingWarns(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: "http://127.0.0.1:1"}

	result, err := Init(&settings)
	require.NoError(t, err)
	defer result.Close()

	assert.NotNil(t, result.EmbeddingService)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "embedding provider unreachable")
}

func TestValidateConfig_Unconfigured(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
}
