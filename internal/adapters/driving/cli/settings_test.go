package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	settings := newMockSettingsService()

	out, err := runCommand(t, newTestApp(&Services{Settings: settings}), "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: Google Gemini (cloud)")
	assert.Contains(t, out, "API Key: AIza...1234")
	assert.NotContains(t, out, "AIzaSyExampleKey1234")
	assert.Contains(t, out, "Chunk size: 900")
	assert.Contains(t, out, "Top K: 6 (catalog 5)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_IsDefault(t *testing.T) {
	out, err := runCommand(t, newTestApp(&Services{Settings: newMockSettingsService()}), "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	settings := newMockSettingsService()
	settings.validateErr = errors.New("no embedding provider")

	out, err := runCommand(t, newTestApp(&Services{Settings: settings}), "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: no embedding provider")
	assert.Contains(t, out, "loom settings wizard")
}

func TestSettingsSetKey(t *testing.T) {
	settings := newMockSettingsService()

	out, err := runCommand(t, newTestApp(&Services{Settings: settings}), "new-key-abcdefgh\n", "settings", "set-key", "embedding")

	require.NoError(t, err)
	require.NotNil(t, settings.saved)
	assert.Equal(t, "new-key-abcdefgh", settings.saved.Embedding.APIKey)
	assert.Contains(t, out, "new-...efgh")
}

func TestSettingsSetKey_LocalProvider(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.LLM.Provider = domain.AIProviderOllama

	_, err := runCommand(t, newTestApp(&Services{Settings: settings}), "k\n", "settings", "set-key", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not use an API key")
	assert.Nil(t, settings.saved)
}

func TestSettingsSetKey_UnknownKind(t *testing.T) {
	_, err := runCommand(t, newTestApp(&Services{Settings: newMockSettingsService()}), "", "settings", "set-key", "vector")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetKey_Empty(t *testing.T) {
	_, err := runCommand(t, newTestApp(&Services{Settings: newMockSettingsService()}), "\n", "settings", "set-key", "embedding")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsEmbedding_Ollama(t *testing.T) {
	settings := newMockSettingsService()

	// Choice 3 is Ollama; an empty model line keeps the default.
	out, err := runCommand(t, newTestApp(&Services{Settings: settings}), "3\n\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOllama], settings.settings.Embedding.Model)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsWizard_SkipsLLM(t *testing.T) {
	settings := newMockSettingsService()

	out, err := runCommand(t, newTestApp(&Services{Settings: settings}), "1\n\nkey-123456789\nn\n", "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.settings.Embedding.Provider)
	assert.Equal(t, "key-123456789", settings.settings.Embedding.APIKey)
	assert.Contains(t, out, "Skipped.")
	assert.Contains(t, out, "All settings are valid and saved.")
}

func TestSettingsWizard_ConfiguresLLM(t *testing.T) {
	settings := newMockSettingsService()

	input := "3\n\ny\n2\ngpt-4o\nsk-abcdefghijkl\n"
	_, err := runCommand(t, newTestApp(&Services{Settings: settings}), input, "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.settings.Embedding.Provider)
	assert.Equal(t, domain.AIProviderOpenAI, settings.settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.settings.LLM.Model)
	assert.Equal(t, "sk-abcdefghijkl", settings.settings.LLM.APIKey)
}
