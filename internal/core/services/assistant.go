package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Verify interface compliance.
var _ driving.AssistantService = (*Assistant)(nil)

var defaultGenerate = driven.GenerateOptions{
	MaxTokens:   domain.DefaultAnswerMaxTokens,
	Temperature: domain.DefaultAnswerTemperature,
}

// Assistant answers questions from a tenant's indexed chunks.
type Assistant struct {
	index       driving.IndexService
	llm         driven.LLMService
	prompts     driven.PromptStore
	gen         driven.GenerateOptions
	topK        int
	catalogTopK int
}

// NewAssistant creates an assistant. llm may be nil.
func NewAssistant(index driving.IndexService, llm driven.LLMService, topK, catalogTopK int) *Assistant {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if catalogTopK <= 0 {
		catalogTopK = domain.DefaultCatalogTopK
	}
	return &Assistant{
		index:       index,
		llm:         llm,
		gen:         defaultGenerate,
		topK:        topK,
		catalogTopK: catalogTopK,
	}
}

// SetPromptStore overrides the built-in prompt templates.
func (a *Assistant) SetPromptStore(store driven.PromptStore) {
	a.prompts = store
}

// SetGenerateOptions sets the answer length cap and temperature.
// Non-positive maxTokens and negative temperature keep the defaults.
func (a *Assistant) SetGenerateOptions(maxTokens int, temperature float64) {
	if maxTokens > 0 {
		a.gen.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		a.gen.Temperature = temperature
	}
}

// Ask retrieves context for question and asks the LLM.
func (a *Assistant) Ask(ctx context.Context, tenant domain.TenantID, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	k, name := a.topK, domain.PromptShopAnalyst
	if tenant.IsCatalog() {
		k, name = a.catalogTopK, domain.PromptCatalogConcierge
	}

	matches := a.index.FindBestMatches(ctx, tenant, question, k)
	answer := &domain.Answer{
		Context: make([]string, len(matches)),
		Matches: matches,
	}
	for i, m := range matches {
		answer.Context[i] = m.Document.Text
	}
	logger.Debug("ask %s: %d matches", tenant, len(matches))

	if a.llm == nil {
		return answer, domain.ErrLLMUnavailable
	}

	prompt := fmt.Sprintf(a.template(name), contextBlock(tenant, matches), question)
	text, err := a.llm.Generate(ctx, prompt, a.gen)
	if err != nil {
		return answer, fmt.Errorf("generate answer: %w", err)
	}
	answer.Text = strings.TrimSpace(text)
	return answer, nil
}

func (a *Assistant) template(name string) string {
	if a.prompts != nil {
		t, err := a.prompts.Load(name)
		if err == nil {
			return t
		}
		logger.Warn("prompt %s: %v", name, err)
	}
	return domain.DefaultPrompts()[name]
}

// contextBlock renders matches as "- text" lines; catalog lines carry
// their source tag.
func contextBlock(tenant domain.TenantID, matches []domain.Match) string {
	if len(matches) == 0 {
		if tenant.IsCatalog() {
			return domain.NoCatalogContext
		}
		return domain.NoShopContext
	}

	lines := make([]string, len(matches))
	for i, m := range matches {
		if tenant.IsCatalog() {
			lines[i] = fmt.Sprintf("- [%s] %s", m.Document.Source, m.Document.Text)
		} else {
			lines[i] = "- " + m.Document.Text
		}
	}
	return strings.Join(lines, "\n")
}
