package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func shopMatches() []domain.Match {
	return []domain.Match{
		{Document: domain.Document{Text: "Revenue rose 12% in March.", Source: domain.SourceMonthlyGraph}, Score: 0.9},
		{Document: domain.Document{Text: "Silk outsold cotton.", Source: domain.SourceYearlyGraph}, Score: 0.8},
	}
}

func TestAssistant_Ask_Shop(t *testing.T) {
	idx := &fakeIndex{matches: shopMatches()}
	llm := &mockLLM{reply: "  Sales are up.  "}
	a := NewAssistant(idx, llm, 0, 0)

	answer, err := a.Ask(context.Background(), domain.ShopTenant(1), " How are sales? ")
	require.NoError(t, err)

	assert.Equal(t, "Sales are up.", answer.Text)
	assert.Equal(t, []string{"Revenue rose 12% in March.", "Silk outsold cotton."}, answer.Context)
	assert.Equal(t, domain.DefaultTopK, idx.lastK)
	assert.Equal(t, "How are sales?", idx.lastQ)

	assert.Contains(t, llm.prompt, "- Revenue rose 12% in March.\n- Silk outsold cotton.")
	assert.Contains(t, llm.prompt, "USER QUESTION:\nHow are sales?")
	assert.Equal(t, domain.DefaultAnswerMaxTokens, llm.opts.MaxTokens)
	assert.InDelta(t, domain.DefaultAnswerTemperature, llm.opts.Temperature, 1e-9)
}

func TestAssistant_SetGenerateOptions(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	a := NewAssistant(&fakeIndex{matches: shopMatches()}, llm, 0, 0)

	a.SetGenerateOptions(256, 0)
	_, err := a.Ask(context.Background(), domain.ShopTenant(1), "q")
	require.NoError(t, err)
	assert.Equal(t, 256, llm.opts.MaxTokens)
	assert.InDelta(t, 0, llm.opts.Temperature, 1e-9)

	a.SetGenerateOptions(0, -1)
	_, err = a.Ask(context.Background(), domain.ShopTenant(1), "q")
	require.NoError(t, err)
	assert.Equal(t, 256, llm.opts.MaxTokens)
	assert.InDelta(t, 0, llm.opts.Temperature, 1e-9)
}

func TestAssistant_Ask_CatalogTagsSources(t *testing.T) {
	idx := &fakeIndex{matches: []domain.Match{
		{Document: domain.Document{Text: "Royal Silk Saree, ₹4,500", Source: domain.SourceLiveDatabase}},
	}}
	llm := &mockLLM{reply: "Try the Royal Silk Saree."}
	a := NewAssistant(idx, llm, 6, 3)

	_, err := a.Ask(context.Background(), domain.CatalogTenant, "silk sarees?")
	require.NoError(t, err)

	assert.Equal(t, 3, idx.lastK)
	assert.Contains(t, llm.prompt, "- [LiveDatabase] Royal Silk Saree, ₹4,500")
	assert.Contains(t, llm.prompt, "SE-Textile AI Concierge")
}

func TestAssistant_Ask_NoContext(t *testing.T) {
	llm := &mockLLM{reply: "ok"}

	_, err := NewAssistant(&fakeIndex{}, llm, 0, 0).Ask(context.Background(), domain.ShopTenant(9999), "hi")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, domain.NoShopContext)

	_, err = NewAssistant(&fakeIndex{}, llm, 0, 0).Ask(context.Background(), domain.CatalogTenant, "hi")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, domain.NoCatalogContext)
}

func TestAssistant_Ask_WithoutLLM(t *testing.T) {
	a := NewAssistant(&fakeIndex{matches: shopMatches()}, nil, 0, 0)

	answer, err := a.Ask(context.Background(), domain.ShopTenant(1), "sales?")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	require.NotNil(t, answer)
	assert.Empty(t, answer.Text)
	assert.Len(t, answer.Matches, 2)
}

func TestAssistant_Ask_LLMFailure(t *testing.T) {
	a := NewAssistant(&fakeIndex{matches: shopMatches()}, &mockLLM{err: errors.New("429")}, 0, 0)

	answer, err := a.Ask(context.Background(), domain.ShopTenant(1), "sales?")
	require.Error(t, err)
	require.NotNil(t, answer)
	assert.Len(t, answer.Context, 2)
}

func TestAssistant_Ask_InvalidInput(t *testing.T) {
	a := NewAssistant(&fakeIndex{}, &mockLLM{}, 0, 0)

	_, err := a.Ask(context.Background(), domain.ShopTenant(1), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = a.Ask(context.Background(), domain.TenantID("nope"), "q")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssistant_PromptStoreOverride(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	a := NewAssistant(&fakeIndex{matches: shopMatches()}, llm, 0, 0)
	a.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		domain.PromptShopAnalyst: "Q=%[2]s\nC=%[1]s",
	}})

	_, err := a.Ask(context.Background(), domain.ShopTenant(1), "why?")
	require.NoError(t, err)
	assert.Equal(t, "Q=why?\nC=- Revenue rose 12% in March.\n- Silk outsold cotton.", llm.prompt)

	// Unknown names in the store fall back to the built-in template.
	_, err = a.Ask(context.Background(), domain.CatalogTenant, "silk?")
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "CATALOG CONTEXT")
}
