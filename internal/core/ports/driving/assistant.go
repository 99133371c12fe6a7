package driving

import (
	"context"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// AssistantService answers questions about a tenant's data.
type AssistantService interface {
	// Ask retrieves the tenant's best matching chunks and asks the LLM.
	// Without an LLM the answer carries the matches and
	// domain.ErrLLMUnavailable is returned alongside it.
	Ask(ctx context.Context, tenant domain.TenantID, question string) (*domain.Answer, error)
}
