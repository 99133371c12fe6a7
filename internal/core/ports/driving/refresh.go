package driving

import (
	"context"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// RefreshService coalesces rebuild triggers per tenant.
type RefreshService interface {
	// Trigger requests a rebuild. At most one rebuild runs per tenant;
	// triggers arriving while it runs collapse into one follow-up cycle.
	Trigger(tenant domain.TenantID, reason domain.TriggerReason) (domain.TriggerAck, error)

	// Schedule is Trigger with the first cycle postponed by delay.
	Schedule(tenant domain.TenantID, reason domain.TriggerReason, delay time.Duration) (domain.TriggerAck, error)

	// RefreshNow rebuilds synchronously and returns the run record.
	// If a worker is already rebuilding the tenant, a follow-up cycle is
	// queued and the call waits for the tenant to go idle.
	RefreshNow(ctx context.Context, tenant domain.TenantID, reason domain.TriggerReason) (*domain.RebuildRun, error)

	// Status returns the tenant's refresh state.
	Status(tenant domain.TenantID) domain.RefreshStatus

	// History returns recent rebuild runs, newest first.
	History(ctx context.Context, tenant domain.TenantID, limit int) ([]domain.RebuildRun, error)

	// Wait blocks until no tenant is rebuilding.
	Wait()

	// Stop rejects new triggers and waits for running workers.
	Stop()
}
