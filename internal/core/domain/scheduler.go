package domain

import "time"

// RebuildRun records one rebuild cycle of a tenant index.
type RebuildRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Tenant is the rebuilt tenant.
	Tenant TenantID

	// Reason is the trigger that started the worker.
	Reason TriggerReason

	// StartedAt is when the cycle started.
	StartedAt time.Time

	// EndedAt is when the cycle completed.
	EndedAt time.Time

	// Success indicates whether a new index was built.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// Documents is the number of exported documents.
	Documents int

	// Vectors is the number of vectors in the new index.
	Vectors int
}

// Duration returns how long the run took.
func (r RebuildRun) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// SchedulerConfig holds periodic refresh configuration.
type SchedulerConfig struct {
	// Enabled is the master switch for the scheduler.
	Enabled bool

	// Interval defines how often every known tenant is refreshed.
	Interval time.Duration

	// IncludeCatalog also refreshes the catalog tenant on each tick.
	IncludeCatalog bool
}

// DefaultSchedulerConfig returns sensible defaults for the scheduler.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:        true,
		Interval:       6 * time.Hour,
		IncludeCatalog: true,
	}
}

// DefaultRunHistory is the number of runs kept per tenant.
const DefaultRunHistory = 100
