package driving

import "context"

// Scheduler periodically refreshes known tenant indexes.
type Scheduler interface {
	// Start begins running scheduled refreshes.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Startup triggers a build of the catalog when it has no persisted
	// index. It does not block on the rebuild.
	Startup(ctx context.Context) error

	// Stop gracefully stops the scheduler.
	Stop() error
}
