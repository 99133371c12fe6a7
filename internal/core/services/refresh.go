package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Verify interface compliance.
var _ driving.RefreshService = (*Refresher)(nil)

// refreshEntry is the state machine of one tenant. Guarded by Refresher.mu.
type refreshEntry struct {
	state   domain.RefreshState
	pending bool
	runs    int
	last    *domain.RebuildRun

	// idle is closed when the tenant returns to RefreshIdle.
	idle chan struct{}
}

// Refresher rebuilds tenant indexes in the background.
//
// Each tenant is Idle or Rebuilding. A trigger on an idle tenant starts
// one worker goroutine; triggers on a rebuilding tenant only set the
// pending flag. When a cycle ends the worker either returns the tenant to
// Idle or, if pending was set meanwhile, runs exactly one more cycle. Any
// number of triggers during a cycle therefore cause at most one extra
// rebuild.
type Refresher struct {
	exporter driven.DocumentExporter
	index    driving.IndexService
	runs     driven.RebuildRunStore
	history  int
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	tenants map[domain.TenantID]*refreshEntry
}

// NewRefresher creates a refresher. runs may be nil to skip history.
func NewRefresher(
	exporter driven.DocumentExporter,
	index driving.IndexService,
	runs driven.RebuildRunStore,
) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		exporter: exporter,
		index:    index,
		runs:     runs,
		history:  domain.DefaultRunHistory,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		tenants:  make(map[domain.TenantID]*refreshEntry),
	}
}

// Trigger requests a background rebuild of tenant.
func (r *Refresher) Trigger(tenant domain.TenantID, reason domain.TriggerReason) (domain.TriggerAck, error) {
	return r.Schedule(tenant, reason, 0)
}

// Schedule requests a background rebuild whose first cycle starts after
// delay. The tenant counts as rebuilding during the delay, so triggers
// arriving in that window coalesce into the same worker.
func (r *Refresher) Schedule(tenant domain.TenantID, reason domain.TriggerReason, delay time.Duration) (domain.TriggerAck, error) {
	if err := tenant.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return "", domain.ErrRefresherStopped
	}
	entry := r.entryLocked(tenant)
	if entry.state == domain.RefreshRebuilding {
		entry.pending = true
		logger.Debug("refresh %s: %s trigger coalesced", tenant, reason)
		return domain.TriggerCoalesced, nil
	}

	r.startLocked(entry)
	go func() {
		defer r.wg.Done()
		if delay > 0 && !r.sleep(delay) {
			r.finish(tenant, entry)
			return
		}
		r.loop(r.ctx, tenant, entry, reason)
	}()

	logger.Debug("refresh %s: %s trigger started worker", tenant, reason)
	return domain.TriggerStarted, nil
}

// RefreshNow rebuilds tenant on the calling goroutine. If a worker is
// already rebuilding it, one more cycle is queued and the call waits
// for the tenant to go idle.
func (r *Refresher) RefreshNow(ctx context.Context, tenant domain.TenantID, reason domain.TriggerReason) (*domain.RebuildRun, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil, domain.ErrRefresherStopped
	}
	entry := r.entryLocked(tenant)
	if entry.state == domain.RefreshRebuilding {
		entry.pending = true
		idle := entry.idle
		r.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		r.mu.Lock()
		last := entry.last
		r.mu.Unlock()
		return last, runError(last)
	}
	r.startLocked(entry)
	r.mu.Unlock()

	defer r.wg.Done()
	last := r.loop(ctx, tenant, entry, reason)
	return last, runError(last)
}

// Status returns the tenant's refresh state.
func (r *Refresher) Status(tenant domain.TenantID) domain.RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := domain.RefreshStatus{Tenant: tenant, State: domain.RefreshIdle}
	entry, ok := r.tenants[tenant]
	if !ok {
		return status
	}
	status.State = entry.state
	status.Pending = entry.pending
	status.Runs = entry.runs
	if entry.last != nil {
		status.LastRun = entry.last.EndedAt
		status.LastError = entry.last.Error
	}
	return status
}

// History returns recent runs of tenant, newest first.
func (r *Refresher) History(ctx context.Context, tenant domain.TenantID, limit int) ([]domain.RebuildRun, error) {
	if r.runs == nil {
		return nil, nil
	}
	return r.runs.ListRuns(ctx, tenant, limit)
}

// Wait blocks until no worker is running.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// Stop rejects new triggers, drops pending cycles and waits for running
// rebuilds to finish. A rebuild in progress is not interrupted.
func (r *Refresher) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

func (r *Refresher) entryLocked(tenant domain.TenantID) *refreshEntry {
	entry, ok := r.tenants[tenant]
	if !ok {
		entry = &refreshEntry{state: domain.RefreshIdle}
		r.tenants[tenant] = entry
	}
	return entry
}

// startLocked moves an idle entry to Rebuilding. Caller holds mu and
// must call wg.Done when the worker ends.
func (r *Refresher) startLocked(entry *refreshEntry) {
	entry.state = domain.RefreshRebuilding
	entry.pending = false
	entry.idle = make(chan struct{})
	r.wg.Add(1)
}

// loop runs rebuild cycles until no trigger arrived during the last one.
func (r *Refresher) loop(ctx context.Context, tenant domain.TenantID, entry *refreshEntry, reason domain.TriggerReason) *domain.RebuildRun {
	var last *domain.RebuildRun
	for {
		r.mu.Lock()
		entry.pending = false
		r.mu.Unlock()

		last = r.rebuild(context.WithoutCancel(ctx), tenant, reason)

		r.mu.Lock()
		entry.runs++
		entry.last = last
		again := entry.pending && r.ctx.Err() == nil
		// A caller that went away still owes the tenant its follow-up
		// cycle; a background worker takes it over.
		handOff := again && ctx.Err() != nil
		switch {
		case !again:
			r.idleLocked(entry)
		case handOff:
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.loop(r.ctx, tenant, entry, reason)
			}()
		}
		r.mu.Unlock()

		if !again {
			return last
		}
		if handOff {
			logger.Debug("refresh %s: caller gone, follow-up moved to background", tenant)
			return last
		}
		logger.Debug("refresh %s: running coalesced follow-up", tenant)
	}
}

func (r *Refresher) finish(tenant domain.TenantID, entry *refreshEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idleLocked(entry)
	logger.Debug("refresh %s: cancelled before start", tenant)
}

func (r *Refresher) idleLocked(entry *refreshEntry) {
	entry.state = domain.RefreshIdle
	entry.pending = false
	close(entry.idle)
}

// sleep waits for d or until Stop. It reports whether d elapsed.
func (r *Refresher) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.ctx.Done():
		return false
	}
}

// rebuild exports and indexes one tenant and records the run.
func (r *Refresher) rebuild(ctx context.Context, tenant domain.TenantID, reason domain.TriggerReason) *domain.RebuildRun {
	run := &domain.RebuildRun{
		ID:        uuid.NewString(),
		Tenant:    tenant,
		Reason:    reason,
		StartedAt: r.now().UTC(),
	}

	docs := r.exporter.Export(ctx, tenant)
	run.Documents = len(docs)

	var err error
	if len(docs) == 0 {
		err = domain.ErrNothingToIndex
	} else {
		var info *domain.IndexInfo
		info, err = r.index.Build(ctx, tenant, docs)
		if info != nil {
			run.Vectors = info.Vectors
		}
	}

	run.EndedAt = r.now().UTC()
	run.Success = err == nil
	switch {
	case err == nil:
		logger.Info("refresh %s (%s): %d documents, %d vectors in %s",
			tenant, reason, run.Documents, run.Vectors, run.Duration())
	case errors.Is(err, domain.ErrNothingToIndex):
		run.Error = err.Error()
		logger.Info("refresh %s (%s): nothing to index", tenant, reason)
	default:
		run.Error = err.Error()
		logger.Error("refresh %s (%s): %v", tenant, reason, err)
	}

	r.record(ctx, run)
	return run
}

func (r *Refresher) record(ctx context.Context, run *domain.RebuildRun) {
	if r.runs == nil {
		return
	}
	if err := r.runs.RecordRun(ctx, run); err != nil {
		logger.Warn("refresh %s: record run: %v", run.Tenant, err)
		return
	}
	if err := r.runs.PruneRuns(ctx, r.history); err != nil {
		logger.Warn("refresh: prune runs: %v", err)
	}
}

func runError(run *domain.RebuildRun) error {
	if run == nil || run.Success {
		return nil
	}
	return fmt.Errorf("rebuild %s: %s", run.Tenant, run.Error)
}
