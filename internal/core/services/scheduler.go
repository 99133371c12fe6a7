package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler periodically triggers refreshes of every tenant that has a
// persisted index, plus the catalog when configured.
type Scheduler struct {
	config    domain.SchedulerConfig
	artifacts driven.ArtifactStore
	refresher driving.RefreshService

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	artifacts driven.ArtifactStore,
	refresher driving.RefreshService,
) *Scheduler {
	return &Scheduler{
		config:    config,
		artifacts: artifacts,
		refresher: refresher,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled || s.config.Interval <= 0 {
		logger.Debug("scheduler: disabled")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	logger.Info("scheduler: refreshing every %s", s.config.Interval)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.triggerAll(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Startup triggers a startup build of the catalog when no index was
// persisted for it. Shop indexes are built on their first trigger.
func (s *Scheduler) Startup(ctx context.Context) error {
	tenants, err := s.artifacts.List(ctx)
	if err != nil {
		return fmt.Errorf("list persisted indexes: %w", err)
	}
	if slices.Contains(tenants, domain.CatalogTenant) {
		return nil
	}

	ack, err := s.refresher.Trigger(domain.CatalogTenant, domain.ReasonStartup)
	if err != nil {
		return fmt.Errorf("trigger catalog build: %w", err)
	}
	logger.Info("scheduler: no catalog index on disk, build %s", ack)
	return nil
}

// tenants returns the tenants due for a scheduled refresh.
func (s *Scheduler) tenants(ctx context.Context) ([]domain.TenantID, error) {
	tenants, err := s.artifacts.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.config.IncludeCatalog && !slices.Contains(tenants, domain.CatalogTenant) {
		tenants = append(tenants, domain.CatalogTenant)
	}
	return tenants, nil
}

// triggerAll hands every due tenant to the refresher. Rebuilds run on
// the refresher's workers, so a slow tenant never delays the next tick.
func (s *Scheduler) triggerAll(ctx context.Context) {
	tenants, err := s.tenants(ctx)
	if err != nil {
		logger.Warn("scheduler: list tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		ack, err := s.refresher.Trigger(tenant, domain.ReasonScheduled)
		if errors.Is(err, domain.ErrRefresherStopped) {
			return
		}
		if err != nil {
			logger.Warn("scheduler: trigger %s: %v", tenant, err)
			continue
		}
		logger.Debug("scheduler: %s %s", tenant, ack)
	}
}
