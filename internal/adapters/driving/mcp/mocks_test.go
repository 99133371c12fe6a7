package mcp

import (
	"context"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	matches []domain.Match
	infos   map[domain.TenantID]domain.IndexInfo
	lastK   int
}

func (m *mockIndexService) Build(
	_ context.Context,
	_ domain.TenantID,
	_ []domain.Document,
) (*domain.IndexInfo, error) {
	return &domain.IndexInfo{}, nil
}

func (m *mockIndexService) FindBestMatches(_ context.Context, _ domain.TenantID, _ string, k int) []domain.Match {
	m.lastK = k
	if len(m.matches) > k {
		return m.matches[:k]
	}
	return m.matches
}

func (m *mockIndexService) SearchVector(_ context.Context, _ domain.TenantID, _ []float32, _ int) []domain.Match {
	return m.matches
}

func (m *mockIndexService) Load(_ context.Context, _ domain.TenantID) error {
	return nil
}

func (m *mockIndexService) Info(tenant domain.TenantID) (domain.IndexInfo, bool) {
	info, ok := m.infos[tenant]
	return info, ok
}

func (m *mockIndexService) Tenants() []domain.TenantID {
	tenants := make([]domain.TenantID, 0, len(m.infos))
	for t := range m.infos {
		tenants = append(tenants, t)
	}
	return tenants
}

func (m *mockIndexService) Drop(_ context.Context, _ domain.TenantID) error {
	return nil
}

// mockRefreshService is a mock implementation of driving.RefreshService.
type mockRefreshService struct {
	ack       domain.TriggerAck
	run       *domain.RebuildRun
	runs      []domain.RebuildRun
	status    domain.RefreshStatus
	err       error
	triggered []domain.TenantID
	reasons   []domain.TriggerReason
}

func (m *mockRefreshService) Trigger(tenant domain.TenantID, reason domain.TriggerReason) (domain.TriggerAck, error) {
	m.triggered = append(m.triggered, tenant)
	m.reasons = append(m.reasons, reason)
	return m.ack, m.err
}

func (m *mockRefreshService) Schedule(
	tenant domain.TenantID,
	reason domain.TriggerReason,
	_ time.Duration,
) (domain.TriggerAck, error) {
	return m.Trigger(tenant, reason)
}

func (m *mockRefreshService) RefreshNow(
	_ context.Context,
	_ domain.TenantID,
	reason domain.TriggerReason,
) (*domain.RebuildRun, error) {
	m.reasons = append(m.reasons, reason)
	return m.run, m.err
}

func (m *mockRefreshService) Status(tenant domain.TenantID) domain.RefreshStatus {
	st := m.status
	st.Tenant = tenant
	if st.State == "" {
		st.State = domain.RefreshIdle
	}
	return st
}

func (m *mockRefreshService) History(_ context.Context, _ domain.TenantID, _ int) ([]domain.RebuildRun, error) {
	return m.runs, m.err
}

func (m *mockRefreshService) Wait() {}

func (m *mockRefreshService) Stop() {}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAssistantService) Ask(_ context.Context, _ domain.TenantID, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func match(text string, score float64) domain.Match {
	return domain.Match{
		Document: domain.Document{Text: text, Source: "sales", Metadata: domain.ChunkMeta{OriginIndex: 1}},
		Score:    score,
	}
}
