package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

type mockIndexService struct {
	matches []domain.Match
	infos   map[domain.TenantID]domain.IndexInfo
	loadErr error
	lastK   int
}

func (m *mockIndexService) Build(_ context.Context, _ domain.TenantID, _ []domain.Document) (*domain.IndexInfo, error) {
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
	return nil
}

func (m *mockIndexService) Load(_ context.Context, _ domain.TenantID) error {
	return m.loadErr
}

func (m *mockIndexService) Info(tenant domain.TenantID) (domain.IndexInfo, bool) {
	info, ok := m.infos[tenant]
	return info, ok
}

func (m *mockIndexService) Tenants() []domain.TenantID {
	var tenants []domain.TenantID
	for t := range m.infos {
		tenants = append(tenants, t)
	}
	return tenants
}

func (m *mockIndexService) Drop(_ context.Context, _ domain.TenantID) error {
	return nil
}

type mockRefreshService struct {
	ack       domain.TriggerAck
	run       *domain.RebuildRun
	runs      []domain.RebuildRun
	err       error
	triggered []domain.TenantID
	waited    bool
	stopped   bool
}

func (m *mockRefreshService) Trigger(tenant domain.TenantID, _ domain.TriggerReason) (domain.TriggerAck, error) {
	m.triggered = append(m.triggered, tenant)
	return m.ack, m.err
}

func (m *mockRefreshService) Schedule(tenant domain.TenantID, reason domain.TriggerReason, _ time.Duration) (domain.TriggerAck, error) {
	return m.Trigger(tenant, reason)
}

func (m *mockRefreshService) RefreshNow(_ context.Context, tenant domain.TenantID, _ domain.TriggerReason) (*domain.RebuildRun, error) {
	m.triggered = append(m.triggered, tenant)
	return m.run, m.err
}

func (m *mockRefreshService) Status(tenant domain.TenantID) domain.RefreshStatus {
	return domain.RefreshStatus{Tenant: tenant, State: domain.RefreshIdle}
}

func (m *mockRefreshService) History(_ context.Context, _ domain.TenantID, limit int) ([]domain.RebuildRun, error) {
	if len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockRefreshService) Wait() { m.waited = true }

func (m *mockRefreshService) Stop() { m.stopped = true }

type mockAssistantService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAssistantService) Ask(_ context.Context, _ domain.TenantID, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

type mockSettingsService struct {
	settings    domain.AppSettings
	saved       *domain.AppSettings
	validateErr error
}

func newMockSettingsService() *mockSettingsService {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderGemini,
		Model:    "text-embedding-004",
		APIKey:   "AIzaSyExampleKey1234",
	}
	return &mockSettingsService{settings: settings}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// newTestApp returns an app whose opener hands out services.
func newTestApp(services *Services) *App {
	return &App{
		Version: "test",
		Open: func(context.Context, Options) (*Services, error) {
			return services, nil
		},
	}
}

// runCommand executes args against a fresh command tree.
func runCommand(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	root := NewRootCommand(app)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	t.Cleanup(func() { _ = app.Close() })
	return buf.String(), err
}

func match(text, source string, score float64) domain.Match {
	return domain.Match{
		Document: domain.Document{Text: text, Source: source},
		Score:    score,
	}
}
