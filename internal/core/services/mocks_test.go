package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedding implements driven.EmbeddingService with vectors derived
// from a hash of each text, so equal texts embed to equal vectors.
type mockEmbedding struct {
	mu      sync.Mutex
	dims    int
	model   string
	calls   int
	batches [][]string

	// failCall makes the n-th EmbedBatch call (1-based) fail.
	failCall int
	// shortCall makes the n-th call return one vector too few.
	shortCall int
	// outDims overrides the returned vector size.
	outDims int
	err     error
}

func newMockEmbedding(dims int) *mockEmbedding {
	return &mockEmbedding{dims: dims, model: "mock-embed"}
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string, _ domain.EmbeddingTask) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if call == m.failCall {
		return nil, errors.New("upstream 503")
	}

	dims := m.dims
	if m.outDims > 0 {
		dims = m.outDims
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t, dims)
	}
	if call == m.shortCall {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int            { return m.dims }
func (m *mockEmbedding) ModelName() string          { return m.model }
func (m *mockEmbedding) Ping(context.Context) error { return nil }
func (m *mockEmbedding) Close() error               { return nil }

func (m *mockEmbedding) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func hashVector(text string, dims int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	v := make([]float32, dims)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

// mockExporter implements driven.DocumentExporter. When gate is set,
// every Export call signals entered and then blocks until gate yields.
type mockExporter struct {
	mu      sync.Mutex
	docs    map[domain.TenantID][]domain.Document
	calls   int
	entered chan struct{}
	gate    chan struct{}
}

func newMockExporter() *mockExporter {
	return &mockExporter{docs: make(map[domain.TenantID][]domain.Document)}
}

func (m *mockExporter) Export(_ context.Context, tenant domain.TenantID) []domain.Document {
	m.mu.Lock()
	m.calls++
	docs := m.docs[tenant]
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	return docs
}

func (m *mockExporter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeIndex implements driving.IndexService for refresher and assistant tests.
type fakeIndex struct {
	mu       sync.Mutex
	builds   int
	buildErr error
	matches  []domain.Match
	lastK    int
	lastQ    string
}

func (f *fakeIndex) Build(_ context.Context, tenant domain.TenantID, docs []domain.Document) (*domain.IndexInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds++
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return &domain.IndexInfo{Tenant: tenant, Vectors: len(docs)}, nil
}

func (f *fakeIndex) FindBestMatches(_ context.Context, _ domain.TenantID, query string, k int) []domain.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastK, f.lastQ = k, query
	if len(f.matches) > k {
		return f.matches[:k]
	}
	return append([]domain.Match{}, f.matches...)
}

func (f *fakeIndex) SearchVector(context.Context, domain.TenantID, []float32, int) []domain.Match {
	return []domain.Match{}
}

func (f *fakeIndex) Load(context.Context, domain.TenantID) error { return nil }

func (f *fakeIndex) Info(domain.TenantID) (domain.IndexInfo, bool) { return domain.IndexInfo{}, false }

func (f *fakeIndex) Tenants() []domain.TenantID { return nil }

func (f *fakeIndex) Drop(context.Context, domain.TenantID) error { return nil }

func (f *fakeIndex) buildCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	reply  string
	err    error
	prompt string
	opts   driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt, m.opts = prompt, opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockArtifacts implements driven.ArtifactStore in memory.
type mockArtifacts struct {
	mu      sync.Mutex
	saved   map[domain.TenantID]*driven.Artifact
	saveErr error
	listErr error
}

func newMockArtifacts() *mockArtifacts {
	return &mockArtifacts{saved: make(map[domain.TenantID]*driven.Artifact)}
}

func (m *mockArtifacts) Save(_ context.Context, tenant domain.TenantID, a *driven.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[tenant] = a
	return nil
}

func (m *mockArtifacts) Load(_ context.Context, tenant domain.TenantID) (*driven.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.saved[tenant]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockArtifacts) Delete(_ context.Context, tenant domain.TenantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, tenant)
	return nil
}

func (m *mockArtifacts) List(context.Context) ([]domain.TenantID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.TenantID, 0, len(m.saved))
	for t := range m.saved {
		out = append(out, t)
	}
	return out, nil
}

// fakeRefresher implements driving.RefreshService by recording triggers.
type fakeRefresher struct {
	mu       sync.Mutex
	triggers []domain.TenantID
	reasons  []domain.TriggerReason
	err      error
}

func (f *fakeRefresher) Trigger(tenant domain.TenantID, reason domain.TriggerReason) (domain.TriggerAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.triggers = append(f.triggers, tenant)
	f.reasons = append(f.reasons, reason)
	return domain.TriggerStarted, nil
}

func (f *fakeRefresher) Schedule(tenant domain.TenantID, reason domain.TriggerReason, _ time.Duration) (domain.TriggerAck, error) {
	return f.Trigger(tenant, reason)
}

func (f *fakeRefresher) RefreshNow(context.Context, domain.TenantID, domain.TriggerReason) (*domain.RebuildRun, error) {
	return nil, nil
}

func (f *fakeRefresher) Status(tenant domain.TenantID) domain.RefreshStatus {
	return domain.RefreshStatus{Tenant: tenant, State: domain.RefreshIdle}
}

func (f *fakeRefresher) History(context.Context, domain.TenantID, int) ([]domain.RebuildRun, error) {
	return nil, nil
}

func (f *fakeRefresher) Wait() {}
func (f *fakeRefresher) Stop() {}

func (f *fakeRefresher) triggered() []domain.TenantID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TenantID(nil), f.triggers...)
}
