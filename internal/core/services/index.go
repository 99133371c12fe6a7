package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Verify interface compliance.
var _ driving.IndexService = (*IndexService)(nil)

// tenantIndex is an immutable index plus its doc store.
// index.Len() == len(docs) and ordinal i of the index is docs[i].
type tenantIndex struct {
	index driven.VectorIndex
	docs  []domain.Document
	info  domain.IndexInfo
}

// IndexService keeps one vector index per tenant in memory, persists
// rebuilt indexes and lazily loads persisted ones.
//
// The tenant map is guarded by mu. Loading happens under the write lock
// through loadLocked, never by re-acquiring mu. Entries are immutable, so
// searches run on a snapshot without holding the lock.
type IndexService struct {
	embedding driven.EmbeddingService
	embedder  *BatchEmbedder
	builder   driven.VectorIndexBuilder
	artifacts driven.ArtifactStore
	chunker   driven.Chunker
	now       func() time.Time

	mu      sync.RWMutex
	tenants map[domain.TenantID]*tenantIndex
}

// IndexServiceConfig holds the collaborators of an IndexService.
type IndexServiceConfig struct {
	// Embedding may be nil; builds then fail and queries return nothing.
	Embedding driven.EmbeddingService
	Builder   driven.VectorIndexBuilder
	Artifacts driven.ArtifactStore
	Chunker   driven.Chunker

	// BatchSize and BatchInterval configure document embedding.
	BatchSize     int
	BatchInterval time.Duration
}

// NewIndexService creates an index service.
func NewIndexService(cfg IndexServiceConfig) *IndexService {
	s := &IndexService{
		embedding: cfg.Embedding,
		builder:   cfg.Builder,
		artifacts: cfg.Artifacts,
		chunker:   cfg.Chunker,
		now:       time.Now,
		tenants:   make(map[domain.TenantID]*tenantIndex),
	}
	if cfg.Embedding != nil {
		s.embedder = NewBatchEmbedder(cfg.Embedding, cfg.BatchSize, cfg.BatchInterval)
	}
	return s
}

// Build chunks, embeds and indexes docs, swaps the tenant's entry and
// persists it. The doc store is derived from the chunks that were
// actually embedded, so partial embedding failures keep the index and
// doc store aligned.
func (s *IndexService) Build(ctx context.Context, tenant domain.TenantID, docs []domain.Document) (*domain.IndexInfo, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	chunks := PrepareDocuments(docs, s.chunker)
	if len(chunks) == 0 {
		return nil, domain.ErrNothingToIndex
	}
	logger.Debug("build %s: %d documents, %d chunks", tenant, len(docs), len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embedded, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", tenant, err)
	}
	if len(embedded) == 0 {
		return nil, fmt.Errorf("build %s: %w", tenant, domain.ErrNoEmbeddings)
	}

	vectors := make([][]float32, len(embedded))
	kept := make([]domain.Document, len(embedded))
	for i, e := range embedded {
		vectors[i] = e.Vector
		kept[i] = chunks[e.Ordinal]
	}

	if want := s.embedding.Dimensions(); want > 0 && len(vectors[0]) != want {
		return nil, fmt.Errorf("build %s: %s returned %d dims, expected %d: %w",
			tenant, s.embedding.ModelName(), len(vectors[0]), want, domain.ErrDimensionMismatch)
	}

	index, err := s.builder.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", tenant, err)
	}

	entry := &tenantIndex{
		index: index,
		docs:  kept,
		info: domain.IndexInfo{
			Tenant:    tenant,
			Vectors:   index.Len(),
			Dimension: index.Dimension(),
			Model:     s.embedding.ModelName(),
			BuiltAt:   s.now().UTC(),
		},
	}

	s.mu.Lock()
	s.tenants[tenant] = entry
	s.mu.Unlock()

	info := entry.info
	if err := s.persist(ctx, entry); err != nil {
		return &info, fmt.Errorf("persist %s: %w", tenant, err)
	}

	logger.Info("built %s: %d vectors of %d dims", tenant, info.Vectors, info.Dimension)
	return &info, nil
}

func (s *IndexService) persist(ctx context.Context, entry *tenantIndex) error {
	data, err := entry.index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return s.artifacts.Save(ctx, entry.info.Tenant, &driven.Artifact{
		Header: driven.ArtifactHeader{
			FormatVersion: driven.ArtifactFormatVersion,
			Model:         entry.info.Model,
			Dimension:     entry.info.Dimension,
			Count:         len(entry.docs),
			BuiltAt:       entry.info.BuiltAt,
		},
		Index:     data,
		Documents: entry.docs,
	})
}

// Load reads the tenant's persisted index and makes it resident,
// replacing any resident entry.
func (s *IndexService) Load(ctx context.Context, tenant domain.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.loadLocked(ctx, tenant)
	return err
}

// resident returns the tenant's entry, loading it on a miss.
func (s *IndexService) resident(ctx context.Context, tenant domain.TenantID) (*tenantIndex, error) {
	s.mu.RLock()
	entry := s.tenants[tenant]
	s.mu.RUnlock()
	if entry != nil {
		return entry, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have built or loaded it meanwhile.
	if entry := s.tenants[tenant]; entry != nil {
		return entry, nil
	}
	return s.loadLocked(ctx, tenant)
}

// loadLocked decodes and validates the persisted artifact. Caller holds mu.
func (s *IndexService) loadLocked(ctx context.Context, tenant domain.TenantID) (*tenantIndex, error) {
	artifact, err := s.artifacts.Load(ctx, tenant)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load %s: %w", tenant, domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("load %s: %w", tenant, err)
	}

	h := artifact.Header
	if h.FormatVersion != driven.ArtifactFormatVersion {
		return nil, fmt.Errorf("load %s: format version %d: %w", tenant, h.FormatVersion, domain.ErrDimensionMismatch)
	}
	if s.embedding != nil {
		if h.Model != s.embedding.ModelName() {
			return nil, fmt.Errorf("load %s: built with %q, configured %q: %w",
				tenant, h.Model, s.embedding.ModelName(), domain.ErrDimensionMismatch)
		}
		if want := s.embedding.Dimensions(); want > 0 && h.Dimension != want {
			return nil, fmt.Errorf("load %s: %d dims, configured %d: %w",
				tenant, h.Dimension, want, domain.ErrDimensionMismatch)
		}
	}

	index, err := s.builder.Load(artifact.Index)
	if err != nil {
		return nil, fmt.Errorf("load %s: %v: %w", tenant, err, domain.ErrArtifactCorrupt)
	}
	if index.Dimension() != h.Dimension {
		return nil, fmt.Errorf("load %s: index has %d dims, header %d: %w",
			tenant, index.Dimension(), h.Dimension, domain.ErrDimensionMismatch)
	}
	if index.Len() != len(artifact.Documents) {
		return nil, fmt.Errorf("load %s: %d vectors for %d documents: %w",
			tenant, index.Len(), len(artifact.Documents), domain.ErrArtifactCorrupt)
	}

	entry := &tenantIndex{
		index: index,
		docs:  artifact.Documents,
		info: domain.IndexInfo{
			Tenant:    tenant,
			Vectors:   index.Len(),
			Dimension: index.Dimension(),
			Model:     h.Model,
			BuiltAt:   h.BuiltAt,
		},
	}
	s.tenants[tenant] = entry
	logger.Debug("loaded %s: %d vectors", tenant, entry.info.Vectors)
	return entry, nil
}

// FindBestMatches embeds query and searches the tenant's index. Every
// failure degrades to an empty result.
func (s *IndexService) FindBestMatches(ctx context.Context, tenant domain.TenantID, query string, k int) (matches []domain.Match) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("find matches %s: recovered: %v", tenant, r)
			matches = []domain.Match{}
		}
	}()

	if k <= 0 || strings.TrimSpace(query) == "" || tenant.Validate() != nil {
		return []domain.Match{}
	}

	entry, err := s.resident(ctx, tenant)
	if err != nil {
		logger.Debug("find matches: %v", err)
		return []domain.Match{}
	}
	if s.embedder == nil {
		logger.Warn("find matches %s: %v", tenant, domain.ErrEmbeddingUnavailable)
		return []domain.Match{}
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("find matches %s: %v", tenant, err)
		return []domain.Match{}
	}
	return s.search(ctx, entry, vector, k)
}

// SearchVector searches the tenant's index with a ready query vector.
func (s *IndexService) SearchVector(ctx context.Context, tenant domain.TenantID, query []float32, k int) (matches []domain.Match) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("search %s: recovered: %v", tenant, r)
			matches = []domain.Match{}
		}
	}()

	if k <= 0 || len(query) == 0 || tenant.Validate() != nil {
		return []domain.Match{}
	}
	entry, err := s.resident(ctx, tenant)
	if err != nil {
		logger.Debug("search: %v", err)
		return []domain.Match{}
	}
	return s.search(ctx, entry, query, k)
}

func (s *IndexService) search(ctx context.Context, entry *tenantIndex, query []float32, k int) []domain.Match {
	hits, err := entry.index.Search(ctx, query, k)
	if err != nil {
		logger.Warn("search %s: %v", entry.info.Tenant, err)
		return []domain.Match{}
	}

	matches := make([]domain.Match, 0, len(hits))
	for _, h := range hits {
		if h.Ordinal < 0 || h.Ordinal >= len(entry.docs) {
			continue
		}
		matches = append(matches, domain.Match{
			Document: entry.docs[h.Ordinal],
			Score:    h.Score,
			Ordinal:  h.Ordinal,
		})
	}
	return matches
}

// Info describes the tenant's resident index.
func (s *IndexService) Info(tenant domain.TenantID) (domain.IndexInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.tenants[tenant]
	if !ok {
		return domain.IndexInfo{}, false
	}
	return entry.info, true
}

// Tenants lists tenants with a resident index, sorted.
func (s *IndexService) Tenants() []domain.TenantID {
	s.mu.RLock()
	tenants := make([]domain.TenantID, 0, len(s.tenants))
	for t := range s.tenants {
		tenants = append(tenants, t)
	}
	s.mu.RUnlock()

	slices.Sort(tenants)
	return tenants
}

// Drop evicts the tenant and deletes its artifacts.
func (s *IndexService) Drop(ctx context.Context, tenant domain.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.tenants, tenant)
	s.mu.Unlock()

	if err := s.artifacts.Delete(ctx, tenant); err != nil {
		return fmt.Errorf("drop %s: %w", tenant, err)
	}
	return nil
}
