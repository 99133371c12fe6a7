package driven

import (
	"context"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// ArtifactFormatVersion is the current persisted index format.
const ArtifactFormatVersion = 1

// ArtifactHeader identifies what produced a persisted index.
type ArtifactHeader struct {
	// FormatVersion is the on-disk format version.
	FormatVersion int `json:"format_version"`

	// Model is the embedding model that produced the vectors.
	Model string `json:"model"`

	// Dimension is the vector size.
	Dimension int `json:"dimension"`

	// Count is the number of vectors and documents.
	Count int `json:"count"`

	// BuiltAt is when the index was built.
	BuiltAt time.Time `json:"built_at"`
}

// Artifact is the persisted pair of a tenant index and its doc store.
type Artifact struct {
	Header    ArtifactHeader
	Index     []byte
	Documents []domain.Document
}

// ArtifactStore persists tenant indexes.
type ArtifactStore interface {
	// Save writes the artifact so that a crash leaves either the old or
	// the new pair readable.
	Save(ctx context.Context, tenant domain.TenantID, artifact *Artifact) error

	// Load reads the artifact. Returns domain.ErrNotFound when nothing is
	// persisted and domain.ErrArtifactCorrupt when files cannot be decoded.
	Load(ctx context.Context, tenant domain.TenantID) (*Artifact, error)

	// Delete removes the tenant's artifacts. Missing artifacts are not an error.
	Delete(ctx context.Context, tenant domain.TenantID) error

	// List returns tenants with persisted artifacts.
	List(ctx context.Context) ([]domain.TenantID, error)
}
