// Package artifacts persists tenant vector indexes as a pair of files.
//
// Each tenant gets a directory under the base path holding index.bin (the
// encoded vector index) and store.json (a versioned header plus the doc
// store). Both files are written to a temp file and renamed into place.
// store.json records a SHA-256 of index.bin so a pair left mismatched by a
// crash between the two renames is reported as corrupt instead of loaded.
package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ArtifactStore = (*Store)(nil)

// File names inside a tenant directory.
const (
	IndexFile = "index.bin"
	StoreFile = "store.json"
)

// Store is a filesystem ArtifactStore.
type Store struct {
	base string
}

// storeFile is the JSON layout of store.json.
type storeFile struct {
	driven.ArtifactHeader
	IndexSHA256 string            `json:"index_sha256"`
	Documents   []domain.Document `json:"documents"`
}

// NewStore creates a store rooted at base, creating the directory.
func NewStore(base string) (*Store, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: empty artifact directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{base: base}, nil
}

// Base returns the root directory.
func (s *Store) Base() string {
	return s.base
}

func (s *Store) dir(tenant domain.TenantID) (string, error) {
	if err := tenant.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(s.base, string(tenant)), nil
}

// Save writes index.bin then store.json.
func (s *Store) Save(ctx context.Context, tenant domain.TenantID, artifact *driven.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("%w: nil artifact", domain.ErrInvalidInput)
	}
	if artifact.Header.Count != len(artifact.Documents) {
		return fmt.Errorf("%w: header count %d != %d documents",
			domain.ErrInvalidInput, artifact.Header.Count, len(artifact.Documents))
	}
	dir, err := s.dir(tenant)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create tenant directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sum := sha256.Sum256(artifact.Index)
	payload, err := json.Marshal(storeFile{
		ArtifactHeader: artifact.Header,
		IndexSHA256:    hex.EncodeToString(sum[:]),
		Documents:      artifact.Documents,
	})
	if err != nil {
		return fmt.Errorf("marshal doc store: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, IndexFile), artifact.Index); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, StoreFile), payload); err != nil {
		return fmt.Errorf("write doc store: %w", err)
	}
	return nil
}

// Load reads and cross-checks both files.
func (s *Store) Load(ctx context.Context, tenant domain.TenantID) (*driven.Artifact, error) {
	dir, err := s.dir(tenant)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(filepath.Join(dir, StoreFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read doc store: %w", err)
	}
	index, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s missing", domain.ErrArtifactCorrupt, IndexFile)
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var sf storeFile
	if err := json.Unmarshal(payload, &sf); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrArtifactCorrupt, StoreFile, err)
	}
	if sf.Count != len(sf.Documents) {
		return nil, fmt.Errorf("%w: header count %d != %d documents",
			domain.ErrArtifactCorrupt, sf.Count, len(sf.Documents))
	}
	sum := sha256.Sum256(index)
	if sf.IndexSHA256 != hex.EncodeToString(sum[:]) {
		return nil, fmt.Errorf("%w: %s does not match %s", domain.ErrArtifactCorrupt, IndexFile, StoreFile)
	}

	return &driven.Artifact{
		Header:    sf.ArtifactHeader,
		Index:     index,
		Documents: sf.Documents,
	}, nil
}

// Delete removes the tenant directory.
func (s *Store) Delete(_ context.Context, tenant domain.TenantID) error {
	dir, err := s.dir(tenant)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove tenant directory: %w", err)
	}
	return nil
}

// List returns tenants whose directory holds a doc store, sorted.
func (s *Store) List(_ context.Context) ([]domain.TenantID, error) {
	entries, err := os.ReadDir(s.base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact directory: %w", err)
	}

	var tenants []domain.TenantID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tenant := domain.TenantID(e.Name())
		if tenant.Validate() != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.base, e.Name(), StoreFile)); err != nil {
			continue
		}
		tenants = append(tenants, tenant)
	}
	slices.Sort(tenants)
	return tenants, nil
}

// writeFileAtomic writes data to a temp file in the target directory,
// syncs it and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
