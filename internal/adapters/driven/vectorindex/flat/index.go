// Package flat provides an exact inner-product vector index.
//
// Vectors are L2-normalised when the index is built, so scores are cosine
// similarities in [-1, 1]. Every search scans all vectors; tenant indexes
// hold a few hundred chunks at most.
package flat

import (
	"cmp"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/viant/vec/search"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.VectorIndex        = (*Index)(nil)
	_ driven.VectorIndexBuilder = Builder{}
)

// FormatVersion is the version written by MarshalBinary.
const FormatVersion = 1

var magic = [8]byte{'L', 'O', 'O', 'M', 'F', 'L', 'A', 'T'}

const headerSize = len(magic) + 3*4

// padScore is the score reported for padded NoMatch slots.
const padScore = -math.MaxFloat32

// ErrInvalidData indicates bytes that are not a flat index.
var ErrInvalidData = errors.New("flat: invalid index data")

// Index is an immutable exact inner-product index.
type Index struct {
	dim  int
	vecs [][]float32
}

// Builder creates flat indexes.
type Builder struct{}

// Build implements driven.VectorIndexBuilder.
func (Builder) Build(vectors [][]float32) (driven.VectorIndex, error) {
	return New(vectors)
}

// Load implements driven.VectorIndexBuilder.
func (Builder) Load(data []byte) (driven.VectorIndex, error) {
	idx := &Index{}
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return idx, nil
}

// New builds an index over copies of vectors, normalising each one.
func New(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("flat: no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("flat: zero-dimension vector")
	}
	vecs := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("flat: inconsistent vector dims %d vs %d at ordinal %d", len(v), dim, i)
		}
		vecs[i] = Normalize(v)
	}
	return &Index{dim: dim, vecs: vecs}, nil
}

// Normalize returns a unit-length copy of v. Zero vectors stay zero.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	mag := search.Float32s(v).Magnitude()
	if mag == 0 || math.IsNaN(float64(mag)) {
		return out
	}
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}

// Dimension returns the vector size.
func (i *Index) Dimension() int {
	return i.dim
}

// Len returns the number of vectors.
func (i *Index) Len() int {
	return len(i.vecs)
}

// Search returns the k best ordinals by inner product with the normalised
// query. Ties keep ordinal order. Slots beyond Len hold driven.NoMatch.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("flat: query dim %d != index dim %d", len(query), i.dim)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := Normalize(query)
	hits := make([]driven.VectorHit, len(i.vecs))
	for n, v := range i.vecs {
		hits[n] = driven.VectorHit{Ordinal: n, Score: dot(q, v)}
	}
	slices.SortStableFunc(hits, func(a, b driven.VectorHit) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if k < len(hits) {
		return hits[:k], nil
	}
	for len(hits) < k {
		hits = append(hits, driven.VectorHit{Ordinal: driven.NoMatch, Score: padScore})
	}
	return hits, nil
}

// MarshalBinary stores: magic, version(uint32), dim(uint32), n(uint32),
// then n*dim little-endian float32 values.
func (i *Index) MarshalBinary() ([]byte, error) {
	out := make([]byte, headerSize, headerSize+4*i.dim*len(i.vecs))
	copy(out, magic[:])
	binary.LittleEndian.PutUint32(out[8:12], FormatVersion)
	binary.LittleEndian.PutUint32(out[12:16], uint32(i.dim))
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(i.vecs)))
	for _, v := range i.vecs {
		for _, x := range v {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(x))
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || [8]byte(data[:8]) != magic {
		return ErrInvalidData
	}
	if v := binary.LittleEndian.Uint32(data[8:12]); v != FormatVersion {
		return fmt.Errorf("%w: format version %d", ErrInvalidData, v)
	}
	dim := int(binary.LittleEndian.Uint32(data[12:16]))
	n := int(binary.LittleEndian.Uint32(data[16:20]))
	if dim == 0 || n == 0 {
		return fmt.Errorf("%w: empty index", ErrInvalidData)
	}
	// Check against the payload by division; dim*n from the header is
	// untrusted and may overflow.
	floats := (len(data) - headerSize) / 4
	if (len(data)-headerSize)%4 != 0 || floats%dim != 0 || floats/dim != n {
		return fmt.Errorf("%w: header says %d vectors of %d dims, payload holds %d floats",
			ErrInvalidData, n, dim, floats)
	}

	off := headerSize
	vecs := make([][]float32, n)
	for row := range vecs {
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vecs[row] = v
	}
	i.dim = dim
	i.vecs = vecs
	return nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
