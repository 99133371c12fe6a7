package driven

import "context"

// NoMatch is the ordinal reported for result slots that have no vector.
const NoMatch = -1

// VectorIndex is an immutable nearest-neighbour index over one tenant's vectors.
// Ordinal i refers to the i-th vector passed to Build.
type VectorIndex interface {
	// Dimension returns the vector size.
	Dimension() int

	// Len returns the number of indexed vectors.
	Len() int

	// Search returns k hits ordered by descending score.
	// When k exceeds Len the tail is padded with NoMatch ordinals.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// MarshalBinary encodes the index for persistence.
	MarshalBinary() ([]byte, error)
}

// VectorIndexBuilder creates indexes from vectors or persisted bytes.
type VectorIndexBuilder interface {
	// Build indexes vectors. All vectors must share one dimension.
	Build(vectors [][]float32) (VectorIndex, error)

	// Load decodes bytes produced by VectorIndex.MarshalBinary.
	Load(data []byte) (VectorIndex, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Ordinal is the vector position, or NoMatch.
	Ordinal int

	// Score is the inner product of the normalised vectors.
	Score float64
}
