// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, indexes cannot be built or queried.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// EmbedBatch generates one embedding per text, in input order.
	// The task tells providers that distinguish documents from queries
	// which representation to produce.
	EmbedBatch(ctx context.Context, texts []string, task domain.EmbeddingTask) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Persisted indexes are stamped with it.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
