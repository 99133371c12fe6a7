package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexUnavailable indicates a tenant has no usable index.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrArtifactCorrupt indicates persisted index files cannot be decoded
	// or disagree with each other.
	ErrArtifactCorrupt = errors.New("index artifact corrupt")

	// ErrDimensionMismatch indicates persisted vectors were produced by a
	// different embedding model or dimension. The tenant needs a rebuild.
	ErrDimensionMismatch = errors.New("index dimension mismatch: rebuild needed")

	// ErrNoEmbeddings indicates every embedding batch failed.
	ErrNoEmbeddings = errors.New("no embeddings produced")

	// ErrNothingToIndex indicates the exporter returned no documents.
	ErrNothingToIndex = errors.New("nothing to index")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Ask still returns retrieved context without a generated reply.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRefresherStopped indicates the refresher no longer accepts triggers.
	ErrRefresherStopped = errors.New("refresher stopped")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
