package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// EmbeddedText is a vector for one input text, identified by its
// position in the input slice.
type EmbeddedText struct {
	Ordinal int
	Vector  []float32
}

// BatchEmbedder embeds texts in fixed-size batches, one request at a
// time, spacing requests with a token-bucket limiter. A failed batch is
// logged and dropped; the other batches still count.
type BatchEmbedder struct {
	svc       driven.EmbeddingService
	batchSize int
	limiter   *rate.Limiter
}

// NewBatchEmbedder creates a batch embedder. batchSize is clamped to
// [1, domain.MaxBatchSize]; interval <= 0 disables spacing.
func NewBatchEmbedder(svc driven.EmbeddingService, batchSize int, interval time.Duration) *BatchEmbedder {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	if batchSize > domain.MaxBatchSize {
		batchSize = domain.MaxBatchSize
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &BatchEmbedder{
		svc:       svc,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// BatchSize returns the number of texts per request.
func (e *BatchEmbedder) BatchSize() int {
	return e.batchSize
}

// EmbedDocuments embeds texts with the document task. The result lists
// the successful ordinals in ascending order. Only context cancellation
// is returned as an error.
func (e *BatchEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([]EmbeddedText, error) {
	out := make([]EmbeddedText, 0, len(texts))
	failed := 0

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		if err := e.limiter.Wait(ctx); err != nil {
			return out, fmt.Errorf("wait for embedding slot: %w", err)
		}

		vectors, err := e.svc.EmbedBatch(ctx, texts[start:end], domain.TaskDocument)
		if err == nil && len(vectors) != end-start {
			err = fmt.Errorf("got %d vectors for %d texts", len(vectors), end-start)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			failed++
			logger.Warn("embedding batch %d-%d failed, skipping: %v", start, end-1, err)
			continue
		}

		for i, v := range vectors {
			if len(v) == 0 {
				logger.Warn("embedding for text %d is empty, skipping", start+i)
				continue
			}
			out = append(out, EmbeddedText{Ordinal: start + i, Vector: v})
		}
	}

	if failed > 0 {
		logger.Warn("embedded %d of %d texts (%d failed batches)", len(out), len(texts), failed)
	} else {
		logger.Debug("embedded %d texts in batches of %d", len(out), e.batchSize)
	}
	return out, nil
}

// EmbedQuery embeds a single query with the query task. Queries skip the
// limiter so interactive lookups are not queued behind a rebuild.
func (e *BatchEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := e.svc.EmbedBatch(ctx, []string{query}, domain.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	return vectors[0], nil
}
