// Package gemini provides an embedding service adapter for the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/googleai"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "models/text-embedding-004"
	DefaultDimensions = 768
	DefaultTimeout    = 60 * time.Second
)

// Retrieval task types. Documents and queries are embedded asymmetrically.
const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key.
	APIKey string

	// AccessToken is an OAuth token used when APIKey is empty.
	AccessToken string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the embedding model (default: models/text-embedding-004).
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration
}

// EmbeddingService generates embeddings using Gemini.
type EmbeddingService struct {
	client     *genai.Client
	model      string
	dimensions int
	timeout    time.Duration
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := googleai.NewClient(context.Background(), googleai.Credentials{
		APIKey:      cfg.APIKey,
		AccessToken: cfg.AccessToken,
		BaseURL:     cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &EmbeddingService{
		client:     client,
		model:      googleai.ModelPath(cfg.Model),
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
	}, nil
}

// EmbedBatch embeds texts in one request. Documents and queries use the
// matching retrieval task type.
func (s *EmbeddingService) EmbedBatch(
	ctx context.Context, texts []string, task domain.EmbeddingTask,
) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	config := &genai.EmbedContentConfig{TaskType: taskRetrievalDocument}
	if task == domain.TaskQuery {
		config.TaskType = taskRetrievalQuery
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Models.EmbedContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: embed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini: embedding %d missing", i)
		}
		embeddings[i] = append([]float32(nil), e.Values...)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata, which validates credentials without
// running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
