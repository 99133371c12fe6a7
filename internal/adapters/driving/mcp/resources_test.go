package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

func TestExtractTenant(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"shop runs URI", "loom://tenants/shop-7/runs", "shop-7"},
		{"catalog runs URI", "loom://tenants/catalog/runs", "catalog"},
		{"invalid prefix", "file://tenants/shop-7/runs", ""},
		{"missing runs suffix", "loom://tenants/shop-7", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTenant(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleTenantsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no resident tenants", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}})
		require.NoError(t, err)

		result, err := server.handleTenantsResource(ctx, makeReadResourceRequest("loom://tenants"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists resident tenants", func(t *testing.T) {
		index := &mockIndexService{infos: map[domain.TenantID]domain.IndexInfo{
			domain.CatalogTenant: {Tenant: domain.CatalogTenant, Vectors: 30, Model: "nomic-embed-text"},
		}}
		server, err := NewServer(&Ports{Index: index})
		require.NoError(t, err)

		result, err := server.handleTenantsResource(ctx, makeReadResourceRequest("loom://tenants"))

		require.NoError(t, err)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"tenant": "catalog"`)
		assert.Contains(t, result.Contents[0].Text, "nomic-embed-text")
	})
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("nil refresh service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("loom://tenants/shop-7/runs"))
		assert.Error(t, err)
	})

	t.Run("invalid tenant is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Refresh: &mockRefreshService{}})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("loom://tenants/shop-x/runs"))
		assert.Error(t, err)
	})

	t.Run("returns runs", func(t *testing.T) {
		refresh := &mockRefreshService{runs: []domain.RebuildRun{{
			ID:        "run-1",
			Tenant:    domain.ShopTenant(7),
			Reason:    domain.ReasonUpload,
			StartedAt: start,
			EndedAt:   start.Add(2 * time.Second),
			Success:   true,
			Vectors:   5,
		}}}
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Refresh: refresh})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("loom://tenants/shop-7/runs"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, "run-1")
		assert.Contains(t, text, `"reason": "upload"`)
		assert.Contains(t, text, `"duration": "2s"`)
	})

	t.Run("history error", func(t *testing.T) {
		refresh := &mockRefreshService{err: errors.New("db locked")}
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Refresh: refresh})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("loom://tenants/shop-7/runs"))
		assert.ErrorContains(t, err, "db locked")
	})
}
