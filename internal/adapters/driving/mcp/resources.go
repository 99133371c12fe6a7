package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for loom resources.
	uriScheme = "loom://"

	// runsLimit caps the run history returned by the runs resource.
	runsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tenants",
		Name:        "tenants",
		Description: "Tenants with a resident index",
		MIMEType:    "application/json",
	}, s.handleTenantsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tenants/{tenant}/runs",
		Name:        "tenant-runs",
		Description: "Recent rebuild runs of a tenant, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)
}

// handleTenantsResource lists resident tenants and their index metadata.
func (s *Server) handleTenantsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tenants := s.ports.Index.Tenants()
	infos := make([]TenantStatus, len(tenants))
	for i, tenant := range tenants {
		infos[i] = s.tenantStatus(tenant)
	}
	return jsonResource(req.Params.URI, infos)
}

// handleRunsResource returns the rebuild history of a tenant.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Refresh == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tenant, err := domain.ParseTenant(extractTenant(req.Params.URI))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runs, err := s.ports.Refresh.History(ctx, tenant, runsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	type runInfo struct {
		ID        string `json:"id"`
		Reason    string `json:"reason"`
		StartedAt string `json:"started_at"`
		Duration  string `json:"duration"`
		Success   bool   `json:"success"`
		Error     string `json:"error,omitempty"`
		Vectors   int    `json:"vectors"`
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = runInfo{
			ID:        runs[i].ID,
			Reason:    string(runs[i].Reason),
			StartedAt: runs[i].StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			Duration:  runs[i].Duration().String(),
			Success:   runs[i].Success,
			Error:     runs[i].Error,
			Vectors:   runs[i].Vectors,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTenant extracts the tenant from a URI like loom://tenants/{tenant}/runs.
func extractTenant(uri string) string {
	const prefix = uriScheme + "tenants/"
	const suffix = "/runs"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	tenant, ok := strings.CutSuffix(rest, suffix)
	if !ok {
		return ""
	}
	return tenant
}
