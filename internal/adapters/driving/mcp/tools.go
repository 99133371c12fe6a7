package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// defaultSearchLimit is the number of matches returned when none is given.
const defaultSearchLimit = domain.DefaultTopK

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Tenant string `json:"tenant" jsonschema:"tenant to search: catalog, shop-<id> or a shop id"`
	Query  string `json:"query" jsonschema:"the text to find similar chunks for"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 6)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Tenant  string        `json:"tenant"`
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput represents a single matched chunk.
type MatchOutput struct {
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
	OriginIdx  int     `json:"orig_index"`
	ChunkIndex int     `json:"chunk_index"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Tenant   string `json:"tenant" jsonschema:"tenant to ask: catalog, shop-<id> or a shop id"`
	Question string `json:"question" jsonschema:"the question to answer from the tenant's data"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string        `json:"answer,omitempty"`
	Note    string        `json:"note,omitempty"`
	Matches []MatchOutput `json:"matches"`
}

// RefreshInput is the input schema for the refresh tool.
type RefreshInput struct {
	Tenant string `json:"tenant" jsonschema:"tenant to rebuild: catalog, shop-<id> or a shop id"`
	Wait   bool   `json:"wait,omitempty" jsonschema:"rebuild synchronously and return the run record"`
	Reason string `json:"reason,omitempty" jsonschema:"why the rebuild is requested: manual (default) or login"`
}

// RefreshOutput is the output schema for the refresh tool.
type RefreshOutput struct {
	Tenant    string `json:"tenant"`
	Ack       string `json:"ack,omitempty"`
	Success   bool   `json:"success,omitempty"`
	Error     string `json:"error,omitempty"`
	Documents int    `json:"documents,omitempty"`
	Vectors   int    `json:"vectors,omitempty"`
}

// StatusInput is the input schema for the status tool.
type StatusInput struct {
	Tenant string `json:"tenant,omitempty" jsonschema:"tenant to describe; all resident tenants when empty"`
}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Tenants []TenantStatus `json:"tenants"`
}

// TenantStatus describes one tenant's index and refresh state.
type TenantStatus struct {
	Tenant    string     `json:"tenant"`
	State     string     `json:"state"`
	Pending   bool       `json:"pending,omitempty"`
	Runs      int        `json:"runs"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Resident  bool       `json:"resident"`
	Vectors   int        `json:"vectors,omitempty"`
	Dimension int        `json:"dimension,omitempty"`
	Model     string     `json:"model,omitempty"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the chunks of a tenant's index most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Describe tenant indexes and their rebuild state",
	}, s.handleStatus)

	if s.ports.Assistant != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from a shop's sales data or the store-wide catalog",
		}, s.handleAsk)
	}

	if s.ports.Refresh != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "refresh",
			Description: "Rebuild a tenant's index from the marketplace database",
		}, s.handleRefresh)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	tenant, err := domain.ParseTenant(input.Tenant)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches := s.ports.Index.FindBestMatches(ctx, tenant, input.Query, limit)
	return nil, SearchOutput{
		Tenant:  tenant.String(),
		Matches: toMatchOutputs(matches),
		Count:   len(matches),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	tenant, err := domain.ParseTenant(input.Tenant)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Assistant.Ask(ctx, tenant, input.Question)
	switch {
	case errors.Is(err, domain.ErrLLMUnavailable) && answer != nil:
		return nil, AskOutput{
			Note:    "no LLM configured; returning retrieved context only",
			Matches: toMatchOutputs(answer.Matches),
		}, nil
	case err != nil:
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Matches: toMatchOutputs(answer.Matches),
	}, nil
}

// handleRefresh handles the refresh tool invocation.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	tenant, err := domain.ParseTenant(input.Tenant)
	if err != nil {
		return nil, RefreshOutput{}, err
	}

	reason, err := refreshReason(input.Reason)
	if err != nil {
		return nil, RefreshOutput{}, err
	}

	if !input.Wait {
		ack, err := s.ports.Refresh.Trigger(tenant, reason)
		if err != nil {
			return nil, RefreshOutput{}, fmt.Errorf("triggering refresh: %w", err)
		}
		return nil, RefreshOutput{Tenant: tenant.String(), Ack: string(ack)}, nil
	}

	run, err := s.ports.Refresh.RefreshNow(ctx, tenant, reason)
	if run == nil {
		return nil, RefreshOutput{}, fmt.Errorf("refreshing %s: %w", tenant, err)
	}

	return nil, RefreshOutput{
		Tenant:    tenant.String(),
		Success:   run.Success,
		Error:     run.Error,
		Documents: run.Documents,
		Vectors:   run.Vectors,
	}, nil
}

// refreshReason maps the tool's reason argument. Clients may only
// request manual and login rebuilds.
func refreshReason(s string) (domain.TriggerReason, error) {
	switch domain.TriggerReason(s) {
	case "", domain.ReasonManual:
		return domain.ReasonManual, nil
	case domain.ReasonLogin:
		return domain.ReasonLogin, nil
	default:
		return "", fmt.Errorf("%w: unknown refresh reason %q", domain.ErrInvalidInput, s)
	}
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	var tenants []domain.TenantID
	if input.Tenant != "" {
		tenant, err := domain.ParseTenant(input.Tenant)
		if err != nil {
			return nil, StatusOutput{}, err
		}
		tenants = []domain.TenantID{tenant}
	} else {
		tenants = s.ports.Index.Tenants()
		if !slices.Contains(tenants, domain.CatalogTenant) {
			tenants = append(tenants, domain.CatalogTenant)
		}
	}

	out := StatusOutput{Tenants: make([]TenantStatus, 0, len(tenants))}
	for _, tenant := range tenants {
		out.Tenants = append(out.Tenants, s.tenantStatus(tenant))
	}
	return nil, out, nil
}

func (s *Server) tenantStatus(tenant domain.TenantID) TenantStatus {
	st := TenantStatus{Tenant: tenant.String(), State: string(domain.RefreshIdle)}

	if s.ports.Refresh != nil {
		rs := s.ports.Refresh.Status(tenant)
		st.State = string(rs.State)
		st.Pending = rs.Pending
		st.Runs = rs.Runs
		st.LastError = rs.LastError
		if !rs.LastRun.IsZero() {
			st.LastRun = &rs.LastRun
		}
	}

	if info, ok := s.ports.Index.Info(tenant); ok {
		st.Resident = true
		st.Vectors = info.Vectors
		st.Dimension = info.Dimension
		st.Model = info.Model
		st.BuiltAt = &info.BuiltAt
	}
	return st
}

func toMatchOutputs(matches []domain.Match) []MatchOutput {
	out := make([]MatchOutput, len(matches))
	for i, m := range matches {
		out[i] = MatchOutput{
			Text:       m.Document.Text,
			Source:     m.Document.Source,
			Score:      m.Score,
			OriginIdx:  m.Document.Metadata.OriginIndex,
			ChunkIndex: m.Document.Metadata.ChunkIndex,
		}
	}
	return out
}
