package mcp

import (
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Index answers similarity searches.
	Index driving.IndexService

	// Refresh schedules rebuilds and reports their state. Optional.
	Refresh driving.RefreshService

	// Assistant answers questions. Optional; without it ask is not registered.
	Assistant driving.AssistantService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
