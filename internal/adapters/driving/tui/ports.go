// Package tui provides the interactive chat terminal interface for loom.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

// Ports aggregates the driving ports the chat needs.
type Ports struct {
	// Assistant answers questions from a tenant's index.
	Assistant driving.AssistantService

	// Refresh rebuilds the tenant's index on request. Optional.
	Refresh driving.RefreshService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
