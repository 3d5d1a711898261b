// Package tui provides an interactive terminal interface for searching and
// managing the document store. It is a driving adapter over the core services.
package tui

import (
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI depends on.
type Ports struct {
	// Search answers queries.
	Search driving.SearchService

	// Document lists and deletes uploaded documents.
	Document driving.DocumentService

	// Role is the role every query and deletion runs as.
	Role domain.Role
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

// role returns the configured role, falling back to RoleUser.
func (p *Ports) role() domain.Role {
	if p.Role == "" {
		return domain.RoleUser
	}
	return p.Role
}
