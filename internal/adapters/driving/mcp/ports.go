package mcp

import (
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search provides similarity search.
	Search driving.SearchService

	// Document manages uploaded documents and context entries.
	Document driving.DocumentService

	// DefaultRole is used when a tool call does not name a role.
	DefaultRole domain.Role
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}

// role returns requested, else the configured default, else RoleUser.
func (p *Ports) role(requested string) domain.Role {
	if requested != "" {
		return domain.Role(requested)
	}
	if p.DefaultRole != "" {
		return p.DefaultRole
	}
	return domain.RoleUser
}
