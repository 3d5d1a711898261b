package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for assistant resources.
	uriScheme = "assistant://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Documents visible to the default role.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Uploaded documents visible to the default role",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Documents visible to a named role.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "roles/{role}/documents",
		Name:        "role-documents",
		Description: "Uploaded documents visible to a specific role",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleDocumentsResource lists uploaded documents for the role named in
// the URI, or the default role for the static resource.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	role := s.ports.role("")
	if req.Params.URI != uriScheme+"documents" {
		name := extractRole(req.Params.URI)
		if name == "" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		role = domain.Role(name)
	}

	docs, err := s.ports.Document.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	data, err := json.MarshalIndent(newDocumentOutputs(docs), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRole extracts the role from a URI like assistant://roles/{role}/documents.
func extractRole(uri string) string {
	const prefix = uriScheme + "roles/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	role := strings.TrimSuffix(uri, suffix)
	if strings.Contains(role, "/") {
		return ""
	}
	return role
}
