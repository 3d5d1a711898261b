package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"the natural language query"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Role         string `json:"role,omitempty" jsonschema:"role to search as: admin, developer, marketing, sales or user"`
	UploadedOnly bool   `json:"uploaded_only,omitempty" jsonschema:"only return chunks from uploaded documents"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Content     string  `json:"content"`
	Source      string  `json:"source"`
	Filename    string  `json:"filename,omitempty"`
	ChunkIndex  int     `json:"chunk_index,omitempty"`
	TotalChunks int     `json:"total_chunks,omitempty"`
	Score       float64 `json:"score"`
}

// RoleInput selects the role a call runs as.
type RoleInput struct {
	Role string `json:"role,omitempty" jsonschema:"role to act as (default from settings)"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one uploaded document.
type DocumentOutput struct {
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

func newDocumentOutputs(docs []domain.DocumentSummary) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i, d := range docs {
		out[i] = DocumentOutput{
			Filename:   d.Filename,
			FileType:   d.FileType,
			ChunkCount: d.ChunkCount,
		}
		if !d.UploadedAt.IsZero() {
			out[i].UploadedAt = d.UploadedAt.Format(time.RFC3339)
		}
	}
	return out
}

// FilenameInput names an uploaded document.
type FilenameInput struct {
	Filename string `json:"filename" jsonschema:"the uploaded file name, for example policy.pdf"`
	Role     string `json:"role,omitempty" jsonschema:"role to act as (default from settings)"`
}

// CheckDocumentOutput is the output schema for the check_document tool.
type CheckDocumentOutput struct {
	Filename string `json:"filename"`
	Exists   bool   `json:"exists"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path    string `json:"path" jsonschema:"absolute path of a local PDF, DOCX or DOC file"`
	Replace bool   `json:"replace,omitempty" jsonschema:"replace a stored document with the same name"`
	Role    string `json:"role,omitempty" jsonschema:"role to act as (default from settings)"`
}

// AddContextInput is the input schema for the add_context tool.
type AddContextInput struct {
	Content   string   `json:"content" jsonschema:"the text to store"`
	Source    string   `json:"source" jsonschema:"source category such as slack-general, slack-sales, github or outlook"`
	Channel   string   `json:"channel,omitempty" jsonschema:"channel or mailbox"`
	Author    string   `json:"author,omitempty" jsonschema:"author of the message"`
	Timestamp string   `json:"timestamp,omitempty" jsonschema:"origin timestamp, stored verbatim"`
	Tags      []string `json:"tags,omitempty" jsonschema:"tags for the entry"`
	Role      string   `json:"role,omitempty" jsonschema:"role to act as (default from settings)"`
}

// AddContextOutput is the output schema for the add_context tool.
type AddContextOutput struct {
	Stored bool `json:"stored"`
}

// SaveInput is the empty input schema for the save_store tool.
type SaveInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over uploaded documents and workplace context visible to a role",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents visible to a role",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_document",
		Description: "Check whether a document with this file name is already stored",
	}, s.handleCheckDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete every chunk of an uploaded document",
	}, s.handleDeleteDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Extract, chunk, embed and store a local PDF or Word document",
	}, s.handleIngestDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_context",
		Description: "Store a chat message, email or other context entry under a source category",
	}, s.handleAddContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_store",
		Description: "Flush the document store to disk",
	}, s.handleSave)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Limit < 0 {
		input.Limit = 0
	}

	results, err := s.ports.Search.Search(ctx, input.Query, s.ports.role(input.Role), domain.SearchOptions{
		Limit:        input.Limit,
		UploadedOnly: input.UploadedOnly,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Content:     results[i].Content,
			Source:      results[i].Source,
			Filename:    results[i].Metadata.Filename,
			ChunkIndex:  results[i].Metadata.ChunkIndex,
			TotalChunks: results[i].Metadata.TotalChunks,
			Score:       results[i].Score,
		}
	}

	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RoleInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx, s.ports.role(input.Role))
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}
	return nil, ListDocumentsOutput{Documents: newDocumentOutputs(docs), Count: len(docs)}, nil
}

func (s *Server) handleCheckDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilenameInput,
) (*mcp.CallToolResult, CheckDocumentOutput, error) {
	name := filepath.Base(input.Filename)
	exists := s.ports.Document.CheckDuplicate(ctx, name, s.ports.role(input.Role))
	return nil, CheckDocumentOutput{Filename: name, Exists: exists}, nil
}

func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilenameInput,
) (*mcp.CallToolResult, domain.DeleteResult, error) {
	result := s.ports.Document.Delete(ctx, input.Filename, s.ports.role(input.Role))
	if !result.Success {
		return nil, result, errors.New(result.Error)
	}
	return nil, result, nil
}

func (s *Server) handleIngestDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, domain.IngestResult, error) {
	if input.Path == "" {
		return nil, domain.IngestResult{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, domain.IngestResult{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	result := s.ports.Document.ProcessDocument(ctx, domain.IngestRequest{
		Content:         content,
		Filename:        filepath.Base(input.Path),
		Role:            s.ports.role(input.Role),
		ReplaceExisting: input.Replace,
	})
	if !result.Success {
		return nil, result, result.Err
	}
	return nil, result, nil
}

func (s *Server) handleAddContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddContextInput,
) (*mcp.CallToolResult, AddContextOutput, error) {
	stored, err := s.ports.Document.AddContext(ctx, domain.ContextEntry{
		Content:   input.Content,
		Source:    input.Source,
		Channel:   input.Channel,
		Author:    input.Author,
		Timestamp: input.Timestamp,
		Tags:      input.Tags,
		Role:      s.ports.role(input.Role),
	})
	if err != nil && !stored {
		return nil, AddContextOutput{}, err
	}
	return nil, AddContextOutput{Stored: stored}, nil
}

func (s *Server) handleSave(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SaveInput,
) (*mcp.CallToolResult, domain.SaveResult, error) {
	result, err := s.ports.Document.Save(ctx)
	if err != nil {
		return nil, domain.SaveResult{}, fmt.Errorf("saving store: %w", err)
	}
	return nil, result, nil
}
