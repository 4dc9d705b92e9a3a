package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for docchat resources.
const uriScheme = "docchat://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing conversations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversations",
		Name:        "conversations",
		Description: "List of stored conversations",
		MIMEType:    "application/json",
	}, s.handleConversationsResource)

	// Template for a conversation's history.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{conversationId}",
		Name:        "conversation-history",
		Description: "Message history of a specific conversation",
		MIMEType:    "application/json",
	}, s.handleConversationHistoryResource)

	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents uploaded to the backend",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleConversationsResource returns the conversation summaries.
func (s *Server) handleConversationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversations == nil {
		return emptyJSONResource(req.Params.URI), nil
	}

	if err := s.ports.Conversations.Reconcile(ctx); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	type conversationInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	summaries := s.ports.Conversations.Summaries()
	infos := make([]conversationInfo, len(summaries))
	for i, conv := range summaries {
		infos[i] = conversationInfo{ID: conv.ID, Title: conv.Title}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleConversationHistoryResource returns a conversation's messages.
func (s *Server) handleConversationHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Conversations == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	conversationID := extractConversationID(req.Params.URI)
	if conversationID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	history, err := s.ports.Conversations.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	type messageInfo struct {
		Role      string   `json:"role"`
		Content   string   `json:"content"`
		Citations []string `json:"citations,omitempty"`
	}

	infos := make([]messageInfo, len(history))
	for i := range history {
		role := "user"
		if history[i].Role == domain.RoleAssistant {
			role = "assistant"
		}
		info := messageInfo{Role: role, Content: history[i].Content}
		for _, c := range history[i].Citations {
			info.Citations = append(info.Citations, c.DocumentName)
		}
		infos[i] = info
	}

	return jsonResource(req.Params.URI, infos)
}

// handleDocumentsResource returns the uploaded document list.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return emptyJSONResource(req.Params.URI), nil
	}

	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type documentInfo struct {
		ID        string `json:"id"`
		Filename  string `json:"filename"`
		NumChunks int    `json:"num_chunks"`
	}

	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = documentInfo{
			ID:        docs[i].ID,
			Filename:  docs[i].Filename,
			NumChunks: docs[i].NumChunks,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// extractConversationID extracts the ID from a URI like docchat://conversations/{conversationId}.
func extractConversationID(uri string) string {
	const prefix = uriScheme + "conversations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

// jsonResource builds a JSON resource result.
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

// emptyJSONResource builds an empty JSON list resource.
func emptyJSONResource(uri string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     "[]",
		}},
	}
}
