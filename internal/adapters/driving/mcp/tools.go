package mcp

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to ask about the uploaded documents"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to continue (omit to keep the current session)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string           `json:"answer"`
	ConversationID string           `json:"conversation_id,omitempty"`
	QueryType      string           `json:"query_type,omitempty"`
	UsedWebSearch  bool             `json:"used_web_search,omitempty"`
	Citations      []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput represents a single source citation.
type CitationOutput struct {
	DocumentName   string  `json:"document_name"`
	PageNumber     int     `json:"page_number,omitempty"`
	Preview        string  `json:"preview,omitempty"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// captureRenderer keeps the terminal snapshot of a stream.
type captureRenderer struct {
	mu    sync.Mutex
	final *driven.RenderSnapshot
}

func (r *captureRenderer) Render(snapshot driven.RenderSnapshot) {
	if snapshot.InProgress {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := snapshot
	r.final = &snap
}

func (r *captureRenderer) Final() *driven.RenderSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.final
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the uploaded documents and get an answer with citations",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.ConversationID != "" && s.ports.Conversations != nil {
		if _, err := s.ports.Conversations.Load(ctx, input.ConversationID); err != nil {
			return nil, AskOutput{}, err
		}
	}

	renderer := &captureRenderer{}
	chat := s.ports.ChatFactory(renderer)

	if err := chat.Send(ctx, input.Question); err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{}
	if final := renderer.Final(); final != nil {
		output.Answer = final.Content
		output.QueryType = final.QueryType
		output.UsedWebSearch = final.UsedWebSearch
		output.Citations = make([]CitationOutput, len(final.Citations))
		for i, c := range final.Citations {
			output.Citations[i] = CitationOutput{
				DocumentName:   c.DocumentName,
				PageNumber:     c.PageNumber,
				Preview:        c.Preview,
				RelevanceScore: c.RelevanceScore,
			}
		}
	}
	if s.ports.Conversations != nil {
		output.ConversationID = s.ports.Conversations.ActiveID()
	}

	return nil, output, nil
}
