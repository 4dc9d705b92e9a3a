package mcp

import (
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// ChatFactory builds a chat service bound to a renderer. Each ask tool
// call gets a fresh capture renderer; the underlying conversation state
// is shared, so follow-up questions continue the same conversation.
type ChatFactory func(renderer driven.Renderer) driving.ChatService

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// ChatFactory builds chat sessions for the ask tool.
	ChatFactory ChatFactory

	// Conversations manages the conversation list. Optional.
	Conversations driving.ConversationService

	// Documents manages backend documents. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.ChatFactory == nil {
		return ErrMissingChatFactory
	}
	// Conversations and Documents are optional
	return nil
}
