// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives streaming queries.
	Chat driving.ChatService

	// Conversations manages the conversation list and active session.
	Conversations driving.ConversationService

	// Documents manages backend documents.
	Documents driving.DocumentService

	// History provides prompt recall in the input. Optional.
	History driven.PromptHistoryStore

	// Renderer bridges stream snapshots into the program. Optional; when
	// set, Run attaches it so the chat service can publish snapshots.
	Renderer *ProgramRenderer
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	conversations driving.ConversationService,
	documents driving.DocumentService,
) *Ports {
	return &Ports{
		Chat:          chat,
		Conversations: conversations,
		Documents:     documents,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Conversations == nil {
		return ErrMissingConversationService
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	return nil
}
