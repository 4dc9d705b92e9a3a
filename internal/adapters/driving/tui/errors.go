package tui

import "errors"

// Validation errors for the Ports aggregate.
var (
	// ErrMissingChatService indicates the chat service port is nil.
	ErrMissingChatService = errors.New("tui: chat service is required")

	// ErrMissingConversationService indicates the conversation service port is nil.
	ErrMissingConversationService = errors.New("tui: conversation service is required")

	// ErrMissingDocumentService indicates the document service port is nil.
	ErrMissingDocumentService = errors.New("tui: document service is required")
)
