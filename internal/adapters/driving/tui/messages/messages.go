// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation input and transcript view.
	ViewChat ViewType = iota
	// ViewConversations is the conversation list view.
	ViewConversations
	// ViewDocuments lists documents on the backend.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewConversations:
		return "conversations"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SnapshotUpdated carries the latest render state of the in-progress
// assistant message. Published for every token, status line change, and
// terminal transition.
type SnapshotUpdated struct {
	Snapshot driven.RenderSnapshot
}

// QuerySubmitted records the user's turn before the stream opens.
type QuerySubmitted struct {
	Query string
}

// QueryFinished signals that a query stream terminated.
type QueryFinished struct {
	Err error
}

// ConversationsLoaded carries the conversation summaries.
type ConversationsLoaded struct {
	Conversations []domain.Conversation
	Err           error
}

// ConversationOpened carries a loaded conversation history.
type ConversationOpened struct {
	ID       string
	Messages []domain.Message
	Err      error
}

// ConversationRemoved signals a conversation was deleted.
type ConversationRemoved struct {
	ID  string
	Err error
}

// ConversationReset signals the chat view should show an empty session.
type ConversationReset struct{}

// DocumentsLoaded carries the document list from the backend.
type DocumentsLoaded struct {
	Documents []domain.DocumentInfo
	Err       error
}

// DocumentRemoved signals a document was deleted.
type DocumentRemoved struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
