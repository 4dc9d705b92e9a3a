package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// StreamState is the orchestrator's lifecycle state for one query.
type StreamState int

const (
	// StateIdle means no query is in flight; input is accepted.
	StateIdle StreamState = iota

	// StateSending means the request was issued but no bytes arrived yet.
	StateSending

	// StateStreaming means events are being decoded and routed.
	StateStreaming

	// StateCompleted is the terminal state of a successful stream.
	StateCompleted

	// StateErrored is the terminal state of a failed or incomplete stream.
	StateErrored
)

// String returns the state name.
func (s StreamState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ChatService drives one streaming query at a time.
type ChatService interface {
	// Send submits a query and blocks until the stream terminates.
	// Empty or whitespace-only queries return domain.ErrEmptyQuery
	// without a request. A second Send while one is in flight returns
	// domain.ErrQueryInFlight; callers treat it as a no-op.
	Send(ctx context.Context, query string) error

	// Busy reports whether a query is in flight.
	Busy() bool

	// State returns the current stream state.
	State() StreamState
}

// ConversationService manages the conversation list and active session.
type ConversationService interface {
	// Summaries returns the current summary list, most recent first.
	Summaries() []domain.Conversation

	// ActiveID returns the active conversation ID, empty if none.
	ActiveID() string

	// Reconcile replaces the summaries with the backend's authoritative
	// list, deduplicated by ID.
	Reconcile(ctx context.Context) error

	// Remove deletes a conversation. Deleting the active conversation
	// clears the active ID and resets to an empty view.
	Remove(ctx context.Context, id string) error

	// Load fetches the full history of a conversation and makes it the
	// active session. Every returned message is complete.
	Load(ctx context.Context, id string) ([]domain.Message, error)

	// Reset clears the active session for a new conversation and cancels
	// any pending reconciliation.
	Reset()

	// SetResetHandler registers the callback invoked when removing a
	// conversation cleared the active session. Presentation layers use
	// it to fall back to an empty view.
	SetResetHandler(fn func())
}

// DocumentService manages backend documents.
type DocumentService interface {
	// List returns the documents known to the backend.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Upload sends a local file to the backend for processing.
	Upload(ctx context.Context, path string) (domain.DocumentInfo, error)

	// Remove deletes a document on the backend.
	Remove(ctx context.Context, id string) error
}
