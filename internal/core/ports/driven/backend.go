package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// QueryStream is the decoded event sequence of one streaming query.
// It is finite and not restartable: Next returns events in arrival order
// and io.EOF once the stream ends (terminal sentinel or connection close).
type QueryStream interface {
	// Next returns the next decoded event. It blocks until an event is
	// available, the stream ends (io.EOF), or reading fails.
	Next() (domain.StreamEvent, error)

	// Close releases the underlying connection. Safe to call twice.
	Close() error
}

// BackendClient talks to the answering service over its REST and
// streaming endpoints. It is the only component that touches the network.
type BackendClient interface {
	// StreamQuery submits a query and returns the event stream.
	// conversationID may be empty for a new conversation.
	// A non-success response status is a transport error.
	StreamQuery(ctx context.Context, query, conversationID string) (QueryStream, error)

	// ListConversations fetches the authoritative conversation summaries,
	// most recent first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// History fetches the full message history for a conversation.
	// Every returned message is already complete.
	History(ctx context.Context, conversationID string) ([]domain.Message, error)

	// DeleteConversation removes a conversation on the backend.
	DeleteConversation(ctx context.Context, conversationID string) error

	// ListDocuments fetches the documents known to the backend.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// DeleteDocument removes a document on the backend.
	DeleteDocument(ctx context.Context, documentID string) error

	// UploadDocument sends a local file to the backend for processing.
	// Files over the client-side size cap are rejected without a request.
	UploadDocument(ctx context.Context, path string) (domain.DocumentInfo, error)

	// Health probes the backend health endpoint. Probes are throttled;
	// within the throttle window the last known status is returned.
	Health(ctx context.Context) (domain.HealthStatus, error)
}
