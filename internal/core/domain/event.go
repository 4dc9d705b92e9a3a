package domain

// EventType discriminates the stream event union.
type EventType string

const (
	// EventStart assigns the conversation ID for the request.
	// At most one per stream is honoured.
	EventStart EventType = "start"

	// EventStatus is a transient progress update.
	EventStatus EventType = "status"

	// EventToken carries one answer delta.
	EventToken EventType = "token"

	// EventComplete ends the answer with citations and metadata.
	EventComplete EventType = "complete"

	// EventError is a server-signalled error. Non-fatal: the stream may
	// still produce tokens or a complete event afterwards.
	EventError EventType = "error"
)

// StreamEvent is one decoded event of a query stream. Exactly the fields
// relevant to Type are populated.
type StreamEvent struct {
	// Type discriminates which fields are meaningful.
	Type EventType

	// ConversationID is set for start events.
	ConversationID string

	// Message is set for status and error events.
	Message string

	// Content is the token delta for token events.
	Content string

	// Citations are set for complete events, in ranking order.
	Citations []Citation

	// Metadata is set for complete events.
	Metadata QueryMetadata
}
