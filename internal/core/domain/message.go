package domain

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message written by the user.
	RoleUser Role = "user"

	// RoleAssistant is a message produced by the answering service.
	RoleAssistant Role = "assistant"
)

// MessageStatus is the lifecycle state of a message.
type MessageStatus string

const (
	// StatusStreaming means the message is still receiving tokens.
	StatusStreaming MessageStatus = "streaming"

	// StatusComplete means the message finished successfully.
	StatusComplete MessageStatus = "complete"

	// StatusErrored means the message ended with an error; any content
	// streamed before the failure is preserved.
	StatusErrored MessageStatus = "errored"
)

// Message is a single conversation turn.
// A user message is always created complete. An assistant message is
// created streaming and transitions exactly once to complete or errored;
// content is append-only while streaming.
type Message struct {
	// ID is an opaque message identifier.
	ID string

	// Role is the message author.
	Role Role

	// Content is the message text. Append-only while streaming.
	Content string

	// Status is the lifecycle state.
	Status MessageStatus

	// Citations are the source references backing the answer, in the
	// ranking order delivered by the backend. Immutable once attached.
	Citations []Citation

	// ErrorText is a one-line human-readable note set instead of
	// citations when Status is errored.
	ErrorText string
}

// Citation is a reference to a source document fragment backing part of
// an answer.
type Citation struct {
	// DocumentName is the source document's display name.
	DocumentName string

	// PageNumber is the page within the document, if known (0 = unknown).
	PageNumber int

	// ChunkText is the cited fragment.
	ChunkText string

	// RelevanceScore is the upstream ranking score, if reported.
	RelevanceScore float64
}

// QueryMetadata carries per-answer classification delivered with the
// terminal event of a stream.
type QueryMetadata struct {
	// QueryType is the backend's query classification tag.
	QueryType string

	// UsedWebSearch reports whether the answer drew on web search.
	UsedWebSearch bool
}
