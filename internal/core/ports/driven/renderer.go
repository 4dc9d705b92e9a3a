package driven

import "github.com/custodia-labs/docchat-cli/internal/core/domain"

// RenderSnapshot is one observable state of the in-progress answer.
// The assembler emits a fresh snapshot on every change; rendering the
// same snapshot twice produces the same output (no duplicated markers).
type RenderSnapshot struct {
	// MessageID identifies the render target message.
	MessageID string

	// Content is the full accumulated answer text so far.
	Content string

	// Status is the message lifecycle state.
	Status domain.MessageStatus

	// StatusLine is the transient progress or error line, empty when
	// nothing is pending. Cleared on completion.
	StatusLine string

	// InProgress reports whether a trailing in-progress marker should be
	// shown after Content.
	InProgress bool

	// Citations are the display citations (capped and truncated by the
	// attacher). Only set once the message is complete.
	Citations []CitationView

	// QueryType is the classification badge, rendered only if present.
	QueryType string

	// UsedWebSearch is the web-search badge flag.
	UsedWebSearch bool

	// ErrorText is the one-line error note for errored messages.
	ErrorText string
}

// CitationView is a citation prepared for display: preview truncated,
// order preserved from the upstream ranking.
type CitationView struct {
	// DocumentName is the source document's display name.
	DocumentName string

	// PageNumber is the page within the document (0 = unknown).
	PageNumber int

	// Preview is the truncated chunk text.
	Preview string

	// RelevanceScore is the upstream ranking score, if reported.
	RelevanceScore float64
}

// Renderer receives snapshots from the message assembler. Implementations
// live in driving adapters (TUI, stdout); the core never touches a
// presentation layer directly.
type Renderer interface {
	// Render displays a snapshot. Must be safe to call repeatedly with
	// identical snapshots.
	Render(snapshot RenderSnapshot)
}
