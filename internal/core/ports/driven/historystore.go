package driven

import "context"

// PromptHistoryStore records the queries a user has submitted, for recall
// in the prompt input. It stores typed queries only, never conversation
// content.
type PromptHistoryStore interface {
	// Append records a submitted query.
	Append(ctx context.Context, query string) error

	// Recent returns up to limit queries, most recent first.
	Recent(ctx context.Context, limit int) ([]string, error)

	// Close releases the store.
	Close() error
}
