package services

import (
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

const (
	// MaxDisplayCitations caps how many citations are shown per answer.
	MaxDisplayCitations = 3

	// CitationPreviewLength is the display truncation for chunk text.
	CitationPreviewLength = 80
)

// CitationAttacher binds ranked citations and query metadata to a
// finished message. Ranking order comes from the upstream ranking system
// and is preserved; this component never re-sorts.
type CitationAttacher struct{}

// NewCitationAttacher creates a citation attacher.
func NewCitationAttacher() *CitationAttacher {
	return &CitationAttacher{}
}

// Attach stores the full citation list on the message and returns the
// display views: at most MaxDisplayCitations entries, previews truncated
// to CitationPreviewLength runes. The stored ChunkText is not mutated.
// The message must already have left the streaming state.
func (a *CitationAttacher) Attach(
	msg *domain.Message, citations []domain.Citation, meta domain.QueryMetadata,
) []driven.CitationView {
	if msg == nil || msg.Status == domain.StatusStreaming {
		return nil
	}

	msg.Citations = citations

	display := citations
	if len(display) > MaxDisplayCitations {
		display = display[:MaxDisplayCitations]
	}

	views := make([]driven.CitationView, len(display))
	for i := range display {
		views[i] = driven.CitationView{
			DocumentName:   display[i].DocumentName,
			PageNumber:     display[i].PageNumber,
			Preview:        truncatePreview(display[i].ChunkText, CitationPreviewLength),
			RelevanceScore: display[i].RelevanceScore,
		}
	}

	return views
}

// truncatePreview shortens text to limit runes, appending an ellipsis
// when anything was cut.
func truncatePreview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
