package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func completeMessage() *domain.Message {
	return &domain.Message{
		ID:     "m1",
		Role:   domain.RoleAssistant,
		Status: domain.StatusComplete,
	}
}

func TestCitationAttacher_CapsDisplayAtThree(t *testing.T) {
	attacher := NewCitationAttacher()
	citations := []domain.Citation{
		{DocumentName: "first.pdf"},
		{DocumentName: "second.pdf"},
		{DocumentName: "third.pdf"},
		{DocumentName: "fourth.pdf"},
		{DocumentName: "fifth.pdf"},
	}
	msg := completeMessage()

	views := attacher.Attach(msg, citations, domain.QueryMetadata{})

	require.Len(t, views, 3)
	// Ranking order preserved, no re-sorting.
	assert.Equal(t, "first.pdf", views[0].DocumentName)
	assert.Equal(t, "second.pdf", views[1].DocumentName)
	assert.Equal(t, "third.pdf", views[2].DocumentName)
	// The full list stays on the message.
	assert.Len(t, msg.Citations, 5)
}

func TestCitationAttacher_TruncatesPreviewNotStoredText(t *testing.T) {
	attacher := NewCitationAttacher()
	long := strings.Repeat("x", 200)
	msg := completeMessage()

	views := attacher.Attach(msg, []domain.Citation{{DocumentName: "a.pdf", ChunkText: long}}, domain.QueryMetadata{})

	require.Len(t, views, 1)
	assert.Equal(t, strings.Repeat("x", 80)+"...", views[0].Preview)
	assert.Equal(t, long, msg.Citations[0].ChunkText)
}

func TestCitationAttacher_ShortPreviewUntouched(t *testing.T) {
	attacher := NewCitationAttacher()
	msg := completeMessage()

	views := attacher.Attach(msg, []domain.Citation{{ChunkText: "short"}}, domain.QueryMetadata{})

	require.Len(t, views, 1)
	assert.Equal(t, "short", views[0].Preview)
}

func TestCitationAttacher_RefusesStreamingMessage(t *testing.T) {
	attacher := NewCitationAttacher()
	msg := &domain.Message{ID: "m1", Status: domain.StatusStreaming}

	views := attacher.Attach(msg, []domain.Citation{{DocumentName: "a.pdf"}}, domain.QueryMetadata{})

	assert.Nil(t, views)
	assert.Empty(t, msg.Citations)
}

func TestCitationAttacher_ErroredMessageAccepted(t *testing.T) {
	attacher := NewCitationAttacher()
	msg := &domain.Message{ID: "m1", Status: domain.StatusErrored}

	views := attacher.Attach(msg, []domain.Citation{{DocumentName: "a.pdf"}}, domain.QueryMetadata{})

	assert.Len(t, views, 1)
}

func TestTruncatePreview_MultibyteSafe(t *testing.T) {
	text := strings.Repeat("é", 100)

	preview := truncatePreview(text, 80)

	assert.Equal(t, strings.Repeat("é", 80)+"...", preview)
}
