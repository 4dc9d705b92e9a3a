package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_StreamsAnswer(t *testing.T) {
	mocks := setupTestServices(t)

	out, err := execute(t, "ask", "what is the refund policy?")

	require.NoError(t, err)
	assert.Equal(t, "what is the refund policy?", mocks.chat.lastQuery)
	assert.Contains(t, out, "The answer.")
}

func TestAskCmd_PrintsCitationsAndConversation(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.chat.final.Citations = []driven.CitationView{
		{DocumentName: "policy.pdf", PageNumber: 2, Preview: "refunds within 30 days", RelevanceScore: 0.91},
	}
	mocks.conversations.activeID = "conv-1"

	out, err := execute(t, "ask", "refunds?")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "policy.pdf, page 2")
	assert.Contains(t, out, "refunds within 30 days")
	assert.Contains(t, out, "Conversation: conv-1")
}

func TestAskCmd_ContinuesConversation(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.conversations.history = []domain.Message{
		{Role: domain.RoleUser, Content: "earlier", Status: domain.StatusComplete},
	}
	t.Cleanup(func() { askConversationID = "" })

	_, err := execute(t, "ask", "--conversation", "conv-7", "and then?")

	require.NoError(t, err)
	assert.Equal(t, "conv-7", mocks.conversations.loadedID)
}

func TestAskCmd_ConversationLoadFailure(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.conversations.loadErr = errors.New("not found")
	t.Cleanup(func() { askConversationID = "" })

	_, err := execute(t, "ask", "-c", "gone", "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading conversation gone")
	assert.Empty(t, mocks.chat.lastQuery, "query must not be sent when the load fails")
}

func TestAskCmd_SendFailure(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.chat.err = errors.New("backend unavailable")

	_, err := execute(t, "ask", "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestAskCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	chatFactory = nil

	_, err := execute(t, "ask", "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}
