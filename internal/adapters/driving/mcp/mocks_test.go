package mcp

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// mockChatService renders a fixed terminal snapshot on Send.
type mockChatService struct {
	renderer  driven.Renderer
	final     driven.RenderSnapshot
	err       error
	lastQuery string
}

func (m *mockChatService) Send(_ context.Context, query string) error {
	m.lastQuery = query
	if m.err != nil {
		return m.err
	}
	m.renderer.Render(m.final)
	return nil
}

func (m *mockChatService) Busy() bool { return false }

func (m *mockChatService) State() driving.StreamState { return driving.StateIdle }

// mockFactory builds a ChatFactory that hands out a mockChatService and
// records it for inspection.
func mockFactory(final driven.RenderSnapshot, err error) (ChatFactory, *mockChatService) {
	chat := &mockChatService{final: final, err: err}
	factory := func(renderer driven.Renderer) driving.ChatService {
		chat.renderer = renderer
		return chat
	}
	return factory, chat
}

// mockConversationService implements driving.ConversationService.
type mockConversationService struct {
	summaries    []domain.Conversation
	activeID     string
	history      []domain.Message
	loadErr      error
	reconcileErr error
	loadedID     string
}

func (m *mockConversationService) Summaries() []domain.Conversation { return m.summaries }

func (m *mockConversationService) ActiveID() string { return m.activeID }

func (m *mockConversationService) Reconcile(_ context.Context) error { return m.reconcileErr }

func (m *mockConversationService) Remove(_ context.Context, _ string) error { return nil }

func (m *mockConversationService) Load(_ context.Context, id string) ([]domain.Message, error) {
	m.loadedID = id
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.history, nil
}

func (m *mockConversationService) Reset() {}

func (m *mockConversationService) SetResetHandler(_ func()) {}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	docs    []domain.DocumentInfo
	listErr error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockDocumentService) Upload(_ context.Context, _ string) (domain.DocumentInfo, error) {
	return domain.DocumentInfo{}, nil
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error { return nil }
