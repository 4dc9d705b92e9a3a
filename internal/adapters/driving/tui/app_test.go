package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
)

func newTestPorts() *Ports {
	return &Ports{
		Chat:          &MockChatService{},
		Conversations: &MockConversationService{},
		Documents:     &MockDocumentService{},
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := &Ports{
		Chat:          nil,
		Conversations: &MockConversationService{},
		Documents:     &MockDocumentService{},
	}

	app, err := NewApp(ports)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_CtrlC_Quits(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewConversations})

	assert.Equal(t, messages.ViewConversations, app.CurrentView())
	// Switching to the list view triggers a reconcile load
	assert.NotNil(t, cmd)
}

func TestApp_Update_EscFromChat_OpensConversations(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewConversations, changed.View)
}

func TestApp_Update_ConversationOpened_SwitchesToChat(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewConversations})

	app.Update(messages.ConversationOpened{
		ID: "conv-1",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "hi", Status: domain.StatusComplete},
			{Role: domain.RoleAssistant, Content: "hello", Status: domain.StatusComplete},
		},
	})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Update_ConversationOpened_ErrorStaysOnList(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewConversations})

	loadErr := errors.New("backend unavailable")
	app.Update(messages.ConversationOpened{ID: "conv-1", Err: loadErr})

	assert.Equal(t, messages.ViewConversations, app.CurrentView())
	assert.Equal(t, loadErr, app.Err())
}

func TestApp_Update_SnapshotForwardedToChat(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	app.Update(messages.SnapshotUpdated{Snapshot: driven.RenderSnapshot{
		MessageID:  "msg-1",
		Content:    "partial",
		Status:     domain.StatusStreaming,
		InProgress: true,
	}})

	assert.Contains(t, app.View(), "partial")
}

func TestApp_Update_CtrlD_OpensDocuments(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.NotNil(t, cmd)
}

func TestApp_Update_Quit(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Help(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "ctrl+c")
}

func TestApp_HelpView_EscReturnsToChat(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

// appTarget feeds forwarded messages straight back into the app, the
// way a running program's Send would.
type appTarget struct {
	app *App
}

func (t *appTarget) Send(msg tea.Msg) {
	t.app.Update(msg)
}

// stubBackend is a minimal driven.BackendClient for store integration.
type stubBackend struct {
	history []domain.Message
}

func (b *stubBackend) StreamQuery(_ context.Context, _, _ string) (driven.QueryStream, error) {
	return nil, errors.New("not streaming")
}

func (b *stubBackend) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	return nil, nil
}

func (b *stubBackend) History(_ context.Context, _ string) ([]domain.Message, error) {
	return b.history, nil
}

func (b *stubBackend) DeleteConversation(_ context.Context, _ string) error { return nil }

func (b *stubBackend) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	return nil, nil
}

func (b *stubBackend) DeleteDocument(_ context.Context, _ string) error { return nil }

func (b *stubBackend) UploadDocument(_ context.Context, _ string) (domain.DocumentInfo, error) {
	return domain.DocumentInfo{}, nil
}

func (b *stubBackend) Health(_ context.Context) (domain.HealthStatus, error) {
	return domain.HealthStatus{}, nil
}

func TestApp_DeleteActiveConversationResetsChat(t *testing.T) {
	backend := &stubBackend{history: []domain.Message{
		{Role: domain.RoleUser, Content: "what changed?", Status: domain.StatusComplete},
		{Role: domain.RoleAssistant, Content: "Section 3 changed.", Status: domain.StatusComplete},
	}}
	store := services.NewConversationStore(backend, time.Hour)

	ports := newTestPorts()
	ports.Conversations = store
	ports.Renderer = NewProgramRenderer()

	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(80, 24)

	// Wired the way the tui command does it: the store's reset signal
	// reaches the chat view through the program-bound renderer.
	store.SetResetHandler(func() {
		ports.Renderer.Notify(messages.ConversationReset{})
	})
	ports.Renderer.Attach(&appTarget{app: app})

	msgs, err := store.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	app.Update(messages.ConversationOpened{ID: "conv-1", Messages: msgs})
	require.Equal(t, 2, app.chatView.Transcript())

	require.NoError(t, store.Remove(context.Background(), "conv-1"))

	assert.Equal(t, 0, app.chatView.Transcript())
	assert.Empty(t, store.ActiveID())
}

func TestApp_DeleteInactiveConversationKeepsChat(t *testing.T) {
	backend := &stubBackend{history: []domain.Message{
		{Role: domain.RoleUser, Content: "hi", Status: domain.StatusComplete},
	}}
	store := services.NewConversationStore(backend, time.Hour)

	ports := newTestPorts()
	ports.Conversations = store
	ports.Renderer = NewProgramRenderer()

	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(80, 24)

	store.SetResetHandler(func() {
		ports.Renderer.Notify(messages.ConversationReset{})
	})
	ports.Renderer.Attach(&appTarget{app: app})

	msgs, err := store.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	app.Update(messages.ConversationOpened{ID: "conv-1", Messages: msgs})

	require.NoError(t, store.Remove(context.Background(), "conv-2"))

	assert.Equal(t, 1, app.chatView.Transcript())
	assert.Equal(t, "conv-1", store.ActiveID())
}

func TestApp_OptionalRendererInPorts(t *testing.T) {
	ports := newTestPorts()
	ports.Renderer = NewProgramRenderer()

	app, err := NewApp(ports)

	require.NoError(t, err)
	assert.NotNil(t, app)
}
