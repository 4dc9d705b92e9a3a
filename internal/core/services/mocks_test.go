package services

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockStream implements driven.QueryStream over a fixed event slice.
type mockStream struct {
	events []domain.StreamEvent
	pos    int

	// readErr is returned after the events are exhausted instead of io.EOF.
	readErr error

	// gate, when set, blocks Next until the channel is closed.
	gate chan struct{}

	closed bool
}

func (m *mockStream) Next() (domain.StreamEvent, error) {
	if m.gate != nil {
		<-m.gate
	}
	if m.pos >= len(m.events) {
		if m.readErr != nil {
			return domain.StreamEvent{}, m.readErr
		}
		return domain.StreamEvent{}, io.EOF
	}
	ev := m.events[m.pos]
	m.pos++
	return ev, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// mockBackend implements driven.BackendClient for testing.
type mockBackend struct {
	mu sync.Mutex

	stream        *mockStream
	streamErr     error
	streamCalls   int
	lastQuery     string
	lastConversID string

	conversations []domain.Conversation
	listErr       error
	listCalls     int

	history    []domain.Message
	historyErr error

	deleted   []string
	deleteErr error

	documents []domain.DocumentInfo
	docsErr   error

	uploadDoc  domain.DocumentInfo
	uploadErr  error
	uploadPath string
}

func (m *mockBackend) StreamQuery(_ context.Context, query, conversationID string) (driven.QueryStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamCalls++
	m.lastQuery = query
	m.lastConversID = conversationID
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return m.stream, nil
}

func (m *mockBackend) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.conversations, nil
}

func (m *mockBackend) History(_ context.Context, _ string) ([]domain.Message, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func (m *mockBackend) DeleteConversation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockBackend) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	return m.documents, nil
}

func (m *mockBackend) DeleteDocument(_ context.Context, _ string) error {
	return m.deleteErr
}

func (m *mockBackend) UploadDocument(_ context.Context, path string) (domain.DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadPath = path
	if m.uploadErr != nil {
		return domain.DocumentInfo{}, m.uploadErr
	}
	return m.uploadDoc, nil
}

func (m *mockBackend) Health(_ context.Context) (domain.HealthStatus, error) {
	return domain.HealthStatus{Status: "healthy"}, nil
}

// recordingRenderer implements driven.Renderer, capturing every snapshot.
type recordingRenderer struct {
	mu        sync.Mutex
	snapshots []driven.RenderSnapshot
}

func (r *recordingRenderer) Render(snapshot driven.RenderSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
}

func (r *recordingRenderer) last() driven.RenderSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return driven.RenderSnapshot{}
	}
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// mockHistory implements driven.PromptHistoryStore.
type mockHistory struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (m *mockHistory) Append(_ context.Context, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.prompts = append(m.prompts, query)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, limit)
	for i := len(m.prompts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.prompts[i])
	}
	return out, nil
}

func (m *mockHistory) Close() error { return nil }
