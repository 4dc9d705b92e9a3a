package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure ConversationStore implements the interface.
var _ driving.ConversationService = (*ConversationStore)(nil)

// DefaultReconcileDelay is the wait between an optimistic insert and the
// authoritative reconcile fetch.
const DefaultReconcileDelay = 4 * time.Second

// ConversationStore holds the active conversation ID and the ordered
// summary list, most recent first. Optimistic inserts are reconciled
// against the backend after a fixed delay; the backend list is
// authoritative and replaces local state wholesale.
type ConversationStore struct {
	mu sync.Mutex

	backend driven.BackendClient
	delay   time.Duration

	active    string
	summaries []domain.Conversation

	// reconcileTimer is the cancellation handle for the scheduled
	// reconcile; nil when nothing is pending.
	reconcileTimer *time.Timer

	// onReset notifies the presentation layer to show an empty
	// conversation view. Optional.
	onReset func()
}

// NewConversationStore creates a store reconciling through backend.
// A delay of zero uses DefaultReconcileDelay.
func NewConversationStore(backend driven.BackendClient, delay time.Duration) *ConversationStore {
	if delay <= 0 {
		delay = DefaultReconcileDelay
	}
	return &ConversationStore{
		backend: backend,
		delay:   delay,
	}
}

// SetResetHandler registers the callback invoked when the active
// conversation is removed.
func (s *ConversationStore) SetResetHandler(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = fn
}

// ObserveStart records the conversation ID assigned by the backend for
// the current query. Called once per stream. If no summary with that ID
// exists yet, an optimistic entry titled from the query text is inserted
// at the head of the list and a reconcile is scheduled.
func (s *ConversationStore) ObserveStart(id, queryText string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		s.active = id
	}

	for i := range s.summaries {
		if s.summaries[i].ID == id {
			return
		}
	}

	entry := domain.Conversation{ID: id, Title: domain.OptimisticTitle(queryText)}
	s.summaries = append([]domain.Conversation{entry}, s.summaries...)
	logger.Debug("optimistic conversation %s (%q)", id, entry.Title)

	s.scheduleReconcileLocked()
}

// scheduleReconcileLocked arms the reconcile timer, replacing any pending
// one. Caller holds s.mu.
func (s *ConversationStore) scheduleReconcileLocked() {
	if s.reconcileTimer != nil {
		s.reconcileTimer.Stop()
	}
	s.reconcileTimer = time.AfterFunc(s.delay, func() {
		if err := s.Reconcile(context.Background()); err != nil {
			logger.Warn("scheduled reconcile failed: %v", err)
		}
	})
}

// Reconcile fetches the authoritative summary list and replaces local
// state wholesale, deduplicated by ID. Idempotent: a reconcile firing
// after a removal simply omits the removed ID, nothing is re-inserted.
func (s *ConversationStore) Reconcile(ctx context.Context) error {
	conversations, err := s.backend.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	seen := make(map[string]bool, len(conversations))
	deduped := make([]domain.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		deduped = append(deduped, c)
	}

	s.mu.Lock()
	s.summaries = deduped
	s.mu.Unlock()

	logger.Debug("reconciled %d conversation summaries", len(deduped))
	return nil
}

// Remove deletes a conversation on the backend and locally. Removing the
// active conversation clears the active ID and signals a view reset.
func (s *ConversationStore) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.summaries {
		if s.summaries[i].ID == id {
			s.summaries = append(s.summaries[:i], s.summaries[i+1:]...)
			break
		}
	}
	wasActive := s.active == id
	if wasActive {
		s.active = ""
	}
	reset := s.onReset
	s.mu.Unlock()

	if wasActive && reset != nil {
		reset()
	}
	return nil
}

// Load fetches the full history of a conversation, makes it the active
// session, and returns the messages. Every replayed message is complete.
func (s *ConversationStore) Load(ctx context.Context, id string) ([]domain.Message, error) {
	history, err := s.backend.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s: %w", id, err)
	}

	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	return history, nil
}

// Reset clears the active session and cancels any pending reconcile.
func (s *ConversationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = ""
	if s.reconcileTimer != nil {
		s.reconcileTimer.Stop()
		s.reconcileTimer = nil
	}
}

// ActiveID returns the active conversation ID, empty if none.
func (s *ConversationStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Summaries returns a copy of the summary list, most recent first.
func (s *ConversationStore) Summaries() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Conversation, len(s.summaries))
	copy(out, s.summaries)
	return out
}
