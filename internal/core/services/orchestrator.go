package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure StreamOrchestrator implements the interface.
var _ driving.ChatService = (*StreamOrchestrator)(nil)

// networkErrorText is the generic notice shown for transport failures.
const networkErrorText = "Network error. Please check the connection and try again."

// StreamOrchestrator drives one query at a time: it opens the request,
// routes decoded events to the assembler and conversation store, and
// enforces the single-in-flight invariant. Events of a stream are
// processed strictly in arrival order.
type StreamOrchestrator struct {
	backend   driven.BackendClient
	store     *ConversationStore
	assembler *Assembler

	// history records submitted prompts. Optional; failures are logged
	// and never block a query.
	history driven.PromptHistoryStore

	mu    sync.Mutex
	state driving.StreamState
	busy  bool
}

// NewStreamOrchestrator creates an orchestrator over the given ports.
func NewStreamOrchestrator(
	backend driven.BackendClient,
	store *ConversationStore,
	assembler *Assembler,
) *StreamOrchestrator {
	return &StreamOrchestrator{
		backend:   backend,
		store:     store,
		assembler: assembler,
		state:     driving.StateIdle,
	}
}

// SetPromptHistory registers an optional prompt-history store.
func (o *StreamOrchestrator) SetPromptHistory(store driven.PromptHistoryStore) {
	o.history = store
}

// Busy reports whether a query is in flight.
func (o *StreamOrchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// State returns the current stream state.
func (o *StreamOrchestrator) State() driving.StreamState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Send submits a query and blocks until its stream terminates. The busy
// guard is released on every exit path; afterwards the state is idle and
// input is accepted again.
func (o *StreamOrchestrator) Send(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ErrEmptyQuery
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return domain.ErrQueryInFlight
	}
	o.busy = true
	o.state = driving.StateSending
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.state = driving.StateIdle
		o.mu.Unlock()
	}()

	if o.history != nil {
		if err := o.history.Append(ctx, query); err != nil {
			logger.Warn("recording prompt: %v", err)
		}
	}

	logger.Section("Query Stream")
	logger.Debug("query: %q, conversation: %q", query, o.store.ActiveID())

	stream, err := o.backend.StreamQuery(ctx, query, o.store.ActiveID())
	if err != nil {
		o.setState(driving.StateErrored)
		o.assembler.Begin()
		o.assembler.Fail(networkErrorText)
		return fmt.Errorf("opening stream: %w", err)
	}
	defer stream.Close()

	// The response is live: the assembler owns an in-flight message from
	// here on, even if every frame turns out malformed.
	o.assembler.Begin()
	o.setState(driving.StateStreaming)

	var completed, startSeen bool
	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Transport failure mid-read.
			o.setState(driving.StateErrored)
			o.assembler.Fail(networkErrorText)
			return fmt.Errorf("reading stream: %w", err)
		}

		switch event.Type {
		case domain.EventStart:
			// Only the first start event assigns the conversation ID.
			if !startSeen {
				o.store.ObserveStart(event.ConversationID, query)
				startSeen = true
			}
		case domain.EventStatus:
			o.assembler.SetStatus(event.Message)
		case domain.EventToken:
			o.assembler.AppendToken(event.Content)
		case domain.EventComplete:
			o.assembler.Finalize(event.Citations, event.Metadata)
			o.setState(driving.StateCompleted)
			completed = true
		case domain.EventError:
			// Soft error: the server may keep sending tokens.
			o.assembler.SetStatus(event.Message)
		}
	}

	if !completed {
		o.setState(driving.StateErrored)
		o.assembler.Fail(networkErrorText)
		return domain.ErrStreamIncomplete
	}

	return nil
}

// Assembler exposes the assembler for adapters that need the finished
// message after Send returns (one-shot CLI, MCP tool).
func (o *StreamOrchestrator) Assembler() *Assembler {
	return o.assembler
}

func (o *StreamOrchestrator) setState(state driving.StreamState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}
