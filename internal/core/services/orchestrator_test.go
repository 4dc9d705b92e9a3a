package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

func newOrchestrator(backend *mockBackend) (*StreamOrchestrator, *recordingRenderer) {
	renderer := &recordingRenderer{}
	store := NewConversationStore(backend, time.Hour)
	assembler := NewAssembler(renderer, nil)
	return NewStreamOrchestrator(backend, store, assembler), renderer
}

func TestOrchestrator_FullStream(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventStatus, Message: "Searching documents..."},
			{Type: domain.EventToken, Content: "Hel"},
			{Type: domain.EventToken, Content: "lo"},
			{
				Type:      domain.EventComplete,
				Citations: []domain.Citation{{DocumentName: "guide.pdf", PageNumber: 3, ChunkText: "chunk"}},
				Metadata:  domain.QueryMetadata{QueryType: "factual"},
			},
		}},
	}
	o, renderer := newOrchestrator(backend)

	err := o.Send(context.Background(), "hello there")

	require.NoError(t, err)
	msg := o.Assembler().Message()
	assert.Equal(t, "Hello", msg.Content)
	assert.Equal(t, domain.StatusComplete, msg.Status)
	require.Len(t, msg.Citations, 1)
	assert.Equal(t, "guide.pdf", msg.Citations[0].DocumentName)

	last := renderer.last()
	assert.Empty(t, last.StatusLine)
	assert.False(t, last.InProgress)
	assert.Equal(t, "factual", last.QueryType)

	assert.Equal(t, "conv-1", o.store.ActiveID())
	require.Len(t, o.store.Summaries(), 1)
	assert.Equal(t, "hello there", o.store.Summaries()[0].Title)

	assert.False(t, o.Busy())
	assert.Equal(t, driving.StateIdle, o.State())
	assert.True(t, backend.stream.closed)
}

func TestOrchestrator_EmptyQueryRejectedBeforeRequest(t *testing.T) {
	backend := &mockBackend{}
	o, _ := newOrchestrator(backend)

	err := o.Send(context.Background(), "   \n\t  ")

	require.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Zero(t, backend.streamCalls)
	assert.False(t, o.Busy())
}

func TestOrchestrator_SecondQueryWhileBusyRejected(t *testing.T) {
	gate := make(chan struct{})
	backend := &mockBackend{
		stream: &mockStream{
			gate: gate,
			events: []domain.StreamEvent{
				{Type: domain.EventStart, ConversationID: "conv-1"},
				{Type: domain.EventToken, Content: "answer"},
				{Type: domain.EventComplete},
			},
		},
	}
	o, _ := newOrchestrator(backend)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = o.Send(context.Background(), "slow question")
	}()

	require.Eventually(t, o.Busy, time.Second, time.Millisecond)
	err := o.Send(context.Background(), "impatient question")
	require.ErrorIs(t, err, domain.ErrQueryInFlight)
	assert.Equal(t, 1, backend.streamCalls)

	close(gate)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.False(t, o.Busy())
	// Guard released, a new query is accepted again.
	backend.stream = &mockStream{events: []domain.StreamEvent{
		{Type: domain.EventStart, ConversationID: "conv-1"},
		{Type: domain.EventComplete},
	}}
	assert.NoError(t, o.Send(context.Background(), "next question"))
}

func TestOrchestrator_StreamingStateOnStreamOpen(t *testing.T) {
	gate := make(chan struct{})
	backend := &mockBackend{
		stream: &mockStream{
			gate: gate,
			events: []domain.StreamEvent{
				{Type: domain.EventStart, ConversationID: "conv-1"},
				{Type: domain.EventComplete},
			},
		},
	}
	o, renderer := newOrchestrator(backend)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = o.Send(context.Background(), "question")
	}()

	// The response is live before the first event is decoded: the state
	// advances and the in-flight message already renders.
	require.Eventually(t, func() bool {
		return o.State() == driving.StateStreaming
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, renderer.count(), 1)

	close(gate)
	wg.Wait()
}

func TestOrchestrator_ConnectFailureProducesErroredMessage(t *testing.T) {
	backend := &mockBackend{streamErr: domain.ErrBackendUnavailable}
	o, renderer := newOrchestrator(backend)

	err := o.Send(context.Background(), "question")

	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	msg := o.Assembler().Message()
	require.NotNil(t, msg)
	assert.Equal(t, domain.StatusErrored, msg.Status)
	assert.Equal(t, networkErrorText, msg.ErrorText)
	assert.Equal(t, networkErrorText, renderer.last().ErrorText)
	assert.False(t, o.Busy())
	assert.Equal(t, driving.StateIdle, o.State())
}

func TestOrchestrator_MidStreamFailurePreservesPartialContent(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{
			events: []domain.StreamEvent{
				{Type: domain.EventStart, ConversationID: "conv-1"},
				{Type: domain.EventToken, Content: "partial ans"},
			},
			readErr: domain.ErrBackendUnavailable,
		},
	}
	o, _ := newOrchestrator(backend)

	err := o.Send(context.Background(), "question")

	require.Error(t, err)
	msg := o.Assembler().Message()
	assert.Equal(t, domain.StatusErrored, msg.Status)
	assert.Equal(t, "partial ans", msg.Content)
	assert.Equal(t, networkErrorText, msg.ErrorText)
	assert.False(t, o.Busy())
}

func TestOrchestrator_StreamEndWithoutCompleteIsIncomplete(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventToken, Content: "cut off mid"},
		}},
	}
	o, _ := newOrchestrator(backend)

	err := o.Send(context.Background(), "question")

	require.ErrorIs(t, err, domain.ErrStreamIncomplete)
	msg := o.Assembler().Message()
	assert.Equal(t, domain.StatusErrored, msg.Status)
	assert.Equal(t, "cut off mid", msg.Content)
	assert.False(t, o.Busy())
}

func TestOrchestrator_EmptyStreamIsIncomplete(t *testing.T) {
	backend := &mockBackend{stream: &mockStream{}}
	o, _ := newOrchestrator(backend)

	err := o.Send(context.Background(), "question")

	require.ErrorIs(t, err, domain.ErrStreamIncomplete)
	msg := o.Assembler().Message()
	require.NotNil(t, msg)
	assert.Equal(t, domain.StatusErrored, msg.Status)
	assert.Empty(t, msg.Content)
}

func TestOrchestrator_ServerErrorEventIsSoft(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventError, Message: "Web search unavailable, using documents only"},
			{Type: domain.EventToken, Content: "answer from documents"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)

	err := o.Send(context.Background(), "question")

	require.NoError(t, err)
	msg := o.Assembler().Message()
	assert.Equal(t, domain.StatusComplete, msg.Status)
	assert.Equal(t, "answer from documents", msg.Content)
}

func TestOrchestrator_OnlyFirstStartEventCounts(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventStart, ConversationID: "conv-2"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)

	require.NoError(t, o.Send(context.Background(), "question"))

	assert.Equal(t, "conv-1", o.store.ActiveID())
	assert.Len(t, o.store.Summaries(), 1)
}

func TestOrchestrator_FollowUpSendsActiveConversationID(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)
	require.NoError(t, o.Send(context.Background(), "first question"))

	backend.stream = &mockStream{events: []domain.StreamEvent{
		{Type: domain.EventStart, ConversationID: "conv-1"},
		{Type: domain.EventComplete},
	}}
	require.NoError(t, o.Send(context.Background(), "follow-up"))

	assert.Equal(t, "conv-1", backend.lastConversID)
}

func TestOrchestrator_FirstQuerySendsNoConversationID(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)

	require.NoError(t, o.Send(context.Background(), "first question"))

	assert.Empty(t, backend.lastConversID)
}

func TestOrchestrator_PromptHistoryRecorded(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)
	history := &mockHistory{}
	o.SetPromptHistory(history)

	require.NoError(t, o.Send(context.Background(), "remembered question"))

	assert.Equal(t, []string{"remembered question"}, history.prompts)
}

func TestOrchestrator_PromptHistoryFailureDoesNotBlock(t *testing.T) {
	backend := &mockBackend{
		stream: &mockStream{events: []domain.StreamEvent{
			{Type: domain.EventStart, ConversationID: "conv-1"},
			{Type: domain.EventComplete},
		}},
	}
	o, _ := newOrchestrator(backend)
	o.SetPromptHistory(&mockHistory{err: domain.ErrBackendUnavailable})

	assert.NoError(t, o.Send(context.Background(), "question"))
}
