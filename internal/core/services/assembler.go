package services

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Assembler owns the single in-progress assistant message of a query.
// Content is append-only while streaming; the message transitions exactly
// once to complete or errored. Every change is published to the renderer
// as a full snapshot, so re-rendering identical state is idempotent.
type Assembler struct {
	renderer driven.Renderer
	attacher *CitationAttacher

	msg         *domain.Message
	statusLine  string
	citations   []driven.CitationView
	meta        domain.QueryMetadata
	finalizedID string
}

// NewAssembler creates a message assembler publishing to renderer.
func NewAssembler(renderer driven.Renderer, attacher *CitationAttacher) *Assembler {
	if attacher == nil {
		attacher = NewCitationAttacher()
	}
	return &Assembler{
		renderer: renderer,
		attacher: attacher,
	}
}

// Begin creates a new streaming assistant message and returns its ID.
// The new message becomes the render target for all subsequent updates.
func (a *Assembler) Begin() string {
	a.msg = &domain.Message{
		ID:     uuid.NewString(),
		Role:   domain.RoleAssistant,
		Status: domain.StatusStreaming,
	}
	a.statusLine = ""
	a.citations = nil
	a.meta = domain.QueryMetadata{}
	a.render()
	return a.msg.ID
}

// AppendToken concatenates a delta onto the message content, in arrival
// order, and re-renders with the in-progress marker.
func (a *Assembler) AppendToken(delta string) {
	if a.msg == nil || a.msg.Status != domain.StatusStreaming {
		// The orchestrator state machine never routes tokens to a
		// finished message; reaching this is a programming error.
		logger.Warn("token after terminal state dropped (%d bytes)", len(delta))
		return
	}
	a.msg.Content += delta
	a.render()
}

// SetStatus updates the transient status line. Not persisted.
func (a *Assembler) SetStatus(line string) {
	if a.msg == nil || a.msg.Status != domain.StatusStreaming {
		return
	}
	a.statusLine = line
	a.render()
}

// Finalize transitions the message to complete, clears the in-progress
// marker and status line, and hands off to the citation attacher.
// Idempotent: a second call for the same message is a no-op.
func (a *Assembler) Finalize(citations []domain.Citation, meta domain.QueryMetadata) {
	if a.msg == nil || a.finalizedID == a.msg.ID {
		return
	}
	if a.msg.Status != domain.StatusStreaming {
		return
	}

	a.msg.Status = domain.StatusComplete
	a.finalizedID = a.msg.ID
	a.statusLine = ""
	a.meta = meta
	a.citations = a.attacher.Attach(a.msg, citations, meta)
	a.render()
}

// Fail transitions the message to errored, preserving whatever content
// streamed so far, and records a one-line error note instead of citations.
// A no-op once the message reached a terminal state.
func (a *Assembler) Fail(reason string) {
	if a.msg == nil || a.msg.Status != domain.StatusStreaming {
		return
	}

	a.msg.Status = domain.StatusErrored
	a.msg.ErrorText = reason
	a.finalizedID = a.msg.ID
	a.statusLine = ""
	a.render()
}

// Message returns a copy of the current message, or nil before Begin.
func (a *Assembler) Message() *domain.Message {
	if a.msg == nil {
		return nil
	}
	copied := *a.msg
	return &copied
}

// Citations returns the display citations of the finished message.
func (a *Assembler) Citations() []driven.CitationView {
	return a.citations
}

// Metadata returns the query metadata of the finished message.
func (a *Assembler) Metadata() domain.QueryMetadata {
	return a.meta
}

// render publishes the current state as a snapshot.
func (a *Assembler) render() {
	if a.renderer == nil || a.msg == nil {
		return
	}
	a.renderer.Render(driven.RenderSnapshot{
		MessageID:     a.msg.ID,
		Content:       a.msg.Content,
		Status:        a.msg.Status,
		StatusLine:    a.statusLine,
		InProgress:    a.msg.Status == domain.StatusStreaming,
		Citations:     a.citations,
		QueryType:     a.meta.QueryType,
		UsedWebSearch: a.meta.UsedWebSearch,
		ErrorText:     a.msg.ErrorText,
	})
}
