package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// snapshotTarget receives snapshot messages. *tea.Program satisfies it.
type snapshotTarget interface {
	Send(msg tea.Msg)
}

// ProgramRenderer bridges the assembler's render snapshots into the
// Bubbletea message loop. The assembler calls Render from the stream
// goroutine; Send is safe for concurrent use.
type ProgramRenderer struct {
	mu     sync.RWMutex
	target snapshotTarget
}

var _ driven.Renderer = (*ProgramRenderer)(nil)

// NewProgramRenderer creates a renderer not yet bound to a program.
// Snapshots rendered before Attach are dropped.
func NewProgramRenderer() *ProgramRenderer {
	return &ProgramRenderer{}
}

// Attach binds the renderer to a running program.
func (r *ProgramRenderer) Attach(target snapshotTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
}

// Render implements driven.Renderer.
func (r *ProgramRenderer) Render(snapshot driven.RenderSnapshot) {
	r.Notify(messages.SnapshotUpdated{Snapshot: snapshot})
}

// Notify forwards a message to the attached program. Core callbacks
// that fire outside the message loop use it to reach the views.
// Messages sent before Attach are dropped.
func (r *ProgramRenderer) Notify(msg tea.Msg) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()

	if target == nil {
		return
	}
	target.Send(msg)
}
