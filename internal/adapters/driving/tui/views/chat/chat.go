// Package chat provides the conversation view for the TUI: the prompt
// input, the streamed transcript, and the status bar.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
)

// inProgressMarker is appended after the content of a streaming answer.
// It lives in the rendered view only, never in message content.
const inProgressMarker = "▌"

// turn is one rendered transcript entry.
type turn struct {
	role          domain.Role
	content       string
	status        domain.MessageStatus
	errorText     string
	citations     []driven.CitationView
	queryType     string
	usedWebSearch bool
}

// View is the conversation view with input, transcript, and status bar.
type View struct {
	styles    *styles.Styles
	input     *input.PromptInput
	statusbar *status.Bar
	spinner   spinner.Model
	viewport  viewport.Model

	chatService driving.ChatService
	history     driven.PromptHistoryStore
	attacher    *services.CitationAttacher
	ctx         context.Context

	transcript []turn
	live       *driven.RenderSnapshot
	foldedID   string

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, chatService driving.ChatService, history driven.PromptHistoryStore) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &View{
		styles:      s,
		input:       input.NewPromptInput(s),
		statusbar:   status.NewBar(s),
		spinner:     sp,
		viewport:    viewport.New(80, 14),
		chatService: chatService,
		history:     history,
		attacher:    services.NewCitationAttacher(),
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadRecall())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.SnapshotUpdated:
		v.handleSnapshot(msg.Snapshot)
		return v, nil

	case messages.QueryFinished:
		return v, v.handleQueryFinished(msg)

	case messages.ConversationOpened:
		v.handleConversationOpened(msg)
		return v, nil

	case messages.ConversationReset:
		v.Reset()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case recallLoaded:
		v.input.SetRecall(msg.prompts)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewConversations}
		}

	case tea.KeyEnter:
		return v.submit()

	case tea.KeyUp:
		v.input.RecallPrev()
		return v, nil

	case tea.KeyDown:
		v.input.RecallNext()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed query. Empty queries and queries typed while a
// stream is in flight are ignored; the input keeps its text.
func (v *View) submit() (*View, tea.Cmd) {
	query := strings.TrimSpace(v.input.Value())
	if query == "" || v.busy() {
		return v, nil
	}

	v.input.Reset()
	v.err = nil
	v.transcript = append(v.transcript, turn{
		role:    domain.RoleUser,
		content: query,
		status:  domain.StatusComplete,
	})
	v.statusbar.SetState(status.StateSending)
	v.refreshViewport()

	return v, tea.Batch(v.performQuery(query), v.spinner.Tick)
}

// performQuery runs the query stream to completion off the UI loop.
// Streaming updates arrive independently as SnapshotUpdated messages.
func (v *View) performQuery(query string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		err := v.chatService.Send(v.ctx, query)
		return messages.QueryFinished{Err: err}
	}
}

// handleSnapshot applies a render snapshot of the in-progress answer.
func (v *View) handleSnapshot(snap driven.RenderSnapshot) {
	if snap.MessageID == v.foldedID {
		// Re-render of an already folded terminal state. Idempotent.
		return
	}

	if snap.InProgress {
		v.live = &snap
		v.statusbar.SetState(status.StateStreaming)
		v.refreshViewport()
		return
	}

	// Terminal snapshot: fold into the transcript exactly once.
	v.live = nil
	v.foldedID = snap.MessageID
	v.transcript = append(v.transcript, turn{
		role:          domain.RoleAssistant,
		content:       snap.Content,
		status:        snap.Status,
		errorText:     snap.ErrorText,
		citations:     snap.Citations,
		queryType:     snap.QueryType,
		usedWebSearch: snap.UsedWebSearch,
	})
	v.refreshViewport()
}

// handleQueryFinished closes out the stream state.
func (v *View) handleQueryFinished(msg messages.QueryFinished) tea.Cmd {
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.Clear()
	}
	v.refreshViewport()
	return v.loadRecall()
}

// handleConversationOpened replaces the transcript with loaded history.
func (v *View) handleConversationOpened(msg messages.ConversationOpened) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.transcript = v.transcript[:0]
	v.live = nil
	v.err = nil
	for _, m := range msg.Messages {
		entry := turn{
			role:    m.Role,
			content: m.Content,
			status:  m.Status,
		}
		if m.Role == domain.RoleAssistant {
			replay := m
			entry.citations = v.attacher.Attach(&replay, m.Citations, domain.QueryMetadata{})
		}
		v.transcript = append(v.transcript, entry)
	}
	v.statusbar.Clear()
	v.refreshViewport()
}

// recallLoaded carries recent prompts for the input recall buffer.
type recallLoaded struct {
	prompts []string
}

// loadRecall fetches recent prompts for up/down recall.
func (v *View) loadRecall() tea.Cmd {
	if v.history == nil {
		return nil
	}
	return func() tea.Msg {
		prompts, err := v.history.Recent(v.ctx, 50)
		if err != nil {
			// Recall is a convenience; ignore failures.
			return recallLoaded{}
		}
		return recallLoaded{prompts: prompts}
	}
}

func (v *View) busy() bool {
	return v.chatService != nil && v.chatService.Busy()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("docchat"), "")
	sections = append(sections, v.viewport.View(), "")

	if v.busy() {
		sections = append(sections, v.spinner.View()+" ", "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshViewport re-renders the transcript into the viewport and keeps
// the latest output visible.
func (v *View) refreshViewport() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

// renderTranscript renders all turns plus the live answer, if any.
func (v *View) renderTranscript() string {
	blocks := make([]string, 0, len(v.transcript)+1)
	for i := range v.transcript {
		blocks = append(blocks, v.renderTurn(&v.transcript[i]))
	}

	if v.live != nil {
		blocks = append(blocks, v.renderLive())
	}

	if len(blocks) == 0 {
		return v.styles.Muted.Render("Ask a question to get started.")
	}
	return strings.Join(blocks, "\n\n")
}

// renderTurn renders one finished transcript entry.
func (v *View) renderTurn(t *turn) string {
	var b strings.Builder

	if t.role == domain.RoleUser {
		b.WriteString(v.styles.UserLabel.Render("You: "))
		b.WriteString(v.styles.Normal.Render(t.content))
		return b.String()
	}

	b.WriteString(v.styles.AssistantLabel.Render("Assistant: "))
	b.WriteString(v.styles.Normal.Render(t.content))

	if t.status == domain.StatusErrored && t.errorText != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(t.errorText))
	}

	if meta := v.renderMeta(t); meta != "" {
		b.WriteString("\n")
		b.WriteString(meta)
	}

	if len(t.citations) > 0 {
		b.WriteString("\n")
		b.WriteString(v.renderCitations(t.citations))
	}

	return b.String()
}

// renderLive renders the in-progress answer with its marker and status line.
func (v *View) renderLive() string {
	var b strings.Builder
	b.WriteString(v.styles.AssistantLabel.Render("Assistant: "))
	b.WriteString(v.styles.Normal.Render(v.live.Content))
	b.WriteString(v.styles.Muted.Render(inProgressMarker))

	if v.live.StatusLine != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.StatusLine.Render(v.live.StatusLine))
	}

	return b.String()
}

// renderMeta renders the answer classification line.
func (v *View) renderMeta(t *turn) string {
	parts := make([]string, 0, 2)
	if t.queryType != "" {
		parts = append(parts, t.queryType)
	}
	if t.usedWebSearch {
		parts = append(parts, "web search")
	}
	if len(parts) == 0 {
		return ""
	}
	return v.styles.Muted.Render(strings.Join(parts, " · "))
}

// renderCitations renders the source references under an answer.
func (v *View) renderCitations(citations []driven.CitationView) string {
	lines := make([]string, 0, len(citations)+1)
	lines = append(lines, v.styles.Citation.Render("Sources:"))
	for i, c := range citations {
		ref := fmt.Sprintf("  [%d] %s", i+1, c.DocumentName)
		if c.PageNumber > 0 {
			ref += fmt.Sprintf(", page %d", c.PageNumber)
		}
		if c.RelevanceScore > 0 {
			ref += fmt.Sprintf(" (relevance: %.2f)", c.RelevanceScore)
		}
		lines = append(lines, v.styles.Citation.Render(ref))
		if c.Preview != "" {
			lines = append(lines, v.styles.Muted.Render("      "+c.Preview))
		}
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Reserve space for header, input, and status bar.
	vpHeight := height - 10
	if vpHeight < 5 {
		vpHeight = 5
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.refreshViewport()
}

// Reset clears the transcript for a fresh session.
func (v *View) Reset() {
	v.transcript = v.transcript[:0]
	v.live = nil
	v.foldedID = ""
	v.err = nil
	v.input.Reset()
	v.statusbar.Clear()
	v.refreshViewport()
}

// Transcript returns the rendered turn count (for testing).
func (v *View) Transcript() int {
	return len(v.transcript)
}

// Live reports whether an answer is currently streaming (for testing).
func (v *View) Live() bool {
	return v.live != nil
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
