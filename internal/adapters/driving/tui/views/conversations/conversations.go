// Package conversations provides the conversation list view for the TUI.
package conversations

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// View is the conversation list view.
type View struct {
	styles              *styles.Styles
	conversationService driving.ConversationService
	ctx                 context.Context

	conversations []domain.Conversation
	selected      int
	scrollOffset  int
	width         int
	height        int
	ready         bool
	loading       bool
	err           error
}

// NewView creates a new conversations view.
func NewView(s *styles.Styles, conversationService driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:              s,
		conversationService: conversationService,
		ctx:                 context.Background(),
		conversations:       []domain.Conversation{},
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.refresh()
}

// refresh returns a command that reconciles the list against the backend
// and publishes the result. On reconcile failure the locally observed
// summaries still load.
func (v *View) refresh() tea.Cmd {
	return func() tea.Msg {
		if v.conversationService == nil {
			return messages.ConversationsLoaded{Err: fmt.Errorf("conversation service not available")}
		}

		err := v.conversationService.Reconcile(v.ctx)
		return messages.ConversationsLoaded{
			Conversations: v.conversationService.Summaries(),
			Err:           err,
		}
	}
}

// Update handles messages for the conversations view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversationsLoaded:
		v.loading = false
		v.conversations = msg.Conversations
		v.err = msg.Err
		if v.selected >= len(v.conversations) {
			v.selected = 0
			v.scrollOffset = 0
		}
		return v, nil

	case messages.ConversationRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.refresh()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.conversations)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.conversations) {
			return v, v.open(v.conversations[v.selected].ID)
		}
	case "d":
		if v.selected < len(v.conversations) {
			return v, v.remove(v.conversations[v.selected].ID)
		}
	case "n":
		if v.conversationService != nil {
			v.conversationService.Reset()
		}
		return v, tea.Batch(
			func() tea.Msg { return messages.ConversationReset{} },
			func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} },
		)
	case "r":
		v.loading = true
		return v, v.refresh()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	return v, nil
}

// open returns a command that loads a conversation's history and makes
// it the active session.
func (v *View) open(id string) tea.Cmd {
	return func() tea.Msg {
		if v.conversationService == nil {
			return messages.ConversationOpened{ID: id, Err: fmt.Errorf("conversation service not available")}
		}

		msgs, err := v.conversationService.Load(v.ctx, id)
		return messages.ConversationOpened{ID: id, Messages: msgs, Err: err}
	}
}

// remove returns a command that deletes a conversation.
func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if v.conversationService == nil {
			return messages.ConversationRemoved{ID: id, Err: fmt.Errorf("conversation service not available")}
		}

		err := v.conversationService.Remove(v.ctx, id)
		return messages.ConversationRemoved{ID: id, Err: err}
	}
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of list rows that fit on screen.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the conversations view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Conversations (%d)", len(v.conversations))))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading conversations..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if len(v.conversations) == 0 {
		b.WriteString(v.styles.Muted.Render("No conversations yet. Press n to start one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.conversations) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderConversation(i, &v.conversations[i]))
		b.WriteString("\n")
	}

	if len(v.conversations) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.conversations)),
			len(v.conversations))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderConversation renders a single list row.
func (v *View) renderConversation(index int, conv *domain.Conversation) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := conv.Title
	if title == "" {
		title = conv.ID
	}

	maxTitleLen := v.width - 10
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-3]) + "..."
	}

	active := ""
	if v.conversationService != nil && conv.ID == v.conversationService.ActiveID() {
		active = " *"
	}

	if index == v.selected {
		return v.styles.Selected.Render(indicator + title + active)
	}
	return v.styles.Normal.Render(indicator+title) + v.styles.Success.Render(active)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] open  [n] new  [d] delete  [r] refresh  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Conversations returns the current list.
func (v *View) Conversations() []domain.Conversation {
	return v.conversations
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
