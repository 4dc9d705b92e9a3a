// Package input provides the prompt input component for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
)

// PromptInput wraps a bubbles textinput for typing queries. It carries a
// recall buffer of earlier prompts navigable with up/down.
type PromptInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	// recall holds earlier prompts, most recent first. pos -1 means the
	// live input line.
	recall []string
	pos    int
	draft  string
}

// NewPromptInput creates a new prompt input component.
func NewPromptInput(s *styles.Styles) *PromptInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about the documents..."
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 50

	return &PromptInput{
		textinput: ti,
		styles:    s,
		width:     50,
		pos:       -1,
	}
}

// Init initialises the prompt input.
func (p *PromptInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PromptInput) Update(msg tea.Msg) (*PromptInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt input.
func (p *PromptInput) View() string {
	label := p.styles.Title.Render("> ")
	field := p.styles.InputField.Render(p.textinput.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (p *PromptInput) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *PromptInput) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (p *PromptInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PromptInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PromptInput) Focused() bool {
	return p.textinput.Focused()
}

// SetRecall replaces the recall buffer, most recent first.
func (p *PromptInput) SetRecall(prompts []string) {
	p.recall = prompts
	p.pos = -1
}

// RecallPrev moves to the previous (older) prompt in the recall buffer.
func (p *PromptInput) RecallPrev() {
	if len(p.recall) == 0 || p.pos >= len(p.recall)-1 {
		return
	}
	if p.pos == -1 {
		p.draft = p.textinput.Value()
	}
	p.pos++
	p.textinput.SetValue(p.recall[p.pos])
	p.textinput.CursorEnd()
}

// RecallNext moves back toward the live input line.
func (p *PromptInput) RecallNext() {
	if p.pos == -1 {
		return
	}
	p.pos--
	if p.pos == -1 {
		p.textinput.SetValue(p.draft)
	} else {
		p.textinput.SetValue(p.recall[p.pos])
	}
	p.textinput.CursorEnd()
}

// SetWidth sets the width of the input.
func (p *PromptInput) SetWidth(width int) {
	p.width = width
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Reset clears the input and recall position.
func (p *PromptInput) Reset() {
	p.textinput.Reset()
	p.pos = -1
	p.draft = ""
}
