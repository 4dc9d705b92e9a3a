package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/messages"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docchat.

The TUI streams answers as they are generated, shows source citations,
and lets you browse, resume, and delete conversations.

Controls:
  enter    - Send question
  ↑/↓      - Recall earlier questions
  esc      - Conversation list
  ctrl+d   - Document list
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatFactory == nil {
		return errors.New("chat service not configured")
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the TUI requires an interactive terminal; use \"docchat ask\" instead")
	}

	// The chat service publishes snapshots through the program-bound
	// renderer; Run attaches it once the program exists.
	renderer := tui.NewProgramRenderer()

	// Deleting the active conversation resets the chat view to an empty
	// session.
	if conversationService != nil {
		conversationService.SetResetHandler(func() {
			renderer.Notify(messages.ConversationReset{})
		})
	}

	ports := &tui.Ports{
		Chat:          chatFactory(renderer),
		Conversations: conversationService,
		Documents:     documentService,
		History:       historyStore,
		Renderer:      renderer,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
