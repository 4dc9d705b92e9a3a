// Package cli implements the command line driving adapter for docchat.
// Commands talk to the core exclusively through driving ports; wiring
// happens in cmd/docchat.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// ChatFactory builds a chat service bound to a renderer. One-shot
// commands render to stdout; the TUI renders through its program.
type ChatFactory func(renderer driven.Renderer) driving.ChatService

// Services injected by cmd/docchat before Execute.
var (
	chatFactory         ChatFactory
	conversationService driving.ConversationService
	documentService     driving.DocumentService
	backendClient       driven.BackendClient
	historyStore        driven.PromptHistoryStore
	configStore         driven.ConfigStore
)

// Services aggregates everything the CLI commands need.
type Services struct {
	ChatFactory   ChatFactory
	Conversations driving.ConversationService
	Documents     driving.DocumentService
	Backend       driven.BackendClient
	History       driven.PromptHistoryStore
	Config        driven.ConfigStore
}

// SetServices installs the service implementations used by the commands.
func SetServices(s Services) {
	chatFactory = s.ChatFactory
	conversationService = s.Conversations
	documentService = s.Documents
	backendClient = s.Backend
	historyStore = s.History
	configStore = s.Config
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `docchat is a terminal client for a document question-answering backend.

Upload documents, ask questions about them, and get streamed answers with
source citations. Conversations are stored on the backend and can be
resumed, listed, and deleted.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
